package cmd

import (
	"encoding/json"
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/textquiz/internal/quizgen"
)

var generateCmd = &cobra.Command{
	Use:   "generate [file|-]",
	Short: "Generate a quiz from a text file or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		asJSON, _ := cmd.Flags().GetBool("json")
		save, _ := cmd.Flags().GetBool("save")
		hide, _ := cmd.Flags().GetBool("hide-answers")

		text, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		var rng quizgen.Rand
		if cmd.Flags().Changed("seed") {
			seed, _ := cmd.Flags().GetUint64("seed")
			rng = quizgen.NewRand(seed)
		}

		a, err := openApp(cmd, rng)
		if err != nil {
			return err
		}
		defer a.Close()

		quiz, rec, err := a.CreateQuiz(cmd.Context(), text, count, save)
		if err != nil {
			return fmt.Errorf("generate quiz: %w", err)
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(quiz)
		}

		title := fmt.Sprintf("Quiz (%d questions)", len(quiz))
		if rec != nil {
			title += "  saved as " + rec.ID
		}
		_, err = lipgloss.Fprint(out, renderQuiz(title, quiz, !hide))
		return err
	},
}

func init() {
	generateCmd.Flags().IntP("count", "c", 0, "Maximum number of questions (default TEXTQUIZ_NUM_QUESTIONS)")
	generateCmd.Flags().Bool("json", false, "Print the quiz as JSON")
	generateCmd.Flags().Bool("save", false, "Store the quiz in the history database")
	generateCmd.Flags().Uint64("seed", 0, "Random seed for a reproducible quiz")
	generateCmd.Flags().Bool("hide-answers", false, "Do not mark correct answers")
}
