package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/textquiz/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse stored quizzes",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		recs, err := s.QuizRepo().List(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("list quizzes: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(recs) == 0 {
			fmt.Fprintln(out, "No quizzes stored yet.")
			return nil
		}

		fmt.Fprintf(out, "%-36s  %-16s  %5s  %s\n", "ID", "Created", "Qs", "Text")
		fmt.Fprintln(out, strings.Repeat("─", 100))
		for _, r := range recs {
			fmt.Fprintf(out, "%-36s  %-16s  %5d  %s\n",
				r.ID,
				r.CreatedAt.Local().Format("2006-01-02 15:04"),
				r.QuestionCount,
				truncate(r.TextPreview, 36),
			)
		}
		return nil
	},
}

var historyViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show a stored quiz",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		rec, err := s.QuizRepo().Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get quiz: %w", err)
		}
		if rec == nil {
			return fmt.Errorf("quiz %s not found", args[0])
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rec.Quiz)
		}
		title := fmt.Sprintf("Quiz %s  %s", rec.ID, rec.CreatedAt.Local().Format("2006-01-02 15:04"))
		_, err = lipgloss.Fprint(out, renderQuiz(title, rec.Quiz, true))
		return err
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored quiz",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		found, err := s.QuizRepo().Delete(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("delete quiz: %w", err)
		}
		if !found {
			return fmt.Errorf("quiz %s not found", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "Number of quizzes to show")
	historyViewCmd.Flags().Bool("json", false, "Print the quiz as JSON")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyViewCmd)
	historyCmd.AddCommand(historyDeleteCmd)
}
