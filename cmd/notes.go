package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/textquiz/internal/llm"
	"github.com/abhisek/textquiz/internal/notes"
)

var notesCmd = &cobra.Command{
	Use:   "notes [file|-]",
	Short: "Generate Markdown study notes with the configured LLM",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asHTML, _ := cmd.Flags().GetBool("html")

		text, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		provider, err := llm.NewProvider(cmd.Context(), cfg.LLM, s.EventRepo(), cliLogger(cmd, cfg))
		if err != nil {
			return fmt.Errorf("%w (%v)", notes.ErrNotConfigured, err)
		}
		svc := notes.New(provider, cfg.LLM.MaxTokens)

		out, err := svc.Generate(cmd.Context(), text)
		if err != nil {
			return fmt.Errorf("generate notes: %w", err)
		}
		if asHTML {
			if out, err = svc.RenderHTML(out); err != nil {
				return err
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	notesCmd.Flags().Bool("html", false, "Render the notes to HTML")
}
