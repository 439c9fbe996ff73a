package cmd

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/textquiz/internal/quizgen"
)

var (
	colorPrimary = lipgloss.Color("#8B5CF6")
	colorSuccess = lipgloss.Color("#22C55E")
	colorError   = lipgloss.Color("#F43F5E")
	colorDim     = lipgloss.Color("#94A3B8")

	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	numberStyle  = lipgloss.NewStyle().Bold(true)
	tagStyle     = lipgloss.NewStyle().Foreground(colorDim)
	answerStyle  = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	falseStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim).Italic(true)
)

var optionLabels = []string{"A", "B", "C", "D", "E", "F"}

// renderQuiz formats quiz for a terminal. With answers set the correct
// option or truth value is highlighted.
func renderQuiz(title string, quiz quizgen.Quiz, answers bool) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render(title))
	b.WriteString("\n\n")

	if len(quiz) == 0 {
		b.WriteString(dimStyle.Render("No questions could be generated from this text."))
		b.WriteString("\n")
		return b.String()
	}

	for i, q := range quiz {
		num := numberStyle.Render(fmt.Sprintf("%d.", i+1))
		switch {
		case q.MCQ != nil:
			fmt.Fprintf(&b, "%s %s %s\n", num, tagStyle.Render("[MCQ]"), q.MCQ.Stem)
			for j, opt := range q.MCQ.Options {
				label := fmt.Sprintf("%d", j+1)
				if j < len(optionLabels) {
					label = optionLabels[j]
				}
				line := fmt.Sprintf("   %s) %s", label, opt)
				if answers && opt == q.MCQ.Answer {
					line = answerStyle.Render(line + "  ✓")
				}
				b.WriteString(line + "\n")
			}
		case q.TF != nil:
			fmt.Fprintf(&b, "%s %s %s\n", num, tagStyle.Render("[T/F]"), q.TF.Statement)
			if answers {
				if q.TF.Truth {
					b.WriteString("   " + answerStyle.Render("True") + "\n")
				} else {
					b.WriteString("   " + falseStyle.Render("False") + "\n")
				}
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
