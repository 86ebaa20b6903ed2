package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/inovacc/todo/internal/export"
	"github.com/inovacc/todo/internal/model"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type listOutput struct {
	Project *model.ProjectMeta `json:"project"`
	Todos   []model.TodoItem   `json:"todos"`
}

func newListCmd(env *environment) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print the todo list",
		Long: `Print the project title, description and every todo in display order.

Notes are converted from HTML to plain text and wrapped to the terminal
width. Use --json for the raw records.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := env.open(cmd)
			if err != nil {
				return err
			}

			defer s.Close()

			items, err := s.todos.List(cmd.Context())
			if err != nil {
				return err
			}

			meta, err := s.project.Get(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")

				return enc.Encode(listOutput{Project: meta, Todos: items})
			}

			printList(out, meta, items, terminalWidth(out))

			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// terminalWidth falls back to the export wrap width when w is not a terminal.
func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 20 {
			return width
		}
	}

	return export.WrapWidth
}

func printList(w io.Writer, meta *model.ProjectMeta, items []model.TodoItem, width int) {
	title := meta.Title
	if title == "" {
		title = export.FallbackTitle
	}

	_, _ = fmt.Fprintln(w, titleStyle.Render(title))

	if desc := export.HTMLToText(meta.Description, width-2); desc != "" {
		for _, line := range strings.Split(desc, "\n") {
			_, _ = fmt.Fprintln(w, "  "+dimStyle.Render(line))
		}
	}

	_, _ = fmt.Fprintln(w)

	if len(items) == 0 {
		_, _ = fmt.Fprintln(w, "No todos yet.")
		_, _ = fmt.Fprintln(w, "Add one with: todo add <text>")

		return
	}

	completed := 0

	for i, item := range items {
		mark := pendingStyle.Render("[ ]")
		if item.Completed {
			mark = doneStyle.Render("[x]")
			completed++
		}

		_, _ = fmt.Fprintf(w, "%3d. %s %s %s\n", i+1, mark, item.Text, dimStyle.Render(fmt.Sprintf("#%d", item.ID)))

		notes := export.HTMLToText(item.Notes, width-9)
		if notes == "" {
			continue
		}

		for _, line := range strings.Split(notes, "\n") {
			_, _ = fmt.Fprintf(w, "         %s\n", line)
		}
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, dimStyle.Render(export.Summary(len(items), completed)))
}
