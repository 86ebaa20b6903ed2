package cmd

import (
	"fmt"

	"github.com/inovacc/todo/internal/model"
	"github.com/spf13/cobra"
)

func newProjectCmd(env *environment) *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Show or change the project title and description",
		Long: `Without flags, print the project title and description.
With --title or --description, change them. The description may hold HTML.

Examples:
  todo project
  todo project --title "Launch plan"
  todo project --description "<p>Q4 goals</p>"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := env.open(cmd)
			if err != nil {
				return err
			}

			defer s.Close()

			var patch model.ProjectPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}

			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}

			out := cmd.OutOrStdout()

			if !patch.Empty() {
				if err := s.project.Update(cmd.Context(), patch); err != nil {
					return err
				}

				_, _ = fmt.Fprintln(out, "Project updated.")

				return nil
			}

			meta, err := s.project.Get(cmd.Context())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(out, "Title:       %s\n", meta.Title)
			_, _ = fmt.Fprintf(out, "Description: %s\n", meta.Description)

			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new project title")
	cmd.Flags().StringVar(&description, "description", "", "new project description (HTML)")

	return cmd
}
