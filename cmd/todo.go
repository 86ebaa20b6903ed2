package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/inovacc/todo/internal/model"
	"github.com/spf13/cobra"
)

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid todo id %q", arg)
	}

	return id, nil
}

func newAddCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>",
		Short: "Add a todo to the end of the list",
		Long: `Add a todo to the end of the list. All arguments are joined with spaces.

Examples:
  todo add Buy milk
  todo add "Call the plumber"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := env.open(cmd)
			if err != nil {
				return err
			}

			defer s.Close()

			item, err := s.todos.Create(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added #%d: %s\n", item.ID, item.Text)

			return nil
		},
	}
}

// newDoneCmd builds "done" when completed is true and "reopen" otherwise.
func newDoneCmd(env *environment, completed bool) *cobra.Command {
	use, short, verb := "done <id>", "Mark a todo as completed", "Completed"
	if !completed {
		use, short, verb = "reopen <id>", "Mark a completed todo as pending again", "Reopened"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			s, err := env.open(cmd)
			if err != nil {
				return err
			}

			defer s.Close()

			item, err := s.todos.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			if err := s.todos.Update(cmd.Context(), id, model.TodoPatch{Completed: &completed}); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s #%d: %s\n", verb, item.ID, item.Text)

			return nil
		},
	}
}

func newRemoveCmd(env *environment) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a todo",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			s, err := env.open(cmd)
			if err != nil {
				return err
			}

			defer s.Close()

			item, err := s.todos.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if !yes && !promptConfirm(cmd, fmt.Sprintf("Delete #%d %q? [y/N]: ", item.ID, item.Text)) {
				_, _ = fmt.Fprintln(out, "Cancelled.")
				return nil
			}

			if err := s.todos.Delete(cmd.Context(), id); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(out, "Removed #%d\n", id)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")

	return cmd
}

func newReorderCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <id>...",
		Short: "Set the display order",
		Long: `Give each listed todo its position as sort order, starting at 0.
Todos that are not listed keep their current order value.

Example:
  todo reorder 3 1 2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))

			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}

				ids = append(ids, id)
			}

			s, err := env.open(cmd)
			if err != nil {
				return err
			}

			defer s.Close()

			if err := s.todos.Reorder(cmd.Context(), ids); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Reordered %d todos\n", len(ids))

			return nil
		},
	}
}

// promptConfirm asks on the command's streams and reports a "y" answer.
func promptConfirm(cmd *cobra.Command, prompt string) bool {
	_, _ = fmt.Fprint(cmd.OutOrStdout(), prompt)

	var response string

	_, _ = fmt.Fscanln(cmd.InOrStdin(), &response)

	return response == "y" || response == "Y"
}
