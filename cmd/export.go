package cmd

import (
	"bytes"
	"fmt"

	"github.com/inovacc/todo/internal/export"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
)

func newExportCmd(env *environment) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the list as a PDF",
		Long: `Render the todo list to a PDF file.

By default the file is written to the current directory under a name
derived from the project title and today's date.

Examples:
  todo export                     # Write <title>-<date>.pdf
  todo export -o list.pdf         # Write to a specific file
  todo export -o - > list.pdf     # Write to stdout`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := env.open(cmd)
			if err != nil {
				return err
			}

			defer s.Close()

			loc, err := s.cfg.Location()
			if err != nil {
				return err
			}

			exporter := export.New(s.todos, s.project,
				export.WithLocation(loc),
				export.WithLogger(s.logger),
			)

			file, err := exporter.Export(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to export: %w", err)
			}

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(file.Data)
				return err
			}

			path := output
			if path == "" {
				path = file.Name
			}

			if err := atomic.WriteFile(path, bytes.NewReader(file.Data)); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %s (%d pages)\n", path, file.Pages)

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, or - for stdout")

	return cmd
}
