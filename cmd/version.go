package cmd

import (
	"fmt"
	"runtime"

	"github.com/inovacc/todo/internal/application"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s %s/%s)\n",
				application.AppName, application.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
