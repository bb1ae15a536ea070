package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/toolgraph/cmd/toolgraph/internal"
	"github.com/zero-day-ai/toolgraph/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Annotations: map[string]string{skipConfigAnnotation: ""},
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if globalFlags.GetOutputFormat() == internal.FormatJSON {
			return internal.NewJSONFormatter(cmd.OutOrStdout()).PrintJSON(version.Info())
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())
		return err
	},
}
