package main

import (
	"github.com/spf13/cobra"
)

var (
	// Version is injected at build time
	Version = "dev"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "nextimg",
		Short:         "Convert JPEG images to WebP and AVIF",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newHistoryCommand())

	return rootCmd
}
