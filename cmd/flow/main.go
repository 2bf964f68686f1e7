package main

import (
	"os"

	"github.com/spf13/cobra"

	_ "flowgen/internal/flow"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "flow",
		Short:        "Grow marbled color images from random seed points",
		SilenceUsage: true,
	}
	root.AddCommand(newGenerateCmd(), newSweepCmd(), newViewsCmd(), newAlgorithmsCmd())
	return root
}
