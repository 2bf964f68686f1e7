package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"flowgen/internal/app"
	"flowgen/internal/core"
)

func newViewsCmd() *cobra.Command {
	var algorithm string
	cmd := &cobra.Command{
		Use:   "views",
		Short: "List the views an algorithm can render and export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			alg, err := buildAlgorithm(algorithm, map[string]string{"w": "1", "h": "1", "points": "1"})
			if err != nil {
				return err
			}
			v, ok := alg.(app.Viewable)
			if !ok {
				return fmt.Errorf("algorithm %q has no views", algorithm)
			}
			for _, name := range v.Views().Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "flow", "algorithm to inspect")
	return cmd
}

func newAlgorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List the registered algorithms",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range core.AlgorithmNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}
