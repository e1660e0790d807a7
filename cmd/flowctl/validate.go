package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ndrukelly2/state-machine/pkg/adapters/yamlflow"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a flow definition for structural defects",
	Long:  `Loads states.yaml and transitions.yaml and reports unknown kinds, empty sub-flows, and dangling edge targets.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd, args); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Flow definition is valid.")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	if len(args) > 0 {
		dir = args[0]
	}

	flow, err := yamlflow.LoadDir(dir)
	if err != nil {
		return err
	}

	edges := 0
	for _, out := range flow.Transitions {
		edges += len(out)
	}
	fmt.Printf("%d states, %d edges, entry %q\n", len(flow.States), edges, flow.Entry)
	return nil
}
