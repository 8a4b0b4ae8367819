package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/optviz/descent/internal/descent"
	"github.com/optviz/descent/internal/objective"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available optimizers and objective functions",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Optimizers:")
		for _, info := range descent.Optimizers() {
			hessian := ""
			if info.UsesTrueHessian {
				hessian = " (uses exact Hessian)"
			}
			fmt.Printf("  %-12s %s%s\n", info.ID, info.Description, hessian)
		}

		fmt.Println("\nFunctions:")
		for _, fn := range objective.All() {
			fmt.Printf("  %-12s %s\n", fn.ID, fn.Description)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
