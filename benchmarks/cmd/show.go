package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zeu5/taxi-mdp/analysis"
	"github.com/zeu5/taxi-mdp/mdp"
	"github.com/zeu5/taxi-mdp/policies"
)

func ShowCommand() *cobra.Command {
	var inTaxi bool
	cmd := &cobra.Command{
		Use:   "show [policy-file]",
		Short: "Print the statistics and grids of an exported policy",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := policyFile()
			if len(args) == 1 {
				file = args[0]
			}
			table, err := policies.ReadTable(file, flags.Solver.GridSize)
			if err != nil {
				errorLog.Printf("%s", err)
				return err
			}
			if err := table.Validate(); err != nil {
				errorLog.Printf("policy %s: %s", file, err)
			}
			printStatistics(os.Stdout, table)

			printer := analysis.NewGridPrinter(colorOutput())
			fmt.Println()
			printer.Print(os.Stdout, table, mdp.None)
			if !inTaxi {
				return nil
			}
			for _, d := range mdp.Cells(table.GridSize()) {
				fmt.Println()
				printer.Print(os.Stdout, table, mdp.NewInTaxi(d))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&inTaxi, "in-taxi", false, "Also print the grid for every passenger destination")
	return cmd
}
