package cmd

import (
	"path"

	"github.com/spf13/cobra"
)

func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "taxi-mdp",
		Short:        "Value iteration for a grid taxi with stochastic passenger arrivals",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadFlags(cmd); err != nil {
				return err
			}
			return flags.Record()
		},
	}
	AddFlags(cmd)

	cmd.AddCommand(
		SolveCommand(),
		SimulateCommand(),
		ShowCommand(),
	)

	return cmd
}

// loadFlags layers the configuration: defaults, then the YAML file, then the
// environment, then flags given on the command line.
func loadFlags(cmd *cobra.Command) error {
	if configPath != "" {
		if err := flags.LoadFile(configPath); err != nil {
			return err
		}
	}
	if err := flags.LoadEnv(envPath); err != nil {
		return err
	}
	UpdateFlags(cmd)
	return flags.Validate()
}

func policyFile() string {
	if flags.PolicyPath != "" {
		return flags.PolicyPath
	}
	return path.Join(flags.SavePath, "policy.json")
}
