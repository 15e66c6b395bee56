package cmd

import (
	"fmt"

	"github.com/nfrund/passauth/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the runtime configuration",
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the environment and print the selected drivers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "addr:     %s\n", cfg.GetAppAddr())
		fmt.Fprintf(out, "base url: %s\n", cfg.GetAppBaseURL())
		fmt.Fprintf(out, "store:    %s\n", cfg.GetStoreDriver())
		fmt.Fprintf(out, "email:    %s\n", cfg.GetEmailProvider())
		fmt.Fprintf(out, "token ttl: %s\n", cfg.GetTokenTTL())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configCheckCmd)
	rootCmd.AddCommand(configCmd)
}
