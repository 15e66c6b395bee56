package cmd

import (
	"os"

	"github.com/nfrund/passauth/internal/app"
	"github.com/nfrund/passauth/internal/config"
	"github.com/nfrund/passauth/internal/logging"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "passauth-cli",
	Short: "passauth admin tool",
	Long: `passauth-cli manages accounts in the configured user store.

It reads the same environment (and .env file) as the server.

Use "passauth-cli [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newInjector loads configuration and registers the application services.
func newInjector() (*do.RootScope, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	return app.NewInjector(cfg, logging.New()), nil
}

// withInjector runs fn against a fresh injector and always shuts it down.
func withInjector(cmd *cobra.Command, fn func(i do.Injector) error) (err error) {
	i, err := newInjector()
	if err != nil {
		return err
	}
	defer func() {
		if serr := app.Shutdown(cmd.Context(), i); err == nil {
			err = serr
		}
	}()
	return fn(i)
}
