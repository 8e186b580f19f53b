package main

import (
	"os"

	"go-payroll/internal/app"
	"go-payroll/internal/shared/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type seedOptions struct {
	Employees int
}

var opts seedOptions

var rootCmd = &cobra.Command{
	Use:          "seed [flags]",
	Short:        "Seed the default deduction rates and, optionally, fake active employees.",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer logger.Sync()
		zap.ReplaceGlobals(logger)

		return app.RunSeed(cfg, opts.Employees, logger)
	},
}

func init() {
	rootCmd.Flags().IntVarP(&opts.Employees, "employees", "e", 0, "Number of fake active employees to onboard")
}

func main() {
	// cobra has already printed the error
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
