package main

import (
	"fmt"
	"os"

	"credit-engine/internal/config"

	"github.com/spf13/cobra"
)

var (
	cfgPath string
	rootCmd = &cobra.Command{
		Use:   "credit-engine",
		Short: "Credit approval and loan origination service",
	}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file (default ./config.yml)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newMigrateCmd())
}

func loadConfig() (*config.Config, error) {
	if cfgPath != "" {
		return config.LoadConfigFile(cfgPath)
	}
	return config.LoadConfig(".")
}
