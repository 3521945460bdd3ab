package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration with secrets redacted",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().Bool("validate", false, "also validate the configuration")
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(cfg.Redacted())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))

	if check, _ := cmd.Flags().GetBool("validate"); check {
		return cfg.Validate()
	}
	return nil
}
