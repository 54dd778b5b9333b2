package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tinkrentals/rent-ledger/internal"
)

var (
	clearData bool
)

var rootCmd = &cobra.Command{
	Use:   "rent-ledger",
	Short: "Rent payment ledger",
	Long:  `Records rent payment attempts, tracks settlement, and reports per-landlord payment summaries.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*internal.Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("ENV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := internal.DefaultPaymentsConfig()
	v.SetDefault("payments.fee_basis_points", defaults.FeeBasisPoints)
	v.SetDefault("payments.fee_fixed_cents", defaults.FeeFixedCents)
	v.SetDefault("payments.fee_on_failure", defaults.FeeOnFailure)
	v.SetDefault("payments.grace_days", defaults.GraceDays)
	v.SetDefault("payments.recent_limit", defaults.RecentLimit)
	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "text")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}

	return &cfg, nil
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}
