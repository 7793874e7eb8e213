package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pratik-mahalle/arcbenefit/internal/azure"
	"github.com/pratik-mahalle/arcbenefit/internal/config"
	"github.com/pratik-mahalle/arcbenefit/internal/pkg/logger"
)

var (
	cfgFile        string
	outputFormat   string
	subscriptionID string
	logLevel       string

	cfg       *config.Config
	log       *logger.Logger
	session   *azure.Session
	resClient azure.ResourceClient
)

var rootCmd = &cobra.Command{
	Use:   "arcbenefit",
	Short: "Enable Azure Hybrid Benefit on Arc-enabled Windows Server machines",
	Long: `arcbenefit attests Software Assurance coverage for Arc-enabled Windows
Server machines so they receive Azure Hybrid Benefit entitlements such as
free Extended Security Updates.

It sets softwareAssuranceCustomer on each machine's license profile, one
machine at a time, and reports what changed. Machines already attested are
left untouched, so runs are safe to repeat.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Config commands only touch the local file; no Azure session.
		if cmd.Name() == "config" || (cmd.Parent() != nil && cmd.Parent().Name() == "config") {
			return loadConfig()
		}
		return initSession(cmd.Context())
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.arcbenefit/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&subscriptionID, "subscription", "", "Azure subscription ID (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(newEnableCmd())
	rootCmd.AddCommand(newMachinesCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newConfigCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return
		}
		configDir := home + "/.arcbenefit"
		_ = os.MkdirAll(configDir, 0700)
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("ARCBENEFIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("output", "table")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")

	_ = viper.ReadInConfig()
}

func loadConfig() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	if subscriptionID != "" {
		cfg.Azure.SubscriptionID = subscriptionID
	}

	log = logger.New(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	return nil
}

func initSession(ctx context.Context) error {
	if err := loadConfig(); err != nil {
		return err
	}

	var err error
	session, err = azure.NewSession(ctx, cfg.Azure.SubscriptionID, cfg.Azure.TenantID)
	if err != nil {
		return err
	}

	resClient, err = azure.NewClient(session)
	if err != nil {
		return err
	}

	log.WithFields(map[string]interface{}{
		"subscription": session.SubscriptionID,
	}).Debug("Azure session ready")
	return nil
}

func getOutputFormat() string {
	if outputFormat != "" && outputFormat != "table" {
		return outputFormat
	}
	return viper.GetString("output")
}
