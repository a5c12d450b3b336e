// -- cmd/root.go --
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/internal/config"
	"github.com/xkilldash9x/pagepilot/internal/observability"
)

// cfg holds the resolved configuration for the lifetime of one command
// execution. It is populated by the root command's PersistentPreRunE.
var cfg config.Interface

// NewRootCommand builds a fresh root command. A new instance per execution
// keeps flag state from leaking between runs.
func NewRootCommand() *cobra.Command {
	var (
		cfgFile  string
		headless bool
		debug    bool
	)

	rootCmd := &cobra.Command{
		Use:     "pagepilot",
		Short:   "PagePilot is an LLM-driven browser automation agent.",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Each execution gets its own viper so repeated runs do not
			// inherit state from a prior command.
			v := viper.New()
			if err := initializeConfig(v, cfgFile); err != nil {
				return err
			}

			loaded, err := config.NewConfigFromViper(v)
			if err != nil {
				// Fall back to a minimal console logger so the failure is visible.
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "pagepilot"})
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			// Command-line flags override file and environment values.
			if cmd.Flags().Changed("headless") {
				loaded.SetBrowserHeadless(headless)
			}
			if cmd.Flags().Changed("debug") {
				loaded.SetBrowserDebug(debug)
			}

			if err := loaded.Validate(); err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "pagepilot"})
				return fmt.Errorf("invalid configuration: %w", err)
			}

			observability.InitializeLogger(loaded.Logger())
			logger := observability.GetLogger()
			logger.Info("Starting PagePilot", zap.String("version", Version))

			if loaded.Agent().LLM.APIKey == "" {
				logger.Warn("No LLM API key configured. The agent loop will fail at the first model call.",
					zap.String("hint", "set GEMINI_API_KEY or agent.llm.api_key"))
			}

			cfg = loaded
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&headless, "headless", true, "run the browser headless")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log Chrome DevTools protocol traffic")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command under the given signal-aware context.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger := observability.GetLogger(); logger != nil {
			logger.Error("Command execution failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return err
	}
	return nil
}

// initializeConfig wires the config file search path and environment
// variable overrides into viper.
func initializeConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".pagepilot"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	config.SetDefaults(v)

	v.SetEnvPrefix("PAGEPILOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine; defaults and env vars apply.
	}
	return nil
}
