package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdbridge/pdbridge/internal/bridge"
	"github.com/pdbridge/pdbridge/internal/config"
	"github.com/pdbridge/pdbridge/internal/setup"
)

var cfgPath string

func main() {
	root := &cobra.Command{
		Use:   "pdbridge",
		Short: "pdbridge — Forward notification messages to PagerDuty",
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultConfigPath, "config file path")

	root.AddCommand(
		sendCmd(),
		testCmd(),
		validateCmd(),
		setupCmd(),
		versionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
}

func sendCmd() *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "send <message>",
		Short: "Send a notification event to PagerDuty",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			setupLogging()

			b := bridge.New(cfg, slog.Default())
			defer b.Close()

			return b.Send(cmd.Context(), args[0], title)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "event title; the message text is used when empty")
	return cmd
}

func testCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Send a test event to verify the routing key",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			setupLogging()

			b := bridge.New(cfg, slog.Default())
			defer b.Close()

			fmt.Println("Sending test event...")
			if err := b.Test(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("✅ Test event accepted!")
			return nil
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the config file and print the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			fmt.Println("✅ Config is valid")
			fmt.Printf("  name:             %s\n", cfg.PagerDuty.Name)
			fmt.Printf("  routing_key:      %s\n", maskKey(cfg.PagerDuty.RoutingKey))
			fmt.Printf("  default_source:   %s\n", cfg.PagerDuty.DefaultSource)
			fmt.Printf("  default_severity: %s\n", cfg.PagerDuty.DefaultSeverity)
			return nil
		},
	}
}

func setupCmd() *cobra.Command {
	var envPath string
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Interactive setup wizard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return setup.Run(cfgPath, envPath)
		},
	}
	cmd.Flags().StringVar(&envPath, "env-file", setup.DefaultEnvPath, "path to env file for the routing key")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pdbridge v%s\n", bridge.Version)
		},
	}
}

// maskKey hides all but the last four characters of the routing key.
func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
