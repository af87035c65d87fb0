package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	cfgpkg "github.com/rzbill/relog/internal/config"
	"github.com/rzbill/relog/internal/runtime"
	logpkg "github.com/rzbill/relog/pkg/log"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "relog",
		Short: "relog durable log CLI",
		Long:  "relog is a durable, append-only log with bounded-retry replay. This CLI appends, inspects, and replays entries.",
	}
	rootCmd.PersistentFlags().String("data-dir", "", "Data directory (if not specified, uses OS-specific application data directory)")
	rootCmd.PersistentFlags().String("config", "", "Config file (JSON or YAML)")
	rootCmd.PersistentFlags().StringP("log", "l", "default.wal", "Log name")
	rootCmd.PersistentFlags().String("log-level", os.Getenv("RELOG_LOG_LEVEL"), "Log level: debug|info|warn|error")
	rootCmd.PersistentFlags().String("log-format", os.Getenv("RELOG_LOG_FORMAT"), "Log format: text|json (default text)")

	appendCmd := &cobra.Command{
		Use:   "append [payload]",
		Short: "Append a payload to the log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, name, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()
			c, err := rt.OpenClient(name)
			if err != nil {
				return err
			}
			id, err := c.Append(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	rootCmd.AddCommand(appendCmd)

	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the most recent payloads, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			count, _ := cmd.Flags().GetInt("count")
			rt, name, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()
			c, err := rt.OpenClient(name)
			if err != nil {
				return err
			}
			payloads, err := c.Inspect(cmd.Context(), count)
			if err != nil {
				return err
			}
			for _, p := range payloads {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	inspectCmd.Flags().IntP("count", "n", 10, "Number of entries to show")
	rootCmd.AddCommand(inspectCmd)

	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-deliver the most recent payloads (prints each one)",
		RunE: func(cmd *cobra.Command, args []string) error {
			count, _ := cmd.Flags().GetInt("count")
			rt, name, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()
			c, err := rt.OpenClient(name)
			if err != nil {
				return err
			}
			return c.Replay(cmd.Context(), count, func(_ context.Context, payload string) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), payload)
				return err
			})
		},
	}
	replayCmd.Flags().IntP("count", "n", 10, "Number of entries to replay")
	rootCmd.AddCommand(replayCmd)

	countCmd := &cobra.Command{
		Use:   "count",
		Short: "Print the number of stored entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, name, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()
			c, err := rt.OpenClient(name)
			if err != nil {
				return err
			}
			n, err := c.EntryCount(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
	rootCmd.AddCommand(countCmd)

	truncateCmd := &cobra.Command{
		Use:   "truncate",
		Short: "Clear the log's content (the file persists)",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, name, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()
			if _, err := rt.OpenClient(name); err != nil {
				return err
			}
			return rt.Truncate(cmd.Context(), name)
		},
	}
	rootCmd.AddCommand(truncateCmd)

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the log and print new payloads as they are appended",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, name, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()
			c, err := rt.OpenClient(name)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			seen, err := c.EntryCount(ctx)
			if err != nil {
				return err
			}
			for ctx.Err() == nil {
				woke, err := rt.WaitForAppend(name, 500*time.Millisecond)
				if err != nil {
					return err
				}
				if !woke {
					continue
				}
				total, err := c.EntryCount(ctx)
				if err != nil {
					return err
				}
				if total <= seen {
					continue
				}
				fresh, err := c.Inspect(ctx, total-seen)
				if err != nil {
					return err
				}
				for _, p := range fresh {
					fmt.Fprintln(cmd.OutOrStdout(), p)
				}
				seen = total
			}
			return nil
		},
	}
	rootCmd.AddCommand(watchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openRuntime builds config from file, env, and flags, then opens the runtime.
func openRuntime(cmd *cobra.Command) (*runtime.Runtime, string, error) {
	configPath, _ := cmd.Flags().GetString("config")
	dataDir, _ := cmd.Flags().GetString("data-dir")
	name, _ := cmd.Flags().GetString("log")
	logLevel, _ := cmd.Flags().GetString("log-level")
	logFormat, _ := cmd.Flags().GetString("log-format")

	cfg, err := cfgpkg.Load(configPath)
	if err != nil {
		return nil, "", fmt.Errorf("load config: %w", err)
	}
	cfgpkg.FromEnv(&cfg)
	if dataDir == "" {
		dataDir = cfg.DataDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}

	logger, err := logpkg.ApplyConfig(&logpkg.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return nil, "", err
	}

	rt, err := runtime.Open(runtime.Options{DataDir: dataDir, Config: cfg, Logger: logger})
	if err != nil {
		return nil, "", err
	}
	return rt, name, nil
}
