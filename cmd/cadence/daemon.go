package main

import (
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/cadence/internal/config"
	"github.com/zulandar/cadence/internal/dashboard"
	"github.com/zulandar/cadence/internal/dispatch"
	"github.com/zulandar/cadence/internal/dispatch/discord"
	"github.com/zulandar/cadence/internal/dispatch/slack"
	"github.com/zulandar/cadence/internal/query"
	"github.com/zulandar/cadence/internal/reminder"
	"github.com/zulandar/cadence/internal/scheduler"
)

func newDaemonCmd() *cobra.Command {
	var (
		configPath    string
		tickSec       int
		withDashboard bool
	)

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the reminder scheduler",
		Long: `Runs the background reminder scheduler: a single periodic task that
detects newly-due reminders, applies notification settings, and delivers
each one exactly once to the configured sinks. Stops on SIGINT/SIGTERM,
letting an in-flight tick finish.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cfg, err := openStore(configPath)
			if err != nil {
				return err
			}

			sinks, err := buildSinks(cfg)
			if err != nil {
				return err
			}
			defer func() {
				for _, s := range sinks {
					if err := s.Close(); err != nil {
						log.Printf("close sink %s: %v", s.Name(), err)
					}
				}
			}()

			interval := cfg.Scheduler.TickInterval()
			if tickSec > 0 {
				interval = time.Duration(tickSec) * time.Second
			}

			queries := query.New(st)
			sched, err := scheduler.New(scheduler.Opts{
				Store:      st,
				Reminders:  reminder.New(st),
				Queries:    queries,
				Sinks:      sinks,
				Interval:   interval,
				DigestCron: cfg.Scheduler.DigestCron,
				Out:        cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if withDashboard {
				go func() {
					if err := dashboard.Start(ctx, dashboard.StartOpts{
						Store: st,
						Query: queries,
						Port:  cfg.Dashboard.Port,
						Out:   cmd.OutOrStdout(),
					}); err != nil {
						log.Printf("dashboard: %v", err)
					}
				}()
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Delivering to %d sink(s)\n", len(sinks))
			return sched.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cadence.yaml", "path to Cadence config file")
	cmd.Flags().IntVar(&tickSec, "tick", 0, "tick interval in seconds (overrides config)")
	cmd.Flags().BoolVar(&withDashboard, "dashboard", false, "also serve the dashboard API")
	return cmd
}

// buildSinks constructs every sink the config enables.
func buildSinks(cfg *config.Config) ([]dispatch.Sink, error) {
	var sinks []dispatch.Sink

	if cfg.Sinks.Command != "" {
		s, err := dispatch.NewCommandSink(cfg.Sinks.Command)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	if cfg.Sinks.Slack.BotToken != "" {
		s, err := slack.New(slack.Opts{
			BotToken:  cfg.Sinks.Slack.BotToken,
			ChannelID: cfg.Sinks.Slack.ChannelID,
		})
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	if cfg.Sinks.Discord.BotToken != "" {
		s, err := discord.New(discord.Opts{
			BotToken:  cfg.Sinks.Discord.BotToken,
			ChannelID: cfg.Sinks.Discord.ChannelID,
		})
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}

	return sinks, nil
}

func newDashboardCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Serve the read-only dashboard API",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cfg, err := openStore(configPath)
			if err != nil {
				return err
			}
			if port == 0 {
				port = cfg.Dashboard.Port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return dashboard.Start(ctx, dashboard.StartOpts{
				Store: st,
				Query: query.New(st),
				Port:  port,
				Out:   cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cadence.yaml", "path to Cadence config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")
	return cmd
}
