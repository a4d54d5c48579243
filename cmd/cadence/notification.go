package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/cadence/internal/inbox"
)

func newNotificationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notification",
		Aliases: []string{"notifications"},
		Short:   "Notification inbox commands",
	}

	cmd.AddCommand(newNotificationListCmd())
	cmd.AddCommand(newNotificationDismissCmd())
	cmd.AddCommand(newNotificationSnoozeCmd())
	return cmd
}

func newNotificationListCmd() *cobra.Command {
	var (
		configPath string
		all        bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications (unread by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(configPath)
			if err != nil {
				return err
			}
			notifications, err := inbox.List(cmd.Context(), st, !all)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tPRIORITY\tDUE\tREAD")
			for _, n := range notifications {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%v\n",
					n.ID, n.Title, n.Category, n.Priority, n.DueAt.Format("2006-01-02 15:04"), n.IsRead)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cadence.yaml", "path to Cadence config file")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include read notifications")
	return cmd
}

func newNotificationDismissCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "dismiss <id>",
		Short: "Dismiss a notification (terminal)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(configPath)
			if err != nil {
				return err
			}
			if err := inbox.Dismiss(cmd.Context(), st, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dismissed %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cadence.yaml", "path to Cadence config file")
	return cmd
}

func newNotificationSnoozeCmd() *cobra.Command {
	var (
		configPath string
		minutes    int
	)

	cmd := &cobra.Command{
		Use:   "snooze <id>",
		Short: "Snooze a notification for N minutes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(configPath)
			if err != nil {
				return err
			}
			r, err := inbox.Snooze(cmd.Context(), st, args[0], minutes, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Snoozed until %s (reminder %s)\n",
				r.RemindAt.Format("15:04"), r.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cadence.yaml", "path to Cadence config file")
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 15, "snooze duration in minutes")
	return cmd
}
