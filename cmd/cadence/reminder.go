package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/zulandar/cadence/internal/models"
	"github.com/zulandar/cadence/internal/store"
)

func newReminderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminder",
		Short: "Standalone reminder commands (todos and notes)",
	}

	cmd.AddCommand(newReminderAddCmd())
	cmd.AddCommand(newReminderListCmd())
	cmd.AddCommand(newReminderDoneCmd())
	return cmd
}

func newReminderAddCmd() *cobra.Command {
	var (
		configPath string
		atStr      string
		inMinutes  int
		category   string
		message    string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a standalone reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(configPath)
			if err != nil {
				return err
			}

			var remindAt time.Time
			switch {
			case atStr != "":
				remindAt, err = parseWhen(atStr)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
			case inMinutes > 0:
				remindAt = time.Now().Add(time.Duration(inMinutes) * time.Minute)
			default:
				return fmt.Errorf("either --at or --in is required")
			}

			switch category {
			case models.CategoryTodo, models.CategoryNote:
			default:
				return fmt.Errorf("--category must be %s or %s", models.CategoryTodo, models.CategoryNote)
			}

			r := &models.StandaloneReminder{
				ID:       uuid.NewString(),
				Title:    args[0],
				Message:  message,
				Category: category,
				RemindAt: remindAt,
			}
			if err := st.CreateStandaloneReminder(cmd.Context(), r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created reminder %s (due %s)\n", r.ID, r.RemindAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cadence.yaml", "path to Cadence config file")
	cmd.Flags().StringVar(&atStr, "at", "", "absolute reminder time")
	cmd.Flags().IntVar(&inMinutes, "in", 0, "minutes from now")
	cmd.Flags().StringVar(&category, "category", models.CategoryTodo, "reminder category: todo or note")
	cmd.Flags().StringVarP(&message, "message", "m", "", "reminder message")
	return cmd
}

func newReminderListCmd() *cobra.Command {
	var (
		configPath string
		days       int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List upcoming standalone reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(configPath)
			if err != nil {
				return err
			}

			now := time.Now()
			reminders, err := st.ListStandaloneReminders(cmd.Context(),
				store.Window{Start: now, End: now.AddDate(0, 0, days)})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tDUE")
			for _, r := range reminders {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.Title, r.Category, r.RemindAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cadence.yaml", "path to Cadence config file")
	cmd.Flags().IntVar(&days, "days", 7, "lookahead window in days")
	return cmd
}

func newReminderDoneCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a standalone reminder completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(configPath)
			if err != nil {
				return err
			}
			if err := st.CompleteStandaloneReminder(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed reminder %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cadence.yaml", "path to Cadence config file")
	return cmd
}
