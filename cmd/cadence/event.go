package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/cadence/internal/event"
	"github.com/zulandar/cadence/internal/models"
	"github.com/zulandar/cadence/internal/store"
)

func newEventCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Calendar event commands",
	}

	cmd.AddCommand(newEventAddCmd())
	cmd.AddCommand(newEventListCmd())
	cmd.AddCommand(newEventShowCmd())
	cmd.AddCommand(newEventCancelCmd())
	cmd.AddCommand(newEventCompleteCmd())
	cmd.AddCommand(newEventRmCmd())
	return cmd
}

func newEventAddCmd() *cobra.Command {
	var (
		configPath  string
		ceremony    string
		startStr    string
		endStr      string
		durationMin int
		description string
		location    string
		virtual     bool
		meetingLink string
		organizer   string
		attendees   []string
		offsets     []int
		piID        string
		sprintID    string
		artID       string
		teamID      string
		tags        []string

		frequency  string
		interval   int
		daysOfWeek []int
		dayOfMonth int
		untilStr   string
		count      int
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a calendar event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(configPath)
			if err != nil {
				return err
			}

			start, err := parseWhen(startStr)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			var end time.Time
			switch {
			case endStr != "":
				end, err = parseWhen(endStr)
				if err != nil {
					return fmt.Errorf("--end: %w", err)
				}
			case durationMin > 0:
				end = start.Add(time.Duration(durationMin) * time.Minute)
			default:
				end = start.Add(time.Hour)
			}

			opts := event.CreateOpts{
				Title:              args[0],
				Description:        description,
				Ceremony:           models.CeremonyType(ceremony),
				Start:              start,
				End:                end,
				Location:           location,
				IsVirtual:          virtual,
				MeetingLink:        meetingLink,
				Organizer:          organizer,
				Attendees:          attendees,
				ReminderOffsets:    offsets,
				ProgramIncrementID: piID,
				SprintID:           sprintID,
				ARTID:              artID,
				TeamID:             teamID,
				Tags:               tags,
			}

			if frequency != "" {
				opts.Recurring = true
				opts.Frequency = frequency
				opts.Interval = interval
				opts.DaysOfWeek = daysOfWeek
				opts.DayOfMonth = dayOfMonth
				opts.MaxOccurrences = count
				if untilStr != "" {
					until, err := parseWhen(untilStr)
					if err != nil {
						return fmt.Errorf("--until: %w", err)
					}
					opts.RecurrenceEnd = &until
				}
			}

			ev, err := event.Create(cmd.Context(), st, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created event %s (%s at %s)\n",
				ev.ID, ev.Title, ev.StartTime.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cadence.yaml", "path to Cadence config file")
	cmd.Flags().StringVar(&ceremony, "ceremony", "", "ceremony type (e.g. sprint_planning, pi_planning)")
	cmd.Flags().StringVar(&startStr, "start", "", "start time")
	cmd.Flags().StringVar(&endStr, "end", "", "end time (default: start + duration)")
	cmd.Flags().IntVar(&durationMin, "duration", 60, "duration in minutes when --end is not set")
	cmd.Flags().StringVarP(&description, "description", "d", "", "event description")
	cmd.Flags().StringVar(&location, "location", "", "location")
	cmd.Flags().BoolVar(&virtual, "virtual", false, "virtual meeting")
	cmd.Flags().StringVar(&meetingLink, "link", "", "meeting link")
	cmd.Flags().StringVar(&organizer, "organizer", "", "organizer identifier")
	cmd.Flags().StringSliceVar(&attendees, "attendee", nil, "attendee identifier (repeatable)")
	cmd.Flags().IntSliceVar(&offsets, "remind", nil, "reminder offset in minutes before start (repeatable)")
	cmd.Flags().StringVar(&piID, "pi", "", "program increment ID")
	cmd.Flags().StringVar(&sprintID, "sprint", "", "sprint ID")
	cmd.Flags().StringVar(&artID, "art", "", "ART ID")
	cmd.Flags().StringVar(&teamID, "team", "", "team ID")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "free-text tag (repeatable)")
	cmd.Flags().StringVar(&frequency, "every", "", "recurrence frequency: daily, weekly, monthly, quarterly")
	cmd.Flags().IntVar(&interval, "interval", 1, "recurrence interval (every N units)")
	cmd.Flags().IntSliceVar(&daysOfWeek, "weekday", nil, "weekday index 0-6, Sunday=0 (weekly only, repeatable)")
	cmd.Flags().IntVar(&dayOfMonth, "day-of-month", 0, "day of month 1-31 (monthly only, clamped to short months)")
	cmd.Flags().StringVar(&untilStr, "until", "", "recurrence end date, exclusive")
	cmd.Flags().IntVar(&count, "count", 0, "max number of occurrences")
	cmd.MarkFlagRequired("ceremony")
	cmd.MarkFlagRequired("start")
	return cmd
}

func newEventListCmd() *cobra.Command {
	var (
		configPath string
		ceremony   string
		teamID     string
		status     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List calendar events",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(configPath)
			if err != nil {
				return err
			}

			// A wide window so unbounded recurring series show up too.
			now := time.Now()
			events, err := st.ListEvents(cmd.Context(),
				store.Window{Start: now.AddDate(-1, 0, 0), End: now.AddDate(1, 0, 0)},
				store.EventFilters{Ceremony: models.CeremonyType(ceremony), TeamID: teamID, Status: status})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tCEREMONY\tSTART\tSTATUS\tRECURRING")
			for _, ev := range events {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%v\n",
					ev.ID, ev.Title, ev.Ceremony, ev.StartTime.Format("2006-01-02 15:04"), ev.Status, ev.Recurring)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cadence.yaml", "path to Cadence config file")
	cmd.Flags().StringVar(&ceremony, "ceremony", "", "filter by ceremony type")
	cmd.Flags().StringVar(&teamID, "team", "", "filter by team ID")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	return cmd
}

func newEventShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show event details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(configPath)
			if err != nil {
				return err
			}
			ev, err := st.GetEvent(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:        %s\n", ev.ID)
			fmt.Fprintf(out, "Title:     %s\n", ev.Title)
			fmt.Fprintf(out, "Ceremony:  %s\n", ev.Ceremony)
			fmt.Fprintf(out, "Start:     %s\n", ev.StartTime.Format(time.RFC3339))
			fmt.Fprintf(out, "End:       %s\n", ev.EndTime.Format(time.RFC3339))
			fmt.Fprintf(out, "Status:    %s\n", ev.Status)
			if ev.Location != "" {
				fmt.Fprintf(out, "Location:  %s\n", ev.Location)
			}
			if ev.Recurring {
				fmt.Fprintf(out, "Repeats:   every %d %s\n", ev.Interval, ev.Frequency)
			}
			if offsets, err := ev.Offsets(); err == nil && len(offsets) > 0 {
				fmt.Fprintf(out, "Reminders: %v minutes before start\n", offsets)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cadence.yaml", "path to Cadence config file")
	return cmd
}

func newEventCancelCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel an event (no further reminders fire)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(configPath)
			if err != nil {
				return err
			}
			if err := event.Cancel(cmd.Context(), st, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cancelled event %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cadence.yaml", "path to Cadence config file")
	return cmd
}

func newEventCompleteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark an event completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(configPath)
			if err != nil {
				return err
			}
			if err := event.Complete(cmd.Context(), st, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed event %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cadence.yaml", "path to Cadence config file")
	return cmd
}

func newEventRmCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(configPath)
			if err != nil {
				return err
			}
			if err := st.DeleteEvent(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted event %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cadence.yaml", "path to Cadence config file")
	return cmd
}
