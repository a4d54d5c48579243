package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/cadence/internal/models"
	"github.com/zulandar/cadence/internal/query"
	"github.com/zulandar/cadence/internal/store"
)

func newAgendaCmd() *cobra.Command {
	var (
		configPath       string
		fromStr          string
		toStr            string
		days             int
		ceremony         string
		teamID           string
		artID            string
		piID             string
		status           string
		includeCompleted bool
		titleQuery       string
	)

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Show expanded ceremony occurrences in a time window",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(configPath)
			if err != nil {
				return err
			}

			from := time.Now()
			if fromStr != "" {
				from, err = parseWhen(fromStr)
				if err != nil {
					return fmt.Errorf("--from: %w", err)
				}
			}
			to := from.AddDate(0, 0, days)
			if toStr != "" {
				to, err = parseWhen(toStr)
				if err != nil {
					return fmt.Errorf("--to: %w", err)
				}
			}

			engine := query.New(st)
			occs, err := engine.Occurrences(cmd.Context(), store.Window{Start: from, End: to}, query.Filters{
				Ceremony:         models.CeremonyType(ceremony),
				TeamID:           teamID,
				ARTID:            artID,
				PIID:             piID,
				Status:           status,
				IncludeCompleted: includeCompleted,
				TitleContains:    titleQuery,
			})
			if err != nil {
				return err
			}

			if len(occs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No occurrences in window.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "START\tEND\tTITLE\tCEREMONY\tSTATUS\tEVENT")
			for _, o := range occs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					o.Start.Format("2006-01-02 15:04"), o.End.Format("15:04"),
					o.Event.Title, o.Event.Ceremony, o.Event.Status, o.Event.ID)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cadence.yaml", "path to Cadence config file")
	cmd.Flags().StringVar(&fromStr, "from", "", "window start (default: now)")
	cmd.Flags().StringVar(&toStr, "to", "", "window end (default: from + --days)")
	cmd.Flags().IntVar(&days, "days", 7, "window length in days when --to is not set")
	cmd.Flags().StringVar(&ceremony, "ceremony", "", "filter by ceremony type")
	cmd.Flags().StringVar(&teamID, "team", "", "filter by team ID")
	cmd.Flags().StringVar(&artID, "art", "", "filter by ART ID")
	cmd.Flags().StringVar(&piID, "pi", "", "filter by program increment ID")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().BoolVar(&includeCompleted, "include-completed", false, "include completed events")
	cmd.Flags().StringVarP(&titleQuery, "query", "q", "", "free-text filter on title")
	return cmd
}
