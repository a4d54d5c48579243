package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zulandar/cadence/internal/models"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Notification settings commands",
	}

	cmd.AddCommand(newSettingsShowCmd())
	cmd.AddCommand(newSettingsSetCmd())
	return cmd
}

func newSettingsShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current notification settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(configPath)
			if err != nil {
				return err
			}
			s, err := st.Settings(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Enabled:               %v\n", s.Enabled)
			fmt.Fprintf(out, "Sound:                 %v\n", s.SoundEnabled)
			fmt.Fprintf(out, "Browser notifications: %v\n", s.BrowserNotificationsEnabled)
			for _, cat := range models.Categories {
				fmt.Fprintf(out, "Category %-12s %v\n", cat+":", s.CategoryEnabled(cat))
			}
			if s.QuietHoursEnabled {
				fmt.Fprintf(out, "Quiet hours:           %s-%s\n", s.QuietHoursStart, s.QuietHoursEnd)
			} else {
				fmt.Fprintln(out, "Quiet hours:           off")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cadence.yaml", "path to Cadence config file")
	return cmd
}

func newSettingsSetCmd() *cobra.Command {
	var (
		configPath  string
		enabled     string
		sound       string
		browser     string
		enableCats  []string
		disableCats []string
		quiet       string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update notification settings",
		Long: `Updates notification settings. Examples:

  cadence settings set --enabled=false
  cadence settings set --enable-category todo --disable-category note
  cadence settings set --quiet-hours 22:00-08:00
  cadence settings set --quiet-hours off`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(configPath)
			if err != nil {
				return err
			}
			s, err := st.Settings(cmd.Context())
			if err != nil {
				return err
			}

			if err := applyBool(&s.Enabled, enabled); err != nil {
				return fmt.Errorf("--enabled: %w", err)
			}
			if err := applyBool(&s.SoundEnabled, sound); err != nil {
				return fmt.Errorf("--sound: %w", err)
			}
			if err := applyBool(&s.BrowserNotificationsEnabled, browser); err != nil {
				return fmt.Errorf("--browser: %w", err)
			}
			for _, cat := range enableCats {
				if err := s.SetCategory(cat, true); err != nil {
					return err
				}
			}
			for _, cat := range disableCats {
				if err := s.SetCategory(cat, false); err != nil {
					return err
				}
			}
			if quiet != "" {
				if quiet == "off" {
					s.QuietHoursEnabled = false
				} else {
					var start, end string
					if _, err := fmt.Sscanf(quiet, "%5s-%5s", &start, &end); err != nil {
						return fmt.Errorf("--quiet-hours: want HH:MM-HH:MM or off")
					}
					s.QuietHoursEnabled = true
					s.QuietHoursStart = start
					s.QuietHoursEnd = end
				}
			}

			if err := st.SaveSettings(cmd.Context(), s); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Settings updated.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cadence.yaml", "path to Cadence config file")
	cmd.Flags().StringVar(&enabled, "enabled", "", "enable or disable all notifications (true/false)")
	cmd.Flags().StringVar(&sound, "sound", "", "enable or disable sound (true/false)")
	cmd.Flags().StringVar(&browser, "browser", "", "enable or disable browser notifications (true/false)")
	cmd.Flags().StringSliceVar(&enableCats, "enable-category", nil, "enable a category (todo, ceremony, meeting, note)")
	cmd.Flags().StringSliceVar(&disableCats, "disable-category", nil, "disable a category")
	cmd.Flags().StringVar(&quiet, "quiet-hours", "", "HH:MM-HH:MM range (may wrap midnight), or off")
	return cmd
}

// applyBool parses "true"/"false" into dst, leaving it untouched for "".
func applyBool(dst *bool, v string) error {
	switch v {
	case "":
	case "true":
		*dst = true
	case "false":
		*dst = false
	default:
		return fmt.Errorf("want true or false, got %q", v)
	}
	return nil
}
