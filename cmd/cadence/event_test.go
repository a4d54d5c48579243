package main

import (
	"bytes"
	"strings"
	"testing"
)

func runHelp(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append(args, "--help"))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("%s --help failed: %v", strings.Join(args, " "), err)
	}
	return buf.String()
}

func TestEventCmd_Help(t *testing.T) {
	out := runHelp(t, "event")
	for _, sub := range []string{"add", "list", "show", "cancel", "complete", "rm"} {
		if !strings.Contains(out, sub) {
			t.Errorf("expected help to list %q subcommand, got: %s", sub, out)
		}
	}
}

func TestEventAddCmd_Help(t *testing.T) {
	out := runHelp(t, "event", "add")
	for _, flag := range []string{"--ceremony", "--start", "--remind", "--every", "--weekday", "--day-of-month", "--until", "--count", "--team", "--pi"} {
		if !strings.Contains(out, flag) {
			t.Errorf("expected %s flag, got: %s", flag, out)
		}
	}
}

func TestEventAddCmd_RequiresFlags(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"event", "add", "Sprint Planning"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error without --ceremony and --start")
	}
}

func TestNewEventCmd(t *testing.T) {
	cmd := newEventCmd()
	if cmd.Use != "event" {
		t.Errorf("Use = %q", cmd.Use)
	}
	if !cmd.HasSubCommands() {
		t.Error("event command should have subcommands")
	}
}

func TestReminderCmd_Help(t *testing.T) {
	out := runHelp(t, "reminder")
	for _, sub := range []string{"add", "list", "done"} {
		if !strings.Contains(out, sub) {
			t.Errorf("expected help to list %q subcommand, got: %s", sub, out)
		}
	}
}

func TestAgendaCmd_Help(t *testing.T) {
	out := runHelp(t, "agenda")
	for _, flag := range []string{"--from", "--to", "--days", "--team", "--ceremony"} {
		if !strings.Contains(out, flag) {
			t.Errorf("expected %s flag, got: %s", flag, out)
		}
	}
}

func TestNotificationCmd_Help(t *testing.T) {
	out := runHelp(t, "notification")
	for _, sub := range []string{"list", "dismiss", "snooze"} {
		if !strings.Contains(out, sub) {
			t.Errorf("expected help to list %q subcommand, got: %s", sub, out)
		}
	}
}

func TestSettingsCmd_Help(t *testing.T) {
	out := runHelp(t, "settings")
	for _, sub := range []string{"show", "set"} {
		if !strings.Contains(out, sub) {
			t.Errorf("expected help to list %q subcommand, got: %s", sub, out)
		}
	}
	out = runHelp(t, "settings", "set")
	for _, flag := range []string{"--quiet-hours", "--enable-category", "--disable-category"} {
		if !strings.Contains(out, flag) {
			t.Errorf("expected %s flag, got: %s", flag, out)
		}
	}
}

func TestDaemonCmd_Help(t *testing.T) {
	out := runHelp(t, "daemon")
	if !strings.Contains(out, "--dashboard") {
		t.Errorf("expected --dashboard flag, got: %s", out)
	}
}
