package cmd

import (
	"strings"
	"testing"
)

func TestExitErrorMessage(t *testing.T) {
	err := &ExitError{Code: 3}
	if err.Error() != "exit status 3" {
		t.Errorf("Error() = %q", err.Error())
	}

	err = &ExitError{Code: 1, Message: "setup failed"}
	if err.Error() != "setup failed" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	want := map[string]bool{
		"run":        false,
		"history":    false,
		"watch":      false,
		"config":     false,
		"quickstart": false,
	}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %s not registered", name)
		}
	}
}

func TestQuickstartGuideEmbedded(t *testing.T) {
	if !strings.Contains(quickstartMD, "scanrun") || !strings.Contains(quickstartMD, "run.log") {
		t.Error("embedded quickstart guide looks wrong")
	}
}
