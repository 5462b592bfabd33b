package cmd

import (
	"testing"
)

func TestRootSubcommands(t *testing.T) {
	expected := []string{"serve", "authorize", "mcp", "version"}

	for _, name := range expected {
		found := false
		for _, sub := range rootCmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected subcommand %q to be registered", name)
		}
	}
}

func TestServeCmdFlags(t *testing.T) {
	cmd := newServeCmd()

	for _, flag := range []string{"debug", "http-addr", "metrics-addr"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected serve command to define --%s", flag)
		}
	}
}

func TestSetVersion(t *testing.T) {
	t.Cleanup(func() { SetVersion("dev") })

	SetVersion("1.2.3")

	if version != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %q", version)
	}
	if rootCmd.Version != "1.2.3" {
		t.Errorf("expected rootCmd.Version 1.2.3, got %q", rootCmd.Version)
	}
}
