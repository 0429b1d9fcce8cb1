package core

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func testRegistryManager() *CommandManager {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := NewCommandManager(log, nil, nil, nil, nil)
	noop := func(ctx context.Context, req *Request) error { return nil }
	m.SetRegistry([]Command{
		{Route: "sheep", Aliases: []string{"shareholderperks"}, Description: "fetch latest announcement", Handle: noop},
		{Route: "sheep status", Description: "status", Access: AccessOwnerOnly, Handle: noop},
		{Route: "sheep setgroup", Aliases: []string{"set_shareholder_group"}, Access: AccessOwnerOnly, Handle: noop},
		{Route: "ping", Description: "health check", Handle: noop},
	}, nil)
	return m
}

func TestRegistryTreeAndAliases(t *testing.T) {
	t.Parallel()
	m := testRegistryManager()

	// tree routes resolve to leaves with handlers
	for _, route := range []string{"sheep", "sheep status", "sheep setgroup", "ping", "help"} {
		n := m.root.find(splitRoute(route))
		if n == nil || n.cmd == nil {
			t.Fatalf("route %q not registered", route)
		}
	}

	// explicit aliases point at the right leaf
	for alias, route := range map[string]string{
		"shareholderperks":      "sheep",
		"set_shareholder_group": "sheep setgroup",
		// multi-token routes get automatic underscore aliases
		"sheep_status": "sheep status",
	} {
		leaf, ok := m.alias[alias]
		if !ok || leaf == nil || leaf.cmd == nil {
			t.Fatalf("alias %q not registered", alias)
		}
		if leaf.cmd.Route != route {
			t.Fatalf("alias %q -> %q, want %q", alias, leaf.cmd.Route, route)
		}
	}
}

func TestMenuCommandsIncludeRootsAndAliases(t *testing.T) {
	t.Parallel()
	m := testRegistryManager()

	got := map[string]bool{}
	for _, c := range m.MenuCommands() {
		got[c.Command] = true
	}
	for _, want := range []string{"sheep", "ping", "help", "shareholderperks", "sheep_status", "set_shareholder_group"} {
		if !got[want] {
			t.Fatalf("menu missing %q (have %v)", want, got)
		}
	}
}

func TestHelpTextResolvesAlias(t *testing.T) {
	t.Parallel()
	m := testRegistryManager()

	txt := m.helpText([]string{"shareholderperks"})
	if txt == "" || txt == "command not found. try /help" {
		t.Fatalf("alias help not resolved: %q", txt)
	}
}

func TestIsOwner(t *testing.T) {
	t.Parallel()
	owners := []int64{7, 42}
	if !isOwner(42, owners) {
		t.Fatal("42 should be owner")
	}
	if isOwner(1, owners) {
		t.Fatal("1 should not be owner")
	}
	if isOwner(42, nil) {
		t.Fatal("empty owner list admits nobody")
	}
}
