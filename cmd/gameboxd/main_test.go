package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()

	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[logging]
format = "console"
level = "error"
`, filepath.Join(base, "data"), filepath.Join(base, "logs"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCLI(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	out, err = runCLI(t, "", "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestRegisterSubmitAndListReviews(t *testing.T) {
	configPath := writeTestConfig(t)

	out, err := runCLI(t, configPath, "user", "register", "alice", "--password", "sekrit1")
	if err != nil {
		t.Fatalf("user register: %v", err)
	}
	requireContains(t, out, "Registered alice")

	out, err = runCLI(t, configPath, "review", "add", "Celeste", "--user", "alice", "--rating", "9", "--comment", "superb")
	if err != nil {
		t.Fatalf("review add: %v", err)
	}
	requireContains(t, out, "recorded")

	// A second submission for the same game merges instead of inserting.
	out, err = runCLI(t, configPath, "review", "add", "celeste", "--user", "alice", "--rating", "7")
	if err != nil {
		t.Fatalf("review add merge: %v", err)
	}
	requireContains(t, out, "9, 7")

	out, err = runCLI(t, configPath, "review", "list", "--user", "alice")
	if err != nil {
		t.Fatalf("review list: %v", err)
	}
	requireContains(t, out, "Celeste")
	requireContains(t, out, "1 review(s), mean rating 7.0")
}

func TestReviewAddRejectsInvalidRating(t *testing.T) {
	configPath := writeTestConfig(t)

	if _, err := runCLI(t, configPath, "user", "register", "alice", "--password", "sekrit1"); err != nil {
		t.Fatalf("user register: %v", err)
	}
	if _, err := runCLI(t, configPath, "review", "add", "celeste", "--user", "alice", "--rating", "11"); err == nil {
		t.Fatal("expected out-of-range rating to fail")
	}
}

func TestGamesDedupCommand(t *testing.T) {
	configPath := writeTestConfig(t)

	if _, err := runCLI(t, configPath, "user", "register", "alice", "--password", "sekrit1"); err != nil {
		t.Fatalf("user register: %v", err)
	}
	if _, err := runCLI(t, configPath, "review", "add", "hades", "--user", "alice", "--rating", "8"); err != nil {
		t.Fatalf("review add: %v", err)
	}

	out, err := runCLI(t, configPath, "games", "dedup")
	if err != nil {
		t.Fatalf("games dedup: %v", err)
	}
	requireContains(t, out, "Backup written to")
	requireContains(t, out, "nothing to do")
}

func TestGamesHealthCommand(t *testing.T) {
	configPath := writeTestConfig(t)

	if _, err := runCLI(t, configPath, "user", "register", "alice", "--password", "sekrit1"); err != nil {
		t.Fatalf("user register: %v", err)
	}
	if _, err := runCLI(t, configPath, "review", "add", "hades", "--user", "alice", "--rating", "8"); err != nil {
		t.Fatalf("review add: %v", err)
	}

	out, err := runCLI(t, configPath, "games", "health")
	if err != nil {
		t.Fatalf("games health: %v", err)
	}
	requireContains(t, out, "Database exists: yes")
	requireContains(t, out, "Missing tables: none")
	requireContains(t, out, "Integrity check: yes")
	requireContains(t, out, "Reviews: 1")
}
