package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"povstudio/internal/testsupport"
)

func writeTestConfig(t *testing.T, base string) string {
	t.Helper()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(
		"[paths]\nlibrary_dir = %q\nlog_dir = %q\n",
		filepath.Join(base, "library"),
		filepath.Join(base, "logs"),
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func TestCLIProjectLifecycle(t *testing.T) {
	configPath := writeTestConfig(t, t.TempDir())

	out, err := runCLI(t, configPath, "project", "create", "My Story", "-d", "first draft")
	if err != nil {
		t.Fatalf("project create: %v", err)
	}
	if !strings.Contains(out, "Created project My Story") {
		t.Fatalf("unexpected create output: %q", out)
	}
	id := extractID(t, out)

	out, err = runCLI(t, configPath, "project", "list")
	if err != nil {
		t.Fatalf("project list: %v", err)
	}
	if !strings.Contains(out, "My Story") {
		t.Fatalf("project missing from list: %q", out)
	}

	out, err = runCLI(t, configPath, "project", "show", id)
	if err != nil {
		t.Fatalf("project show: %v", err)
	}
	if !strings.Contains(out, "first draft") || !strings.Contains(out, "Nodes:       0") {
		t.Fatalf("unexpected show output: %q", out)
	}

	if _, err := runCLI(t, configPath, "project", "rename", id, "Renamed Story"); err != nil {
		t.Fatalf("project rename: %v", err)
	}
	out, err = runCLI(t, configPath, "project", "list")
	if err != nil {
		t.Fatalf("project list after rename: %v", err)
	}
	if !strings.Contains(out, "Renamed Story") {
		t.Fatalf("rename not reflected: %q", out)
	}

	if _, err := runCLI(t, configPath, "project", "delete", id); err != nil {
		t.Fatalf("project delete: %v", err)
	}
	out, err = runCLI(t, configPath, "project", "list")
	if err != nil {
		t.Fatalf("project list after delete: %v", err)
	}
	if !strings.Contains(out, "No projects") {
		t.Fatalf("expected empty library, got %q", out)
	}
}

func TestCLIAssetLifecycleAndArchiveRoundTrip(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)

	clipPath := filepath.Join(base, "intro.mp4")
	testsupport.WriteFile(t, clipPath, []byte{0x00, 0x01})

	out, err := runCLI(t, configPath, "asset", "add", clipPath)
	if err != nil {
		t.Fatalf("asset add: %v", err)
	}
	if !strings.Contains(out, "Stored intro.mp4") {
		t.Fatalf("unexpected add output: %q", out)
	}
	assetID := extractID(t, out)

	out, err = runCLI(t, configPath, "asset", "list", "--mime-prefix", "video/")
	if err != nil {
		t.Fatalf("asset list: %v", err)
	}
	if !strings.Contains(out, assetID) {
		t.Fatalf("asset missing from filtered list: %q", out)
	}

	out, err = runCLI(t, configPath, "project", "create", "Demo")
	if err != nil {
		t.Fatalf("project create: %v", err)
	}
	projectID := extractID(t, out)

	archivePath := filepath.Join(base, "demo.pov")
	out, err = runCLI(t, configPath, "export", projectID, "-o", archivePath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "Exported Demo") {
		t.Fatalf("unexpected export output: %q", out)
	}
	if _, err := os.Stat(archivePath); err != nil {
		t.Fatalf("archive file missing: %v", err)
	}

	out, err = runCLI(t, configPath, "import", archivePath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "imported as") {
		t.Fatalf("unexpected import output: %q", out)
	}

	out, err = runCLI(t, configPath, "project", "list")
	if err != nil {
		t.Fatalf("project list: %v", err)
	}
	if strings.Count(out, "Demo") != 2 {
		t.Fatalf("expected original and imported project, got %q", out)
	}

	if _, err := runCLI(t, configPath, "asset", "rm", assetID); err != nil {
		t.Fatalf("asset rm: %v", err)
	}
	out, err = runCLI(t, configPath, "asset", "list")
	if err != nil {
		t.Fatalf("asset list after rm: %v", err)
	}
	if strings.Contains(out, assetID) {
		t.Fatalf("asset should be gone: %q", out)
	}
}

func TestCLIImportRejectsGarbage(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)

	garbage := filepath.Join(base, "broken.pov")
	testsupport.WriteFile(t, garbage, []byte("definitely not json"))

	_, err := runCLI(t, configPath, "import", garbage)
	if err == nil {
		t.Fatal("expected import of garbage to fail")
	}
	if !strings.Contains(err.Error(), "could not be read") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCLIConfigInit(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "config.toml")

	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config missing: %v", err)
	}

	cmd = newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected second init without --overwrite to fail")
	}
}

// extractID pulls the uuid out of "... (<id>)" or "... as asset <id> (...)".
func extractID(t *testing.T, out string) string {
	t.Helper()
	for _, field := range strings.Fields(out) {
		cleaned := strings.Trim(field, "()\n")
		if len(cleaned) == 36 && strings.Count(cleaned, "-") == 4 {
			return cleaned
		}
	}
	t.Fatalf("no uuid found in output: %q", out)
	return ""
}
