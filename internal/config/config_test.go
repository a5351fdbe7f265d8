package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestInitializeLoadsDefaults(t *testing.T) {
	reset()
	t.Cleanup(reset)

	tmp := t.TempDir()
	userCfg := filepath.Join(tmp, "user.yaml")

	if err := Initialize(WithWorkingDir(tmp), WithUserConfig(userCfg)); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}

	if got := GetInt(KeyEmployeeCount); got != DefaultEmployeeCount {
		t.Fatalf("expected default %s to be %d, got %d", KeyEmployeeCount, DefaultEmployeeCount, got)
	}
	if got := GetString(KeySourcePath); got != "" {
		t.Fatalf("expected default %s to be empty, got %q", KeySourcePath, got)
	}
	if got := GetString(KeySourceFormat); got != "auto" {
		t.Fatalf("expected default %s to be auto, got %q", KeySourceFormat, got)
	}
	if !GetBool(KeyWatch) {
		t.Fatalf("expected default %s to be true", KeyWatch)
	}
	if got := GetString(KeyOutputFormat); got != "tui" {
		t.Fatalf("expected default %s to be tui, got %q", KeyOutputFormat, got)
	}
	if got := HighAuthorityRoles(); got != nil {
		t.Fatalf("expected no configured roles, got %v", got)
	}
}

func TestProjectConfigOverridesUser(t *testing.T) {
	reset()
	t.Cleanup(reset)

	tmp := t.TempDir()
	projectDir := filepath.Join(tmp, "repo")
	mustMkdir(t, filepath.Join(projectDir, ".orgchart"))
	writeFile(t, filepath.Join(projectDir, ".orgchart", "config.yaml"), `
source:
  path: /project/org.json
chart:
  employee-count: 12
  high-authority-roles:
    - Managing Director
`)

	userCfg := filepath.Join(tmp, "user.yaml")
	writeFile(t, userCfg, `
source:
  path: /user/org.json
  format: yaml
chart:
  employee-count: 3
`)

	nested := filepath.Join(projectDir, "sub", "dir")
	mustMkdir(t, nested)
	if err := Initialize(WithWorkingDir(nested), WithUserConfig(userCfg)); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}

	if got := GetString(KeySourcePath); got != "/project/org.json" {
		t.Fatalf("expected project config to win for %s, got %q", KeySourcePath, got)
	}
	if got := GetString(KeySourceFormat); got != "yaml" {
		t.Fatalf("expected user value to survive for %s, got %q", KeySourceFormat, got)
	}
	if got := GetInt(KeyEmployeeCount); got != 12 {
		t.Fatalf("expected project employee count 12, got %d", got)
	}
	if got := HighAuthorityRoles(); !slices.Equal(got, []string{"Managing Director"}) {
		t.Fatalf("expected project roles, got %v", got)
	}
}

func TestEnvironmentAndOverridesPrecedence(t *testing.T) {
	reset()
	t.Cleanup(reset)

	tmp := t.TempDir()
	projectDir := filepath.Join(tmp, "repo")
	projectCfg := filepath.Join(projectDir, ".orgchart", "config.yaml")
	writeFile(t, projectCfg, `
chart:
  employee-count: 4
  view: Sales
`)

	t.Setenv("OC_CHART_EMPLOYEE_COUNT", "9")
	t.Setenv("OC_CHART_HIGH_AUTHORITY_ROLES", "Founder, President")

	if err := Initialize(
		WithWorkingDir(projectDir),
		WithUserConfig(filepath.Join(tmp, "missing.yaml")),
	); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}

	if got := GetInt(KeyEmployeeCount); got != 9 {
		t.Fatalf("expected environment to override %s, got %d", KeyEmployeeCount, got)
	}
	if got := HighAuthorityRoles(); !slices.Equal(got, []string{"Founder", "President"}) {
		t.Fatalf("expected env roles split on commas, got %v", got)
	}

	if err := ApplyOverrides(map[string]any{KeyEmployeeCount: 2, KeyView: "Finance"}); err != nil {
		t.Fatalf("ApplyOverrides returned error: %v", err)
	}
	if got := GetInt(KeyEmployeeCount); got != 2 {
		t.Fatalf("expected CLI override for %s, got %d", KeyEmployeeCount, got)
	}
	if got := GetString(KeyView); got != "Finance" {
		t.Fatalf("expected CLI override for %s, got %q", KeyView, got)
	}
	if err := Set(KeyWatch, false); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if GetBool(KeyWatch) {
		t.Fatalf("expected Set to override %s", KeyWatch)
	}
}

func TestInitializeRejectsDirectoryConfig(t *testing.T) {
	reset()
	t.Cleanup(reset)

	tmp := t.TempDir()
	dirAsFile := filepath.Join(tmp, "user.yaml")
	mustMkdir(t, dirAsFile)

	if err := Initialize(WithWorkingDir(tmp), WithUserConfig(dirAsFile)); err == nil {
		t.Fatalf("expected error when user config path is a directory")
	}
}

func TestInitializeRejectsMalformedYAML(t *testing.T) {
	reset()
	t.Cleanup(reset)

	tmp := t.TempDir()
	userCfg := filepath.Join(tmp, "user.yaml")
	writeFile(t, userCfg, "chart: [unterminated\n")

	if err := Initialize(WithWorkingDir(tmp), WithUserConfig(userCfg)); err == nil {
		t.Fatalf("expected parse error for malformed yaml")
	}
}

func mustMkdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	mustMkdir(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}
