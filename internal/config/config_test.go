package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tangzhangming/jscheck/internal/errors"
)

func TestParseOverridesDefaults(t *testing.T) {
	data := []byte(`
[compiler]
language = "zh"
max-problems = 20
diet = true

[severity]
unused-label = "error"
W0306 = "ignore"
`)
	c, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Compiler.Language != "zh" || c.Compiler.MaxProblems != 20 || !c.Compiler.Diet {
		t.Errorf("compiler section = %+v", c.Compiler)
	}
	if c.Compiler.Color != "auto" {
		t.Errorf("color default lost: %q", c.Compiler.Color)
	}

	table, err := c.SeverityTable()
	if err != nil {
		t.Fatalf("SeverityTable: %v", err)
	}
	if got := table.Lookup(errors.UnusedLabel); got != errors.SeverityError {
		t.Errorf("unused-label severity = %s, want error", got)
	}
	if got := table.Lookup(errors.RedundantNullCheck); got != errors.SeverityIgnore {
		t.Errorf("W0306 severity = %s, want ignore", got)
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad toml", "[compiler\n"},
		{"bad color", "[compiler]\ncolor = \"sometimes\"\n"},
		{"negative limit", "[compiler]\nmax-problems = -1\n"},
		{"unknown problem", "[severity]\nno-such-problem = \"error\"\n"},
		{"bad severity", "[severity]\nunused-label = \"loud\"\n"},
		{"abort severity", "[severity]\ntoo-many-problems = \"ignore\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", tt.data)
			}
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	c := Default()
	c.Compiler.Parallelism = 3
	c.Severity["fallthrough"] = "ignore"
	if err := c.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.Compiler.Parallelism != 3 {
		t.Errorf("parallelism = %d, want 3", got.Compiler.Parallelism)
	}
	if got.Severity["fallthrough"] != "ignore" {
		t.Errorf("severity = %v", got.Severity)
	}
}

func TestFindConfigFileWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, ConfigFileName), []byte("[compiler]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got := FindConfigFile(nested)
	want, _ := filepath.Abs(filepath.Join(root, ConfigFileName))
	if got != want {
		t.Errorf("FindConfigFile = %q, want %q", got, want)
	}

	c, path, err := Discover(nested)
	if err != nil || path != want || c == nil {
		t.Errorf("Discover = %v, %q, %v", c, path, err)
	}
}
