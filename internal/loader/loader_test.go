package loader

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/multierr"

	"github.com/tangzhangming/jscheck/internal/compiler"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.js"), "var b;")
	writeFile(t, filepath.Join(root, "a.js"), "var a;")
	writeFile(t, filepath.Join(root, "sub", "c.js"), "var c;")
	writeFile(t, filepath.Join(root, "readme.md"), "# x")
	writeFile(t, filepath.Join(root, "node_modules", "dep.js"), "var dep;")
	writeFile(t, filepath.Join(root, ".git", "hook.js"), "var hook;")
	writeFile(t, filepath.Join(root, compiler.DefaultCacheDir, "x.js"), "var x;")

	sources, err := New().Load([]string{root})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(root, "a.js"),
		filepath.Join(root, "b.js"),
		filepath.Join(root, "sub", "c.js"),
	}
	if len(sources) != len(want) {
		t.Fatalf("expected %d sources, got %+v", len(want), sources)
	}
	for i, src := range sources {
		if src.Name != want[i] {
			t.Errorf("source %d: expected %s, got %s", i, want[i], src.Name)
		}
	}
	if sources[0].Text != "var a;" {
		t.Errorf("unexpected text %q", sources[0].Text)
	}
}

func TestLoadDeduplicates(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "a.js")
	writeFile(t, file, "var a;")

	sources, err := New().Load([]string{file, root, file})
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 1 {
		t.Errorf("expected the file once, got %d", len(sources))
	}
}

func TestLoadExplicitFileAnyExtension(t *testing.T) {
	file := filepath.Join(t.TempDir(), "script.mjs")
	writeFile(t, file, "var m;")

	sources, err := New().Load([]string{file})
	if err != nil || len(sources) != 1 {
		t.Fatalf("expected explicit file to load, got %v %v", sources, err)
	}
}

func TestLoadMissingPaths(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "ok.js")
	writeFile(t, file, "var ok;")

	sources, err := New().Load([]string{filepath.Join(root, "missing1.js"), file, filepath.Join(root, "missing2.js")})
	if len(sources) != 1 {
		t.Errorf("expected remaining file to load, got %d", len(sources))
	}
	if n := len(multierr.Errors(err)); n != 2 {
		t.Errorf("expected 2 errors, got %d (%v)", n, err)
	}
}
