package scanner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/relict-dev/relict/pkg/config"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestScanDirFindsSupportedLanguages(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/Widget.cs", "class Widget {}")
	writeFile(t, root, "src/app.ts", "export {}")
	writeFile(t, root, "main.go", "package main")
	writeFile(t, root, "README.md", "# readme")
	writeFile(t, root, "notes.txt", "notes")

	cfg := config.DefaultConfig()
	cfg.Exclude.Gitignore = false

	files, err := NewScanner(cfg).ScanDir(root)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}

	if len(files) != 3 {
		t.Fatalf("expected 3 source files, got %d: %v", len(files), files)
	}
	for _, f := range files {
		if strings.HasSuffix(f, ".md") || strings.HasSuffix(f, ".txt") {
			t.Errorf("unsupported file scanned: %s", f)
		}
	}
}

func TestScanDirHonorsConfigExcludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/app.ts", "export {}")
	writeFile(t, root, "node_modules/dep/index.js", "module.exports = {}")
	writeFile(t, root, "src/Grid.designer.cs", "class Grid {}")

	cfg := config.DefaultConfig()
	cfg.Exclude.Gitignore = false

	files, err := NewScanner(cfg).ScanDir(root)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}

	if len(files) != 1 || !strings.HasSuffix(files[0], "app.ts") {
		t.Errorf("excludes not applied: %v", files)
	}
}

func TestScanDirHonorsGitignore(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, root, ".gitignore", "generated/\n")
	writeFile(t, root, "generated/out.cs", "class Out {}")
	writeFile(t, root, "src/App.cs", "class App {}")

	cfg := config.DefaultConfig()
	files, err := NewScanner(cfg).ScanDir(root)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}

	for _, f := range files {
		if strings.Contains(f, "generated") {
			t.Errorf("gitignored file scanned: %s", f)
		}
	}
	if len(files) != 1 {
		t.Errorf("expected only src/App.cs, got %v", files)
	}
}

func TestScanDirSkipsEscapingSymlinks(t *testing.T) {
	outside := t.TempDir()
	writeFile(t, outside, "secret.go", "package secret")

	root := t.TempDir()
	writeFile(t, root, "main.go", "package main")
	if err := os.Symlink(outside, filepath.Join(root, "escape")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Exclude.Gitignore = false

	files, err := NewScanner(cfg).ScanDir(root)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	for _, f := range files {
		if strings.Contains(f, "secret") {
			t.Errorf("symlink escape followed: %s", f)
		}
	}
}

func TestScanFile(t *testing.T) {
	root := t.TempDir()
	src := writeFile(t, root, "app.java", "class App {}")
	txt := writeFile(t, root, "notes.txt", "notes")

	cfg := config.DefaultConfig()
	cfg.Exclude.Gitignore = false
	s := NewScanner(cfg)

	ok, err := s.ScanFile(src)
	if err != nil || !ok {
		t.Errorf("ScanFile(%s) = %v, %v; want true", src, ok, err)
	}

	ok, err = s.ScanFile(txt)
	if err != nil || ok {
		t.Errorf("ScanFile(%s) = %v, %v; want false", txt, ok, err)
	}

	if _, err := s.ScanFile(filepath.Join(root, "missing.cs")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestFilterBySize(t *testing.T) {
	root := t.TempDir()
	small := writeFile(t, root, "small.go", "package p")
	big := writeFile(t, root, "big.go", strings.Repeat("// padding\n", 100))

	kept, skipped := FilterBySize([]string{small, big}, 64)
	if skipped != 1 || len(kept) != 1 || kept[0] != small {
		t.Errorf("FilterBySize kept=%v skipped=%d", kept, skipped)
	}

	kept, skipped = FilterBySize([]string{small, big}, 0)
	if skipped != 0 || len(kept) != 2 {
		t.Errorf("zero cap must keep everything: kept=%v skipped=%d", kept, skipped)
	}
}
