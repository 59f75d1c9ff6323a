package extractor

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestValidFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ext  string
		want bool
	}{
		{"roster.xlsx", TemplateExt, true},
		{"ROSTER.XLSX", TemplateExt, true},
		{"._roster.xlsx", TemplateExt, false},
		{"roster.xls", TemplateExt, false},
		{"hours.xls", ReportExt, true},
		{"hours.XLS", ReportExt, true},
		{"._hours.xls", ReportExt, false},
		{"hours.xlsx", ReportExt, false},
		{"readme.txt", ReportExt, false},
	}

	for _, tt := range tests {
		if got := ValidFileName(tt.name, tt.ext); got != tt.want {
			t.Fatalf("ValidFileName(%q, %q) want=%v got=%v", tt.name, tt.ext, tt.want, got)
		}
	}
}

func TestCollectFiles_PartitionsEverything(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.xlsx"))
	touch(t, filepath.Join(dir, "sub", "b.XLSX"))
	touch(t, filepath.Join(dir, "._a.xlsx"))
	touch(t, filepath.Join(dir, "notes.txt"))

	files, skips, err := CollectFiles(dir, TemplateExt)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("want 2 files got %v", files)
	}
	if len(skips) != 2 {
		t.Fatalf("want 2 skips got %v", skips)
	}

	reasons := map[string]string{}
	for _, s := range skips {
		reasons[s.File] = s.Reason
	}
	if reasons["._a.xlsx"] != "Mac OS hidden file, skipped" {
		t.Fatalf("hidden reason got=%q", reasons["._a.xlsx"])
	}
	if reasons["notes.txt"] != "Not .xlsx, skipped" {
		t.Fatalf("extension reason got=%q", reasons["notes.txt"])
	}
}

func TestCollectFiles_MissingRootFails(t *testing.T) {
	t.Parallel()

	if _, _, err := CollectFiles(filepath.Join(t.TempDir(), "absent"), ReportExt); err == nil {
		t.Fatalf("expected walk error for missing directory")
	}
}
