package discovery

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatYAML, "yaml"},
		{FormatJSON, "json"},
		{FormatUnknown, "unknown"},
		{Format(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr string
	}{
		{"ada.record.yaml", FormatYAML, ""},
		{"records/ada.YML", FormatYAML, ""},
		{"records/ada.json", FormatJSON, ""},
		{"README", FormatUnknown, "no extension"},
		{"notes.md", FormatUnknown, "unsupported file type: .md"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			if got != tt.want {
				t.Errorf("DetectFormat(%q) = %v, want %v", tt.path, got, tt.want)
			}
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("DetectFormat(%q) unexpected error: %v", tt.path, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("DetectFormat(%q) error = %v, want containing %q", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFilePath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "ok.yaml", "student_name: Ada\n")
	writeFile(t, root, "empty.yaml", "")
	writeFile(t, root, "binary.json", "{\x00}")

	if _, err := ValidateFilePath(filepath.Join(root, "ok.yaml")); err != nil {
		t.Errorf("valid file rejected: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"missing", filepath.Join(root, "missing.yaml"), "file not found"},
		{"directory", root, "is a directory"},
		{"empty", filepath.Join(root, "empty.yaml"), "file is empty"},
		{"binary", filepath.Join(root, "binary.json"), "binary"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateFilePath(tt.path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateFilePath() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestDiscoverFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "records/term1/ada.yaml", "student_name: Ada\n")
	writeFile(t, root, "records/term1/alan.json", `{"student_name":"Alan"}`)
	writeFile(t, root, "grace.record.yml", "student_name: Grace\n")
	writeFile(t, root, "records/notes.md", "# notes\n")
	writeFile(t, root, "other/ignored.yaml", "student_name: Nobody\n")

	files, err := NewFileDiscovery(root, false).DiscoverFiles(nil)
	if err != nil {
		t.Fatalf("DiscoverFiles() error: %v", err)
	}

	var got []string
	for _, f := range files {
		got = append(got, f.RelPath+":"+f.Format.String())
		if len(f.Contents) == 0 || f.Size == 0 {
			t.Errorf("%s: contents not loaded", f.RelPath)
		}
	}
	want := []string{
		"grace.record.yml:yaml",
		"records/term1/ada.yaml:yaml",
		"records/term1/alan.json:json",
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("DiscoverFiles() = %v, want %v", got, want)
	}
}

func TestDiscoverFilesCustomPatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "class/a.yaml", "student_name: A\n")
	writeFile(t, root, "class/b.yaml", "student_name: B\n")

	// Overlapping patterns must not duplicate files
	files, err := NewFileDiscovery(root, false).DiscoverFiles([]string{"class/*.yaml", "**/*.yaml"})
	if err != nil {
		t.Fatalf("DiscoverFiles() error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("DiscoverFiles() found %d files, want 2", len(files))
	}
	if files[0].RelPath != "class/a.yaml" || files[1].RelPath != "class/b.yaml" {
		t.Errorf("unexpected order: %s, %s", files[0].RelPath, files[1].RelPath)
	}
}

func TestDiscoverFilesInvalidPattern(t *testing.T) {
	_, err := NewFileDiscovery(t.TempDir(), false).DiscoverFiles([]string{"records/[.yaml"})
	if err == nil {
		t.Error("DiscoverFiles() accepted an invalid pattern")
	}
}
