package dropingest_test

import (
	"testing"

	"queuepanel/internal/dropingest"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"windows drive letter", "file:///C:/Users/x/a.txt", "C:/Users/x/a.txt"},
		{"lowercase drive letter", "file:///d:/data/b.log", "d:/data/b.log"},
		{"posix path", "file:///home/u/f1.txt", "/home/u/f1.txt"},
		{"percent decoded", "file:///home/u/My%20Notes/r%C3%A9sum%C3%A9.md", "/home/u/My Notes/résumé.md"},
		{"plain path unchanged", "/already/a/path.txt", "/already/a/path.txt"},
		{"other scheme unchanged", "https://example.com/a%20b", "https://example.com/a%20b"},
		{"malformed escape kept", "file:///tmp/100%/a%20b.txt", "/tmp/100%/a b.txt"},
		{"trailing percent kept", "file:///tmp/x%2", "/tmp/x%2"},
		{"scheme case insensitive", "FILE:///tmp/a.txt", "/tmp/a.txt"},
		{"empty string", "", ""},
		{"scheme only", "file://", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dropingest.NormalizePath(tt.input); got != tt.want {
				t.Fatalf("NormalizePath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
