package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in, ext, want string
	}{
		{"adder.src", ".real", "adder.real"},
		{"dir/adder", ".real", "dir/adder.real"},
		{"a.b.src", ".real", "a.b.real"},
	}
	for _, tc := range tests {
		if got := OutputPath(tc.in, tc.ext); got != tc.want {
			t.Errorf("OutputPath(%q, %q) = %q; want %q", tc.in, tc.ext, got, tc.want)
		}
	}
}

func TestReadSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.src")
	if err := os.WriteFile(path, []byte("module main(inout a(1)) ~= a"), 0o644); err != nil {
		t.Fatal(err)
	}

	src, full, err := ReadSource(path)
	if err != nil {
		t.Fatalf("ReadSource: %v", err)
	}
	if src != "module main(inout a(1)) ~= a" {
		t.Errorf("unexpected source %q", src)
	}
	if !filepath.IsAbs(full) {
		t.Errorf("expected absolute path, got %q", full)
	}

	if _, _, err := ReadSource(filepath.Join(dir, "missing.src")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
