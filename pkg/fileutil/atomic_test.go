package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAtomicWriteFile(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		perm os.FileMode
	}{
		{name: "successful write", data: []byte("hello world\n"), perm: 0o644},
		{name: "empty data", data: []byte{}, perm: 0o644},
		{name: "private", data: []byte(`{"token":"x"}`), perm: 0o600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "test-file")

			if err := AtomicWriteFile(path, tt.data, tt.perm); err != nil {
				t.Fatalf("AtomicWriteFile() error = %v", err)
			}

			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading file: %v", err)
			}
			if string(got) != string(tt.data) {
				t.Errorf("content = %q, want %q", got, tt.data)
			}

			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("stating file: %v", err)
			}
			if gotPerm := info.Mode().Perm(); gotPerm != tt.perm {
				t.Errorf("permissions = %o, want %o", gotPerm, tt.perm)
			}
		})
	}
}

func TestAtomicWriteFile_CreatesParents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".claude", "skills", "pds", "SKILL.md")

	if err := AtomicWriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("AtomicWriteFile() error = %v", err)
	}
	info, err := os.Stat(filepath.Dir(path))
	if err != nil {
		t.Fatalf("parent not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("parent is not a directory")
	}
}

func TestAtomicWriteFile_NoTempFileLeft(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")

	if err := AtomicWriteFile(path, []byte("one"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := AtomicWriteFile(path, []byte("two"), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".pds-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want 1", len(entries))
	}
}

func TestWriteIfChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.json")

	changed, err := WriteIfChanged(path, []byte("a\n"), 0o600)
	if err != nil {
		t.Fatalf("first write: %v", err)
	}
	if !changed {
		t.Error("first write reported unchanged")
	}

	changed, err = WriteIfChanged(path, []byte("a\n"), 0o644)
	if err != nil {
		t.Fatalf("second write: %v", err)
	}
	if changed {
		t.Error("identical write reported changed")
	}

	changed, err = WriteIfChanged(path, []byte("b\n"), 0o644)
	if err != nil {
		t.Fatalf("third write: %v", err)
	}
	if !changed {
		t.Error("different content reported unchanged")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %o, want existing mode 600 kept", info.Mode().Perm())
	}
}

func TestMarshalJSON(t *testing.T) {
	got, err := MarshalJSON(map[string]any{
		"url":  "http://localhost:3000/mcp?a=1&b=2",
		"args": []string{"<dir>"},
	})
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}

	want := "{\n  \"args\": [\n    \"<dir>\"\n  ],\n  \"url\": \"http://localhost:3000/mcp?a=1&b=2\"\n}\n"
	if string(got) != want {
		t.Errorf("MarshalJSON() = %q, want %q", got, want)
	}
}

func TestAtomicWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	if err := AtomicWriteJSON(path, map[string]int{"n": 1}); err != nil {
		t.Fatalf("AtomicWriteJSON() error = %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "{\n  \"n\": 1\n}\n" {
		t.Errorf("content = %q", got)
	}
}
