package atomicfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteWithBackupCreatesFile(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "state.db")

	if err := WriteWithBackup(dest, []byte("v1"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("expected file to exist: %v", err)
	}
	if string(data) != "v1" {
		t.Errorf("got %q, want %q", data, "v1")
	}
	if _, err := os.Stat(dest + ".bak"); !os.IsNotExist(err) {
		t.Errorf("expected no backup on first write")
	}
}

func TestWriteWithBackupKeepsPriorVersionDuringSwap(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "state.db")

	if err := WriteWithBackup(dest, []byte("v1"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := WriteWithBackup(dest, []byte("v2"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, _ := os.ReadFile(dest)
	if string(data) != "v2" {
		t.Errorf("got %q, want %q", data, "v2")
	}
	if _, err := os.Stat(dest + ".bak"); !os.IsNotExist(err) {
		t.Errorf("expected backup to be removed after successful swap")
	}
}

func TestRenameReplacesDestination(t *testing.T) {
	dir := t.TempDir()
	tmp := filepath.Join(dir, "file.tmp")
	dest := filepath.Join(dir, "file")

	os.WriteFile(tmp, []byte("content"), 0o644)
	if err := Rename(tmp, dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(tmp); !os.IsNotExist(err) {
		t.Errorf("expected tmp file to be gone after rename")
	}
	data, _ := os.ReadFile(dest)
	if string(data) != "content" {
		t.Errorf("got %q, want %q", data, "content")
	}
}
