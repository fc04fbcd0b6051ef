package testutils

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/spf13/afero"
)

// RootTree is the staged root used across image and importer tests
var RootTree = map[string]string{
	"boot/kernel.elf":       "\x7fELF kernel",
	"boot/limine.conf":      "TIMEOUT=0\n",
	"EFI/BOOT/BOOTX64.EFI":  "MZ efi",
	"usr/include/syscall.h": "#pragma once\n",
	"etc/motd":              "welcome to cryptix\n",
}

// StageMemTree writes files into an in-memory afero filesystem below root
func StageMemTree(t *testing.T, root string, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return fs
}

// StageDirTree writes files into a fresh temporary directory and returns it
func StageDirTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

// SortedKeys returns the keys of files in lexical order
func SortedKeys(files map[string]string) []string {
	keys := make([]string, 0, len(files))
	for k := range files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
