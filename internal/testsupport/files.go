package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content at path, creating parent directories.
func WriteFile(t testing.TB, path string, content []byte) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create parent directories for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteAttachment writes an XOR-obfuscated attachment for chat under root,
// in the Image/<month> layout the watched tree uses, and returns its path.
func WriteAttachment(t testing.TB, root, chat, month, name string, payload []byte, key byte) string {
	t.Helper()
	encoded := make([]byte, len(payload))
	for i, b := range payload {
		encoded[i] = b ^ key
	}
	path := filepath.Join(root, chat, "Image", month, name)
	return WriteFile(t, path, encoded)
}
