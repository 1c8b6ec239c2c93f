package groups_test

import (
	"path/filepath"
	"testing"

	"wxwatch/internal/groups"
)

func TestResolveChatFromFirstSegment(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "data", "MsgAttach")
	resolver := groups.NewResolver(root, map[string]string{"abc123": "Family"})

	key, label, ok := resolver.Resolve(filepath.Join(root, "abc123", "Image", "2026-03", "pic.dat"))
	if !ok {
		t.Fatal("path under a chat directory must resolve")
	}
	if key != "abc123" || label != "Family" {
		t.Fatalf("resolved %q/%q, want abc123/Family", key, label)
	}
}

func TestResolveFallsBackToChatID(t *testing.T) {
	root := t.TempDir()
	resolver := groups.NewResolver(root, nil)

	key, label, ok := resolver.Resolve(filepath.Join(root, "deadbeef", "Image", "pic.dat"))
	if !ok {
		t.Fatal("unlabeled chat must still resolve")
	}
	if key != "deadbeef" || label != "deadbeef" {
		t.Fatalf("resolved %q/%q, want the id used as label", key, label)
	}
	if got := resolver.Label("deadbeef"); got != "deadbeef" {
		t.Fatalf("Label = %q, want id fallback", got)
	}
}

func TestResolveRejectsPathsOutsideChatDirs(t *testing.T) {
	root := t.TempDir()
	resolver := groups.NewResolver(root, nil)

	cases := []string{
		filepath.Join(root, "stray.dat"),
		filepath.Join(root, "..", "elsewhere", "pic.dat"),
		root,
	}
	for _, path := range cases {
		if _, _, ok := resolver.Resolve(path); ok {
			t.Errorf("path %s must not resolve", path)
		}
	}
}

func TestResolveBlankLabelFallsBack(t *testing.T) {
	root := t.TempDir()
	resolver := groups.NewResolver(root, map[string]string{"abc": "   "})

	if got := resolver.Label("abc"); got != "abc" {
		t.Fatalf("Label = %q, want fallback past blank mapping", got)
	}
}

func TestLabelsReturnsCopy(t *testing.T) {
	resolver := groups.NewResolver(t.TempDir(), map[string]string{"a": "Alpha"})
	labels := resolver.Labels()
	labels["a"] = "mutated"

	if got := resolver.Label("a"); got != "Alpha" {
		t.Fatalf("Label = %q after mutating the copy, want Alpha", got)
	}
}
