package groups

import (
	"path/filepath"
	"strings"
)

// Resolver maps detected file paths to the chat directory they belong to and
// to that chat's display label. The watched layout is
//
//	<root>/<chat-id>/Image/<month>/<file>.dat
//
// so the chat id is the path segment immediately under the watch root. The
// label table is loaded once at construction and never refreshed; stale
// mappings require a restart.
type Resolver struct {
	root   string
	labels map[string]string
}

// NewResolver builds a resolver for paths under root. labels may be nil, in
// which case every chat id labels itself.
func NewResolver(root string, labels map[string]string) *Resolver {
	if labels == nil {
		labels = map[string]string{}
	}
	return &Resolver{root: filepath.Clean(root), labels: labels}
}

// Resolve returns the chat id and display label for path. ok is false when
// the path is outside the root or sits directly in it with no chat
// directory; callers skip such paths silently.
func (r *Resolver) Resolve(path string) (key, label string, ok bool) {
	rel, err := filepath.Rel(r.root, filepath.Clean(path))
	if err != nil {
		return "", "", false
	}
	if rel == "." || strings.HasPrefix(rel, "..") {
		return "", "", false
	}

	segments := strings.Split(rel, string(filepath.Separator))
	if len(segments) < 2 {
		// A file directly under the root belongs to no chat.
		return "", "", false
	}

	key = segments[0]
	label = r.Label(key)
	return key, label, true
}

// Label returns the display label for a chat id, falling back to the id.
func (r *Resolver) Label(key string) string {
	if label, found := r.labels[key]; found && strings.TrimSpace(label) != "" {
		return label
	}
	return key
}

// Labels returns a copy of the loaded id-to-label table.
func (r *Resolver) Labels() map[string]string {
	out := make(map[string]string, len(r.labels))
	for k, v := range r.labels {
		out[k] = v
	}
	return out
}
