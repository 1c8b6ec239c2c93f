package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// dirNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var dirNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeDirName converts a chat label into a name safe to use as a
// directory component. Chat nicknames are user-controlled and frequently mix
// CJK text with emoji and punctuation, so the label is NFC-normalized first
// to keep output paths stable across detections of the same chat. Slashes,
// backslashes, colons, and asterisks become dashes; other unsafe characters
// are removed. Returns "unknown" when nothing survives.
func SanitizeDirName(label string) string {
	label = norm.NFC.String(strings.TrimSpace(label))
	if label == "" {
		return "unknown"
	}
	out := strings.TrimSpace(dirNameReplacer.Replace(label))
	out = strings.Trim(out, ". ")
	if out == "" {
		return "unknown"
	}
	return out
}
