package textutil_test

import (
	"testing"

	"wxwatch/internal/textutil"
)

func TestSanitizeDirName(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Family", "Family"},
		{"cjk", "产品讨论群", "产品讨论群"},
		{"slash to dash", "dev/ops", "dev-ops"},
		{"colon and backslash", `a:b\c`, "a-b-c"},
		{"removed characters", `what?"<is>|this`, "whatisthis"},
		{"surrounding junk", "  .name.  ", "name"},
		{"empty", "", "unknown"},
		{"only unsafe", `?"<>|`, "unknown"},
		{"whitespace", "   ", "unknown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := textutil.SanitizeDirName(tc.input); got != tc.want {
				t.Fatalf("SanitizeDirName(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSanitizeDirNameNormalizesEquivalentForms(t *testing.T) {
	composed := "caf\u00e9"
	decomposed := "cafe\u0301"
	if textutil.SanitizeDirName(composed) != textutil.SanitizeDirName(decomposed) {
		t.Fatal("NFC-equivalent labels must sanitize to the same directory name")
	}
}
