package decode

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"wxwatch/internal/fileutil"
	"wxwatch/internal/textutil"
)

// Decoder reverses the XOR obfuscation WeChat applies to .dat attachments
// and writes the result as a .jpg mirror of the watched tree. The key is
// recovered from the first byte: a JPEG always starts with 0xFF, so
// data[0] XOR 0xFF is the key for the whole buffer.
type Decoder struct {
	root      string
	outputDir string
}

// NewDecoder mirrors files under root into outputDir.
func NewDecoder(root, outputDir string) *Decoder {
	return &Decoder{root: filepath.Clean(root), outputDir: filepath.Clean(outputDir)}
}

// OutputPath computes the decoded destination for inputPath. The chat-hash
// directory at the top of the relative path is replaced with the sanitized
// chat label when one is known, so output folders carry readable names.
func (d *Decoder) OutputPath(inputPath, label string) (string, error) {
	rel, err := filepath.Rel(d.root, filepath.Clean(inputPath))
	if err != nil {
		return "", fmt.Errorf("relativize %s: %w", inputPath, err)
	}
	if rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("path %s is outside the watched tree", inputPath)
	}

	segments := strings.Split(rel, string(filepath.Separator))
	if label != "" && len(segments) > 1 {
		segments[0] = textutil.SanitizeDirName(label)
	}
	rel = filepath.Join(segments...)

	ext := filepath.Ext(rel)
	rel = rel[:len(rel)-len(ext)] + ".jpg"
	return filepath.Join(d.outputDir, rel), nil
}

// Decode reads inputPath, reverses the XOR, and writes the mirror file,
// returning the output path. When the destination already holds identical
// content the write is skipped. Failures are file-local.
func (d *Decoder) Decode(inputPath, label string) (string, error) {
	outputPath, err := d.OutputPath(inputPath, label)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", inputPath, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("decode %s: file is empty", inputPath)
	}

	key := data[0] ^ 0xFF
	for i := range data {
		data[i] ^= key
	}

	if same, err := fileutil.ContentMatches(outputPath, data); err == nil && same {
		return outputPath, nil
	}
	if err := fileutil.WriteFileAtomic(outputPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", outputPath, err)
	}
	return outputPath, nil
}
