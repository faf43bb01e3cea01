// Package markdown implements the Markdown-renderer collaborator of
// spec.md §6.2 on top of goldmark, the CommonMark renderer used across the
// retrieved example pack.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

var renderer = goldmark.New()

// Render converts src from Markdown to HTML.
func Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	return buf.String(), nil
}
