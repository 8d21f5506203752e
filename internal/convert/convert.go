// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert implements the DOCX-to-Markdown round-trip with pluggable
// converter backends.
package convert

import (
	"fmt"
)

// Converter transforms a document between DOCX and the Markdown
// intermediate. The round-trip discards corrupted internal structure; its
// fidelity is bounded by the backend tool, not by logic here.
type Converter interface {
	// ToMarkdown reads the DOCX at docxPath and writes Markdown to mdPath.
	ToMarkdown(docxPath, mdPath string) error

	// FromMarkdown reads the Markdown at mdPath and writes a rebuilt DOCX
	// to docxPath.
	FromMarkdown(mdPath, docxPath string) error
}

// Roundtrip converts the DOCX at srcPath to Markdown at mdPath and rebuilds
// it into a fresh DOCX at dstPath.
func Roundtrip(c Converter, srcPath, mdPath, dstPath string) error {
	if err := c.ToMarkdown(srcPath, mdPath); err != nil {
		return fmt.Errorf("converting %s to markdown: %w", srcPath, err)
	}
	if err := c.FromMarkdown(mdPath, dstPath); err != nil {
		return fmt.Errorf("rebuilding %s from markdown: %w", mdPath, err)
	}
	return nil
}
