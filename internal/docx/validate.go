// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// documentPath is the archive path of the main document part.
const documentPath = "word/document.xml"

// documentXML mirrors the paragraph and run layout of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// Validate opens a DOCX package, requires the main document part to parse,
// and returns its plain text. A package without a parseable document part
// is not openable by a standard reader and fails validation.
func Validate(docxPath string) (string, error) {
	r, err := zip.OpenReader(docxPath)
	if err != nil {
		return "", fmt.Errorf("opening %s as a zip package: %w", docxPath, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != documentPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("opening %s: %w", documentPath, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", documentPath, err)
		}

		var doc documentXML
		if err := xml.Unmarshal(data, &doc); err != nil {
			return "", fmt.Errorf("parsing %s: %w", documentPath, err)
		}
		return documentText(doc), nil
	}
	return "", fmt.Errorf("%s has no %s part", docxPath, documentPath)
}

// documentText flattens paragraphs and runs into newline-separated text.
func documentText(doc documentXML) string {
	var b strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			b.WriteString("\n")
		}
		for _, r := range para.Runs {
			for _, t := range r.Text {
				b.WriteString(t.Content)
			}
		}
	}
	return strings.TrimSpace(b.String())
}
