// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pdiddy/docmend/internal/tool"
)

// PandocConverter converts documents by piping them through pandoc. It
// depends on a tool.Tool (local binary or container) injected at
// construction time.
type PandocConverter struct {
	t tool.Tool
}

// NewPandocConverter creates a converter backed by the given tool.
func NewPandocConverter(t tool.Tool) *PandocConverter {
	return &PandocConverter{t: t}
}

// ToMarkdown pipes the DOCX at docxPath through pandoc and writes the
// resulting GitHub-flavored Markdown to mdPath.
func (p *PandocConverter) ToMarkdown(docxPath, mdPath string) error {
	out, err := p.pipe(docxPath, []string{"-f", "docx", "-t", "gfm"})
	if err != nil {
		return err
	}
	if err := os.WriteFile(mdPath, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", mdPath, err)
	}
	return nil
}

// FromMarkdown pipes the Markdown at mdPath through pandoc and writes the
// rebuilt DOCX to docxPath. The "-o -" forces binary output onto stdout.
func (p *PandocConverter) FromMarkdown(mdPath, docxPath string) error {
	out, err := p.pipe(mdPath, []string{"-f", "gfm", "-t", "docx", "-o", "-"})
	if err != nil {
		return err
	}
	if err := os.WriteFile(docxPath, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", docxPath, err)
	}
	return nil
}

func (p *PandocConverter) pipe(srcPath string, args []string) ([]byte, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", srcPath, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := p.t.Run(args, f, &out); err != nil {
		return nil, fmt.Errorf("converting %s with %s: %w", srcPath, p.t.Name(), err)
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("%s produced empty output for %s", p.t.Name(), srcPath)
	}
	return out.Bytes(), nil
}
