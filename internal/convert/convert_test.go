// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeTool implements tool.Tool with canned output keyed on the target
// format argument.
type fakeTool struct {
	outputs map[string]string // "-t" value -> stdout content
	err     error

	calls [][]string
}

func (f *fakeTool) Name() string    { return "fake" }
func (f *fakeTool) Available() bool { return true }

func (f *fakeTool) Run(args []string, stdin io.Reader, stdout io.Writer) error {
	f.calls = append(f.calls, args)
	if f.err != nil {
		return f.err
	}
	io.Copy(io.Discard, stdin)
	for i, a := range args {
		if a == "-t" && i+1 < len(args) {
			_, _ = stdout.Write([]byte(f.outputs[args[i+1]]))
			return nil
		}
	}
	return errors.New("no target format in args")
}

func setupSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestToMarkdown(t *testing.T) {
	ft := &fakeTool{outputs: map[string]string{"gfm": "# Title\n\nBody."}}
	conv := NewPandocConverter(ft)

	src := setupSource(t, "in.docx", "docx bytes")
	mdPath := filepath.Join(filepath.Dir(src), "out.md")

	if err := conv.ToMarkdown(src, mdPath); err != nil {
		t.Fatalf("ToMarkdown: %v", err)
	}
	data, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "# Title\n\nBody." {
		t.Errorf("markdown = %q", data)
	}
	if got := strings.Join(ft.calls[0], " "); got != "-f docx -t gfm" {
		t.Errorf("args = %q", got)
	}
}

func TestFromMarkdown(t *testing.T) {
	ft := &fakeTool{outputs: map[string]string{"docx": "rebuilt docx bytes"}}
	conv := NewPandocConverter(ft)

	src := setupSource(t, "in.md", "# Title")
	docxPath := filepath.Join(filepath.Dir(src), "out.docx")

	if err := conv.FromMarkdown(src, docxPath); err != nil {
		t.Fatalf("FromMarkdown: %v", err)
	}
	data, err := os.ReadFile(docxPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "rebuilt docx bytes" {
		t.Errorf("docx = %q", data)
	}
	if got := strings.Join(ft.calls[0], " "); got != "-f gfm -t docx -o -" {
		t.Errorf("args = %q", got)
	}
}

func TestEmptyOutputIsAnError(t *testing.T) {
	ft := &fakeTool{outputs: map[string]string{"gfm": ""}}
	conv := NewPandocConverter(ft)

	src := setupSource(t, "in.docx", "docx bytes")
	err := conv.ToMarkdown(src, filepath.Join(filepath.Dir(src), "out.md"))
	if err == nil {
		t.Fatal("expected error for empty converter output")
	}
	if !strings.Contains(err.Error(), "empty output") {
		t.Errorf("error should mention empty output, got: %v", err)
	}
}

func TestRoundtrip(t *testing.T) {
	ft := &fakeTool{outputs: map[string]string{
		"gfm":  "# Title",
		"docx": "rebuilt",
	}}
	conv := NewPandocConverter(ft)

	tmp := t.TempDir()
	src := filepath.Join(tmp, "in.docx")
	if err := os.WriteFile(src, []byte("docx"), 0o644); err != nil {
		t.Fatal(err)
	}
	md := filepath.Join(tmp, "mid.md")
	dst := filepath.Join(tmp, "out.docx")

	if err := Roundtrip(conv, src, md, dst); err != nil {
		t.Fatalf("Roundtrip: %v", err)
	}
	for _, p := range []string{md, dst} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s to exist: %v", p, err)
		}
	}
	if len(ft.calls) != 2 {
		t.Errorf("expected 2 tool invocations, got %d", len(ft.calls))
	}
}

func TestRoundtripToolFailure(t *testing.T) {
	ft := &fakeTool{err: errors.New("container crashed")}
	conv := NewPandocConverter(ft)

	tmp := t.TempDir()
	src := filepath.Join(tmp, "in.docx")
	if err := os.WriteFile(src, []byte("docx"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := Roundtrip(conv, src, filepath.Join(tmp, "mid.md"), filepath.Join(tmp, "out.docx"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if _, statErr := os.Stat(filepath.Join(tmp, "out.docx")); !os.IsNotExist(statErr) {
		t.Error("no rebuilt file should exist after a failed conversion")
	}
}
