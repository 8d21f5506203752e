// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

// writeDocx builds a zip package at path from archive-name to content pairs.
func writeDocx(t *testing.T, path string, files map[string]string) {
	t.Helper()
	out, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(out)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}
}

const minimalDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body><w:p><w:r><w:t>Hello world</w:t></w:r></w:p></w:body>
</w:document>`

func TestExtractAndArchive(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "in.docx")
	writeDocx(t, src, map[string]string{
		"[Content_Types].xml": "<Types/>",
		"word/document.xml":   minimalDocumentXML,
		"docProps/core.xml":   "<cp:coreProperties/>",
	})

	tree := filepath.Join(tmp, "tree")
	if err := Extract(src, tree); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	for _, rel := range []string{"[Content_Types].xml", "word/document.xml", "docProps/core.xml"} {
		if _, err := os.Stat(filepath.Join(tree, filepath.FromSlash(rel))); err != nil {
			t.Errorf("expected %s in extracted tree: %v", rel, err)
		}
	}

	// Round-trip the tree back into a package and re-extract it.
	rezipped := filepath.Join(tmp, "out.docx")
	if err := Archive(tree, rezipped); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	tree2 := filepath.Join(tmp, "tree2")
	if err := Extract(rezipped, tree2); err != nil {
		t.Fatalf("Extract rezipped: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(tree2, "word", "document.xml"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != minimalDocumentXML {
		t.Error("document.xml content changed across the zip round-trip")
	}
}

func TestExtractNotAZip(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "broken.docx")
	if err := os.WriteFile(src, []byte("this is not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Extract(src, filepath.Join(tmp, "tree")); err == nil {
		t.Fatal("expected error for non-zip input")
	}
}

func TestExtractRejectsUnsafeEntryNames(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "evil.docx")
	writeDocx(t, src, map[string]string{
		"../escape.txt": "nope",
	})

	if err := Extract(src, filepath.Join(tmp, "tree")); err == nil {
		t.Fatal("expected error for entry escaping the destination")
	}
}

func TestArchiveSkipsRemovedCustomXML(t *testing.T) {
	tmp := t.TempDir()
	tree := filepath.Join(tmp, "tree")
	for rel, content := range map[string]string{
		"word/document.xml":                minimalDocumentXML,
		"customXml.removed/item1.xml":      "<junk/>",
		"customXml.removed/itemProps1.xml": "<junk/>",
	} {
		path := filepath.Join(tree, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	out := filepath.Join(tmp, "out.docx")
	if err := Archive(tree, out); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	r, err := zip.OpenReader(out)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	for _, f := range r.File {
		if filepath.Dir(f.Name) == "customXml.removed" {
			t.Errorf("package should not contain %s", f.Name)
		}
	}
	if len(r.File) != 1 {
		t.Errorf("expected 1 entry, got %d", len(r.File))
	}
}
