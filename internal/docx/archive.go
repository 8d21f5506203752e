// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docx reads and writes DOCX package internals: the zip container,
// the core properties part, and the structural XML parts.
package docx

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Extract unpacks the DOCX zip at docxPath into destDir, preserving the
// archive layout. Entry names that escape destDir are rejected.
func Extract(docxPath, destDir string) error {
	r, err := zip.OpenReader(docxPath)
	if err != nil {
		return fmt.Errorf("opening %s as a zip package: %w", docxPath, err)
	}
	defer r.Close()

	for _, f := range r.File {
		name := filepath.FromSlash(f.Name)
		if !filepath.IsLocal(name) {
			return fmt.Errorf("unsafe entry name %q in %s", f.Name, docxPath)
		}
		target := filepath.Join(destDir, name)

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating directory %s: %w", target, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", target, err)
		}
		if err := extractEntry(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}

	_, copyErr := io.Copy(out, rc)
	closeErr := out.Close()
	if copyErr != nil {
		return fmt.Errorf("writing %s: %w", target, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing %s: %w", target, closeErr)
	}
	return nil
}

// Archive zips the tree under srcDir into a DOCX package at docxPath.
// Archive names use forward slashes regardless of platform.
func Archive(srcDir, docxPath string) error {
	out, err := os.Create(docxPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", docxPath, err)
	}

	zw := zip.NewWriter(out)
	walkErr := filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Parts moved aside by RemoveCustomXML stay out of the package.
			if rel == customXMLDir+".removed" {
				return filepath.SkipDir
			}
			return nil
		}
		w, err := zw.Create(strings.ReplaceAll(rel, string(filepath.Separator), "/"))
		if err != nil {
			return fmt.Errorf("adding entry %s: %w", rel, err)
		}
		in, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		defer in.Close()
		if _, err := io.Copy(w, in); err != nil {
			return fmt.Errorf("compressing %s: %w", rel, err)
		}
		return nil
	})

	if walkErr != nil {
		zw.Close()
		out.Close()
		os.Remove(docxPath)
		return walkErr
	}
	if err := zw.Close(); err != nil {
		out.Close()
		os.Remove(docxPath)
		return fmt.Errorf("finalizing %s: %w", docxPath, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(docxPath)
		return fmt.Errorf("closing %s: %w", docxPath, err)
	}
	return nil
}
