// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package repair orchestrates the document repair pipeline: backup, metadata
// normalization, XML sanitization, converter round-trip, and output write.
package repair

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docmend/internal/convert"
	"github.com/pdiddy/docmend/internal/docx"
	"github.com/pdiddy/docmend/pkg/types"
)

// Error kinds surfaced by the pipeline. Callers match with errors.Is.
var (
	ErrInputNotFound    = errors.New("input file not found")
	ErrConversionFailed = errors.New("conversion failed")
	ErrWriteFailed      = errors.New("write failed")
)

// BatchResult holds the outcome of a batch repair run.
type BatchResult struct {
	Repaired  int
	Skipped   int
	Failed    int
	Documents []*types.Document
}

// Total returns the total number of inputs processed.
func (r BatchResult) Total() int {
	return r.Repaired + r.Skipped + r.Failed
}

// HasFailures reports whether any inputs failed repair.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// OutputPath derives the default destination for an input file.
func OutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + ".repaired" + ext
}

// ReportPath derives the repair report location for an output file.
func ReportPath(outputPath string) string {
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".repair-report.json"
}

// RepairFile runs the full pipeline on one input. An empty outputPath
// derives the destination from the input name. The report is saved next to
// the output whether or not the run succeeded; on failure no output file is
// left behind.
func RepairFile(conv convert.Converter, inputPath, outputPath string, cfg types.RepairConfig, w io.Writer) (*types.Document, *Report, error) {
	if outputPath == "" {
		outputPath = OutputPath(inputPath)
	}
	rep := NewReport(inputPath, w)

	// No report file is written for an input that never existed.
	if _, err := os.Stat(inputPath); err != nil {
		err = fmt.Errorf("%w: %s", ErrInputNotFound, inputPath)
		rep.Errorf("%v", err)
		return nil, rep, err
	}

	doc, err := repairOne(conv, inputPath, outputPath, cfg, rep)
	if err != nil {
		rep.Errorf("%v", err)
	} else {
		rep.FinalPath = outputPath
		rep.FinalOK = true
	}

	if saveErr := rep.Save(ReportPath(outputPath)); saveErr != nil {
		fmt.Fprintf(w, "  warning: %v\n", saveErr)
	}
	return doc, rep, err
}

// repairOne performs the pipeline stages in order. Every stage either
// records an action on the report or fails the run.
func repairOne(conv convert.Converter, inputPath, outputPath string, cfg types.RepairConfig, rep *Report) (*types.Document, error) {
	if cfg.Backup {
		bak, err := backupFile(inputPath)
		if err != nil {
			return nil, fmt.Errorf("backing up %s: %w", inputPath, err)
		}
		rep.BackupPath = bak
		rep.Actionf("backed up original to %s", bak)
	}

	scratch, err := os.MkdirTemp(cfg.WorkDir, "docmend-*")
	if err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	tree := filepath.Join(scratch, "package")
	if err := docx.Extract(inputPath, tree); err != nil {
		return nil, err
	}
	rep.Actionf("extracted package to scratch tree")

	props, err := loadCoreProperties(tree, rep)
	if err != nil {
		return nil, err
	}

	filled := Normalize(&props, cfg.Defaults, time.Now().UTC())
	if len(filled) > 0 {
		rep.Actionf("filled blank fields: %s", strings.Join(filled, ", "))
	}
	if err := writeCorePart(tree, props); err != nil {
		return nil, err
	}
	rep.Actionf("rewrote core properties")

	for _, st := range docx.CheckParts(tree, docx.StructuralParts) {
		switch {
		case !st.Present:
			rep.Actionf("%s not present, skipping check", st.Part)
		case st.Err != nil:
			rep.Actionf("%s is malformed (%v), relying on round-trip", st.Part, st.Err)
		default:
			rep.Actionf("%s is well-formed", st.Part)
		}
	}

	moved, err := docx.RemoveCustomXML(tree)
	if err != nil {
		return nil, err
	}
	if moved {
		rep.Actionf("moved customXml aside")
	}

	sanitized := filepath.Join(scratch, "sanitized.docx")
	if err := docx.Archive(tree, sanitized); err != nil {
		return nil, err
	}

	md := filepath.Join(scratch, "intermediate.md")
	rebuilt := filepath.Join(scratch, "rebuilt.docx")
	if err := convert.Roundtrip(conv, sanitized, md, rebuilt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}
	rep.Actionf("round-tripped through markdown intermediate")

	if cfg.KeepIntermediate {
		kept := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".md"
		if err := copyFile(md, kept); err != nil {
			return nil, fmt.Errorf("%w: keeping intermediate: %v", ErrWriteFailed, err)
		}
		rep.Actionf("kept markdown intermediate at %s", kept)
	}

	// The markup round-trip discards package metadata.
	if err := docx.SetCoreProperties(rebuilt, props); err != nil {
		return nil, err
	}
	rep.Actionf("re-applied normalized metadata to rebuilt package")

	text, err := docx.Validate(rebuilt)
	if err != nil {
		return nil, fmt.Errorf("%w: rebuilt package failed validation: %v", ErrConversionFailed, err)
	}
	rep.Actionf("validated rebuilt package (%d characters of text)", len(text))

	if err := writeOutput(rebuilt, outputPath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	rep.Actionf("wrote repaired document to %s", outputPath)

	doc := &types.Document{
		Path:         inputPath,
		OutputPath:   outputPath,
		Author:       props.Author,
		Title:        props.Title,
		Subject:      props.Subject,
		Keywords:     props.Keywords,
		Modified:     props.Modified,
		RepairStatus: types.RepairDone,
	}

	if err := writeSidecar(doc, outputPath+".yaml"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	rep.Actionf("wrote metadata sidecar")

	return doc, nil
}

// RepairBatch processes multiple inputs, printing per-file status and
// returning a summary. Inputs whose default output already exists are
// skipped; the batch continues after individual failures.
func RepairBatch(conv convert.Converter, inputs []string, cfg types.RepairConfig, w io.Writer) BatchResult {
	var result BatchResult
	for _, in := range inputs {
		out := OutputPath(in)
		if _, err := os.Stat(out); err == nil {
			fmt.Fprintf(w, "skipped: %s (already repaired)\n", filepath.Base(in))
			result.Skipped++
			continue
		}

		fmt.Fprintf(w, "repairing: %s\n", filepath.Base(in))
		doc, _, err := RepairFile(conv, in, out, cfg, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", filepath.Base(in), err)
			result.Failed++
			result.Documents = append(result.Documents, &types.Document{
				Path:         in,
				RepairStatus: types.RepairFailed,
			})
			continue
		}
		fmt.Fprintf(w, "repaired: %s -> %s\n", filepath.Base(in), out)
		result.Repaired++
		result.Documents = append(result.Documents, doc)
	}
	fmt.Fprintf(w, "\nBatch summary: %d repaired, %d skipped, %d failed (total: %d)\n",
		result.Repaired, result.Skipped, result.Failed, result.Total())
	return result
}

// loadCoreProperties reads the core part from the extracted tree. A missing
// or unparseable part yields zero properties so normalization rebuilds a
// minimal one, as the original package metadata is unrecoverable anyway.
func loadCoreProperties(tree string, rep *Report) (docx.CoreProperties, error) {
	corePath := filepath.Join(tree, filepath.FromSlash(docx.CorePropsPath))
	data, err := os.ReadFile(corePath)
	if err != nil {
		if os.IsNotExist(err) {
			rep.Actionf("no core properties part, rebuilding a minimal one")
			return docx.CoreProperties{}, nil
		}
		return docx.CoreProperties{}, fmt.Errorf("reading %s: %w", corePath, err)
	}

	props, err := docx.ParseCoreProperties(data)
	if err != nil {
		rep.Actionf("core properties unparseable (%v), rebuilding a minimal part", err)
		return docx.CoreProperties{}, nil
	}
	return props, nil
}

func writeCorePart(tree string, props docx.CoreProperties) error {
	corePath := filepath.Join(tree, filepath.FromSlash(docx.CorePropsPath))
	if err := os.MkdirAll(filepath.Dir(corePath), 0o755); err != nil {
		return fmt.Errorf("creating core properties directory: %w", err)
	}
	if err := os.WriteFile(corePath, props.Render(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", corePath, err)
	}
	return nil
}

// backupFile copies the input to a timestamped sibling before any repair.
func backupFile(inputPath string) (string, error) {
	dst := inputPath + ".backup." + time.Now().UTC().Format("20060102150405")
	if err := copyFile(inputPath, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// writeOutput copies the rebuilt package to destPath using a temporary file
// and rename, so a failure never leaves a partial output behind.
func writeOutput(srcPath, destPath string) error {
	in, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", srcPath, err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".docmend-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, copyErr := io.Copy(tmp, in)
	closeErr := tmp.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing output: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// writeSidecar saves the final document record as YAML next to the output.
func writeSidecar(doc *types.Document, path string) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding metadata sidecar: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing metadata sidecar %s: %w", path, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}

	_, copyErr := io.Copy(out, in)
	closeErr := out.Close()
	if copyErr != nil {
		os.Remove(dst)
		return fmt.Errorf("copying to %s: %w", dst, copyErr)
	}
	if closeErr != nil {
		os.Remove(dst)
		return fmt.Errorf("closing %s: %w", dst, closeErr)
	}
	return nil
}
