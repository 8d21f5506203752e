// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CorePropsPath is the archive path of the package core properties part.
const CorePropsPath = "docProps/core.xml"

// CoreProperties holds the document metadata stored in docProps/core.xml.
type CoreProperties struct {
	Title          string
	Author         string // dc:creator
	Subject        string
	Keywords       string
	LastModifiedBy string
	Created        time.Time
	Modified       time.Time
}

// corePropsXML mirrors the element layout of core.xml for decoding. Field
// matching is by local name, so the namespace prefixes do not matter.
type corePropsXML struct {
	XMLName        xml.Name `xml:"coreProperties"`
	Title          string   `xml:"title"`
	Creator        string   `xml:"creator"`
	Subject        string   `xml:"subject"`
	Keywords       string   `xml:"keywords"`
	LastModifiedBy string   `xml:"lastModifiedBy"`
	Created        string   `xml:"created"`
	Modified       string   `xml:"modified"`
}

// ParseCoreProperties decodes a core.xml document into CoreProperties.
func ParseCoreProperties(data []byte) (CoreProperties, error) {
	var raw corePropsXML
	if err := xml.Unmarshal(data, &raw); err != nil {
		return CoreProperties{}, fmt.Errorf("parsing core properties: %w", err)
	}

	props := CoreProperties{
		Title:          strings.TrimSpace(raw.Title),
		Author:         strings.TrimSpace(raw.Creator),
		Subject:        strings.TrimSpace(raw.Subject),
		Keywords:       strings.TrimSpace(raw.Keywords),
		LastModifiedBy: strings.TrimSpace(raw.LastModifiedBy),
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw.Created)); err == nil {
		props.Created = t
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw.Modified)); err == nil {
		props.Modified = t
	}
	return props, nil
}

// Render serializes the properties as a well-formed core.xml document with
// full namespace declarations and W3CDTF timestamps.
func (p CoreProperties) Render() []byte {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"` + "\n")
	b.WriteString(` xmlns:dc="http://purl.org/dc/elements/1.1/"` + "\n")
	b.WriteString(` xmlns:dcterms="http://purl.org/dc/terms/"` + "\n")
	b.WriteString(` xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` + "\n")

	writeElem(&b, "dc:title", p.Title)
	writeElem(&b, "dc:creator", p.Author)
	writeElem(&b, "dc:subject", p.Subject)
	writeElem(&b, "cp:keywords", p.Keywords)
	writeElem(&b, "cp:lastModifiedBy", p.LastModifiedBy)
	writeTimeElem(&b, "dcterms:created", p.Created)
	writeTimeElem(&b, "dcterms:modified", p.Modified)

	b.WriteString("</cp:coreProperties>\n")
	return b.Bytes()
}

func writeElem(b *bytes.Buffer, tag, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "  <%s>", tag)
	xml.EscapeText(b, []byte(value))
	fmt.Fprintf(b, "</%s>\n", tag)
}

func writeTimeElem(b *bytes.Buffer, tag string, t time.Time) {
	if t.IsZero() {
		return
	}
	fmt.Fprintf(b, `  <%s xsi:type="dcterms:W3CDTF">%s</%s>`+"\n",
		tag, t.UTC().Format(time.RFC3339), tag)
}

// ReadCoreProperties reads the core properties directly from a DOCX package.
// The found return value is false when the package has no core part.
func ReadCoreProperties(docxPath string) (props CoreProperties, found bool, err error) {
	r, err := zip.OpenReader(docxPath)
	if err != nil {
		return CoreProperties{}, false, fmt.Errorf("opening %s as a zip package: %w", docxPath, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != CorePropsPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return CoreProperties{}, false, fmt.Errorf("opening %s: %w", CorePropsPath, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return CoreProperties{}, false, fmt.Errorf("reading %s: %w", CorePropsPath, err)
		}
		props, err = ParseCoreProperties(data)
		if err != nil {
			return CoreProperties{}, true, err
		}
		return props, true, nil
	}
	return CoreProperties{}, false, nil
}

// SetCoreProperties rewrites docProps/core.xml inside an existing DOCX
// package. The package is rebuilt into a temp file and renamed over the
// original so a failure never leaves a half-written package behind.
func SetCoreProperties(docxPath string, props CoreProperties) error {
	r, err := zip.OpenReader(docxPath)
	if err != nil {
		return fmt.Errorf("opening %s as a zip package: %w", docxPath, err)
	}
	defer r.Close()

	tmp, err := os.CreateTemp(filepath.Dir(docxPath), ".docmend-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	zw := zip.NewWriter(tmp)
	for _, f := range r.File {
		if f.Name == CorePropsPath {
			continue
		}
		if err := copyZipEntry(zw, f); err != nil {
			zw.Close()
			tmp.Close()
			os.Remove(tmpPath)
			return err
		}
	}

	w, err := zw.Create(CorePropsPath)
	if err == nil {
		_, err = w.Write(props.Render())
	}
	if err != nil {
		zw.Close()
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", CorePropsPath, err)
	}

	if err := zw.Close(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("finalizing package: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, docxPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func copyZipEntry(zw *zip.Writer, f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	w, err := zw.Create(f.Name)
	if err != nil {
		return fmt.Errorf("adding entry %s: %w", f.Name, err)
	}
	if _, err := io.Copy(w, rc); err != nil {
		return fmt.Errorf("copying entry %s: %w", f.Name, err)
	}
	return nil
}
