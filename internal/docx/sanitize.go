// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// StructuralParts lists the archive paths checked for well-formedness
// before the converter round-trip.
var StructuralParts = []string{
	"word/document.xml",
	"word/styles.xml",
	"word/_rels/document.xml.rels",
}

// PartStatus reports the well-formedness check for one XML part.
type PartStatus struct {
	// Part is the archive-relative path of the part.
	Part string

	// Present reports whether the part exists in the extracted tree.
	Present bool

	// Err is the parse error for a malformed part, nil when well-formed.
	Err error
}

// CheckParts inspects the named XML parts under the extracted tree at dir
// and returns one status per part.
func CheckParts(dir string, parts []string) []PartStatus {
	statuses := make([]PartStatus, 0, len(parts))
	for _, rel := range parts {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		data, err := os.ReadFile(path)
		if err != nil {
			statuses = append(statuses, PartStatus{Part: rel})
			continue
		}
		statuses = append(statuses, PartStatus{
			Part:    rel,
			Present: true,
			Err:     checkWellFormed(data),
		})
	}
	return statuses
}

// checkWellFormed walks the XML token stream and returns the first error.
func checkWellFormed(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// customXMLDir is the package directory some producers fill with custom
// schema parts that certain Word versions refuse to open.
const customXMLDir = "customXml"

// RemoveCustomXML moves the customXml/ directory aside inside the extracted
// tree so the rebuilt package omits it. It returns whether anything moved.
func RemoveCustomXML(dir string) (bool, error) {
	src := filepath.Join(dir, customXMLDir)
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking %s: %w", src, err)
	}
	dst := filepath.Join(dir, customXMLDir+".removed")
	if err := os.Rename(src, dst); err != nil {
		return false, fmt.Errorf("moving %s aside: %w", customXMLDir, err)
	}
	return true, nil
}
