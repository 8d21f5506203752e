// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RepairStatus indicates the outcome of a repair run for a document.
type RepairStatus string

const (
	RepairNone   RepairStatus = "none"
	RepairDone   RepairStatus = "repaired"
	RepairFailed RepairStatus = "failed"
)

// Document holds metadata and file paths for a processed document.
type Document struct {
	// Path is the local filesystem path to the source document.
	Path string `json:"path" yaml:"path"`

	// OutputPath is where the repaired document was written.
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`

	// Author is the document creator from the package core properties.
	Author string `json:"author" yaml:"author"`

	// Title is the document title.
	Title string `json:"title" yaml:"title"`

	// Subject is the document subject.
	Subject string `json:"subject" yaml:"subject"`

	// Keywords holds the package keyword string, if any.
	Keywords string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// Modified is the last-modified timestamp written to the output package.
	Modified time.Time `json:"modified" yaml:"modified"`

	// RepairStatus tracks whether the document has been repaired.
	RepairStatus RepairStatus `json:"repair_status" yaml:"repair_status"`
}
