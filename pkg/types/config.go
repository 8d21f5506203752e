// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// MetadataDefaults holds the values used to fill blank core properties.
type MetadataDefaults struct {
	// Author replaces a blank dc:creator field.
	Author string `json:"author" yaml:"author"`

	// Title replaces a blank dc:title field.
	Title string `json:"title" yaml:"title"`

	// Subject replaces a blank dc:subject field.
	Subject string `json:"subject" yaml:"subject"`
}

// RepairConfig holds settings for the repair stage.
type RepairConfig struct {
	// Defaults supplies replacement values for blank metadata fields.
	Defaults MetadataDefaults `json:"defaults" yaml:"defaults"`

	// WorkDir is the base directory for scratch space. Empty means the
	// system temp directory.
	WorkDir string `json:"work_dir,omitempty" yaml:"work_dir,omitempty"`

	// Backup controls whether the original file is copied aside before repair.
	Backup bool `json:"backup" yaml:"backup"`

	// KeepIntermediate retains the Markdown intermediate next to the
	// output instead of discarding it with the scratch directory.
	KeepIntermediate bool `json:"keep_intermediate" yaml:"keep_intermediate"`
}

// ConverterBackend identifies the document conversion tool.
type ConverterBackend string

const (
	BackendPandoc ConverterBackend = "pandoc"
)

// ConverterConfig holds settings for the conversion stage.
type ConverterConfig struct {
	// Backend selects the conversion tool. Only pandoc is supported.
	Backend ConverterBackend `json:"backend" yaml:"backend"`

	// Image is the container image used when no local binary is found.
	Image string `json:"image,omitempty" yaml:"image,omitempty"`
}

// HistoryConfig holds settings for the repair history store.
type HistoryConfig struct {
	// HistoryDir is the directory holding the history database.
	HistoryDir string `json:"history_dir" yaml:"history_dir"`

	// MaxResults is the default maximum number of listed runs (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Repair    RepairConfig    `json:"repair" yaml:"repair"`
	Converter ConverterConfig `json:"converter" yaml:"converter"`
	History   HistoryConfig   `json:"history" yaml:"history"`
}
