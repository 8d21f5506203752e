// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package repair

import (
	"strings"
	"time"

	"github.com/pdiddy/docmend/internal/docx"
	"github.com/pdiddy/docmend/pkg/types"
)

// toolName is recorded as the last modifier of repaired packages.
const toolName = "docmend"

// Normalize fills blank author, title, and subject fields with the
// configured defaults and stamps the modification metadata. It returns the
// names of the fields that were filled. Normalizing already-normalized
// properties fills nothing.
func Normalize(props *docx.CoreProperties, defaults types.MetadataDefaults, now time.Time) []string {
	var filled []string

	if strings.TrimSpace(props.Author) == "" {
		props.Author = defaults.Author
		filled = append(filled, "author")
	}
	if strings.TrimSpace(props.Title) == "" {
		props.Title = defaults.Title
		filled = append(filled, "title")
	}
	if strings.TrimSpace(props.Subject) == "" {
		props.Subject = defaults.Subject
		filled = append(filled, "subject")
	}

	props.LastModifiedBy = toolName
	if props.Created.IsZero() {
		props.Created = now
	}
	props.Modified = now

	return filled
}
