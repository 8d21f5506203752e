package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docmend/internal/docx"
	"github.com/pdiddy/docmend/internal/repair"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <input.docx>",
	Short: "Print the package core properties of a DOCX file",
	Long: `Inspect reads docProps/core.xml from a DOCX package and prints the
metadata fields without modifying the file.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(inspectCmd)
}

// inspectOutput is the machine-readable shape of the core properties.
type inspectOutput struct {
	Path           string    `json:"path"`
	Title          string    `json:"title"`
	Author         string    `json:"author"`
	Subject        string    `json:"subject"`
	Keywords       string    `json:"keywords,omitempty"`
	LastModifiedBy string    `json:"last_modified_by,omitempty"`
	Created        time.Time `json:"created,omitempty"`
	Modified       time.Time `json:"modified,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", repair.ErrInputNotFound, path)
	}

	props, found, err := docx.ReadCoreProperties(path)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%s has no core properties part", path)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(inspectOutput{
			Path:           path,
			Title:          props.Title,
			Author:         props.Author,
			Subject:        props.Subject,
			Keywords:       props.Keywords,
			LastModifiedBy: props.LastModifiedBy,
			Created:        props.Created,
			Modified:       props.Modified,
		})
	}

	printField("Title", props.Title)
	printField("Author", props.Author)
	printField("Subject", props.Subject)
	printField("Keywords", props.Keywords)
	printField("Last modified by", props.LastModifiedBy)
	printTimeField("Created", props.Created)
	printTimeField("Modified", props.Modified)
	return nil
}

func printField(name, value string) {
	if value == "" {
		value = "(blank)"
	}
	fmt.Printf("%-18s %s\n", name+":", value)
}

func printTimeField(name string, t time.Time) {
	if t.IsZero() {
		fmt.Printf("%-18s (blank)\n", name+":")
		return
	}
	fmt.Printf("%-18s %s\n", name+":", t.UTC().Format(time.RFC3339))
}
