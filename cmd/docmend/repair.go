package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docmend/internal/convert"
	"github.com/pdiddy/docmend/internal/history"
	"github.com/pdiddy/docmend/internal/repair"
	"github.com/pdiddy/docmend/internal/tool"
	"github.com/pdiddy/docmend/pkg/types"
)

const (
	defaultAuthor  = "AutoRepair"
	defaultTitle   = "Repaired Document"
	defaultSubject = "Document repair"
)

var repairCmd = &cobra.Command{
	Use:   "repair <input.docx> [more.docx...]",
	Short: "Repair DOCX files and normalize their metadata",
	Long: `Repair backs up each input, normalizes blank metadata fields, sanitizes
the structural XML, and rebuilds the document through a Markdown round-trip
with pandoc. The repaired file is written next to the input unless --output
is given. Each run writes a JSON repair report and a YAML metadata sidecar.`,
	RunE: runRepair,
}

func init() {
	repairCmd.Flags().StringP("output", "o", "", "destination path (single input only)")
	repairCmd.Flags().String("author", "", "replacement for a blank author field")
	repairCmd.Flags().String("title", "", "replacement for a blank title field")
	repairCmd.Flags().String("subject", "", "replacement for a blank subject field")
	repairCmd.Flags().String("work-dir", "", "base directory for scratch space (default: system temp)")
	repairCmd.Flags().String("image", "", "container image used when pandoc is not on PATH")
	repairCmd.Flags().Bool("keep-intermediate", false, "retain the Markdown intermediate next to the output")
	repairCmd.Flags().Bool("no-backup", false, "skip the timestamped backup copy")
	repairCmd.Flags().Bool("no-history", false, "skip recording the run in the history database")
	repairCmd.Flags().BoolP("quiet", "q", false, "suppress per-stage status output")

	rootCmd.AddCommand(repairCmd)
}

func runRepair(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more DOCX files to repair")
	}

	output, _ := cmd.Flags().GetString("output")
	if output != "" && len(args) > 1 {
		return fmt.Errorf("--output is only valid with a single input")
	}

	cfg := repairConfigFromFlags(cmd)

	image, _ := cmd.Flags().GetString("image")
	if image == "" {
		image = viper.GetString("converter.image")
	}
	t, err := tool.Detect(image)
	if err != nil {
		return fmt.Errorf("%w: %v", repair.ErrConversionFailed, err)
	}
	conv := convert.NewPandocConverter(t)

	var w io.Writer = os.Stdout
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		w = io.Discard
	}

	noHistory, _ := cmd.Flags().GetBool("no-history")

	if len(args) == 1 {
		doc, _, err := repair.RepairFile(conv, args[0], output, cfg, w)
		if doc == nil {
			doc = &types.Document{Path: args[0], RepairStatus: types.RepairFailed}
		}
		if !noHistory {
			recordRuns([]*types.Document{doc})
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Repaired %s -> %s\n", args[0], doc.OutputPath)
		return nil
	}

	result := repair.RepairBatch(conv, args, cfg, w)
	if !noHistory {
		recordRuns(result.Documents)
	}
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed repair", result.Failed)
	}
	return nil
}

// repairConfigFromFlags resolves the repair settings: flag, then config
// file, then built-in default.
func repairConfigFromFlags(cmd *cobra.Command) types.RepairConfig {
	author, _ := cmd.Flags().GetString("author")
	if author == "" {
		author = viper.GetString("repair.defaults.author")
	}
	if author == "" {
		author = defaultAuthor
	}
	title, _ := cmd.Flags().GetString("title")
	if title == "" {
		title = viper.GetString("repair.defaults.title")
	}
	if title == "" {
		title = defaultTitle
	}
	subject, _ := cmd.Flags().GetString("subject")
	if subject == "" {
		subject = viper.GetString("repair.defaults.subject")
	}
	if subject == "" {
		subject = defaultSubject
	}

	workDir, _ := cmd.Flags().GetString("work-dir")
	if workDir == "" {
		workDir = viper.GetString("repair.work_dir")
	}
	keep, _ := cmd.Flags().GetBool("keep-intermediate")
	noBackup, _ := cmd.Flags().GetBool("no-backup")

	return types.RepairConfig{
		Defaults: types.MetadataDefaults{
			Author:  author,
			Title:   title,
			Subject: subject,
		},
		WorkDir:          workDir,
		Backup:           !noBackup,
		KeepIntermediate: keep,
	}
}

// recordRuns appends the documents to the history database. History
// problems never fail a repair; they only warn.
func recordRuns(docs []*types.Document) {
	store, err := history.NewStore(historyConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: history unavailable: %v\n", err)
		return
	}
	defer store.Close()

	for _, doc := range docs {
		if _, err := store.Record(context.Background(), doc); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}
}

func historyConfig() types.HistoryConfig {
	dir := viper.GetString("history.history_dir")
	if dir == "" {
		dir = ".docmend"
	}
	return types.HistoryConfig{
		HistoryDir: dir,
		MaxResults: viper.GetInt("history.max_results"),
	}
}
