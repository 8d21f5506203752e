// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the docmend CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the docmend CLI.
var rootCmd = &cobra.Command{
	Use:   "docmend",
	Short: "Repair corrupted DOCX documents",
	Long: `docmend repairs metadata and formatting issues in DOCX documents. It
normalizes the package core properties (author, title, subject), sanitizes
the internal XML, and rebuilds the document structure by round-tripping the
file through Markdown with pandoc.

Use repair to fix documents, inspect to view package metadata, and history
to list past repair runs.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./docmend.yaml or ~/.config/docmend/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("docmend")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "docmend"))
		}
	}

	viper.SetEnvPrefix("DOCMEND")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
