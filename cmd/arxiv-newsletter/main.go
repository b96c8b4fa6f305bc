// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the arxiv-newsletter CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the arxiv-newsletter CLI.
var rootCmd = &cobra.Command{
	Use:   "arxiv-newsletter",
	Short: "Personalized arXiv paper newsletters",
	Long: `arxiv-newsletter fetches recent arXiv submissions matching your followed
authors, categories, and keywords, ranks them by relevance against your
reading interests, and renders the selection as a newsletter.

Configure authors, categories, and keywords in config.yaml, then run
"arxiv-newsletter generate". Fetched papers are cached for 24 hours so
repeated runs with the same configuration render without hitting the
arXiv API.`,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./config.yaml or ~/.config/arxiv-newsletter/config.yaml)")
	rootCmd.PersistentFlags().String("cache-dir", ".cache", "directory for the paper cache")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
