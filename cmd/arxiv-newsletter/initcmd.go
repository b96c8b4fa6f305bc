// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shivankhullar/personal-arXiv-newsletter/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config.yaml",
	Long: `Init writes a starter configuration file with placeholder authors,
categories, and keywords. Settings left out of the file keep their
built-in defaults.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = "config.yaml"
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s. Edit it, then run \"arxiv-newsletter generate\".\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
