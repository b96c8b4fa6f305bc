// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shivankhullar/personal-arXiv-newsletter/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the paper cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cached paper counts and the last save time",
	RunE:  runCacheInfo,
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	store, err := openCache(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	info, err := store.Info(context.Background())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Cache:", info.Path)
	fmt.Fprintf(out, "  candidates: %d\n", info.Candidates)
	fmt.Fprintf(out, "  reference:  %d\n", info.Reference)
	fmt.Fprintf(out, "  ranked:     %d\n", info.Ranked)
	if info.SavedAt.IsZero() {
		fmt.Fprintln(out, "  saved:      never")
	} else {
		fmt.Fprintf(out, "  saved:      %s\n", info.SavedAt.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached papers",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCache(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Clear(context.Background()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
		return nil
	},
}

func openCache(cmd *cobra.Command) (*cache.Store, error) {
	dir, _ := cmd.Flags().GetString("cache-dir")
	return cache.Open(dir)
}

func init() {
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
