// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shivankhullar/personal-arXiv-newsletter/internal/cache"
	"github.com/shivankhullar/personal-arXiv-newsletter/internal/config"
	"github.com/shivankhullar/personal-arXiv-newsletter/internal/fetch"
	"github.com/shivankhullar/personal-arXiv-newsletter/internal/rank"
	"github.com/shivankhullar/personal-arXiv-newsletter/internal/render"
	"github.com/shivankhullar/personal-arXiv-newsletter/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Fetch, rank, and render a newsletter",
	Long: `Generate runs the full newsletter pipeline: fetch recent papers for your
followed authors, categories, and keywords; filter and rank them against
your interests; and write the result to the output directory.

Fetched papers are cached. A repeat run with an unchanged configuration
within 24 hours reuses the cache instead of querying the arXiv API.
Use --from-cache to re-render the last ranked selection without fetching
or ranking at all.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Int("days", 0, "override days_back from the config")
	generateCmd.Flags().Int("max-papers", 0, "override max_papers from the config")
	generateCmd.Flags().String("output", "", "override the output directory")
	generateCmd.Flags().Bool("html", false, "also write an HTML preview next to the newsletter")
	generateCmd.Flags().Bool("no-similarity", false, "disable the semantic similarity signal")
	generateCmd.Flags().Bool("no-cache", false, "ignore cached papers and fetch fresh")
	generateCmd.Flags().Bool("from-cache", false, "re-render the last ranked selection without fetching")
	generateCmd.Flags().BoolP("verbose", "v", false, "list the top ranked papers on the terminal")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	cacheDir, _ := cmd.Flags().GetString("cache-dir")
	store, err := cache.Open(cacheDir)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()

	if fromCache, _ := cmd.Flags().GetBool("from-cache"); fromCache {
		ranked, err := store.LoadRanked(ctx)
		if err != nil {
			return err
		}
		if len(ranked) == 0 {
			return fmt.Errorf("no ranked papers in the cache: run generate without --from-cache first")
		}
		return writeNewsletter(cmd, ranked, cfg)
	}

	papers, reference, err := fetchPapers(ctx, cmd, cfg, store, out)
	if err != nil {
		return err
	}

	filter := rank.New(cfg)
	result := filter.FilterAndRank(papers, reference, out)

	if result.EmptyReason != rank.ReasonNone {
		printEmptyAdvice(cmd, result.EmptyReason)
		return nil
	}

	if err := store.SaveRanked(ctx, result.Papers); err != nil {
		fmt.Fprintf(out, "warning: caching ranked papers failed: %v\n", err)
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		printTopPapers(out, result.Papers)
	}

	if err := writeNewsletter(cmd, result.Papers, cfg); err != nil {
		return err
	}

	printStats(cmd, filter.Stats(result.Papers))
	return nil
}

// loadConfig reads the configuration and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*types.Config, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, used, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if used != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", used)
	}

	if days, _ := cmd.Flags().GetInt("days"); days > 0 {
		cfg.DaysBack = days
	}
	if maxPapers, _ := cmd.Flags().GetInt("max-papers"); maxPapers > 0 {
		cfg.MaxPapers = maxPapers
	}
	if outDir, _ := cmd.Flags().GetString("output"); outDir != "" {
		cfg.Output.Directory = outDir
	}
	if noSim, _ := cmd.Flags().GetBool("no-similarity"); noSim {
		cfg.Advanced.UseSemanticSimilarity = false
	}

	if len(cfg.Authors) == 0 && len(cfg.Categories) == 0 && len(cfg.Keywords) == 0 {
		return nil, fmt.Errorf("nothing to fetch: configure at least one author, category, or keyword")
	}
	return cfg, nil
}

// fetchPapers returns candidates and reference papers, from the cache when
// it is still valid for this configuration and fresh from the API otherwise.
func fetchPapers(ctx context.Context, cmd *cobra.Command, cfg *types.Config, store *cache.Store, out io.Writer) ([]types.Paper, []types.Paper, error) {
	noCache, _ := cmd.Flags().GetBool("no-cache")

	if !noCache && store.Valid(ctx, cfg, 0) {
		papers, err := store.LoadPapers(ctx, cache.KindCandidates)
		if err == nil && len(papers) > 0 {
			reference, _ := store.LoadPapers(ctx, cache.KindReference)
			fmt.Fprintf(out, "Using %d cached papers\n", len(papers))
			return papers, reference, nil
		}
	}

	client := fetch.New(cfg.HTTP)
	papers, err := client.All(ctx, cfg, out)
	if err != nil {
		return nil, nil, err
	}

	var reference []types.Paper
	if cfg.Advanced.UseSemanticSimilarity {
		reference = client.ReferencePapers(ctx, cfg.Authors, cfg.Advanced.ReferencePapersLimit, out)
	}

	if err := store.SavePapers(ctx, cache.KindCandidates, papers); err != nil {
		fmt.Fprintf(out, "warning: caching papers failed: %v\n", err)
	} else {
		if err := store.SavePapers(ctx, cache.KindReference, reference); err != nil {
			fmt.Fprintf(out, "warning: caching reference papers failed: %v\n", err)
		}
		if err := store.MarkSaved(ctx, cfg); err != nil {
			fmt.Fprintf(out, "warning: stamping cache failed: %v\n", err)
		}
	}
	return papers, reference, nil
}

func writeNewsletter(cmd *cobra.Command, papers []types.RankedPaper, cfg *types.Config) error {
	now := time.Now()

	path, err := render.WriteFile(papers, cfg, now)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Newsletter written to %s\n", path)

	if html, _ := cmd.Flags().GetBool("html"); html {
		htmlPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".html"
		f, err := os.Create(htmlPath)
		if err != nil {
			return fmt.Errorf("creating HTML preview: %w", err)
		}
		defer f.Close()
		if err := render.HTML(f, papers, cfg, now); err != nil {
			return fmt.Errorf("writing HTML preview: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "HTML preview written to %s\n", htmlPath)
	}
	return nil
}

// printEmptyAdvice explains an empty result and suggests the config change
// most likely to fix it.
func printEmptyAdvice(cmd *cobra.Command, reason rank.EmptyReason) {
	out := cmd.OutOrStdout()
	switch reason {
	case rank.ReasonNoCandidates:
		fmt.Fprintln(out, "No papers found. Try increasing days_back or adding categories.")
	case rank.ReasonAllExcluded:
		fmt.Fprintln(out, "Every fetched paper was excluded. Relax the exclusion rules (max_authors, exclude_keywords, exclude_categories).")
	case rank.ReasonNoneSelected:
		fmt.Fprintln(out, "No papers scored above the threshold. Lower min_similarity_score or switch selection_mode to \"fill\".")
	}
}

// printTopPapers lists the leading ranked papers on the terminal.
func printTopPapers(out io.Writer, papers []types.RankedPaper) {
	const top = 5
	fmt.Fprintln(out, "\nTop papers:")
	for i, p := range papers {
		if i == top {
			break
		}
		fmt.Fprintf(out, "%d. [%.2f] %s\n", i+1, p.Score, p.Title)
		if p.MatchReason != "" {
			fmt.Fprintf(out, "   %s\n", p.MatchReason)
		}
	}
}

func printStats(cmd *cobra.Command, stats rank.Statistics) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%d papers, average score %.2f\n", stats.Total, stats.AvgScore)

	if len(stats.Categories) > 0 {
		keys := make([]string, 0, len(stats.Categories))
		for k := range stats.Categories {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %d", k, stats.Categories[k]))
		}
		fmt.Fprintf(out, "Categories: %s\n", strings.Join(parts, ", "))
	}

	for author, count := range stats.Authors {
		fmt.Fprintf(out, "Followed author %s: %d paper(s)\n", author, count)
	}
}
