// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads the newsletter configuration from YAML with
// defaults and environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/shivankhullar/personal-arXiv-newsletter/pkg/types"
)

const envPrefix = "ARXIV_NEWSLETTER"

// Load reads the configuration from cfgFile, or from the default search
// path (./config.yaml, then ~/.config/arxiv-newsletter/config.yaml) when
// cfgFile is empty. A missing file is not an error: defaults plus any
// ARXIV_NEWSLETTER_* environment overrides still yield a valid run.
// Returns the loaded configuration and the path of the file used, if any.
func Load(cfgFile string) (*types.Config, string, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "arxiv-newsletter"))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case cfgFile != "":
			// An explicitly named file must exist and parse.
			return nil, "", fmt.Errorf("reading config file %s: %w", cfgFile, err)
		case errors.As(err, &notFound):
			// No file anywhere on the search path: defaults only.
		default:
			return nil, "", fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, v.ConfigFileUsed(), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("days_back", 7)
	v.SetDefault("max_papers", 20)
	v.SetDefault("min_similarity_score", 0.3)
	v.SetDefault("selection_mode", string(types.ModeThreshold))

	v.SetDefault("output.directory", "newsletters")
	v.SetDefault("output.filename", "arxiv_newsletter_{date}.md")
	v.SetDefault("output.include_abstracts", true)
	v.SetDefault("output.full_abstracts", false)
	v.SetDefault("output.include_links", true)
	v.SetDefault("output.include_ads_links", true)
	v.SetDefault("output.group_by_category", true)
	v.SetDefault("output.latex_style", false)

	v.SetDefault("advanced.use_semantic_similarity", true)
	v.SetDefault("advanced.reference_papers_limit", 50)
	v.SetDefault("advanced.author_weight", 0.6)
	v.SetDefault("advanced.max_vocabulary", 1000)

	v.SetDefault("exclusions.max_authors", 0)
	v.SetDefault("exclusions.min_authors", 0)

	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("http.user_agent", "arxiv-newsletter/1.0")
}

// Default returns the built-in configuration defaults.
func Default() *types.Config {
	v := viper.New()
	setDefaults(v)

	var cfg types.Config
	v.Unmarshal(&cfg)
	return &cfg
}

// WriteDefault writes a starter config file at path with placeholder
// entries for the fields users always edit. Keys left out of the file keep
// their built-in defaults at load time. Refuses to overwrite an existing
// file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	defaults := Default()
	starter := struct {
		Authors            []string              `yaml:"authors"`
		Categories         []string              `yaml:"categories"`
		Keywords           []string              `yaml:"keywords"`
		DaysBack           int                   `yaml:"days_back"`
		MaxPapers          int                   `yaml:"max_papers"`
		MinSimilarityScore float64               `yaml:"min_similarity_score"`
		SelectionMode      types.SelectionMode   `yaml:"selection_mode"`
		Exclusions         types.ExclusionConfig `yaml:"exclusions"`
	}{
		Authors:            []string{"Jane Smith", "J. Doe"},
		Categories:         []string{"astro-ph.GA", "astro-ph.CO"},
		Keywords:           []string{"galaxy formation", "dark matter"},
		DaysBack:           defaults.DaysBack,
		MaxPapers:          defaults.MaxPapers,
		MinSimilarityScore: defaults.MinSimilarityScore,
		SelectionMode:      defaults.SelectionMode,
		Exclusions: types.ExclusionConfig{
			MaxAuthors:        20,
			ExcludeKeywords:   []string{},
			ExcludeCategories: []string{},
		},
	}

	data, err := yaml.Marshal(starter)
	if err != nil {
		return fmt.Errorf("marshalling default config: %w", err)
	}

	header := []byte("# arxiv-newsletter configuration. Edit the lists below to your interests.\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
