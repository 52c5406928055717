package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds one run's settings: where the taste library lives,
// which schedule sources to scrape, and the festival's fixed timezone.
type Config struct {
	LibraryPath string
	Timezone    *time.Location

	ShowlistIndexURL string // fmt pattern with one %s for the shard letter
	FeedURL          string
	FeedCategory     string
	VenueLookupURL   string

	UserAgent string
}

type fileConfig struct {
	LibraryPath string `yaml:"library_db"`
	Timezone    string `yaml:"timezone"`
	Sources     struct {
		Showlist struct {
			IndexURL string `yaml:"index_url"`
		} `yaml:"showlist"`
		Feed struct {
			URL      string `yaml:"url"`
			Category string `yaml:"category"`
		} `yaml:"feed"`
	} `yaml:"sources"`
	VenueLookupURL string `yaml:"venue_lookup_url"`
	UserAgent      string `yaml:"user_agent"`
}

const (
	defaultTimezone     = "America/Chicago"
	defaultFeedCategory = "Music"
	defaultUserAgent    = "festcal/1.0"
)

// Load reads configuration from the yaml file and environment
// overrides. The festival timezone must resolve; source URLs may be
// empty, which disables that extractor.
func Load() (Config, error) {
	LoadDotEnv(".env")

	configPath := getEnv("FESTCAL_CONFIG", filepath.Join("config", "config.yaml"))
	fileCfg, err := loadFileConfig(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config load failed (%s): %w", configPath, err)
		}
		log.Printf("no config file at %s, using defaults and environment", configPath)
	}

	cfg := Config{
		LibraryPath:      firstNonEmpty(os.Getenv("FESTCAL_LIBRARY"), fileCfg.LibraryPath),
		ShowlistIndexURL: firstNonEmpty(os.Getenv("FESTCAL_SHOWLIST_URL"), fileCfg.Sources.Showlist.IndexURL),
		FeedURL:          firstNonEmpty(os.Getenv("FESTCAL_FEED_URL"), fileCfg.Sources.Feed.URL),
		FeedCategory:     firstNonEmpty(fileCfg.Sources.Feed.Category, defaultFeedCategory),
		VenueLookupURL:   firstNonEmpty(os.Getenv("FESTCAL_VENUE_URL"), fileCfg.VenueLookupURL),
		UserAgent:        firstNonEmpty(fileCfg.UserAgent, defaultUserAgent),
	}

	zoneName := firstNonEmpty(os.Getenv("FESTCAL_TZ"), fileCfg.Timezone, defaultTimezone)
	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		return Config{}, fmt.Errorf("bad timezone %q: %w", zoneName, err)
	}
	cfg.Timezone = loc

	if cfg.LibraryPath == "" {
		return Config{}, fmt.Errorf("no media library configured (library_db or FESTCAL_LIBRARY)")
	}
	return cfg, nil
}

func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
