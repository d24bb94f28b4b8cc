package model

import (
	"fmt"
	"runtime"
	"time"
)

// Config represents the complete crosswalk configuration
type Config struct {
	Corpus       CorpusConfig      `yaml:"corpus"`
	Match        MatchConfig       `yaml:"match"`
	Evidence     EvidenceConfig    `yaml:"evidence"`
	HTTP         HTTPConfig        `yaml:"http"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting"`
	Cache        CacheConfig       `yaml:"cache"`
	LLM          LLMConfig         `yaml:"llm"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency"`
	Scope        ScopeConfig       `yaml:"scope"`
	Output       OutputConfig      `yaml:"output"`
}

// CorpusConfig configures where standards definitions are loaded from
type CorpusConfig struct {
	Dir string `yaml:"dir"` // Directory of per-accreditor YAML files
}

// MatchConfig configures cross-accreditor matching
type MatchConfig struct {
	Threshold         float64 `yaml:"threshold"`          // Minimum similarity score to keep (0.0-1.0)
	TopK              int     `yaml:"top_k"`              // Max results returned per match query
	DescriptionWeight float64 `yaml:"description_weight"` // Weight of description overlap vs title overlap
}

// EvidenceConfig configures evidence-to-standard mapping
type EvidenceConfig struct {
	MaxSpans    int `yaml:"max_spans"`    // Rationale spans kept per mapping
	SpanContext int `yaml:"span_context"` // Characters of context around a matched indicator
}

// HTTPConfig configures URL-sourced evidence fetching
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes"`
	InsecureTLS   bool          `yaml:"insecure_tls"`
	HTTPProxy     string        `yaml:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy"`
	RespectRobots bool          `yaml:"respect_robots"`
}

// RateLimitConfig configures per-domain request rates for batch fetching
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size"`
}

// CacheConfig configures the fetch/match cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`        // Disk cache directory (default: ~/.crosswalk/cache)
	MemoryTTL time.Duration `yaml:"memory_ttl"` // TTL for the in-memory layer
	DiskTTL   time.Duration `yaml:"disk_ttl"`   // TTL for the disk layer
}

// LLMConfig configures the optional narrative generator
type LLMConfig struct {
	Provider        string        `yaml:"provider"` // Empty = disabled
	Model           string        `yaml:"model"`
	APIKey          string        `yaml:"-"` // Never persisted, comes from environment
	BaseURL         string        `yaml:"base_url"`
	Timeout         time.Duration `yaml:"timeout"`
	MaxTokens       int           `yaml:"max_tokens"`
	StrictCitations bool          `yaml:"strict_citations"` // Enforce standard-id allowlist in narratives
}

// ConcurrencyConfig configures worker counts
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"` // Batch document workers
}

// ScopeConfig overrides the built-in accreditor scope classification
type ScopeConfig struct {
	Overrides map[string]string `yaml:"overrides"` // Accreditor code -> institutional|programmatic|national
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"` // Method footer on Markdown reports
}

// DefaultConfig returns the standard crosswalk configuration
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Dir: "data/standards",
		},
		Match: MatchConfig{
			Threshold:         0.2,
			TopK:              10,
			DescriptionWeight: 0.3,
		},
		Evidence: EvidenceConfig{
			MaxSpans:    3,
			SpanContext: 60,
		},
		HTTP: HTTPConfig{
			Timeout:       2 * time.Minute,
			UserAgent:     "Crosswalk/0.1 (+https://github.com/avetrov/crosswalk)",
			MaxBodyBytes:  2_000_000,
			InsecureTLS:   false,
			RespectRobots: true,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2.0,
			BurstSize:         4,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "", // Resolved to ~/.crosswalk/cache at runtime
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		LLM: LLMConfig{
			Provider:        "", // Disabled unless requested
			Model:           "gpt-4o-mini",
			Timeout:         60 * time.Second,
			MaxTokens:       1500,
			StrictCitations: true,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		Scope: ScopeConfig{
			Overrides: nil,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Match.Threshold < 0 || c.Match.Threshold > 1 {
		return fmt.Errorf("match.threshold must be in [0,1], got %v", c.Match.Threshold)
	}
	if c.Match.TopK < 1 {
		return fmt.Errorf("match.top_k must be at least 1, got %d", c.Match.TopK)
	}
	if c.Match.DescriptionWeight < 0 || c.Match.DescriptionWeight > 1 {
		return fmt.Errorf("match.description_weight must be in [0,1], got %v", c.Match.DescriptionWeight)
	}
	if c.Evidence.MaxSpans < 1 {
		return fmt.Errorf("evidence.max_spans must be at least 1, got %d", c.Evidence.MaxSpans)
	}
	if c.Concurrency.Workers < 1 {
		return fmt.Errorf("concurrency.workers must be at least 1, got %d", c.Concurrency.Workers)
	}
	return nil
}
