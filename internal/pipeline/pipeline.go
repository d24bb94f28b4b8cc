package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/avetrov/crosswalk/internal/cache"
	"github.com/avetrov/crosswalk/internal/evidence"
	"github.com/avetrov/crosswalk/internal/extract"
	"github.com/avetrov/crosswalk/internal/graph"
	"github.com/avetrov/crosswalk/internal/llm"
	"github.com/avetrov/crosswalk/internal/model"
	"github.com/avetrov/crosswalk/internal/report"
	"github.com/avetrov/crosswalk/internal/score"
	"github.com/avetrov/crosswalk/internal/util"
	"github.com/avetrov/crosswalk/internal/worker"
)

// Pipeline orchestrates evidence analysis: extract text, map it against the
// standards graph, score readiness, and render the report
type Pipeline struct {
	service    *graph.Service
	mapper     *evidence.Mapper
	scorer     *score.Scorer
	renderer   *report.Renderer
	registry   *extract.Registry
	fetcher    *Fetcher
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
	fetchCache cache.Cache     // nil when caching is disabled
	summarizer *llm.Summarizer // Optional LLM narrator (nil if disabled)
	config     *model.Config
}

// NewPipeline creates a pipeline over an already-loaded graph service
func NewPipeline(cfg *model.Config, service *graph.Service) *Pipeline {
	// Create LLM summarizer if configured
	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		llmConfig := llm.ConfigFromModel(cfg.LLM)
		llm.LoadConfigFromEnv(&llmConfig)
		s, err := llm.NewSummarizer(llmConfig)
		if err != nil {
			fmt.Printf("Warning: Failed to initialize LLM provider: %v\n", err)
		} else {
			summarizer = s
		}
	}

	var fetchCache cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			fetchCache = cache.NewLayered(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		} else {
			fetchCache = cache.NewMemory(cfg.Cache.MemoryTTL)
		}
	}

	return &Pipeline{
		service:    service,
		mapper:     evidence.NewMapperWithOptions(cfg.Evidence.MaxSpans, cfg.Evidence.SpanContext),
		scorer:     score.NewScorer(),
		renderer:   report.NewRenderer(cfg.Output.IncludeFooter),
		registry:   extract.NewRegistry(),
		fetcher:    NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes, cfg.HTTP.InsecureTLS, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy),
		robots:     util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout),
		limiter:    worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize),
		fetchCache: fetchCache,
		summarizer: summarizer,
		config:     cfg,
	}
}

// AnalyzeText scores free-form evidence text against the target accreditor
// (empty code = whole corpus) and builds the report
func (p *Pipeline) AnalyzeText(ctx context.Context, text, subject, accreditor string) (*model.Report, error) {
	return p.analyze(ctx, text, report.Source{
		Subject:    subject,
		Accreditor: accreditor,
	})
}

// AnalyzeFile reads, extracts, and scores a local evidence document
func (p *Pipeline) AnalyzeFile(ctx context.Context, path, accreditor string) (*model.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read evidence: %w", err)
	}

	text, err := p.registry.Extract(data, path, "")
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}

	return p.analyze(ctx, text, report.Source{
		Subject:    model.SubjectFromPath(path),
		Accreditor: accreditor,
		Path:       path,
	})
}

// AnalyzeURL fetches, extracts, and scores a URL-sourced evidence document.
// Robots rules, per-domain rate limits, and the fetch cache apply on this
// path so a cache hit costs no network traffic.
func (p *Pipeline) AnalyzeURL(ctx context.Context, rawURL, accreditor string) (*model.Report, error) {
	result, err := p.fetchDocument(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	text, err := p.registry.Extract([]byte(result.Body), result.FinalURL, result.Meta.ContentType)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}

	return p.analyze(ctx, text, report.Source{
		Subject:    result.Subject,
		Accreditor: accreditor,
		URL:        result.FinalURL,
		FetchMeta:  &result.Meta,
	})
}

// analyze runs mapping, scoring, and the optional narrative for one document
func (p *Pipeline) analyze(ctx context.Context, text string, src report.Source) (*model.Report, error) {
	g := p.service.Graph()

	standards := standardsFor(g, src.Accreditor)
	if src.Accreditor != "" && len(standards) == 0 {
		return nil, fmt.Errorf("unknown accreditor: %s (loaded: %s)", src.Accreditor, strings.Join(g.Accreditors(), ", "))
	}

	mappings := p.mapper.Map(g, text, src.Accreditor)
	sc := p.scorer.Calculate(standards, mappings)

	rep := report.Build(src, mappings, sc)

	// Generate LLM narrative if enabled (AFTER scoring, never affects score)
	if p.summarizer != nil && p.summarizer.IsEnabled() {
		summary, err := p.summarizer.GenerateNarrative(ctx, *rep)
		if err != nil {
			// Don't fail the analysis, just warn
			fmt.Printf("Warning: LLM narrative generation failed: %v\n", err)
		} else if summary != nil {
			rep.LLM = summary
		}
	}

	return rep, nil
}

// fetchDocument fetches a URL through the cache, robots gate, and limiter
func (p *Pipeline) fetchDocument(ctx context.Context, rawURL string) (*FetchResult, error) {
	key := cache.Key("fetch", rawURL)
	if p.fetchCache != nil {
		if data, ok := p.fetchCache.Get(key); ok {
			var cached FetchResult
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	var crawlDelay time.Duration
	if p.config.HTTP.RespectRobots {
		allowed, delay, err := p.robots.CanFetch(ctx, rawURL)
		if err == nil && !allowed {
			return nil, fmt.Errorf("blocked by robots.txt: %s", rawURL)
		}
		crawlDelay = delay
	}

	if err := p.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	result, err := p.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if p.fetchCache != nil {
		if data, err := json.Marshal(result); err == nil {
			_ = p.fetchCache.Set(key, data, 0)
		}
	}

	return result, nil
}

// standardsFor returns the standards evidence is scored against: one
// accreditor's, or the whole corpus in load order
func standardsFor(g *graph.Graph, accreditor string) []model.Standard {
	if accreditor != "" {
		return g.AccreditorStandards(accreditor)
	}
	var all []model.Standard
	for _, code := range g.Accreditors() {
		all = append(all, g.AccreditorStandards(code)...)
	}
	return all
}

// RenderReport renders the report to the requested outputs and prints the
// summary block
func (p *Pipeline) RenderReport(rep *model.Report, jsonPath string, mdPath string, verbose bool) error {
	// Render JSON
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(rep, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	// Render Markdown
	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(rep, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	// Render LLM narrative to a separate file if present
	if rep.LLM != nil && rep.LLM.Enabled && mdPath != "" {
		llmMdPath := strings.TrimSuffix(mdPath, ".md") + ".llm.md"
		llmMarkdown := llm.RenderSeparateMarkdown(rep.LLM)
		if err := p.renderer.RenderLLMMarkdown(llmMarkdown, llmMdPath); err != nil {
			fmt.Printf("Warning: Failed to write LLM narrative: %v\n", err)
		} else if verbose {
			fmt.Printf("✓ Wrote LLM narrative: %s\n", llmMdPath)
		}
	}

	// Print summary to stdout
	p.renderer.RenderSummary(rep)

	return nil
}

// DocumentAnalyzer binds a pipeline to a target accreditor so batch workers
// can analyze a mixed list of paths and URLs
type DocumentAnalyzer struct {
	pipeline   *Pipeline
	accreditor string
}

// NewDocumentAnalyzer creates an analyzer for batch runs
func NewDocumentAnalyzer(p *Pipeline, accreditor string) *DocumentAnalyzer {
	return &DocumentAnalyzer{pipeline: p, accreditor: accreditor}
}

// Analyze dispatches a path or URL to the right pipeline entry point
func (a *DocumentAnalyzer) Analyze(ctx context.Context, path string) (*model.Report, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return a.pipeline.AnalyzeURL(ctx, path, a.accreditor)
	}
	return a.pipeline.AnalyzeFile(ctx, path, a.accreditor)
}
