package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/avetrov/crosswalk/internal/pipeline"
	"github.com/avetrov/crosswalk/internal/report"
	"github.com/avetrov/crosswalk/internal/worker"
)

var (
	batchAccreditor string
	batchGlob       string
	concurrency     int
	outputDir       string
	batchTimeout    time.Duration
	// noCache, noFooter, userAgent, and the llm* flags are defined in map.go
	// and shared here
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir|list-file>",
	Short: "Map multiple evidence documents in parallel",
	Long: `Batch analyzes many evidence documents concurrently:
- Point it at a directory (documents discovered via --glob) or at a list
  file (one path or URL per line, # comments allowed)
- Documents are processed in parallel with a configurable worker count
- Each document gets its own JSON and Markdown report in the output dir

Example:
  crosswalk batch ./evidence --accreditor HLC
  crosswalk batch ./evidence --glob "**/*.{md,txt}" --concurrency 8
  crosswalk batch sources.txt --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Discovery flags
	batchCmd.Flags().StringVar(&batchAccreditor, "accreditor", "", "target accreditor code (default: whole corpus)")
	batchCmd.Flags().StringVar(&batchGlob, "glob", "**/*.{txt,md,markdown,html,htm}", "glob pattern for directory discovery")

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./crosswalk-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// Inherit flags from map command
	batchCmd.Flags().DurationVar(&timeout, "doc-timeout", 2*time.Minute, "timeout for individual documents")
	batchCmd.Flags().StringVar(&userAgent, "ua", "Crosswalk/0.1 (+https://github.com/avetrov/crosswalk)", "HTTP User-Agent")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// LLM flags
	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM narrative generation")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai or an openai-compatible endpoint)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	input := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.HTTP.Timeout = timeout
	cfg.HTTP.UserAgent = userAgent
	cfg.Cache.Enabled = cfg.Cache.Enabled && !noCache
	cfg.Concurrency.Workers = concurrency
	cfg.Output.IncludeFooter = !noFooter

	// Configure LLM if enabled
	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		cfg.LLM.StrictCitations = true // Always enforce

		if llmProvider == "openai" && cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		}
	}

	paths, err := collectSources(input, batchGlob)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no evidence documents found in %s", input)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Crosswalk Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input:        %s\n", input)
	fmt.Fprintf(os.Stderr, "  Documents:    %d\n", len(paths))
	fmt.Fprintf(os.Stderr, "  Accreditor:   %s\n", targetLabel(batchAccreditor))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	if llmEnabled {
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", llmProvider, llmModel)
	}
	fmt.Fprintf(os.Stderr, "\n")

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	service, err := newService(cfg)
	if err != nil {
		return err
	}

	p := pipeline.NewPipeline(cfg, service)
	analyzer := pipeline.NewDocumentAnalyzer(p, batchAccreditor)
	processor := worker.NewBatchProcessor(analyzer, concurrency)

	fmt.Fprintf(os.Stderr, "⚙️  Processing documents with %d workers...\n", concurrency)
	fmt.Fprintf(os.Stderr, "\n")

	// Results are rendered as they complete, not after the whole batch
	successCount := 0
	failureCount := 0
	renderer := report.NewRenderer(cfg.Output.IncludeFooter)

	total := processor.ProcessEach(ctx, paths, func(result *worker.AnalyzeResult) {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			return
		}

		successCount++

		// Generate output file names
		slug := sanitizeFilename(result.Report.Subject)
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		// Render report
		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Path, err)
			return
		}
		if err := renderer.RenderMarkdown(result.Report, mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.Path, err)
			return
		}

		fmt.Fprintf(os.Stderr, "✓ %s (readiness: %d/100)\n", result.Report.Subject, result.Report.Score.Index)
	})

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d documents\n", total)
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if ctx.Err() != nil && total < len(paths) {
		return fmt.Errorf("batch timed out: %d of %d documents processed", total, len(paths))
	}

	return nil
}

// collectSources resolves the batch input: a directory is globbed for
// evidence documents, anything else is read as a list file (one path or URL
// per line)
func collectSources(input, glob string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}

	if !info.IsDir() {
		paths, err := worker.ReadPathsFromFile(input)
		if err != nil {
			return nil, err
		}
		return paths, nil
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(input, glob))
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", glob, err)
	}

	var paths []string
	for _, match := range matches {
		fi, err := os.Stat(match)
		if err != nil || fi.IsDir() {
			continue
		}
		paths = append(paths, match)
	}
	sort.Strings(paths)
	return paths, nil
}

// sanitizeFilename converts a report subject into a safe file name
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(strings.TrimSpace(s))
	if s == "" {
		s = "report"
	}

	// Limit length
	if len(s) > 100 {
		s = s[:100]
	}

	return s
}
