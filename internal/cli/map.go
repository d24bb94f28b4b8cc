package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/avetrov/crosswalk/internal/model"
	"github.com/avetrov/crosswalk/internal/pipeline"
)

var (
	mapAccreditor string
	outJSON       string
	outMD         string
	timeout       time.Duration
	userAgent     string
	maxBytes      int64
	noCache       bool
	noFooter      bool
	insecureTLS   bool
	llmEnabled    bool
	llmProvider   string
	llmModel      string
)

// mapCmd represents the map command
var mapCmd = &cobra.Command{
	Use:   "map <file|url|->",
	Short: "Map an evidence document to the standards it addresses",
	Long: `Map extracts the text of an evidence document (local file, URL, or
stdin via "-"), scores every standard's indicator set against it, and
generates a gap-analysis report:

- Per-standard confidence in [0,1] with strong/partial/none tiers
- Rationale spans so a reviewer can verify matches without re-reading
- A transparent 0-100 readiness index with its full scoring breakdown

Example:
  crosswalk map self-study.md --accreditor HLC
  crosswalk map https://example.edu/assessment-report --accreditor MSCHE
  cat narrative.txt | crosswalk map - --json report.json --md report.md
  crosswalk map evidence.html --accreditor SACSCOC --llm --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runMap,
}

func init() {
	rootCmd.AddCommand(mapCmd)

	// Target flags
	mapCmd.Flags().StringVar(&mapAccreditor, "accreditor", "", "target accreditor code (default: whole corpus)")

	// Output flags
	mapCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	mapCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")

	// HTTP flags
	mapCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")
	mapCmd.Flags().StringVar(&userAgent, "ua", "Crosswalk/0.1 (+https://github.com/avetrov/crosswalk)", "HTTP User-Agent")
	mapCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read")
	mapCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	mapCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	mapCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")

	// LLM flags
	mapCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM narrative generation")
	mapCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai or an openai-compatible endpoint)")
	mapCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runMap(cmd *cobra.Command, args []string) error {
	source := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.HTTP.Timeout = timeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.InsecureTLS = insecureTLS
	cfg.Cache.Enabled = cfg.Cache.Enabled && !noCache
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

	if verbose {
		fmt.Fprintf(os.Stderr, "Mapping: %s\n", source)
		fmt.Fprintf(os.Stderr, "Accreditor: %s\n", targetLabel(mapAccreditor))
		fmt.Fprintf(os.Stderr, "Corpus: %s\n", cfg.Corpus.Dir)
		fmt.Fprintln(os.Stderr)
	}

	service, err := newService(cfg)
	if err != nil {
		return err
	}

	p := pipeline.NewPipeline(cfg, service)

	var rep *model.Report
	switch {
	case source == "-":
		text, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		rep, err = p.AnalyzeText(ctx, string(text), "stdin", mapAccreditor)
		if err != nil {
			return fmt.Errorf("map failed: %w", err)
		}
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		if verbose {
			fmt.Fprintf(os.Stderr, "⚙️  Fetching document...\n")
		}
		rep, err = p.AnalyzeURL(ctx, source, mapAccreditor)
		if err != nil {
			return fmt.Errorf("map failed: %w", err)
		}
	default:
		rep, err = p.AnalyzeFile(ctx, source, mapAccreditor)
		if err != nil {
			return fmt.Errorf("map failed: %w", err)
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Scored %d standards\n", len(rep.Mappings))
		fmt.Fprintf(os.Stderr, "✓ Calculated readiness index: %d/100\n", rep.Score.Index)
		if rep.LLM != nil && rep.LLM.Enabled {
			fmt.Fprintf(os.Stderr, "✓ Generated LLM narrative using %s/%s\n", rep.LLM.Provider, rep.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	// Render outputs
	if err := p.RenderReport(rep, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

func targetLabel(accreditor string) string {
	if accreditor == "" {
		return "entire corpus"
	}
	return accreditor
}
