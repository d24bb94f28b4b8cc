package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/avetrov/crosswalk/internal/match"
	"github.com/avetrov/crosswalk/internal/model"
	"github.com/avetrov/crosswalk/internal/validate"
)

var (
	matchThreshold float64
	matchTopK      int
	matchJSON      string
	matchMD        string
)

// matchCmd represents the match command
var matchCmd = &cobra.Command{
	Use:   "match <source> <target>",
	Short: "Find equivalent standards across two accreditors",
	Long: `Match scores every (source standard, target standard) pair by lexical
overlap and returns a ranked, threshold-filtered, top-k list of candidate
equivalences.

The threshold is deliberately permissive so near-miss matches surface for
human review. An unknown accreditor code yields an empty result, not an
error: corpora are added incrementally.

Example:
  crosswalk match HLC MSCHE
  crosswalk match HLC MSCHE --threshold 0.3 --top-k 5
  crosswalk match SACSCOC NECHE --json matches.json --md matches.md`,
	Args: cobra.ExactArgs(2),
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().Float64Var(&matchThreshold, "threshold", match.DefaultThreshold, "minimum score to keep (0.0-1.0)")
	matchCmd.Flags().IntVar(&matchTopK, "top-k", match.DefaultTopK, "maximum results returned")
	matchCmd.Flags().StringVar(&matchJSON, "json", "", "output JSON path (optional)")
	matchCmd.Flags().StringVar(&matchMD, "md", "", "output Markdown path (optional)")
}

func runMatch(cmd *cobra.Command, args []string) error {
	source, target := args[0], args[1]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Match.Threshold = matchThreshold
	}
	if cmd.Flags().Changed("top-k") {
		cfg.Match.TopK = matchTopK
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	service, err := newService(cfg)
	if err != nil {
		return err
	}

	// Comparing, say, an institutional accreditor against a programmatic one
	// is legal but the equivalences are usually spurious. Warn, don't block.
	classifier := validate.NewScopeClassifier(&cfg.Scope)
	if sig := classifier.CrossScopeSignal(source, target); sig != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s (%s is %s, %s is %s)\n",
			sig.Description, source, sig.Data["source_scope"], target, sig.Data["target_scope"])
	}

	for _, code := range []string{source, target} {
		if len(service.AccreditorStandards(code)) == 0 {
			fmt.Fprintf(os.Stderr, "Warning: no standards loaded for %q (loaded: %s)\n",
				code, strings.Join(service.Accreditors(), ", "))
		}
	}

	results := service.FindCrossAccreditorMatches(source, target, cfg.Match.Threshold, cfg.Match.TopK)

	fmt.Printf("Matches: %s → %s (threshold %.2f, top %d)\n\n", source, target, cfg.Match.Threshold, cfg.Match.TopK)
	if len(results) == 0 {
		fmt.Println("No matches at this threshold.")
	} else {
		fmt.Printf("%-6s %-40s %s\n", "SCORE", "SOURCE", "TARGET")
		for _, r := range results {
			fmt.Printf("%.2f   %-40s %s\n",
				r.Score,
				truncate(r.SourceID+" "+r.SourceTitle, 40),
				truncate(r.TargetID+" "+r.TargetTitle, 40))
		}
	}

	if matchJSON != "" {
		if err := writeMatchJSON(source, target, cfg, results, matchJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", matchJSON)
		}
	}
	if matchMD != "" {
		if err := writeMatchMarkdown(source, target, cfg, results, matchMD); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", matchMD)
		}
	}

	return nil
}

// matchDocument is the JSON artifact for one crosswalk query
type matchDocument struct {
	Source      string              `json:"source"`
	Target      string              `json:"target"`
	Threshold   float64             `json:"threshold"`
	TopK        int                 `json:"top_k"`
	GeneratedAt time.Time           `json:"generated_at"`
	Matches     []model.MatchResult `json:"matches"`
}

func writeMatchJSON(source, target string, cfg *model.Config, results []model.MatchResult, path string) error {
	doc := matchDocument{
		Source:      source,
		Target:      target,
		Threshold:   cfg.Match.Threshold,
		TopK:        cfg.Match.TopK,
		GeneratedAt: time.Now().UTC(),
		Matches:     results,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}

func writeMatchMarkdown(source, target string, cfg *model.Config, results []model.MatchResult, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Crosswalk: %s → %s\n\n", source, target)
	fmt.Fprintf(&b, "- **Threshold**: %.2f\n", cfg.Match.Threshold)
	fmt.Fprintf(&b, "- **Top-k**: %d\n", cfg.Match.TopK)
	fmt.Fprintf(&b, "- **Generated**: %s\n\n", time.Now().UTC().Format(time.RFC3339))

	if len(results) == 0 {
		b.WriteString("No matches at this threshold.\n")
		return os.WriteFile(path, []byte(b.String()), 0644)
	}

	b.WriteString("| Score | Source | Target |\n")
	b.WriteString("|-------|--------|--------|\n")
	for _, r := range results {
		fmt.Fprintf(&b, "| %.2f | %s: %s | %s: %s |\n",
			r.Score, r.SourceID, r.SourceTitle, r.TargetID, r.TargetTitle)
	}
	b.WriteString("\nScores are lexical term overlap in [0,1]; review each pair before relying on it.\n")

	return os.WriteFile(path, []byte(b.String()), 0644)
}
