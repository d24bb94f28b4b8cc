package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avetrov/crosswalk/internal/graph"
	"github.com/avetrov/crosswalk/internal/model"
	"github.com/avetrov/crosswalk/internal/validate"
)

var showFull bool

// corpusCmd represents the corpus command
var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Inspect the loaded standards corpus",
	Long: `Inspect the standards corpus: list loaded accreditors, show one
accreditor's standard hierarchy, or lint the corpus for definitions that
will degrade matching quality.`,
}

var corpusListCmd = &cobra.Command{
	Use:   "list",
	Short: "List loaded accreditors and their standard counts",
	RunE:  runCorpusList,
}

var corpusShowCmd = &cobra.Command{
	Use:   "show <accreditor>",
	Short: "Show one accreditor's standards hierarchy",
	Long: `Show every standard of an accreditor with its clauses and indicator
counts. Use --full to include descriptions and the indicator terms
themselves.

Example:
  crosswalk corpus show HLC
  crosswalk corpus show MSCHE --full`,
	Args: cobra.ExactArgs(1),
	RunE: runCorpusShow,
}

var corpusLintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Check the corpus for definitions that weaken matching",
	Long: `Lint runs advisory diagnostics over the loaded corpus: standards
without indicators, clauses without indicators or descriptions, duplicate
titles, and indicator sets too small to score meaningfully.

Signals never block loading. The command exits nonzero only when a
standard cannot be scored at all.`,
	RunE: runCorpusLint,
}

func init() {
	rootCmd.AddCommand(corpusCmd)
	corpusCmd.AddCommand(corpusListCmd)
	corpusCmd.AddCommand(corpusShowCmd)
	corpusCmd.AddCommand(corpusLintCmd)

	corpusShowCmd.Flags().BoolVar(&showFull, "full", false, "include descriptions and indicator terms")
}

func runCorpusList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	service, err := newService(cfg)
	if err != nil {
		return err
	}

	codes := service.Accreditors()
	if len(codes) == 0 {
		fmt.Printf("No accreditors loaded from %s\n", cfg.Corpus.Dir)
		return nil
	}

	meta := service.Metadata()
	fmt.Printf("%-10s %-44s %-10s %-14s %s\n", "CODE", "NAME", "VERSION", "SCOPE", "STANDARDS")
	for _, code := range codes {
		info := meta[code]
		fmt.Printf("%-10s %-44s %-10s %-14s %d\n",
			info.Accreditor, truncate(info.Name, 44), orDash(info.Version), orDash(string(info.Scope)), info.StandardCount)
	}
	return nil
}

func runCorpusShow(cmd *cobra.Command, args []string) error {
	code := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	service, err := newService(cfg)
	if err != nil {
		return err
	}

	standards := service.AccreditorStandards(code)
	if len(standards) == 0 {
		fmt.Printf("No standards loaded for %q (loaded: %s)\n", code, strings.Join(service.Accreditors(), ", "))
		return nil
	}

	info := service.Metadata()[code]
	fmt.Printf("%s — %s", info.Accreditor, info.Name)
	if info.Version != "" {
		fmt.Printf(" (%s)", info.Version)
	}
	fmt.Printf("\n%d standards, scope: %s\n\n", info.StandardCount, orDash(string(info.Scope)))

	for _, std := range standards {
		fmt.Printf("%s  %s", std.ID, std.Title)
		if std.Category != "" {
			fmt.Printf("  [%s]", std.Category)
		}
		fmt.Println()

		if showFull && std.Description != "" {
			fmt.Printf("    %s\n", std.Description)
		}
		if len(std.Indicators) > 0 {
			printIndicators("    ", std.Indicators)
		}
		for _, cl := range std.Clauses {
			fmt.Printf("    %s  %s\n", cl.ID, cl.Title)
			if showFull && cl.Description != "" {
				fmt.Printf("        %s\n", cl.Description)
			}
			if len(cl.Indicators) > 0 {
				printIndicators("        ", cl.Indicators)
			}
		}
		fmt.Println()
	}
	return nil
}

func runCorpusLint(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	service, err := newService(cfg)
	if err != nil {
		return err
	}

	accreditors := loadedAccreditors(service)
	if len(accreditors) == 0 {
		fmt.Printf("No accreditors loaded from %s\n", cfg.Corpus.Dir)
		return nil
	}

	signals := validate.Lint(accreditors)
	if len(signals) == 0 {
		fmt.Printf("✓ %d accreditors, no lint signals\n", len(accreditors))
		return nil
	}

	for _, sig := range signals {
		fmt.Printf("%-8s %-16s %s\n", sig.Severity, sig.Type, sig.Description)
	}

	critical := validate.CriticalCount(signals)
	fmt.Printf("\n%d signals (%d critical)\n", len(signals), critical)
	if critical > 0 {
		return fmt.Errorf("%d standards cannot be scored", critical)
	}
	return nil
}

// loadedAccreditors rebuilds accreditor records from the published graph for
// commands that operate on the whole corpus
func loadedAccreditors(service *graph.Service) []model.Accreditor {
	meta := service.Metadata()
	var accreditors []model.Accreditor
	for _, code := range service.Accreditors() {
		info := meta[code]
		accreditors = append(accreditors, model.Accreditor{
			Code:      code,
			Name:      info.Name,
			Version:   info.Version,
			Scope:     info.Scope,
			Standards: service.AccreditorStandards(code),
		})
	}
	return accreditors
}

// printIndicators prints indicator terms when --full is set, otherwise just
// the count
func printIndicators(indent string, indicators []string) {
	if showFull {
		fmt.Printf("%sindicators: %s\n", indent, strings.Join(indicators, ", "))
		return
	}
	fmt.Printf("%sindicators: %d\n", indent, len(indicators))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
