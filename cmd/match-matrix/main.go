// Dev tool to print the full pairwise score matrix between two accreditors.
// This makes scorer tuning visible: every cell, not just the pairs that
// survive threshold and top-k filtering.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/avetrov/crosswalk/internal/corpus"
	"github.com/avetrov/crosswalk/internal/graph"
	"github.com/avetrov/crosswalk/internal/match"
)

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintf(os.Stderr, "usage: match-matrix <corpus-dir> <source> <target>\n")
		os.Exit(2)
	}
	dir, source, target := os.Args[1], os.Args[2], os.Args[3]

	loader := corpus.NewLoader()
	result, err := loader.LoadDir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load corpus: %v\n", err)
		os.Exit(1)
	}
	for i := range result.Errors {
		fmt.Fprintf(os.Stderr, "warning: skipped %s\n", result.Errors[i].Error())
	}

	g := graph.NewGraph()
	for _, acc := range result.Accreditors {
		g.AddAccreditor(acc)
	}

	sourceStds := g.AccreditorStandards(source)
	targetStds := g.AccreditorStandards(target)
	if len(sourceStds) == 0 || len(targetStds) == 0 {
		fmt.Fprintf(os.Stderr, "nothing to compare (loaded: %s)\n", strings.Join(g.Accreditors(), ", "))
		os.Exit(1)
	}

	fmt.Printf("=== Score Matrix: %s (%d) × %s (%d) ===\n\n", source, len(sourceStds), target, len(targetStds))

	scorer := match.NewLexicalScorer()

	// Header row: target ids
	fmt.Printf("%-16s", "")
	for _, tgt := range targetStds {
		fmt.Printf(" %-8.8s", tgt.ID)
	}
	fmt.Println()

	for _, src := range sourceStds {
		fmt.Printf("%-16.16s", src.ID)
		for _, tgt := range targetStds {
			score := scorer.Score(src, tgt)
			if score == 0 {
				fmt.Printf(" %-8s", ".")
				continue
			}
			fmt.Printf(" %-8.2f", score)
		}
		fmt.Println()
	}

	fmt.Println()
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Ranked matches (threshold %.2f, top %d):\n\n", match.DefaultThreshold, match.DefaultTopK)

	matcher := match.NewMatcher(scorer)
	for _, r := range matcher.FindMatches(g, source, target, match.DefaultThreshold, match.DefaultTopK) {
		fmt.Printf("  %.2f  %s %s  →  %s %s\n", r.Score, r.SourceID, r.SourceTitle, r.TargetID, r.TargetTitle)
	}
}
