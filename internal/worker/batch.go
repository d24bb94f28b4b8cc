package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/avetrov/crosswalk/internal/model"
)

// Analyzer produces a gap-analysis report for one evidence source. The path
// may be a local file or an http(s) URL.
type Analyzer interface {
	Analyze(ctx context.Context, path string) (*model.Report, error)
}

// AnalyzeJob scores a single evidence source
type AnalyzeJob struct {
	Path     string
	Analyzer Analyzer
}

// Execute runs the analysis job
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	report, err := j.Analyzer.Analyze(ctx, j.Path)
	if err != nil {
		return &AnalyzeResult{
			Path:   j.Path,
			Report: nil,
			Error:  err,
		}
	}
	return &AnalyzeResult{
		Path:   j.Path,
		Report: report,
		Error:  nil,
	}
}

// AnalyzeResult represents the result of an analysis job
type AnalyzeResult struct {
	Path   string
	Report *model.Report
	Error  error
}

// GetError returns the error from the analysis result
func (r *AnalyzeResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes multiple evidence sources concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessEach analyzes the given sources concurrently and streams each
// result to fn in completion order. When ctx expires the pool shuts down
// and outstanding documents are abandoned. Returns the number of results
// delivered; fn runs on the calling goroutine.
func (b *BatchProcessor) ProcessEach(ctx context.Context, paths []string, fn func(*AnalyzeResult)) int {
	if len(paths) == 0 {
		return 0
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-ctx.Done():
			pool.Shutdown()
		case <-watchDone:
		}
	}()

	go func() {
		for _, path := range paths {
			pool.Submit(&AnalyzeJob{
				Path:     path,
				Analyzer: b.analyzer,
			})
		}
		pool.Close()
	}()

	delivered := 0
	for result := range pool.Results() {
		fn(result.(*AnalyzeResult))
		delivered++
	}

	return delivered
}

// ProcessPaths analyzes the given sources concurrently. Results arrive in
// completion order, not input order.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*AnalyzeResult {
	results := make([]*AnalyzeResult, 0, len(paths))
	b.ProcessEach(ctx, paths, func(r *AnalyzeResult) {
		results = append(results, r)
	})
	return results
}

// ProcessList reads evidence sources from a list file and analyzes them
// concurrently
func (b *BatchProcessor) ProcessList(ctx context.Context, filePath string) ([]*AnalyzeResult, error) {
	paths, err := ReadPathsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathsFromFile reads evidence sources from a file (one per line)
func ReadPathsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
