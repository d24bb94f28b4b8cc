package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/avetrov/crosswalk/internal/graph"
	"github.com/avetrov/crosswalk/internal/model"
)

var watchDebounce time.Duration

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the corpus directory and reload on changes",
	Long: `Watch monitors the corpus directory and rebuilds the standards graph
whenever a definition file changes. The reload is an atomic swap: a new
graph is built completely before it replaces the old one, so queries
running mid-reload never see partial state. When a reload fails, the
previous graph keeps serving and the errors are printed.

Edits are debounced so saving several files in a burst triggers one
reload. Ctrl-C to stop.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "quiet period before reloading")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	service, err := newService(cfg)
	if err != nil {
		return err
	}
	printCorpusState(service)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(cfg.Corpus.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", cfg.Corpus.Dir, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "Watching %s (debounce %v), Ctrl-C to stop\n", cfg.Corpus.Dir, watchDebounce)

	// Debounce: each relevant event re-arms the timer; the reload fires only
	// after a quiet period.
	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}

	previous := service.Metadata()

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "Stopped.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isDefinitionFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				if verbose {
					fmt.Fprintf(os.Stderr, "Change: %s (%s)\n", filepath.Base(event.Name), event.Op)
				}
				timer.Reset(watchDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Warning: watch error: %v\n", err)

		case <-timer.C:
			previous = reloadAndReport(service, previous)
		}
	}
}

// reloadAndReport swaps in a rebuilt graph and prints what changed. On
// failure the previous graph keeps serving and the unchanged metadata is
// returned.
func reloadAndReport(service *graph.Service, previous map[string]model.AccreditorInfo) map[string]model.AccreditorInfo {
	result, err := service.Reload()
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Reload failed, previous corpus still serving: %v\n", err)
		if result != nil {
			for i := range result.Errors {
				fmt.Fprintf(os.Stderr, "  %s\n", result.Errors[i].Error())
			}
		}
		return previous
	}

	for i := range result.Errors {
		fmt.Fprintf(os.Stderr, "Warning: skipped %s\n", result.Errors[i].Error())
	}

	current := service.Metadata()
	fmt.Fprintf(os.Stderr, "✓ Reloaded (generation %d): %d accreditors, %d standards\n",
		service.Generation(), len(current), service.Graph().StandardCount())

	for _, code := range service.Accreditors() {
		prev, existed := previous[code]
		if !existed {
			fmt.Fprintf(os.Stderr, "  + %s (%d standards)\n", code, current[code].StandardCount)
			continue
		}
		if prev.StandardCount != current[code].StandardCount {
			fmt.Fprintf(os.Stderr, "  ~ %s (%d → %d standards)\n", code, prev.StandardCount, current[code].StandardCount)
		}
	}
	for code := range previous {
		if _, still := current[code]; !still {
			fmt.Fprintf(os.Stderr, "  - %s removed\n", code)
		}
	}

	return current
}

func printCorpusState(service *graph.Service) {
	meta := service.Metadata()
	codes := service.Accreditors()
	if len(codes) == 0 {
		fmt.Fprintln(os.Stderr, "No accreditors loaded yet.")
		return
	}
	parts := make([]string, 0, len(codes))
	for _, code := range codes {
		parts = append(parts, fmt.Sprintf("%s (%d)", code, meta[code].StandardCount))
	}
	fmt.Fprintf(os.Stderr, "Serving: %s\n", strings.Join(parts, ", "))
}

// isDefinitionFile reports whether a changed path is a corpus definition
func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
