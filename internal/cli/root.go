package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/avetrov/crosswalk/internal/cache"
	"github.com/avetrov/crosswalk/internal/corpus"
	"github.com/avetrov/crosswalk/internal/graph"
	"github.com/avetrov/crosswalk/internal/match"
	"github.com/avetrov/crosswalk/internal/model"
	"github.com/avetrov/crosswalk/internal/validate"
)

var (
	cfgFile   string
	corpusDir string
	verbose   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "crosswalk",
	Short: "Crosswalk - Accreditation standards crosswalk & evidence gap analysis",
	Long: `Crosswalk loads hierarchical accreditation-standard corpora
(accreditor -> standard -> clause -> indicator) and answers two questions:

- Which standard in accreditor B corresponds to a standard in accreditor A?
- Which standards does a given evidence document address, and how well?

Matching is lexical and deterministic: every score is bounded in [0,1],
reproducible, and carries the formula that produced it. Crosswalk surfaces
candidates for human review; it does not decide compliance.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Crosswalk.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("crosswalk v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.crosswalk/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&corpusDir, "corpus", "", "standards corpus directory (default: data/standards)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("corpus_dir", rootCmd.PersistentFlags().Lookup("corpus"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.crosswalk")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match CROSSWALK_*
	viper.SetEnvPrefix("CROSSWALK")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig builds the effective configuration: defaults, then the config
// file, then CROSSWALK_* environment variables, then persistent flags.
// Command flags override individual fields after this returns.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if path := viper.ConfigFileUsed(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	// corpus_dir resolves flag > CROSSWALK_CORPUS_DIR > config file
	if dir := viper.GetString("corpus_dir"); dir != "" {
		cfg.Corpus.Dir = dir
	}
	if verbose || viper.GetBool("verbose") {
		cfg.Output.Verbose = true
	}

	// An unset cache dir lands next to the config file. If the home
	// directory cannot be determined the disk tier is simply skipped.
	if cfg.Cache.Enabled && cfg.Cache.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Cache.Dir = filepath.Join(home, ".crosswalk", "cache")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newService loads the corpus and wires the graph service every command
// queries. Per-file load failures are warnings: the remaining accreditors
// still serve (corpora are added incrementally).
func newService(cfg *model.Config) (*graph.Service, error) {
	classifier := validate.NewScopeClassifier(&cfg.Scope)
	matcher := match.NewMatcher(match.NewWeightedLexicalScorer(cfg.Match.DescriptionWeight))

	var matchCache cache.Cache
	if cfg.Cache.Enabled {
		matchCache = cache.NewMemory(cfg.Cache.MemoryTTL)
	}

	service := graph.NewService(cfg.Corpus.Dir, corpus.NewLoader(), classifier.Classify, matcher, matchCache)

	result, err := service.Load()
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	for i := range result.Errors {
		fmt.Fprintf(os.Stderr, "Warning: skipped %s\n", result.Errors[i].Error())
	}
	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "✓ Loaded %d accreditors (%d standards) from %s\n",
			len(result.Accreditors), service.Graph().StandardCount(), cfg.Corpus.Dir)
	}

	return service, nil
}
