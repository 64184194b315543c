package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/greenveil/greenveil/internal/engine"
	"github.com/greenveil/greenveil/internal/llm"
	"github.com/greenveil/greenveil/internal/metrics"
	"github.com/greenveil/greenveil/internal/model"
	"github.com/greenveil/greenveil/internal/render"
)

var (
	kbPath      string
	outJSON     string
	outMD       string
	timeout     time.Duration
	noCache     bool
	noFooter    bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <bundle.json>",
	Short: "Analyze one claim bundle and generate a deception report",
	Long: `Analyze verifies a claim bundle (pre-extracted claims, detected
certification marks and visual indicators) against the knowledge base
and produces a deception report.

Example:
  greenveil analyze product.json --kb kb.yaml
  greenveil analyze product.json --kb kb.yaml --json report.json --md report.md
  greenveil analyze product.json --kb kb.yaml --llm --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&kbPath, "kb", "", "knowledge base YAML path (or GREENVEIL_KB)")
	analyzeCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall analysis timeout")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable verification memoization")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM advisory summary")
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")

	_ = viper.BindPFlag("kb", analyzeCmd.Flags().Lookup("kb"))
}

// buildConfig assembles engine configuration from flags and viper
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if llmEnabled {
		cfg.LLM.Enabled = true
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return cfg
}

// newEngine wires an engine from config, failing fast on configuration
// errors before any request is served
func newEngine(cfg *model.Config) (*engine.Engine, error) {
	opts := []engine.Option{engine.WithMetrics(metrics.New())}

	if cfg.LLM.Enabled {
		if cfg.LLM.APIKey == "" && cfg.LLM.Provider == "openai" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		advisor, err := llm.NewAdvisor(llm.Config{
			Provider:  cfg.LLM.Provider,
			Model:     cfg.LLM.Model,
			APIKey:    cfg.LLM.APIKey,
			BaseURL:   cfg.LLM.BaseURL,
			MaxTokens: cfg.LLM.MaxTokens,
		})
		if err != nil {
			return nil, err
		}
		opts = append(opts, engine.WithAdvisor(advisor))
	}

	return engine.New(cfg, opts...)
}

// loadBundle reads a claim bundle from a JSON file
func loadBundle(path string) (*model.ClaimBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}
	var bundle model.ClaimBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("parse bundle %s: %w", path, err)
	}
	return &bundle, nil
}

func resolveKBPath() (string, error) {
	path := kbPath
	if path == "" {
		path = viper.GetString("kb")
	}
	if path == "" {
		return "", fmt.Errorf("no knowledge base given (use --kb or GREENVEIL_KB)")
	}
	return path, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg := buildConfig()
	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}

	path, err := resolveKBPath()
	if err != nil {
		return err
	}
	warnings, err := eng.RefreshFile(path)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Loaded knowledge base: %d entities, %d relationships\n",
			eng.Index().EntityCount(), eng.Index().RelationshipCount())
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	bundle, err := loadBundle(args[0])
	if err != nil {
		return err
	}

	report, err := eng.Analyze(ctx, bundle)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Analyzed %d claim(s)\n", len(report.Claims))
		fmt.Fprintf(os.Stderr, "✓ Deception score: %.1f/100 (%s)\n", report.OverallScore, report.Severity)
	}

	renderer := render.NewRenderer(cfg.Output.IncludeFooter)
	if outJSON != "" {
		if err := renderer.RenderJSON(report, outJSON); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(report, outMD); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", outMD)
		}
	}
	renderer.RenderSummary(report)

	return nil
}
