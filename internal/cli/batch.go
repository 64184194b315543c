package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/greenveil/greenveil/internal/render"
	"github.com/greenveil/greenveil/internal/worker"
)

var (
	batchWorkers int
	batchRate    float64
	batchBurst   int
	batchOutDir  string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <bundle.json...>",
	Short: "Analyze many claim bundles in parallel",
	Long: `Batch analyzes multiple claim bundles with a bounded worker pool.
Each bundle gets its own deception report; one bad bundle never fails
the batch.

Example:
  greenveil batch bundles/*.json --kb kb.yaml --workers 8 --out reports/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&kbPath, "kb", "", "knowledge base YAML path (or GREENVEIL_KB)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 4, "parallel analysis workers")
	batchCmd.Flags().Float64Var(&batchRate, "rate", 0, "max analyses per second (0 = unlimited)")
	batchCmd.Flags().IntVar(&batchBurst, "burst", 5, "rate limiter burst")
	batchCmd.Flags().StringVar(&batchOutDir, "out", ".", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 5*time.Minute, "overall batch timeout")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
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
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	jobs := make([]worker.Job, 0, len(args))
	for _, bundlePath := range args {
		bundle, err := loadBundle(bundlePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", bundlePath, err)
			continue
		}
		jobs = append(jobs, worker.Job{Path: bundlePath, Bundle: bundle})
	}
	if len(jobs) == 0 {
		return fmt.Errorf("no readable bundles")
	}

	var limiter *worker.Limiter
	if batchRate > 0 {
		limiter = worker.NewLimiter(batchRate, batchBurst)
	}

	pool := worker.NewPool(batchWorkers, eng.Analyze, limiter)
	results := pool.Run(ctx, jobs)

	renderer := render.NewRenderer(cfg.Output.IncludeFooter)
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", res.Path, res.Err)
			continue
		}
		outPath := filepath.Join(batchOutDir, reportName(res.Path))
		if err := renderer.RenderJSON(res.Report, outPath); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", res.Path, err)
			continue
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ %s → %s (%.1f, %s)\n", res.Path, outPath, res.Report.OverallScore, res.Report.Severity)
		}
	}

	fmt.Printf("Analyzed %d bundle(s), %d failed\n", len(results), failed)
	if failed == len(results) {
		return fmt.Errorf("all analyses failed")
	}
	return nil
}

// reportName derives the report filename from the bundle filename
func reportName(bundlePath string) string {
	base := filepath.Base(bundlePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + ".report.json"
}
