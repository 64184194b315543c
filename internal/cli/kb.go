package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/greenveil/greenveil/internal/graph"
	"github.com/greenveil/greenveil/internal/kb"
	"github.com/greenveil/greenveil/internal/model"
)

// kbCmd groups knowledge-base maintenance commands
var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Inspect and validate knowledge-base files",
}

var kbValidateCmd = &cobra.Command{
	Use:   "validate <kb.yaml>",
	Short: "Validate a knowledge-base file",
	Long: `Validate parses a knowledge-base file, reports every malformed record
and checks relationship referential integrity. Malformed records are
warnings, not errors: the load contract skips them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := kb.LoadFile(args[0])
		if err != nil {
			return err
		}
		idx := store.BuildIndex(graph.NewTokenSimilarity())

		for _, w := range store.Warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
		}

		fmt.Printf("Entities:      %d\n", idx.EntityCount())
		fmt.Printf("Relationships: %d\n", idx.RelationshipCount())
		fmt.Printf("Warnings:      %d\n", store.WarningCount())
		if store.WarningCount() > 0 {
			fmt.Println("\nFile loads with skipped records.")
		} else {
			fmt.Println("\nFile is valid.")
		}
		return nil
	},
}

var kbStatsCmd = &cobra.Command{
	Use:   "stats <kb.yaml>",
	Short: "Show knowledge-base statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := kb.LoadFile(args[0])
		if err != nil {
			return err
		}
		idx := store.BuildIndex(graph.NewTokenSimilarity())

		fmt.Printf("Entities: %d\n", idx.EntityCount())
		counts := idx.KindCounts()
		kinds := make([]string, 0, len(counts))
		for k := range counts {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Printf("  %-14s %d\n", k, counts[model.EntityKind(k)])
		}
		fmt.Printf("Relationships: %d\n", idx.RelationshipCount())
		fmt.Printf("Load warnings: %d\n", store.WarningCount())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(kbCmd)
	kbCmd.AddCommand(kbValidateCmd)
	kbCmd.AddCommand(kbStatsCmd)
}
