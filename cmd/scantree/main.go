package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"scantree/internal/component"
	"scantree/internal/config"
	"scantree/internal/pipeline"
	"scantree/internal/storage"
)

var (
	rootCmd = &cobra.Command{
		Use:   "scantree",
		Short: "Build canonical component trees from scanner reports",
	}
	cfgPath string
	dbPath  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "scantree.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the analysis database (overrides config)")

	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [report.json]",
	Short: "Run one analysis batch over a scanner report",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if dbPath != "" {
			cfg.Storage.DB = dbPath
		}
		if cfg.Project.Key == "" {
			log.Fatalf("No project key configured (set project.key in %s or SCANTREE_PROJECT_KEY)", cfgPath)
		}

		store, err := storage.NewSQLiteStore(cfg.Storage.DB)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer store.Close()

		branch := cfg.Branch()
		fmt.Printf("🚀 Analyzing report %s (project %s, branch %s)\n", args[0], cfg.Project.Key, branch.Name)

		ctx := context.Background()
		run := pipeline.NewAnalysisRun(cfg, store, args[0])

		start := time.Now()
		if err := run.Run(ctx, outcomeListener{}); err != nil {
			log.Fatalf("Analysis failed: %v", err)
		}

		tree := run.Tree()
		changed := run.ChangedTree()
		fmt.Printf("✅ Analysis finished in %v. Components=%d, changed files=%d.\n",
			time.Since(start), countComponents(tree), countFiles(changed))
		fmt.Printf("🎉 Database: %s\n", cfg.Storage.DB)
	},
}

// outcomeListener reports how the step batch ended; it fires even when a
// step failed partway through.
type outcomeListener struct{}

func (outcomeListener) Finished(allStepsExecuted bool) {
	if allStepsExecuted {
		fmt.Println("📦 All analysis steps executed.")
		return
	}
	fmt.Println("⚠️  Analysis aborted before all steps executed.")
}

func countComponents(c *component.Component) int {
	if c == nil {
		return 0
	}
	count := 1
	for _, child := range c.Children {
		count += countComponents(child)
	}
	return count
}

func countFiles(c *component.Component) int {
	if c == nil {
		return 0
	}
	if c.Type == component.TypeFile {
		return 1
	}
	count := 0
	for _, child := range c.Children {
		count += countFiles(child)
	}
	return count
}
