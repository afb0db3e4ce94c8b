// Command sop-sync runs one document sync against the configured SOP
// directory and prints what would be cached. Useful for validating new
// procedure documents before deploying them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/clubhousegolfcanada/ClubOS/internal/config"
	"github.com/clubhousegolfcanada/ClubOS/internal/docsync"
	"github.com/clubhousegolfcanada/ClubOS/pkg/utils"
)

func main() {
	_ = gotenv.Load()

	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	docsDir := flag.String("dir", "", "override the configured SOP directory")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: "stdout",
		Format:     "console",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	dir := cfg.SOP.DocsDir
	if *docsDir != "" {
		dir = *docsDir
	}

	syncer := docsync.NewSyncer(dir, logger)
	docs, errs, err := syncer.SyncAll(context.Background())
	if err != nil {
		logger.Fatal("Sync failed", zap.Error(err))
	}

	for _, doc := range docs {
		fmt.Printf("%-40s steps=%-3d equipment=%v keywords=%v\n",
			doc.Title, len(doc.Steps), doc.Equipment, doc.Keywords)
	}
	for _, msg := range errs {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	}

	fmt.Printf("\nSynced %d documents from %s (%d errors)\n", len(docs), dir, len(errs))
	if len(errs) > 0 {
		os.Exit(1)
	}
}
