package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/coachprep/coachprep-backend/internal/data/db"
	"github.com/coachprep/coachprep-backend/internal/data/repos"
	"github.com/coachprep/coachprep-backend/internal/importer"
	"github.com/coachprep/coachprep-backend/internal/observability"
	"github.com/coachprep/coachprep-backend/internal/pkg/logger"
)

func main() {
	var (
		file      string
		kind      string
		batchSize int
	)
	flag.StringVar(&file, "file", "", "path to the CSV content file")
	flag.StringVar(&kind, "kind", string(importer.KindQuestions), "entity set to import: questions|flashcards")
	flag.IntVar(&batchSize, "batch-size", importer.DefaultBatchSize, "rows per insert transaction")
	flag.Parse()

	_ = godotenv.Load()

	if strings.TrimSpace(file) == "" {
		fmt.Println("usage: import_catalog -file content.csv [-kind questions|flashcards] [-batch-size 500]")
		os.Exit(2)
	}

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("init postgres failed", "error", err)
		os.Exit(1)
	}
	defer pg.Close()
	if err := pg.AutoMigrateAll(); err != nil {
		log.Error("automigrate failed", "error", err)
		os.Exit(1)
	}
	theDB := pg.DB()

	f, err := os.Open(file)
	if err != nil {
		log.Error("open content file failed", "file", file, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	im := importer.New(
		theDB, log,
		repos.NewTopicRepo(theDB, log),
		repos.NewQuestionRepo(theDB, log),
		repos.NewOptionRepo(theDB, log),
		repos.NewFlashcardRepo(theDB, log),
		observability.Init(),
		batchSize,
	)

	sum, err := im.Run(context.Background(), f, importer.Kind(strings.ToLower(strings.TrimSpace(kind))))
	if err != nil {
		log.Error("import aborted", "imported", sum.Imported, "skipped", sum.Skipped, "error", err)
		os.Exit(1)
	}
	fmt.Printf("imported %d rows (%d skipped, %d batches)\n", sum.Imported, sum.Skipped, sum.Batches)
}
