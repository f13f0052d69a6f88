package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"jacket-survey/internal/config"
	"jacket-survey/internal/db"
	"jacket-survey/internal/importer"
	memberrepo "jacket-survey/internal/repository/member"

	"github.com/joho/godotenv"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to a member service JSON export")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Fatalf("load .env: %v", err)
	}
	cfg := config.FromEnv()
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewJSONImporter(f, memberrepo.NewPostgres(pool, logger), logger)

	start := time.Now()
	res, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import failed after %d member(s): %v", res.Imported, err)
	}

	logger.Printf("imported %d of %d members (%d skipped) in %s", res.Imported, res.Read, res.Skipped, time.Since(start).Truncate(time.Millisecond))
}
