package main

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/riskibarqy/lineup-dataset/internal/domain/match"
	"github.com/riskibarqy/lineup-dataset/internal/infrastructure/repository/jsonfile"
	"github.com/riskibarqy/lineup-dataset/internal/usecase"
)

const defaultDatasetPath = "src/data/matches.json"

func main() {
	_ = godotenv.Load(".env")

	path := resolvePath(os.Args[1:])
	repo := jsonfile.NewMatchRepository(path)

	report, err := usecase.NewValidationService(repo).Check(context.Background(), os.Stdout, path)
	if errors.Is(err, match.ErrDatasetNotFound) {
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("validate %s: %v", path, err)
	}
	if !report.OK() {
		os.Exit(1)
	}
}

func resolvePath(args []string) string {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0])
	}
	if v := strings.TrimSpace(os.Getenv("DATASET_PATH")); v != "" {
		return v
	}
	return defaultDatasetPath
}
