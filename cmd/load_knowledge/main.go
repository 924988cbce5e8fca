// Command load_knowledge ingests knowledge and catalog files into the
// vector store. Pipe-delimited product files become one document per row
// with structured metadata; everything else ingests one document per line.
//
// Usage:
//
//	go run ./cmd/load_knowledge -dir data/knowledge
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"ai-salesbot-be/internal/config"
	"ai-salesbot-be/internal/dto"
	"ai-salesbot-be/internal/pkg/logger"
	"ai-salesbot-be/internal/repository/implementation"
	"ai-salesbot-be/internal/service"
	"ai-salesbot-be/pkg/catalog"
	"ai-salesbot-be/pkg/database"
	embeddingOpenai "ai-salesbot-be/pkg/embedding/openai"
	"ai-salesbot-be/pkg/retry"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/fatih/color"
)

func main() {
	dir := flag.String("dir", "data/knowledge", "directory of knowledge/catalog files")
	flag.Parse()

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("✗ database connection failed: %v", err)
		os.Exit(1)
	}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, false)
	documentRepo := implementation.NewDocumentRepository(db)
	embedder := embeddingOpenai.NewOpenAIProvider(
		cfg.Ai.OpenAIAPIKey,
		cfg.Ai.EmbeddingModel,
		cfg.Ai.EmbeddingDim,
		retry.DefaultConfig(),
	)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	ingestion := service.NewIngestionService(pubSub, cfg.App.IngestTopicName, documentRepo, embedder, sysLogger)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		color.Red("✗ cannot read directory %s: %v", *dir, err)
		os.Exit(1)
	}

	ctx := context.Background()
	total := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		path := filepath.Join(*dir, entry.Name())
		count, err := loadFile(ctx, ingestion, path)
		if err != nil {
			color.Red("✗ %s: %v", entry.Name(), err)
			os.Exit(1)
		}
		color.Green("✓ %s: %d documents", entry.Name(), count)
		total += count
	}

	color.Cyan("Done. %d documents ingested.", total)
	log.Println("load_knowledge finished")
}

func loadFile(ctx context.Context, ingestion service.IIngestionService, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content := string(raw)

	if products := catalog.ParseProductFile(content); products != nil {
		for i := range products {
			p := products[i]
			msg := &dto.PublishEmbedDocumentMessage{
				Text:       p.ToNaturalLanguage(),
				Name:       &p.Name,
				Sku:        &p.Sku,
				Price:      &p.Price,
				Stock:      &p.Stock,
				Color:      &p.Color,
				Model:      &p.Model,
				ScreenSize: &p.ScreenSize,
			}
			if err := ingestion.IngestDirect(ctx, msg); err != nil {
				return 0, err
			}
		}
		return len(products), nil
	}

	lines := catalog.PlainLines(content)
	for _, line := range lines {
		if err := ingestion.IngestDirect(ctx, &dto.PublishEmbedDocumentMessage{Text: line}); err != nil {
			return 0, err
		}
	}
	return len(lines), nil
}
