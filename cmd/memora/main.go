// Copyright 2025 Sarthak Raghuvanshi
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	memora "github.com/sarthakraghuvanshi/Memora-Second-Mind"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/ai"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/ai/openai"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/core"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/crypto"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/ingestion"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/reembed"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/search"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	// Missing .env is fine; the environment may be set directly
	godotenv.Load()

	app := &cli.App{
		Name:  "memora",
		Usage: "Encrypted personal knowledge base with hybrid retrieval",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest a document from a file or inline text",
				ArgsUsage: "[text]",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "User the document belongs to",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Document title",
					},
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Read document content from this file",
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "Document type (text, document, web, audio, image)",
						Value: "text",
					},
					&cli.DurationFlag{
						Name:  "wait",
						Usage: "How long to wait for background processing to finish",
						Value: 30 * time.Second,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search a user's documents and print the built context",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "User whose documents to search",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
					&cli.BoolFlag{
						Name:  "context",
						Usage: "Print the assembled context block instead of raw hits",
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Re-embed a user's chunks with a new embedding model",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "User whose chunks to re-embed",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model to migrate to",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Base URL of the embedding service",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to embed per API call",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openDatabase builds the facade from flags and environment.
// MEMORA_ENCRYPTION_KEY is required; embedding settings fall back to the
// OpenAI defaults.
func openDatabase(c *cli.Context) (*memora.Database, error) {
	secret := os.Getenv("MEMORA_ENCRYPTION_KEY")
	if secret == "" {
		return nil, fmt.Errorf("MEMORA_ENCRYPTION_KEY is not set")
	}

	var configOpts []ai.ConfigOption
	if host := os.Getenv("MEMORA_EMBEDDING_HOST"); host != "" {
		configOpts = append(configOpts, ai.WithHost(host))
	}
	if model := os.Getenv("MEMORA_EMBEDDING_MODEL"); model != "" {
		configOpts = append(configOpts, ai.WithEmbeddingModel(model))
	}

	return memora.NewDatabase(c.String("db"),
		memora.WithCryptoConfig(&crypto.Config{MasterSecret: secret}),
		memora.WithAIConfig(ai.NewConfig(configOpts...)),
		memora.WithAIToken(os.Getenv("MEMORA_EMBEDDING_TOKEN")),
	)
}

func ingestCommand(c *cli.Context) error {
	content, err := readContent(c)
	if err != nil {
		return err
	}

	docType, err := parseDocumentType(c.String("type"))
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	ctx := context.Background()
	doc, err := pipeline.Ingest(ctx, ingestion.IngestRequest{
		UserID:   c.String("user"),
		Type:     docType,
		Title:    c.String("title"),
		Content:  content,
		MimeType: "text/plain",
		FileSize: int64(len(content)),
	})
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Document %d stored, processing...\n", doc.Id)

	// Hold the process open until the background task settles, or the CLI
	// exit would kill the pool mid-flight.
	status, err := waitForProcessing(ctx, db, doc.Id, c.Duration("wait"))
	if err != nil {
		return err
	}

	fmt.Printf("Document %d: %s\n", doc.Id, status)
	if status == core.DocumentStatusFailed {
		return fmt.Errorf("document processing failed")
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("query is required")
	}
	query := strings.Join(c.Args().Slice(), " ")

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return err
	}
	defer searcher.Release()

	results, err := searcher.Search(context.Background(), query, c.String("user"), c.Int("limit"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if c.Bool("context") {
		fmt.Println(search.BuildContext(results))
		return nil
	}

	fmt.Printf("Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Printf("%d: %q from %q (doc %d, chunk %d) [%0.3f]\n",
			i+1, snippet(hit.Content, 80), hit.DocumentTitle, hit.DocumentId, hit.ChunkId, hit.Score)
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	secret := os.Getenv("MEMORA_ENCRYPTION_KEY")
	if secret == "" {
		return fmt.Errorf("MEMORA_ENCRYPTION_KEY is not set")
	}
	keys, err := crypto.NewKeyManager(&crypto.Config{MasterSecret: secret})
	if err != nil {
		return err
	}

	var configOpts []ai.ConfigOption
	if host := c.String("embedding-host"); host != "" {
		configOpts = append(configOpts, ai.WithHost(host))
	} else if host := os.Getenv("MEMORA_EMBEDDING_HOST"); host != "" {
		configOpts = append(configOpts, ai.WithHost(host))
	}
	configOpts = append(configOpts, ai.WithEmbeddingModel(c.String("embedding-model")))

	aiConfig := ai.NewConfig(configOpts...)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig, os.Getenv("MEMORA_EMBEDDING_TOKEN"))
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer chunkRepo.Close()

	config := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder, err := reembed.NewReembedder(chunkRepo, embedder, keys, c.String("user"), config, os.Stderr)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(context.Background()); err != nil {
		return fmt.Errorf("re-embedding failed: %w", err)
	}
	return nil
}

func readContent(c *cli.Context) (string, error) {
	if file := c.String("file"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		return string(data), nil
	}
	if c.NArg() > 0 {
		return strings.Join(c.Args().Slice(), " "), nil
	}
	return "", fmt.Errorf("provide inline text or --file")
}

func parseDocumentType(s string) (core.DocumentType, error) {
	switch strings.ToLower(s) {
	case "text":
		return core.DocumentTypeText, nil
	case "document":
		return core.DocumentTypeDocument, nil
	case "web":
		return core.DocumentTypeWeb, nil
	case "audio":
		return core.DocumentTypeAudio, nil
	case "image":
		return core.DocumentTypeImage, nil
	default:
		return 0, fmt.Errorf("unknown document type %q", s)
	}
}

func waitForProcessing(ctx context.Context, db *memora.Database, id core.ID, timeout time.Duration) (core.DocumentStatus, error) {
	deadline := time.Now().Add(timeout)
	for {
		doc, err := db.DocumentRepository().GetDocument(ctx, id)
		if err != nil {
			return 0, err
		}
		if doc.Status != core.DocumentStatusPending {
			return doc.Status, nil
		}
		if time.Now().After(deadline) {
			return core.DocumentStatusPending, fmt.Errorf("timed out waiting for document %d", id)
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func snippet(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
