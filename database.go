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


package memora

import (
	"log/slog"

	"github.com/sarthakraghuvanshi/Memora-Second-Mind/ai"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/ai/openai"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/crypto"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/ingestion"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/search"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/storage"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/storage/badger"
)

// Database bundles the storage backend, repositories, key manager, and AI
// provider behind one handle. Pipelines and searchers are created from it.
type Database struct {
	backend   *badger.Backend
	docRepo   storage.DocumentRepository
	chunkRepo storage.ChunkRepository
	keys      *crypto.KeyManager
	provider  ai.AIProvider
	logger    *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig     *ai.Config
	cryptoConfig *crypto.Config
	aiToken      string
	provider     ai.AIProvider
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithCryptoConfig sets the encryption configuration. The master secret is
// required; NewDatabase fails without it.
func WithCryptoConfig(config *crypto.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.cryptoConfig = config
	}
}

// WithAIToken sets the API token for the embedding service.
func WithAIToken(token string) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiToken = token
	}
}

// WithAIProvider supplies a pre-built provider, bypassing the OpenAI
// construction. Used by tests and embedders other than the default.
func WithAIProvider(provider ai.AIProvider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig:     ai.DefaultConfig(),
		cryptoConfig: &crypto.Config{},
	}
	for _, opt := range opts {
		opt(options)
	}

	// Key derivation is mandatory; fail before touching the disk.
	keys, err := crypto.NewKeyManager(options.cryptoConfig)
	if err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	docRepo, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		docRepo.Close()
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig, openai.WithToken(options.aiToken))
		if err != nil {
			chunkRepo.Close()
			docRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	logger := slog.Default()
	logger.Info("database opened", "path", filePath, "secret", keys.Fingerprint())

	return &Database{
		backend:   backend,
		docRepo:   docRepo,
		chunkRepo: chunkRepo,
		keys:      keys,
		provider:  provider,
		logger:    logger,
	}, nil
}

func (db *Database) Close() error {
	// Close AI provider first
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	// Close repositories
	if err := db.chunkRepo.Close(); err != nil {
		db.logger.Error("error closing chunk repository", "err", err)
		return err
	}
	if err := db.docRepo.Close(); err != nil {
		db.logger.Error("error closing document repository", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) DocumentRepository() storage.DocumentRepository {
	return db.docRepo
}

func (db *Database) ChunkRepository() storage.ChunkRepository {
	return db.chunkRepo
}

func (db *Database) KeyManager() *crypto.KeyManager {
	return db.keys
}

func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.docRepo, db.chunkRepo, db.provider, db.keys, opts...)
}

func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.chunkRepo, db.provider, db.keys, opts...)
}
