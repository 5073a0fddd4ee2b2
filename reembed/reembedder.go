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


package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sarthakraghuvanshi/Memora-Second-Mind/ai"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/core"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/crypto"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/storage"
)

// Config holds configuration for the re-embedding operation.
type Config struct {
	// BatchSize is the number of chunks to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of chunks)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder orchestrates re-embedding every chunk a user owns with the
// configured embedder's model.
type Reembedder struct {
	index     storage.VectorIndex
	embedder  ai.Embedder
	userID    string
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *CandidateIterator
}

// NewReembedder creates a new reembedder for one user's chunks.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(index storage.VectorIndex, embedder ai.Embedder, keys *crypto.KeyManager, userID string, config *Config, progress io.Writer) (*Reembedder, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	if config == nil {
		config = DefaultConfig()
	}

	key := keys.DeriveKey(userID)
	processor := NewBatchProcessor(index, embedder, key, config.MaxRetries, config.RetryDelay)
	iterator := NewCandidateIterator(index, userID, config.BatchSize)

	return &Reembedder{
		index:     index,
		embedder:  embedder,
		userID:    userID,
		config:    config,
		progress:  progress,
		processor: processor,
		iterator:  iterator,
	}, nil
}

// Run executes the re-embedding operation. Every embedded chunk the user
// owns is re-embedded with the configured embedder and its stored vector
// replaced. Progress is reported to the configured writer.
func (r *Reembedder) Run(ctx context.Context) error {
	total, err := r.iterator.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to scan chunks: %w", err)
	}

	if total == 0 {
		fmt.Fprintf(r.progress, "No embedded chunks found for user %s\n", r.userID)
		return nil
	}

	fmt.Fprintf(r.progress, "Re-embedding %d chunks with model %s (batch size: %d)\n",
		total, r.embedder.Model(), r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0

	err = r.iterator.ForEach(ctx, func(batch []*core.Candidate) error {
		if err := r.processor.Process(ctx, batch); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		processed += len(batch)
		tracker.Update(processed)

		return nil
	})

	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Re-embedding complete. Processed %d chunks in %v (%.1f chunks/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}
