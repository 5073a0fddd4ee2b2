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

	"github.com/sarthakraghuvanshi/Memora-Second-Mind/core"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/storage"
)

const (
	// DefaultBatchSize is the default number of chunks to process in each batch
	DefaultBatchSize = 100
)

// CandidateIterator iterates over a user's embedded chunks in batches.
type CandidateIterator struct {
	index     storage.VectorIndex
	userID    string
	batchSize int
}

// NewCandidateIterator creates a new candidate iterator.
// batchSize: number of chunks to process in each batch (must be > 0)
func NewCandidateIterator(index storage.VectorIndex, userID string, batchSize int) *CandidateIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &CandidateIterator{
		index:     index,
		userID:    userID,
		batchSize: batchSize,
	}
}

// Count returns the number of embedded chunks the user owns.
func (it *CandidateIterator) Count(ctx context.Context) (int, error) {
	candidates, err := it.index.FetchCandidates(ctx, it.userID)
	if err != nil {
		return 0, err
	}
	return len(candidates), nil
}

// ForEach iterates over all of the user's embedded chunks, calling fn for
// each batch. Iteration stops on first error from fn or when all chunks are
// processed. Context cancellation is checked between batches.
func (it *CandidateIterator) ForEach(ctx context.Context, fn func([]*core.Candidate) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	candidates, err := it.index.FetchCandidates(ctx, it.userID)
	if err != nil {
		return err
	}

	if len(candidates) == 0 {
		return nil
	}

	for i := 0; i < len(candidates); i += it.batchSize {
		end := i + it.batchSize
		if end > len(candidates) {
			end = len(candidates)
		}

		if err := fn(candidates[i:end]); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}
