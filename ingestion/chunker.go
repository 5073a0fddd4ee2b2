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


package ingestion

const (
	// chunkSize is the window length in runes.
	chunkSize = 1000

	// chunkOverlap is the number of runes shared between adjacent chunks.
	chunkOverlap = 200
)

// TextChunk is one fragment of a chunked document. StartChar and EndChar are
// rune offsets into the original text, half-open [StartChar, EndChar).
type TextChunk struct {
	Content   string
	Index     int
	StartChar int
	EndChar   int
}

// ChunkText splits text into overlapping windows of chunkSize runes with
// chunkOverlap runes shared between neighbors. Empty input yields an empty
// slice; text shorter than one window yields a single chunk. The final chunk
// always reaches the end of the text.
func ChunkText(text string) []TextChunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return []TextChunk{}
	}

	var chunks []TextChunk
	start := 0
	index := 0

	for start < len(runes) {
		end := min(start+chunkSize, len(runes))

		chunks = append(chunks, TextChunk{
			Content:   string(runes[start:end]),
			Index:     index,
			StartChar: start,
			EndChar:   end,
		})

		start += chunkSize - chunkOverlap
		index++

		// The previous window already reached the end; an extra chunk here
		// would only repeat overlap.
		if start+chunkOverlap >= len(runes) && start < len(runes) {
			break
		}
	}

	return chunks
}

// EstimateTokens gives a rough token count for budgeting embedding calls,
// assuming about 4 characters per token for English text.
func EstimateTokens(text string) int {
	return (len([]rune(text)) + 3) / 4
}
