package search

import (
	"testing"
	"time"

	"github.com/sarthakraghuvanshi/Memora-Second-Mind/core"
	"github.com/stretchr/testify/assert"
)

func TestBuildContext_Empty(t *testing.T) {
	assert.Equal(t, "No relevant information found.", BuildContext(nil))
	assert.Equal(t, "No relevant information found.", BuildContext([]*core.RankedResult{}))
}

func TestBuildContext_SingleResult(t *testing.T) {
	results := []*core.RankedResult{
		{
			DocumentTitle: "Meeting notes",
			Content:       "We agreed to ship on Friday.",
			CreatedAt:     time.Date(2025, time.March, 5, 14, 30, 0, 0, time.UTC),
		},
	}

	expected := "[1] From \"Meeting notes\" (Mar 5, 2025):\nWe agreed to ship on Friday.\n"
	assert.Equal(t, expected, BuildContext(results))
}

func TestBuildContext_MultipleResults(t *testing.T) {
	results := []*core.RankedResult{
		{
			DocumentTitle: "First",
			Content:       "alpha",
			CreatedAt:     time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			DocumentTitle: "Second",
			Content:       "beta",
			CreatedAt:     time.Date(2025, time.February, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	expected := "[1] From \"First\" (Jan 1, 2025):\nalpha\n" +
		"\n---\n\n" +
		"[2] From \"Second\" (Feb 2, 2025):\nbeta\n"
	assert.Equal(t, expected, BuildContext(results))
}

func TestBuildContext_PreservesGivenOrder(t *testing.T) {
	results := []*core.RankedResult{
		{DocumentTitle: "Low", Content: "c", Score: 0.1},
		{DocumentTitle: "High", Content: "a", Score: 0.9},
	}

	context := BuildContext(results)
	assert.Contains(t, context, "[1] From \"Low\"")
	assert.Contains(t, context, "[2] From \"High\"")
}
