package search

import (
	"fmt"
	"strings"

	"github.com/sarthakraghuvanshi/Memora-Second-Mind/core"
)

// emptyContext is returned when a query produced no results.
const emptyContext = "No relevant information found."

// BuildContext renders ranked results into a prompt-ready context string.
// Results appear in their given order as 1-indexed blocks of the form
//
//	[i] From "<title>" (<date>):
//	<content>
//
// separated by a "---" divider line.
func BuildContext(results []*core.RankedResult) string {
	if len(results) == 0 {
		return emptyContext
	}

	blocks := make([]string, len(results))
	for i, result := range results {
		blocks[i] = fmt.Sprintf("[%d] From \"%s\" (%s):\n%s\n",
			i+1, result.DocumentTitle, result.CreatedAt.Format("Jan 2, 2006"), result.Content)
	}
	return strings.Join(blocks, "\n---\n\n")
}
