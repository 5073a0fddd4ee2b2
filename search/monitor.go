package search

import (
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/core"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/temporal"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterTemporalParse(dateRange *temporal.DateRange, cleanedQuery string)
	AfterQueryEmbedding(dimensions int)
	AfterCandidateScan(candidates int)
	AfterDateFilter(remaining int)
	CandidateDropped(chunkID core.ID, err error)
	Finish(results []*core.RankedResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                 {}
func (n *noopMonitor) AfterTemporalParse(_ *temporal.DateRange, _ string) {}
func (n *noopMonitor) AfterQueryEmbedding(_ int)                      {}
func (n *noopMonitor) AfterCandidateScan(_ int)                       {}
func (n *noopMonitor) AfterDateFilter(_ int)                          {}
func (n *noopMonitor) CandidateDropped(_ core.ID, _ error)            {}
func (n *noopMonitor) Finish(_ []*core.RankedResult)                  {}
