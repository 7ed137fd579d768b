package search

import (
	"github.com/poiesic/noema/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterParse(request *core.SearchRequest)
	AfterRetrieval(candidates []*core.Candidate, degraded bool)
	AfterScoring(kept, dropped int)
	Finish(response *core.SearchResponse)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                              {}
func (n *noopMonitor) AfterParse(_ *core.SearchRequest)            {}
func (n *noopMonitor) AfterRetrieval(_ []*core.Candidate, _ bool)  {}
func (n *noopMonitor) AfterScoring(_, _ int)                       {}
func (n *noopMonitor) Finish(_ *core.SearchResponse)               {}
