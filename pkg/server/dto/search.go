package dto

import (
	"github.com/soundprediction/verity/pkg/types"
)

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Prompt string `json:"prompt" validate:"notblank"`
}

// DebugQueryRequest is the body of POST /debug/query.
type DebugQueryRequest struct {
	Query string `json:"query" validate:"notblank"`
}

// ResultsQuery holds the query string of GET /results.
type ResultsQuery struct {
	ID string `form:"id" validate:"notblank"`
}

// ScrapsQuery holds the query string of GET /scraps.
type ScrapsQuery struct {
	Limit *int   `form:"limit"`
	Q     string `form:"q" validate:"max=500"`
}

// QueryInfo is the wire form of types.QueryInfo. Explanation is always a
// string; rawResponse is only filled in debug mode.
type QueryInfo struct {
	Query       string `json:"query"`
	Explanation string `json:"explanation"`
	RawResponse string `json:"rawResponse,omitempty"`
}

// NewQueryInfo converts info, dropping the raw reply unless debug is set.
func NewQueryInfo(info types.QueryInfo, debug bool) QueryInfo {
	out := QueryInfo{
		Query:       info.Query,
		Explanation: info.ExplanationText(),
	}
	if debug {
		out.RawResponse = info.RawResponse
	}
	return out
}

// SearchResponse is returned by POST /search.
type SearchResponse struct {
	SearchID  string        `json:"searchId,omitempty"`
	Results   []types.Scrap `json:"results"`
	QueryInfo QueryInfo     `json:"queryInfo"`
}

// ResultsResponse is returned by GET /results.
type ResultsResponse struct {
	Results   []types.Scrap `json:"results"`
	QueryInfo QueryInfo     `json:"queryInfo"`
}

// ScrapsResponse is returned by GET /scraps and GET /scraps/:id/related.
type ScrapsResponse struct {
	Results []types.Scrap `json:"results"`
	Count   int           `json:"count"`
	Limit   int           `json:"limit,omitempty"`
	Query   string        `json:"query,omitempty"`
}

// NewScrapsResponse builds a list response, never encoding results as null.
func NewScrapsResponse(results []types.Scrap) ScrapsResponse {
	if results == nil {
		results = []types.Scrap{}
	}
	return ScrapsResponse{Results: results, Count: len(results)}
}
