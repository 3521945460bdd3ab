package types

import (
	"errors"
	"time"
)

// ScrapLabel is the graph label carried by every Scrap node.
const ScrapLabel = "Scrap"

// Validation errors
var (
	ErrEmptyID     = errors.New("id cannot be empty")
	ErrEmptyPrompt = errors.New("prompt cannot be empty")
	ErrEmptyQuery  = errors.New("query cannot be empty")
)

// Scrap is a short text snippet that can inspire writers.
type Scrap struct {
	ID      string   `json:"id"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`

	// Metadata is normally a map[string]any decoded from the stored JSON
	// string. When the stored value is not valid JSON it is kept as the raw
	// string.
	Metadata any `json:"metadata"`

	Relationships []Relationship `json:"relationships"`
}

// Relationship is a directed edge from the owning Scrap to another Scrap.
type Relationship struct {
	Type      string   `json:"type"`
	Strength  *float64 `json:"strength,omitempty"`
	Reasoning string   `json:"reasoning,omitempty"`

	// ID and Content describe the Scrap on the other end of the edge.
	ID      string `json:"id"`
	Content string `json:"content,omitempty"`
}

// QueryInfo is the result of translating a prompt into a graph query.
type QueryInfo struct {
	Query string `json:"query"`

	// Explanation is nil when the model reply carried no text after the
	// fenced query block.
	Explanation *string `json:"explanation"`

	RawResponse string `json:"rawResponse,omitempty"`
}

// ExplanationText returns the explanation or an empty string.
func (q *QueryInfo) ExplanationText() string {
	if q == nil || q.Explanation == nil {
		return ""
	}
	return *q.Explanation
}

// SearchResults is the output of one end-to-end search.
type SearchResults struct {
	Results   []Scrap   `json:"results"`
	QueryInfo QueryInfo `json:"queryInfo"`
}

// SearchRecord is a cached SearchResults entry.
type SearchRecord struct {
	Results   []Scrap   `json:"results"`
	QueryInfo QueryInfo `json:"queryInfo"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSearchRecord stamps results with the current time.
func NewSearchRecord(results *SearchResults, now time.Time) *SearchRecord {
	return &SearchRecord{
		Results:   results.Results,
		QueryInfo: results.QueryInfo,
		Timestamp: now,
	}
}

// Expired reports whether the record is older than maxAge at now.
func (r *SearchRecord) Expired(now time.Time, maxAge time.Duration) bool {
	return now.Sub(r.Timestamp) > maxAge
}

// RawNode is a graph node flattened out of the driver's native type.
type RawNode struct {
	Identity   string         `json:"identity"`
	Labels     []string       `json:"labels"`
	Properties map[string]any `json:"properties"`
}

// HasLabel reports whether the node carries label.
func (n *RawNode) HasLabel(label string) bool {
	if n == nil {
		return false
	}
	for _, l := range n.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// RawRecord maps result column names to either a *RawNode or a scalar value.
type RawRecord struct {
	Keys   []string
	Values map[string]any
}

// NewRawRecord builds a record preserving column order.
func NewRawRecord(keys []string, values []any) RawRecord {
	r := RawRecord{
		Keys:   make([]string, 0, len(keys)),
		Values: make(map[string]any, len(keys)),
	}
	for i, k := range keys {
		var v any
		if i < len(values) {
			v = values[i]
		}
		r.Keys = append(r.Keys, k)
		r.Values[k] = v
	}
	return r
}

// Get returns the value stored under key.
func (r RawRecord) Get(key string) (any, bool) {
	v, ok := r.Values[key]
	return v, ok
}
