// Package types defines the core data types shared across verity.
//
// This package contains the fundamental types used by the search pipeline:
//   - Scrap: a short inspirational text snippet stored in the graph
//   - Relationship: a directed, typed edge from one Scrap to another
//   - QueryInfo: the product of translating a natural-language prompt into Cypher
//   - SearchRecord: a cached search result
//   - RawNode / RawRecord: graph store rows before normalization
//
// # Errors
//
// Pipeline failures are reported as *SearchError values carrying an
// ErrorKind. Use errors.Is with the Err* sentinels to test the kind:
//
//	if errors.Is(err, types.ErrUnsafeQuery) {
//	    // the generated query was rejected
//	}
//
// HTTPStatus maps any error onto the status code the HTTP layer returns.
package types
