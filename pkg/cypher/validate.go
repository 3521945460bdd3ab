package cypher

import (
	"fmt"
	"strings"

	"github.com/soundprediction/verity/pkg/types"
)

// DeniedKeywords are the write or schema operations a generated query may
// not contain. Order matters: the first match is reported.
var DeniedKeywords = []string{
	"delete",
	"remove",
	"drop",
	"create index",
	"create constraint",
	"merge",
	"set",
	"detach delete",
}

// RequiredKeywords must all be present for a query to count as a read.
var RequiredKeywords = []string{"match", "return"}

// Validate returns a *types.SearchError of kind KindUnsafeQuery if query is
// not a pure read.
func Validate(query string) error {
	if kw, found := DeniedKeyword(query); found {
		return types.NewUnsafeQueryError(fmt.Sprintf("query contains potentially dangerous operation: %s", kw))
	}

	lower := strings.ToLower(query)
	for _, kw := range RequiredKeywords {
		if !strings.Contains(lower, kw) {
			return types.NewUnsafeQueryError("not read-only: query must contain MATCH and RETURN clauses")
		}
	}

	return nil
}

// DeniedKeyword returns the first denied keyword found in query.
func DeniedKeyword(query string) (string, bool) {
	lower := strings.ToLower(query)
	for _, kw := range DeniedKeywords {
		if strings.Contains(lower, kw) {
			return kw, true
		}
	}
	return "", false
}
