package cypher

import (
	"regexp"
	"strings"

	"github.com/soundprediction/verity/pkg/types"
)

// fencedBlock matches the first ``` block. Only a known query-language
// hint followed by whitespace is stripped; any other leading word is part
// of the query.
var fencedBlock = regexp.MustCompile("```(?:(?i:cypher|neo4j|sql)\\s+)?([\\s\\S]*?)```")

// ExtractQuery builds a QueryInfo from a raw model reply.
//
// When the reply contains a fenced block, the query is its trimmed contents
// and any non-empty text after the block becomes the explanation. Otherwise
// the whole reply is taken as the query and the explanation is nil.
func ExtractQuery(reply string) types.QueryInfo {
	info := types.QueryInfo{RawResponse: reply}

	loc := fencedBlock.FindStringSubmatchIndex(reply)
	if loc == nil {
		info.Query = strings.TrimSpace(reply)
		return info
	}

	info.Query = strings.TrimSpace(reply[loc[2]:loc[3]])
	if after := strings.TrimSpace(reply[loc[1]:]); after != "" {
		info.Explanation = &after
	}
	return info
}
