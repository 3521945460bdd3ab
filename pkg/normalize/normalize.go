package normalize

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/soundprediction/verity/pkg/types"
)

// Column name prefixes for indexed relationship groups.
const (
	PrefixRelationType     = "relationType"
	PrefixRelationStrength = "relationStrength"
	PrefixRelated          = "related"
	PrefixReasoning        = "reasoning"
)

var indexedKey = regexp.MustCompile(`^(relationType|relationStrength|related|reasoning)(\d+)$`)

// Options tune how stored property values are decoded.
type Options struct {
	// RepairMetadata runs metadata strings that are not valid JSON through
	// jsonrepair before falling back to the raw string.
	RepairMetadata bool
}

// Normalizer converts raw records into Scraps.
type Normalizer struct {
	opts Options
}

// New creates a Normalizer.
func New(opts Options) *Normalizer {
	return &Normalizer{opts: opts}
}

var strict = New(Options{})

// Normalize converts records with strict metadata decoding.
func Normalize(records []types.RawRecord) []types.Scrap {
	return strict.Normalize(records)
}

// NormalizeRecord converts a single record with strict metadata decoding.
func NormalizeRecord(rec types.RawRecord) (types.Scrap, bool) {
	return strict.NormalizeRecord(rec)
}

// ScrapFromNode converts a node with strict metadata decoding.
func ScrapFromNode(node *types.RawNode) types.Scrap {
	return strict.ScrapFromNode(node)
}

// Normalize converts records into Scraps, keeping input order. It never
// fails and never mutates its input.
func (n *Normalizer) Normalize(records []types.RawRecord) []types.Scrap {
	out := make([]types.Scrap, 0, len(records))
	for _, rec := range records {
		if s, ok := n.NormalizeRecord(rec); ok {
			out = append(out, s)
		}
	}
	return out
}

// NormalizeRecord converts a single record. It reports false when the
// record holds no Scrap node.
func (n *Normalizer) NormalizeRecord(rec types.RawRecord) (types.Scrap, bool) {
	ownerKey, node := findScrap(rec)
	if node == nil {
		return types.Scrap{}, false
	}

	scrap := n.ScrapFromNode(node)
	scrap.Relationships = relationships(rec, ownerKey)
	return scrap, true
}

// ScrapFromNode extracts id, content, tags and metadata from a Scrap node.
// The relationships list is empty.
func (n *Normalizer) ScrapFromNode(node *types.RawNode) types.Scrap {
	props := node.Properties
	return types.Scrap{
		ID:            asString(props["id"]),
		Content:       asString(props["content"]),
		Tags:          asStrings(props["tags"]),
		Metadata:      parseMetadata(props["metadata"], n.opts.RepairMetadata),
		Relationships: []types.Relationship{},
	}
}

// NewRelationship builds a Relationship to target from loosely typed
// column values.
func NewRelationship(relType, strength, reasoning any, target *types.RawNode) types.Relationship {
	rel := types.Relationship{
		Type:      asString(relType),
		Reasoning: asString(reasoning),
	}
	if f, ok := asFloat(strength); ok {
		rel.Strength = &f
	}
	if target != nil {
		rel.ID = asString(target.Properties["id"])
		rel.Content = asString(target.Properties["content"])
	}
	return rel
}

func findScrap(rec types.RawRecord) (string, *types.RawNode) {
	for _, k := range rec.Keys {
		v, _ := rec.Get(k)
		if n, ok := v.(*types.RawNode); ok && n.HasLabel(types.ScrapLabel) {
			return k, n
		}
	}
	return "", nil
}

type relGroup struct {
	relType, strength, reasoning any
	hasMeta                      bool
	target                       *types.RawNode
}

func relationships(rec types.RawRecord, ownerKey string) []types.Relationship {
	groups := map[int]*relGroup{}
	for _, k := range rec.Keys {
		if k == ownerKey {
			continue
		}
		m := indexedKey.FindStringSubmatch(k)
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		g, ok := groups[idx]
		if !ok {
			g = &relGroup{}
			groups[idx] = g
		}
		v, _ := rec.Get(k)
		switch m[1] {
		case PrefixRelationType:
			g.relType = v
			g.hasMeta = true
		case PrefixRelationStrength:
			g.strength = v
			g.hasMeta = true
		case PrefixReasoning:
			g.reasoning = v
		case PrefixRelated:
			if n, ok := v.(*types.RawNode); ok {
				g.target = n
			}
		}
	}

	indices := make([]int, 0, len(groups))
	for idx, g := range groups {
		if g.target != nil && g.hasMeta {
			indices = append(indices, idx)
		}
	}
	sort.Ints(indices)

	rels := make([]types.Relationship, 0, len(indices))
	for _, idx := range indices {
		g := groups[idx]
		rels = append(rels, NewRelationship(g.relType, g.strength, g.reasoning, g.target))
	}
	return rels
}
