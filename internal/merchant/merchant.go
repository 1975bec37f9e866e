package merchant

import "strings"

// NoCategory is the sentinel category for rows that carry neither a
// Category nor a Type column value.
const NoCategory = "<None>"

// Rule maps a raw-description pattern to a canonical merchant name.
// Match values are compared against the upper-cased description, so they
// are normally written in upper case.
type Rule struct {
	Match string
	Name  string
}

// Normalizer maps raw merchant descriptions to canonical names and resolves
// final transaction categories. Rules are checked in order; the first match
// wins, never the best match.
type Normalizer struct {
	Prefix    []Rule            // matched with strings.HasPrefix, checked first
	Substring []Rule            // matched with strings.Contains
	Overrides map[string]string // canonical merchant -> category
}

// Normalize returns the canonical merchant name for a raw description.
// The description is upper-cased, then prefix rules are scanned in order,
// then substring rules. With no match the upper-cased description is
// returned unchanged.
func (n *Normalizer) Normalize(desc string) string {
	desc = strings.ToUpper(desc)

	for _, r := range n.Prefix {
		if strings.HasPrefix(desc, r.Match) {
			return r.Name
		}
	}
	for _, r := range n.Substring {
		if strings.Contains(desc, r.Match) {
			return r.Name
		}
	}
	return desc
}

// Category resolves the final category for a transaction. A per-merchant
// override wins over the source-provided category, which wins over the
// source transaction type.
func (n *Normalizer) Category(merchant, sourceCategory, sourceType string) string {
	if c, ok := n.Overrides[merchant]; ok {
		return c
	}
	if sourceCategory != "" {
		return sourceCategory
	}
	if sourceType != "" {
		return sourceType
	}
	return NoCategory
}
