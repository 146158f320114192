package domain

import (
	"fmt"
	"strings"
)

// ClaimCategory classifies an extracted claim.
type ClaimCategory string

// The closed set of claim categories.
const (
	CategoryFinding    ClaimCategory = "finding"
	CategoryMethod     ClaimCategory = "method"
	CategoryLimitation ClaimCategory = "limitation"
	CategoryBackground ClaimCategory = "background"
)

// CategoryAll is the identity filter.
const CategoryAll ClaimCategory = "all"

// ClaimCategories lists the known categories in display order.
func ClaimCategories() []ClaimCategory {
	return []ClaimCategory{CategoryFinding, CategoryMethod, CategoryLimitation, CategoryBackground}
}

// Known reports whether c is one of the closed set.
func (c ClaimCategory) Known() bool {
	switch c {
	case CategoryFinding, CategoryMethod, CategoryLimitation, CategoryBackground:
		return true
	default:
		return false
	}
}

// Label returns a capitalised name, or "Other" for an unrecognised category.
func (c ClaimCategory) Label() string {
	switch c {
	case CategoryFinding:
		return "Finding"
	case CategoryMethod:
		return "Method"
	case CategoryLimitation:
		return "Limitation"
	case CategoryBackground:
		return "Background"
	case CategoryAll:
		return "All"
	default:
		return "Other"
	}
}

// Claim is an extracted, categorised assertion tied to a document page.
type Claim struct {
	ID          int           `json:"id"`
	DocID       string        `json:"doc_id"`
	Filename    string        `json:"filename"`
	Page        int           `json:"page"`
	Text        string        `json:"text"`
	Category    ClaimCategory `json:"category"`
	SourceQuote *string       `json:"source_quote"`
}

// ClaimGroup holds the claims of one document in server order.
type ClaimGroup struct {
	DocID    string
	Filename string
	Claims   []Claim
}

// FilterClaims returns the claims of the given category in their original order.
// CategoryAll returns a copy of the full slice.
func FilterClaims(claims []Claim, category ClaimCategory) []Claim {
	out := make([]Claim, 0, len(claims))
	for i := range claims {
		if category == CategoryAll || claims[i].Category == category {
			out = append(out, claims[i])
		}
	}
	return out
}

// GroupClaims partitions claims by document in first-seen order.
// The group filename is taken from the first claim seen for the document.
func GroupClaims(claims []Claim) []ClaimGroup {
	groups := []ClaimGroup{}
	index := map[string]int{}
	for i := range claims {
		c := claims[i]
		pos, ok := index[c.DocID]
		if !ok {
			pos = len(groups)
			index[c.DocID] = pos
			groups = append(groups, ClaimGroup{DocID: c.DocID, Filename: c.Filename})
		}
		groups[pos].Claims = append(groups[pos].Claims, c)
	}
	return groups
}

// ParseClaimCategory maps user input onto a filter. Empty input means CategoryAll.
func ParseClaimCategory(s string) (ClaimCategory, error) {
	c := ClaimCategory(strings.ToLower(strings.TrimSpace(s)))
	if c == "" || c == CategoryAll {
		return CategoryAll, nil
	}
	if !c.Known() {
		return "", fmt.Errorf("unknown claim category %q: %w", s, ErrInvalidInput)
	}
	return c, nil
}
