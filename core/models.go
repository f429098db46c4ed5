package core

import (
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is an opaque, stable identifier for a catalog entry.
// It is never reassigned once a record has been stored.
type ID string

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Importing the same named plant twice yields the same ID.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	return ID(hex.EncodeToString(h.Sum(nil)))
}

// PlantRecord is a single entry in the remedy catalog.
type PlantRecord struct {
	ID             ID        `json:"id"`
	Name           string    `json:"name"`
	ScientificName string    `json:"scientific_name,omitempty"`
	Description    string    `json:"description,omitempty"`
	Benefits       []string  `json:"benefits"`                // Primary matching surface
	Components     []string  `json:"components"`              // Secondary matching surface
	UsageMethods   []string  `json:"usage_methods,omitempty"` // Display only
	Precautions    []string  `json:"precautions,omitempty"`   // Display only
	InsertedAt     time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// HasBenefits reports whether the record carries at least one benefit tag.
func (p *PlantRecord) HasBenefits() bool {
	return p != nil && len(p.Benefits) > 0
}

// SynonymRule maps a literal phrase of 1-3 tokens to one canonical term.
type SynonymRule struct {
	Phrase    string
	Canonical string
}

// StemRule maps a single token to its root form.
type StemRule struct {
	Token string
	Root  string
}

// MatchResult is one ranked catalog entry for a query.
type MatchResult struct {
	Plant           *PlantRecord `json:"plant"`
	Score           int          `json:"score"`
	MatchedBenefits []string     `json:"matchedBenefits"`
	MatchedTerms    []string     `json:"matchedTerms"`
}

// SearchInsights summarizes how a query was understood.
// It depends only on the query, never on the catalog.
type SearchInsights struct {
	ExtractedKeywords []string `json:"extractedKeywords"`
	Conditions        []string `json:"conditions"`
	TargetBenefits    []string `json:"targetBenefits"`
	Suggestions       []string `json:"suggestions"`
}

// SearchResponse is the ranked result list together with its insights.
type SearchResponse struct {
	Results        []MatchResult  `json:"results"`
	SearchInsights SearchInsights `json:"searchInsights"`
	Fallback       bool           `json:"fallback"`
}
