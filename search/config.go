// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package search

import (
	"fmt"
	"time"

	"github.com/poiesic/herbalist/retry"
)

// Config holds ranking limits and scoring weights.
type Config struct {
	// MaxResults caps the primary result list.
	// Default: 10
	MaxResults int

	// FallbackMaxResults caps the name-only fallback list.
	// Default: 5
	FallbackMaxResults int

	// BenefitWeight is added per distinct (benefit, term) hit.
	// Default: 10
	BenefitWeight int

	// TextWeight is added per keyword found in name, scientific name or description.
	// Default: 3
	TextWeight int

	// ComponentWeight is added per keyword found in any component.
	// Default: 1
	ComponentWeight int

	// FallbackScore is the flat score of a fallback match.
	// Default: 1
	FallbackScore int

	// MaxMatchedBenefits caps MatchResult.MatchedBenefits.
	// Default: 3
	MaxMatchedBenefits int

	// MinKeywordLength drops shorter keywords. Zero disables the filter.
	// Default: 0
	MinKeywordLength int

	// CatalogRetry governs catalog snapshot reads in Searcher.
	CatalogRetry retry.Policy
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithMaxResults sets the primary result cap.
func WithMaxResults(n int) ConfigOption {
	return func(c *Config) {
		c.MaxResults = n
	}
}

// WithFallbackMaxResults sets the fallback result cap.
func WithFallbackMaxResults(n int) ConfigOption {
	return func(c *Config) {
		c.FallbackMaxResults = n
	}
}

// WithWeights sets the benefit, text and component weights.
func WithWeights(benefit, text, component int) ConfigOption {
	return func(c *Config) {
		c.BenefitWeight = benefit
		c.TextWeight = text
		c.ComponentWeight = component
	}
}

// WithMaxMatchedBenefits sets how many matched benefits a result reports.
func WithMaxMatchedBenefits(n int) ConfigOption {
	return func(c *Config) {
		c.MaxMatchedBenefits = n
	}
}

// WithMinKeywordLength sets the keyword length floor.
func WithMinKeywordLength(n int) ConfigOption {
	return func(c *Config) {
		c.MinKeywordLength = n
	}
}

// WithCatalogRetry sets the retry policy for catalog reads.
func WithCatalogRetry(attempts int, baseDelay time.Duration) ConfigOption {
	return func(c *Config) {
		c.CatalogRetry.MaxAttempts = attempts
		c.CatalogRetry.BaseDelay = baseDelay
	}
}

// DefaultConfig returns the standard ranking configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxResults:         10,
		FallbackMaxResults: 5,
		BenefitWeight:      10,
		TextWeight:         3,
		ComponentWeight:    1,
		FallbackScore:      1,
		MaxMatchedBenefits: 3,
		MinKeywordLength:   0,
		CatalogRetry:       retry.DefaultPolicy(),
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//		WithMaxResults(20),
//		WithMinKeywordLength(4),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize fills an unset retry policy with the default and keeps the
// fallback cap within the primary cap.
func (c *Config) Normalize() {
	if c.CatalogRetry.MaxAttempts == 0 {
		c.CatalogRetry = retry.DefaultPolicy()
	}
	if c.FallbackMaxResults > c.MaxResults {
		c.FallbackMaxResults = c.MaxResults
	}
}

// Validate checks that the configuration is usable.
// It normalizes the configuration first.
func (c *Config) Validate() error {
	c.Normalize()

	if c.MaxResults < 1 {
		return fmt.Errorf("%w: MaxResults must be at least 1", ErrInvalidConfig)
	}
	if c.FallbackMaxResults < 0 {
		return fmt.Errorf("%w: FallbackMaxResults cannot be negative", ErrInvalidConfig)
	}
	if c.BenefitWeight < 1 {
		return fmt.Errorf("%w: BenefitWeight must be at least 1", ErrInvalidConfig)
	}
	if c.TextWeight < 0 || c.ComponentWeight < 0 {
		return fmt.Errorf("%w: weights cannot be negative", ErrInvalidConfig)
	}
	if c.FallbackScore < 1 {
		return fmt.Errorf("%w: FallbackScore must be at least 1", ErrInvalidConfig)
	}
	if c.MaxMatchedBenefits < 0 {
		return fmt.Errorf("%w: MaxMatchedBenefits cannot be negative", ErrInvalidConfig)
	}
	if c.MinKeywordLength < 0 {
		return fmt.Errorf("%w: MinKeywordLength cannot be negative", ErrInvalidConfig)
	}
	if err := c.CatalogRetry.Validate(); err != nil {
		return fmt.Errorf("%w: catalog retry: %w", ErrInvalidConfig, err)
	}
	return nil
}
