// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by clients that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "refcheck/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CrossrefConfig holds settings for the Crossref works lookup.
type CrossrefConfig struct {
	HTTPConfig `yaml:",inline"`

	// Mailto is an optional contact address appended to requests so that
	// Crossref routes them to the polite pool.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty"`
}

// PubMedConfig holds settings for the NCBI E-utilities client.
type PubMedConfig struct {
	HTTPConfig `yaml:",inline"`

	// Tool identifies this client to NCBI, per their usage policy.
	Tool string `json:"tool" yaml:"tool"`

	// Email is the contact address sent with every E-utilities request.
	// Passed explicitly rather than read from process-wide state.
	Email string `json:"email" yaml:"email"`

	// APIKey is an optional NCBI API key for higher request quotas.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// RetMax caps the number of PMIDs returned by a search (default 10).
	RetMax int `json:"retmax" yaml:"retmax"`

	// MaxRetries is the number of retry attempts on HTTP 429. Zero means
	// a single request per lookup, which is the default contract.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// CheckConfig groups the configuration for one check run.
type CheckConfig struct {
	Crossref CrossrefConfig `json:"crossref" yaml:"crossref"`
	PubMed   PubMedConfig   `json:"pubmed" yaml:"pubmed"`

	// ArticleDelay is the delay between consecutive articles in batch
	// mode (default 1s). Unused for single-article checks.
	ArticleDelay time.Duration `json:"article_delay" yaml:"article_delay"`
}
