// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// MissingDOI is the placeholder printed for references that carry no DOI
// in the source article's metadata. It is presentation only: internally a
// missing identifier is an empty Reference.DOI, never this string.
const MissingDOI = "not found"

// Status is the three-way classification of one reference.
type Status string

const (
	// StatusFound means PubMed confirmed the referenced article exists.
	StatusFound Status = "article found"

	// StatusNoArticle means PubMed has no record for the DOI, or the
	// lookup failed. The two cases are deliberately not distinguished.
	StatusNoArticle Status = "no article"

	// StatusNoDOI means the source article lists the reference without a
	// DOI, so there is nothing to look up.
	StatusNoDOI Status = "no DOI"
)

// Reference is one entry in an article's reference list.
type Reference struct {
	// Key is the reference key from the source metadata, or a substitute
	// ("substitute_key_N") when the source omits one.
	Key string `json:"key" yaml:"key"`

	// DOI is the referenced work's DOI. Empty when the source lists the
	// reference without an identifier.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Unstructured is the free-text citation, when the source provides
	// one instead of (or alongside) a DOI.
	Unstructured string `json:"unstructured,omitempty" yaml:"unstructured,omitempty"`
}

// HasDOI reports whether the reference carries an identifier to look up.
func (r Reference) HasDOI() bool { return r.DOI != "" }

// Label returns the DOI, or the missing-DOI placeholder for display.
func (r Reference) Label() string {
	if r.DOI == "" {
		return MissingDOI
	}
	return r.DOI
}

// Work holds the source article metadata returned by Crossref.
type Work struct {
	// DOI is the identifier the work was looked up by.
	DOI string `json:"doi" yaml:"doi"`

	// Title is the work title, flattened to a single line.
	Title string `json:"title" yaml:"title"`

	// References lists the work's references in source order.
	References []Reference `json:"references" yaml:"references"`
}

// CheckedReference pairs a reference with its classification. Position i
// in a report corresponds to position i in the source reference list.
type CheckedReference struct {
	Reference `yaml:",inline"`

	// Status is the classification outcome.
	Status Status `json:"status" yaml:"status"`

	// Title is the PubMed article title, set only when Status is
	// StatusFound.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// PMID is the matched PubMed identifier, set only when found.
	PMID string `json:"pmid,omitempty" yaml:"pmid,omitempty"`
}

// Summary holds the per-status counts for one check run. The three counts
// always sum to the number of references.
type Summary struct {
	Found      int `json:"found" yaml:"found"`
	NotFound   int `json:"not_found" yaml:"not_found"`
	MissingDOI int `json:"missing_doi" yaml:"missing_doi"`
}

// Total returns the number of references the summary covers.
func (s Summary) Total() int {
	return s.Found + s.NotFound + s.MissingDOI
}

// Report is the outcome of checking one article's references.
type Report struct {
	// ArticleDOI is the DOI of the source article.
	ArticleDOI string `json:"article_doi" yaml:"article_doi"`

	// ArticleTitle is the source article's title.
	ArticleTitle string `json:"article_title" yaml:"article_title"`

	// Entries lists the checked references in source order.
	Entries []CheckedReference `json:"entries" yaml:"entries"`

	// Summary holds the per-status counts.
	Summary Summary `json:"summary" yaml:"summary"`

	// Timestamp records when the check ran.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}
