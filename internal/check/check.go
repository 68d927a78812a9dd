// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package check classifies an article's references against PubMed and
// aggregates the outcomes into a report.
package check

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/micha-blip/refcheck/internal/pubmed"
	"github.com/micha-blip/refcheck/pkg/types"
)

// Lookup is the PubMed surface the checker needs: a DOI-scoped search
// returning record identifiers, and a detail fetch for one identifier.
// *pubmed.Client implements it.
type Lookup interface {
	Search(ctx context.Context, doi string) ([]string, error)
	Fetch(ctx context.Context, pmid string) (*pubmed.Article, error)
}

// Checker classifies references one at a time, in order. There is no
// batching and no parallel dispatch: a failure on one reference never
// affects another's classification.
type Checker struct {
	PubMed    Lookup
	Formatter Formatter
	Verbose   bool
	Out       io.Writer
}

// Run checks every reference and returns one CheckedReference per input,
// order-preserving. All lookup errors are swallowed into StatusNoArticle,
// so the output length always matches the input. A cancelled context
// makes the remaining lookups fail, which classifies them the same way.
func (c *Checker) Run(ctx context.Context, refs []types.Reference) []types.CheckedReference {
	checked := make([]types.CheckedReference, len(refs))
	for i, ref := range refs {
		checked[i] = c.checkOne(ctx, i, ref)
	}
	return checked
}

// checkOne classifies a single reference. index is 0-based; progress
// lines print it 1-based, matching the source list numbering.
func (c *Checker) checkOne(ctx context.Context, index int, ref types.Reference) types.CheckedReference {
	result := types.CheckedReference{Reference: ref}

	if !ref.HasDOI() {
		result.Status = types.StatusNoDOI
		c.progress(index, result.Status, "DOI missing in reference list")
		return result
	}

	pmids, err := c.PubMed.Search(ctx, ref.DOI)
	if err != nil {
		result.Status = types.StatusNoArticle
		c.progress(index, result.Status,
			fmt.Sprintf("An error occurred checking DOI '%s' on PubMed: %v", ref.DOI, err))
		return result
	}

	if len(pmids) == 0 {
		result.Status = types.StatusNoArticle
		c.progress(index, result.Status,
			fmt.Sprintf("No article found on PubMed for DOI: %s", ref.DOI))
		return result
	}

	// A DOI maps to at most one PubMed record, so the first hit is the one.
	article, err := c.PubMed.Fetch(ctx, pmids[0])
	switch {
	case errors.Is(err, pubmed.ErrNoRecord):
		result.Status = types.StatusNoArticle
		c.progress(index, result.Status,
			fmt.Sprintf("Could not fetch details for DOI: %s", ref.DOI))
	case err != nil:
		result.Status = types.StatusNoArticle
		c.progress(index, result.Status,
			fmt.Sprintf("An error occurred checking DOI '%s' on PubMed: %v", ref.DOI, err))
	default:
		result.Status = types.StatusFound
		result.Title = article.Title
		result.PMID = article.PMID
		c.progress(index, result.Status, article.Title)
	}
	return result
}

// progress prints one per-reference status line in verbose mode.
func (c *Checker) progress(index int, status types.Status, text string) {
	if !c.Verbose || c.Out == nil {
		return
	}
	fmt.Fprintln(c.Out, c.formatter().Line(index+1, status, text))
}

func (c *Checker) formatter() Formatter {
	if c.Formatter == nil {
		return PlainFormatter{}
	}
	return c.Formatter
}

// BuildReport aggregates checked references into a report with per-status
// counts. The counts sum to len(checked) by construction.
func BuildReport(work *types.Work, checked []types.CheckedReference) types.Report {
	report := types.Report{
		ArticleDOI:   work.DOI,
		ArticleTitle: work.Title,
		Entries:      checked,
		Timestamp:    time.Now(),
	}
	for _, entry := range checked {
		switch entry.Status {
		case types.StatusFound:
			report.Summary.Found++
		case types.StatusNoDOI:
			report.Summary.MissingDOI++
		default:
			report.Summary.NotFound++
		}
	}
	return report
}
