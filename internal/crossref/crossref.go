// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crossref fetches an article's reference list from the Crossref
// works API.
package crossref

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/micha-blip/refcheck/pkg/types"
)

// apiBase is the Crossref works endpoint. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://api.crossref.org/works/"

// ErrWorkNotFound is returned when the source article cannot be fetched,
// for any reason: unknown DOI, non-2xx response, or transport failure.
// Callers treat it as absence, not a hard fault.
var ErrWorkNotFound = errors.New("article not found on Crossref")

// Crossref API JSON structures.
type crossrefResponse struct {
	Message crossrefWork `json:"message"`
}

type crossrefWork struct {
	Title     []string            `json:"title"`
	Reference []crossrefReference `json:"reference"`
}

type crossrefReference struct {
	Key          string `json:"key"`
	DOI          string `json:"DOI"`
	Unstructured string `json:"unstructured"`
}

// FetchWork looks up a DOI on Crossref and returns the work's title and
// ordered reference list. The DOI is passed into the request URL as-is;
// no local validation is performed. Lookup failures of any kind wrap
// ErrWorkNotFound.
func FetchWork(ctx context.Context, client *http.Client, doi string, cfg types.CrossrefConfig) (*types.Work, error) {
	apiURL := apiBase + doi
	if cfg.Mailto != "" {
		apiURL += "?mailto=" + cfg.Mailto
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWorkNotFound, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", ErrWorkNotFound, resp.StatusCode)
	}

	var cr crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("parsing Crossref response: %w", err)
	}

	work := &types.Work{DOI: doi}
	if len(cr.Message.Title) > 0 {
		work.Title = cleanTitle(cr.Message.Title[0])
	}

	for i, ref := range cr.Message.Reference {
		key := ref.Key
		if key == "" {
			key = fmt.Sprintf("substitute_key_%d", i)
		}
		work.References = append(work.References, types.Reference{
			Key:          key,
			DOI:          ref.DOI,
			Unstructured: strings.TrimSpace(ref.Unstructured),
		})
	}

	return work, nil
}

// cleanTitle flattens a Crossref title to a single printable line.
func cleanTitle(title string) string {
	title = strings.ReplaceAll(title, "\n", " ")
	title = strings.ReplaceAll(title, "+", "")
	return strings.Join(strings.Fields(title), " ")
}
