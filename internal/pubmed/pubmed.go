// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed queries the NCBI E-utilities API to confirm that
// referenced articles exist in the PubMed index.
package pubmed

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/micha-blip/refcheck/internal/httputil"
	"github.com/micha-blip/refcheck/pkg/types"
)

// E-utilities endpoints. Declared as vars so tests can substitute
// httptest servers.
var (
	esearchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	efetchBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
)

// defaultRetMax caps the PMID list returned by a search.
const defaultRetMax = 10

// ErrNoRecord is returned when an EFetch succeeds at the transport level
// but yields no usable article record.
var ErrNoRecord = errors.New("no usable PubMed record")

// Article is the subset of a PubMed record the checker needs.
type Article struct {
	PMID  string
	Title string
}

// Client queries PubMed through the E-utilities ESearch and EFetch
// operations. Every request carries the tool name and contact email per
// the NCBI usage policy.
type Client struct {
	httpClient *http.Client
	cfg        types.PubMedConfig
}

// NewClient returns a Client using the given HTTP client and settings.
func NewClient(httpClient *http.Client, cfg types.PubMedConfig) *Client {
	if cfg.RetMax <= 0 {
		cfg.RetMax = defaultRetMax
	}
	return &Client{httpClient: httpClient, cfg: cfg}
}

// ESearch JSON structures.
type esearchResponse struct {
	Result esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count  string   `json:"count"`
	IDList []string `json:"idlist"`
}

// Search runs an ESearch for the DOI and returns the matching PMIDs,
// possibly empty, capped at the configured retmax.
func (c *Client) Search(ctx context.Context, doi string) ([]string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"term":    {doi + "[doi]"},
		"retmax":  {fmt.Sprintf("%d", c.cfg.RetMax)},
		"retmode": {"json"},
	}
	c.identify(params)

	body, err := c.get(ctx, esearchBase, params)
	if err != nil {
		return nil, fmt.Errorf("PubMed search: %w", err)
	}
	defer body.Close()

	var sr esearchResponse
	if err := json.NewDecoder(body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing ESearch response: %w", err)
	}
	return sr.Result.IDList, nil
}

// EFetch XML structures, following the PubmedArticleSet DTD.
type pubmedArticleSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	MedlineCitation medlineCitation `xml:"MedlineCitation"`
}

type medlineCitation struct {
	PMID    string       `xml:"PMID"`
	Article pubmedRecord `xml:"Article"`
}

type pubmedRecord struct {
	ArticleTitle string `xml:"ArticleTitle"`
}

// Fetch runs an EFetch for one PMID and returns the article details.
// A well-formed response containing no article yields ErrNoRecord.
func (c *Client) Fetch(ctx context.Context, pmid string) (*Article, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {pmid},
		"retmode": {"xml"},
	}
	c.identify(params)

	body, err := c.get(ctx, efetchBase, params)
	if err != nil {
		return nil, fmt.Errorf("PubMed fetch: %w", err)
	}
	defer body.Close()

	var set pubmedArticleSet
	if err := xml.NewDecoder(body).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing EFetch response: %w", err)
	}

	if len(set.Articles) == 0 {
		return nil, ErrNoRecord
	}

	citation := set.Articles[0].MedlineCitation
	article := &Article{PMID: citation.PMID, Title: citation.Article.ArticleTitle}
	if article.Title == "" {
		article.Title = "No Title Available"
	}
	return article, nil
}

// identify adds the NCBI usage-policy parameters to a request.
func (c *Client) identify(params url.Values) {
	if c.cfg.Tool != "" {
		params.Set("tool", c.cfg.Tool)
	}
	if c.cfg.Email != "" {
		params.Set("email", c.cfg.Email)
	}
	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}
}

// get issues a GET to base with params and returns the response body.
func (c *Client) get(ctx context.Context, base string, params url.Values) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.Do(ctx, c.httpClient, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return resp.Body, nil
}
