// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/micha-blip/refcheck/internal/check"
	"github.com/micha-blip/refcheck/internal/crossref"
	"github.com/micha-blip/refcheck/pkg/types"
)

// stubFetchWork replaces the Crossref lookup for the duration of the test
// and returns a pointer to its call counter.
func stubFetchWork(t *testing.T, fn func(doi string) (*types.Work, error)) *int {
	t.Helper()
	old := fetchWork
	calls := new(int)
	fetchWork = func(_ context.Context, _ *http.Client, doi string, _ types.CrossrefConfig) (*types.Work, error) {
		*calls++
		return fn(doi)
	}
	t.Cleanup(func() { fetchWork = old })
	return calls
}

func TestCheckArticleSourceMissing(t *testing.T) {
	calls := stubFetchWork(t, func(string) (*types.Work, error) {
		return nil, fmt.Errorf("%w: HTTP 404", crossref.ErrWorkNotFound)
	})

	var buf bytes.Buffer
	report, found, err := checkArticle(context.Background(), "10.9999/unresolvable",
		types.CheckConfig{}, check.PlainFormatter{}, true, &buf)
	if err != nil {
		t.Fatalf("checkArticle() error = %v, want soft failure", err)
	}
	if found {
		t.Error("found = true, want false for an unresolvable source article")
	}

	// The empty report and the not-found message are the only outcome.
	want := "Sending request...\nAn error occurred: The article was not found\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if len(report.Entries) != 0 || report.Summary.Total() != 0 {
		t.Errorf("report = %+v, want empty", report)
	}
	if *calls != 1 {
		t.Errorf("fetchWork called %d times, want 1", *calls)
	}
}

func TestCheckArticleHardError(t *testing.T) {
	stubFetchWork(t, func(string) (*types.Work, error) {
		return nil, fmt.Errorf("parsing Crossref response: unexpected EOF")
	})

	var buf bytes.Buffer
	_, found, err := checkArticle(context.Background(), "10.1000/src",
		types.CheckConfig{}, check.PlainFormatter{}, true, &buf)
	if err == nil {
		t.Fatal("checkArticle() should propagate errors that are not article absence")
	}
	if found {
		t.Error("found = true, want false on error")
	}
}

func TestCheckArticlePipeline(t *testing.T) {
	stubFetchWork(t, func(string) (*types.Work, error) {
		return &types.Work{
			DOI:   "10.1000/src",
			Title: "Source Title",
			References: []types.Reference{
				{Key: "r1"},
				{Key: "r2"},
			},
		}, nil
	})

	var buf bytes.Buffer
	report, found, err := checkArticle(context.Background(), "10.1000/src",
		types.CheckConfig{}, check.PlainFormatter{}, true, &buf)
	if err != nil {
		t.Fatalf("checkArticle() error = %v", err)
	}
	if !found {
		t.Fatal("found = false, want true")
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"Sending request...",
		"Processing response for: Source Title",
		"1 DOI missing in reference list",
		"2 DOI missing in reference list",
		"Done, found 0 existing documents, 0 non-existing documents and 2 missing DOI",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
	if got := (types.Summary{MissingDOI: 2}); report.Summary != got {
		t.Errorf("Summary = %+v, want %+v", report.Summary, got)
	}
}

func TestCheckBatchCountsMisses(t *testing.T) {
	stubFetchWork(t, func(doi string) (*types.Work, error) {
		if doi == "10.9999/gone" {
			return nil, fmt.Errorf("%w: HTTP 404", crossref.ErrWorkNotFound)
		}
		return &types.Work{DOI: doi, Title: "Ok", References: []types.Reference{{Key: "r1"}}}, nil
	})

	var buf bytes.Buffer
	err := checkBatch(context.Background(), []string{"10.1000/ok", "10.9999/gone"},
		types.CheckConfig{}, check.PlainFormatter{}, false, true, &buf)
	if err == nil {
		t.Fatal("checkBatch() should fail when an article could not be fetched")
	}
	if !strings.Contains(err.Error(), "1 article(s) could not be fetched") {
		t.Errorf("error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "An error occurred: The article was not found") {
		t.Errorf("output missing the not-found message:\n%s", out)
	}
	if !strings.Contains(out, "Batch summary: 1 article(s) checked, 1 not found (total: 2)") {
		t.Errorf("output missing the batch summary:\n%s", out)
	}
}

func TestCheckBatchAllFetched(t *testing.T) {
	stubFetchWork(t, func(doi string) (*types.Work, error) {
		return &types.Work{DOI: doi, Title: "Ok"}, nil
	})

	var buf bytes.Buffer
	err := checkBatch(context.Background(), []string{"10.1000/a", "10.1000/b"},
		types.CheckConfig{}, check.PlainFormatter{}, false, true, &buf)
	if err != nil {
		t.Fatalf("checkBatch() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Batch summary: 2 article(s) checked, 0 not found (total: 2)") {
		t.Errorf("output missing the batch summary:\n%s", buf.String())
	}
}

func newRunCommand(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addRunFlags(cmd)
	return cmd
}

func TestBuildConfigExplicitZeroOverridesConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("pubmed.max_retries", 3)
	viper.Set("pubmed.retmax", 25)
	viper.Set("http.timeout", 90*time.Second)

	cmd := newRunCommand(t)
	for flag, value := range map[string]string{
		"retries": "0",
		"retmax":  "0",
		"timeout": "0",
	} {
		if err := cmd.Flags().Set(flag, value); err != nil {
			t.Fatalf("setting --%s: %v", flag, err)
		}
	}

	cfg := buildConfig(cmd)
	if cfg.PubMed.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want explicit 0 to beat the config file", cfg.PubMed.MaxRetries)
	}
	if cfg.PubMed.RetMax != 0 {
		t.Errorf("RetMax = %d, want explicit 0 to beat the config file", cfg.PubMed.RetMax)
	}
	if cfg.Crossref.Timeout != 0 {
		t.Errorf("Timeout = %v, want explicit 0 to beat the config file", cfg.Crossref.Timeout)
	}
}

func TestBuildConfigPrecedence(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("pubmed.max_retries", 3)
	viper.Set("http.timeout", 90*time.Second)

	// Unset flags fall through to the config file.
	cfg := buildConfig(newRunCommand(t))
	if cfg.PubMed.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want config value 3", cfg.PubMed.MaxRetries)
	}
	if cfg.Crossref.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v, want config value 90s", cfg.Crossref.Timeout)
	}

	// A set flag beats the config file.
	cmd := newRunCommand(t)
	if err := cmd.Flags().Set("retries", "7"); err != nil {
		t.Fatal(err)
	}
	if cfg := buildConfig(cmd); cfg.PubMed.MaxRetries != 7 {
		t.Errorf("MaxRetries = %d, want flag value 7", cfg.PubMed.MaxRetries)
	}
}

func TestBuildConfigDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()

	cfg := buildConfig(newRunCommand(t))
	if cfg.Crossref.Timeout != defaultTimeout {
		t.Errorf("Timeout = %v, want default %v", cfg.Crossref.Timeout, defaultTimeout)
	}
	if cfg.PubMed.Tool != defaultTool {
		t.Errorf("Tool = %q, want %q", cfg.PubMed.Tool, defaultTool)
	}
	if cfg.PubMed.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0 (one call per reference)", cfg.PubMed.MaxRetries)
	}
	if cfg.ArticleDelay != defaultDelay {
		t.Errorf("ArticleDelay = %v, want default %v", cfg.ArticleDelay, defaultDelay)
	}
}
