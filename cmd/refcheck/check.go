// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/micha-blip/refcheck/internal/check"
	"github.com/micha-blip/refcheck/internal/crossref"
	"github.com/micha-blip/refcheck/internal/pubmed"
	"github.com/micha-blip/refcheck/internal/secrets"
	"github.com/micha-blip/refcheck/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "refcheck/0.1"
	defaultTool      = "refcheck"
	defaultDelay     = 1 * time.Second
)

// fetchWork is the Crossref lookup used by checkArticle. A var so tests
// can substitute a stub without a live endpoint.
var fetchWork = crossref.FetchWork

var checkCmd = &cobra.Command{
	Use:   "check <doi>",
	Short: "Check one article's references against PubMed",
	Long: `Check fetches the reference list of the given DOI from Crossref and
classifies every reference: "article found" when PubMed confirms it,
"no article" when PubMed has no record (or the lookup failed), and
"no DOI" when the source article lists the reference without an
identifier.

By default a per-reference progress line and the detailed table are
printed; --summary replaces the table with the three counts.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

// addRunFlags registers the flags shared by check and batch.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("summary", false, "print the three counts instead of the per-reference table")
	cmd.Flags().Bool("quiet", false, "suppress per-reference progress lines")
	cmd.Flags().Bool("plain", false, "disable colored output")
	cmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	cmd.Flags().Int("retmax", 0, "maximum PMIDs per PubMed search (default 10)")
	cmd.Flags().Int("retries", 0, "retries on HTTP 429 from PubMed (default 0: one call per reference)")
	cmd.Flags().String("email", "", "contact email sent to NCBI (required by their usage policy)")
	cmd.Flags().String("api-key", "", "NCBI API key for higher request quotas")
}

func init() {
	addRunFlags(checkCmd)
	checkCmd.Flags().String("report", "", "write the full report to a YAML file")
	checkCmd.Flags().String("csl", "", "write confirmed references as CSL-YAML to a file")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := buildConfig(cmd)
	quiet, _ := cmd.Flags().GetBool("quiet")
	summary, _ := cmd.Flags().GetBool("summary")
	plain, _ := cmd.Flags().GetBool("plain")
	reportPath, _ := cmd.Flags().GetString("report")
	cslPath, _ := cmd.Flags().GetString("csl")

	var formatter check.Formatter = check.ColorFormatter{}
	if plain {
		formatter = check.PlainFormatter{}
	}

	report, found, err := checkArticle(cmd.Context(), args[0], cfg, formatter, !quiet, os.Stdout)
	if err != nil {
		return err
	}
	if !found {
		// Soft failure: absence of the source article is a result, not a fault.
		return nil
	}

	if summary {
		if err := check.WriteSummary(os.Stdout, report); err != nil {
			return err
		}
	} else {
		if err := check.WriteTable(os.Stdout, report); err != nil {
			return err
		}
	}

	if reportPath != "" {
		if err := check.WriteReportFile(reportPath, report); err != nil {
			return err
		}
	}
	if cslPath != "" {
		f, err := os.Create(cslPath)
		if err != nil {
			return fmt.Errorf("creating CSL file: %w", err)
		}
		defer f.Close()
		if err := check.FormatCSL(report, f); err != nil {
			return err
		}
	}
	return nil
}

// checkArticle runs the whole pipeline for one DOI: Crossref fetch,
// per-reference PubMed classification, report aggregation, tally line.
// found is false when the source article could not be fetched; the empty
// report and a printed message are the only outcome then.
func checkArticle(ctx context.Context, doi string, cfg types.CheckConfig, formatter check.Formatter, verbose bool, out io.Writer) (types.Report, bool, error) {
	client := &http.Client{Timeout: cfg.Crossref.Timeout}

	fmt.Fprintln(out, "Sending request...")
	work, err := fetchWork(ctx, client, doi, cfg.Crossref)
	if err != nil {
		if errors.Is(err, crossref.ErrWorkNotFound) {
			fmt.Fprintln(out, "An error occurred: The article was not found")
			return types.Report{}, false, nil
		}
		return types.Report{}, false, err
	}
	fmt.Fprintln(out, "Processing response for: "+formatter.Title(work.Title))

	checker := &check.Checker{
		PubMed:    pubmed.NewClient(client, cfg.PubMed),
		Formatter: formatter,
		Verbose:   verbose,
		Out:       out,
	}
	checked := checker.Run(ctx, work.References)
	report := check.BuildReport(work, checked)

	fmt.Fprintln(out, check.Tally(report.Summary))
	return report, true, nil
}

// buildConfig assembles the run configuration from flags, the viper
// config file, and the secrets directory, in that order of precedence.
// Numeric flags are checked with Changed so an explicit zero on the
// command line still overrides a config-file value.
func buildConfig(cmd *cobra.Command) types.CheckConfig {
	timeout := defaultTimeout
	if cmd.Flags().Changed("timeout") {
		timeout, _ = cmd.Flags().GetDuration("timeout")
	} else if v := viper.GetDuration("http.timeout"); v != 0 {
		timeout = v
	}

	userAgent := viper.GetString("http.user_agent")
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	httpCfg := types.HTTPConfig{Timeout: timeout, UserAgent: userAgent}

	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		email = viper.GetString("pubmed.email")
	}
	email = loadedSecrets.Get(secrets.KeyContactEmail, email)

	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey == "" {
		apiKey = viper.GetString("pubmed.api_key")
	}
	apiKey = loadedSecrets.Get(secrets.KeyNCBIAPIKey, apiKey)

	retmax := viper.GetInt("pubmed.retmax")
	if cmd.Flags().Changed("retmax") {
		retmax, _ = cmd.Flags().GetInt("retmax")
	}
	retries := viper.GetInt("pubmed.max_retries")
	if cmd.Flags().Changed("retries") {
		retries, _ = cmd.Flags().GetInt("retries")
	}

	tool := viper.GetString("pubmed.tool")
	if tool == "" {
		tool = defaultTool
	}

	delay := viper.GetDuration("batch.article_delay")
	if delay == 0 {
		delay = defaultDelay
	}

	return types.CheckConfig{
		Crossref: types.CrossrefConfig{
			HTTPConfig: httpCfg,
			Mailto:     viper.GetString("crossref.mailto"),
		},
		PubMed: types.PubMedConfig{
			HTTPConfig: httpCfg,
			Tool:       tool,
			Email:      email,
			APIKey:     apiKey,
			RetMax:     retmax,
			MaxRetries: retries,
		},
		ArticleDelay: delay,
	}
}
