// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/micha-blip/refcheck/internal/check"
	"github.com/micha-blip/refcheck/pkg/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Check the references of several articles",
	Long: `Batch reads a file with one article DOI per line (blank lines and
#-comments are skipped) and runs the reference check for each article
sequentially, with a delay between articles. Articles whose Crossref
lookup fails are reported and counted, and the remaining articles are
still processed.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	addRunFlags(batchCmd)
	batchCmd.Flags().Duration("delay", 0, "delay between consecutive articles (default 1s)")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	dois, err := readDOIFile(args[0])
	if err != nil {
		return err
	}
	if len(dois) == 0 {
		return fmt.Errorf("no DOIs found in %s", args[0])
	}

	cfg := buildConfig(cmd)
	if cmd.Flags().Changed("delay") {
		cfg.ArticleDelay, _ = cmd.Flags().GetDuration("delay")
	}
	quiet, _ := cmd.Flags().GetBool("quiet")
	summary, _ := cmd.Flags().GetBool("summary")
	plain, _ := cmd.Flags().GetBool("plain")

	var formatter check.Formatter = check.ColorFormatter{}
	if plain {
		formatter = check.PlainFormatter{}
	}

	return checkBatch(cmd.Context(), dois, cfg, formatter, !quiet, summary, os.Stdout)
}

// checkBatch runs the reference check for each DOI in turn, pacing with
// cfg.ArticleDelay, and returns an error when any source article could
// not be fetched so the process exits non-zero.
func checkBatch(ctx context.Context, dois []string, cfg types.CheckConfig, formatter check.Formatter, verbose, summary bool, out io.Writer) error {
	checked, missed := 0, 0
	for i, doi := range dois {
		if i > 0 && cfg.ArticleDelay > 0 {
			time.Sleep(cfg.ArticleDelay)
		}
		fmt.Fprintf(out, "\n[%d/%d] %s\n", i+1, len(dois), doi)

		report, found, err := checkArticle(ctx, doi, cfg, formatter, verbose, out)
		if err != nil {
			return err
		}
		if !found {
			missed++
			continue
		}
		checked++

		if summary {
			if err := check.WriteSummary(out, report); err != nil {
				return err
			}
		} else {
			if err := check.WriteTable(out, report); err != nil {
				return err
			}
		}
	}

	fmt.Fprintf(out, "\nBatch summary: %d article(s) checked, %d not found (total: %d)\n",
		checked, missed, len(dois))
	if missed > 0 {
		return fmt.Errorf("%d article(s) could not be fetched", missed)
	}
	return nil
}

// readDOIFile parses a DOI-per-line file. Blank lines and lines starting
// with "#" are skipped; surrounding whitespace is trimmed.
func readDOIFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening DOI file: %w", err)
	}
	defer f.Close()

	var dois []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		dois = append(dois, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading DOI file: %w", err)
	}
	return dois, nil
}
