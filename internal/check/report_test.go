// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package check

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/micha-blip/refcheck/pkg/types"
)

func sampleReport() types.Report {
	return types.Report{
		ArticleDOI:   "10.0/src",
		ArticleTitle: "Source Article",
		Entries: []types.CheckedReference{
			{
				Reference: types.Reference{Key: "r1", DOI: "10.1/a"},
				Status:    types.StatusFound,
				Title:     "Paper A",
				PMID:      "100",
			},
			{
				Reference: types.Reference{Key: "r2"},
				Status:    types.StatusNoDOI,
			},
			{
				Reference: types.Reference{Key: "r3", DOI: "10.9/gone"},
				Status:    types.StatusNoArticle,
			},
		},
		Summary:   types.Summary{Found: 1, NotFound: 1, MissingDOI: 1},
		Timestamp: time.Date(2026, 2, 11, 9, 30, 0, 0, time.UTC),
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 rows:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "10.1/a") || !strings.Contains(lines[1], "article found") {
		t.Errorf("row 1 = %q", lines[1])
	}
	// The absent identifier prints as the placeholder, in original order.
	if !strings.Contains(lines[2], "not found") || !strings.Contains(lines[2], "no DOI") {
		t.Errorf("row 2 = %q", lines[2])
	}
	if !strings.Contains(lines[3], "10.9/gone") || !strings.Contains(lines[3], "no article") {
		t.Errorf("row 3 = %q", lines[3])
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Found") || !strings.Contains(out, "Not found") || !strings.Contains(out, "Missing DOI") {
		t.Errorf("summary header missing columns:\n%s", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header + 1 row", len(lines))
	}
	if fields := strings.Fields(lines[1]); len(fields) != 3 {
		t.Errorf("summary row = %q, want three counts", lines[1])
	}
}

func TestTally(t *testing.T) {
	got := Tally(types.Summary{Found: 2, NotFound: 1, MissingDOI: 2})
	want := "Done, found 2 existing documents, 1 non-existing documents and 2 missing DOI"
	if got != want {
		t.Errorf("Tally() = %q, want %q", got, want)
	}
}

func TestReportFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	report := sampleReport()

	if err := WriteReportFile(path, report); err != nil {
		t.Fatalf("WriteReportFile() error = %v", err)
	}
	loaded, err := ReadReportFile(path)
	if err != nil {
		t.Fatalf("ReadReportFile() error = %v", err)
	}

	if loaded.ArticleDOI != report.ArticleDOI {
		t.Errorf("ArticleDOI = %q, want %q", loaded.ArticleDOI, report.ArticleDOI)
	}
	if len(loaded.Entries) != len(report.Entries) {
		t.Fatalf("len(Entries) = %d, want %d", len(loaded.Entries), len(report.Entries))
	}
	for i := range report.Entries {
		if loaded.Entries[i].Status != report.Entries[i].Status {
			t.Errorf("Entries[%d].Status = %q, want %q", i, loaded.Entries[i].Status, report.Entries[i].Status)
		}
	}
	if loaded.Summary != report.Summary {
		t.Errorf("Summary = %+v, want %+v", loaded.Summary, report.Summary)
	}
}

func TestReadReportFileMissing(t *testing.T) {
	_, err := ReadReportFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("ReadReportFile() should fail for a missing file")
	}
}

func TestFormatCSL(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatCSL(sampleReport(), &buf); err != nil {
		t.Fatalf("FormatCSL() error = %v", err)
	}

	out := buf.String()
	// Only the confirmed reference is exported.
	if !strings.Contains(out, "10.1/a") {
		t.Errorf("CSL output missing found DOI:\n%s", out)
	}
	if strings.Contains(out, "10.9/gone") {
		t.Errorf("CSL output should not contain unconfirmed DOI:\n%s", out)
	}
	if !strings.Contains(out, "article-journal") {
		t.Errorf("CSL output missing item type:\n%s", out)
	}
	if !strings.Contains(out, "Paper A") {
		t.Errorf("CSL output missing PubMed title:\n%s", out)
	}
}

func TestFormatterLines(t *testing.T) {
	tests := []struct {
		name      string
		formatter Formatter
		status    types.Status
		wantParts []string
	}{
		{"color found is green", ColorFormatter{}, types.StatusFound, []string{"\033[32m", "1 Paper A", "\033[0m"}},
		{"color missing is yellow", ColorFormatter{}, types.StatusNoDOI, []string{"\033[33m"}},
		{"color no article is red", ColorFormatter{}, types.StatusNoArticle, []string{"\033[31m"}},
		{"plain has no escapes", PlainFormatter{}, types.StatusFound, []string{"1 Paper A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := tt.formatter.Line(1, tt.status, "Paper A")
			for _, part := range tt.wantParts {
				if !strings.Contains(line, part) {
					t.Errorf("Line() = %q, want it to contain %q", line, part)
				}
			}
			if _, plain := tt.formatter.(PlainFormatter); plain && strings.Contains(line, "\033") {
				t.Errorf("PlainFormatter emitted escape codes: %q", line)
			}
		})
	}
}

func TestFormatterTitle(t *testing.T) {
	if got := (ColorFormatter{}).Title("T"); got != "\x1B[3mT\033[0m" {
		t.Errorf("ColorFormatter.Title() = %q", got)
	}
	if got := (PlainFormatter{}).Title("T"); got != "T" {
		t.Errorf("PlainFormatter.Title() = %q", got)
	}
}
