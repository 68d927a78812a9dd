// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package check

import (
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/micha-blip/refcheck/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-JSON/CSL-YAML schema
// so that output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID    string `yaml:"id"`
	Type  string `yaml:"type"`
	Title string `yaml:"title,omitempty"`
	DOI   string `yaml:"DOI"`
	PMID  string `yaml:"PMID,omitempty"`
}

// FormatCSL writes the report's confirmed references as a CSL-YAML list
// to w. Only entries PubMed confirmed carry enough metadata to cite, so
// the other statuses are skipped.
func FormatCSL(report types.Report, w io.Writer) error {
	var items []CSLItem
	for _, entry := range report.Entries {
		if entry.Status != types.StatusFound {
			continue
		}
		items = append(items, CSLItem{
			ID:    entry.DOI,
			Type:  "article-journal",
			Title: entry.Title,
			DOI:   entry.DOI,
			PMID:  entry.PMID,
		})
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}
