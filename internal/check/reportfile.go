// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package check

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/micha-blip/refcheck/pkg/types"
)

// WriteReportFile saves a check report to a YAML file. The researcher can
// keep the file alongside a manuscript and reload it later without
// re-querying the APIs.
func WriteReportFile(path string, report types.Report) error {
	data, err := yaml.Marshal(&report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadReportFile loads a previously saved report from disk.
func ReadReportFile(path string) (*types.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report file: %w", err)
	}
	var report types.Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parsing report file: %w", err)
	}
	return &report, nil
}
