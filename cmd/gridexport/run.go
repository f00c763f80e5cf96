package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/voltkraft/gridexport/pkg/exporter"
	"github.com/voltkraft/gridexport/pkg/model"
	"github.com/voltkraft/gridexport/pkg/validation"
)

// loadStudy reads the study case and runs schema validation.
func loadStudy(studyPath string) (*model.GridModel, *validation.Report, error) {
	grid, err := model.LoadStudy(studyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading study case: %w", err)
	}
	return grid, model.Validate(grid), nil
}

func runValidate(studyPath string) error {
	_, report, err := loadStudy(studyPath)
	if err != nil {
		return err
	}

	printValidationReport(report)

	if !report.Valid {
		os.Exit(1)
	}
	return nil
}

func runExport(studyPath, outDir string) error {
	grid, report, err := loadStudy(studyPath)
	if err != nil {
		return err
	}
	if !report.Valid {
		printValidationReport(report)
		return fmt.Errorf("study case has validation errors")
	}

	res, report := exporter.Export(grid)
	if res == nil {
		printValidationReport(report)
		return fmt.Errorf("export failed")
	}
	if len(report.Warnings) > 0 {
		printValidationReport(report)
	}

	if outDir == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	docs := map[string]any{
		"topology.json":         res.Topology,
		"topology_case.json":    res.TopologyCase,
		"steadystate_case.json": res.Steadystate,
	}
	for name, doc := range docs {
		if err := writeJSON(filepath.Join(outDir, name), doc); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(path string, doc any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
