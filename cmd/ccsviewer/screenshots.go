package main

import (
	"fmt"

	"github.com/iafilius/CCSExplorer/src/analysis"
	"github.com/iafilius/CCSExplorer/src/dataset"
	"github.com/iafilius/CCSExplorer/src/logging"
	"github.com/iafilius/CCSExplorer/src/render"
)

// RunScreenshotsMode renders every view with the given parameters and writes the PNG
// artifacts under outDir. It runs headlessly without creating a UI window.
func RunScreenshotsMode(tbl *dataset.Table, views []analysis.View, params map[string]analysis.Params, outDir string, opts render.Options) error {
	opts.Caption = true
	paths, err := render.RenderAll(tbl, views, params, outDir, opts)
	if err != nil {
		return fmt.Errorf("screenshots: %w", err)
	}
	for _, p := range paths {
		logging.Infof("wrote %s", p)
	}
	return nil
}
