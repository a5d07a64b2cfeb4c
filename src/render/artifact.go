package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/iafilius/CCSExplorer/src/analysis"
	"github.com/iafilius/CCSExplorer/src/dataset"
	"github.com/iafilius/CCSExplorer/src/logging"
)

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("png encode: %w", err)
	}
	return nil
}

// ArtifactPath is where a view's image lives inside dir.
func ArtifactPath(dir string, v analysis.View) string {
	return filepath.Join(dir, v.Artifact)
}

// WriteArtifact encodes img and overwrites the view's well-known file in dir.
// The last write wins.
func WriteArtifact(dir string, v analysis.View, img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return "", fmt.Errorf("%s: %w", v.Artifact, err)
	}
	outPath := ArtifactPath(dir, v)
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", outPath, err)
	}
	return outPath, nil
}

// Update recomputes one view for new parameters, renders it and rewrites its
// artifact. This is what the dashboard runs on every control change.
func Update(t *dataset.Table, v analysis.View, p analysis.Params, dir string, opts Options) (analysis.Result, image.Image, error) {
	res, err := analysis.Build(t, v, p)
	if err != nil {
		return analysis.Result{}, nil, err
	}
	img, err := Chart(res, opts)
	if err != nil {
		return res, nil, err
	}
	if _, err := WriteArtifact(dir, v, img); err != nil {
		return res, img, err
	}
	logging.Debugf("view %s: %d entries (of %d keys) -> %s", v.ID, len(res.Entries), res.Distinct, v.Artifact)
	return res, img, nil
}

// RenderAll renders every view headlessly into dir and returns the written paths.
// Views missing from params use their defaults.
func RenderAll(t *dataset.Table, views []analysis.View, params map[string]analysis.Params, dir string, opts Options) ([]string, error) {
	defer logging.TimeTrack(time.Now(), "render all views")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create out dir: %w", err)
	}
	results, err := analysis.BuildAll(t, views, params)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(results))
	for _, res := range results {
		img, err := Chart(res, opts)
		if err != nil {
			return paths, err
		}
		p, err := WriteArtifact(dir, res.View, img)
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}
