package main

import (
	"image"
	_ "image/png" // register PNG decoder
	"os"
	"path/filepath"
	"testing"

	"github.com/iafilius/CCSExplorer/src/analysis"
	"github.com/iafilius/CCSExplorer/src/dataset"
	"github.com/iafilius/CCSExplorer/src/render"
)

// TestScreenshotsMode_WritesAllArtifacts renders headlessly and checks every view produced a PNG of the requested size.
func TestScreenshotsMode_WritesAllArtifacts(t *testing.T) {
	tbl, err := dataset.Load("../../src/dataset/testdata/ccs_sample.csv")
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	out := filepath.Join(t.TempDir(), "shots")
	views := analysis.Views()
	opts := render.Options{Width: 1000, Height: 400, MaxLabel: 28}
	if err := RunScreenshotsMode(tbl, views, nil, out, opts); err != nil {
		t.Fatalf("screenshots: %v", err)
	}
	for _, v := range views {
		p := render.ArtifactPath(out, v)
		f, err := os.Open(p)
		if err != nil {
			t.Fatalf("missing %s: %v", v.Artifact, err)
		}
		cfg, _, err := image.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", p, err)
		}
		if cfg.Width != 1000 {
			t.Fatalf("%s width %d want 1000", v.Artifact, cfg.Width)
		}
	}
}

func TestSliderPrompt(t *testing.T) {
	v, err := analysis.ViewByID(analysis.Views(), "tech")
	if err != nil {
		t.Fatal(err)
	}
	if got := sliderPrompt(v); got != "Select the number of top technologies" {
		t.Fatalf("prompt %q", got)
	}
}
