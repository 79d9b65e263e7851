package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"media-loader/internal/loader"
	"media-loader/internal/node"
	"media-loader/internal/startup"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type loadOptions struct {
	cap    int
	rate   float64
	maxRes int
	sort   string
	save   bool
	json   bool
}

// loadReport is the machine-readable summary of one load.
type loadReport struct {
	Name   string   `json:"file_name"`
	Path   string   `json:"file_path"`
	Count  int      `json:"count"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
	FPS    float64  `json:"fps"`
	Shape  [4]int   `json:"shape"`
	Bytes  int64    `json:"bytes"`
	Saved  []string `json:"saved,omitempty"`
}

func newLoadCmd(a *app) *cobra.Command {
	opts := &loadOptions{}

	cmd := &cobra.Command{
		Use:   "load <path>",
		Short: "Load media into a frame batch and report its shape",
		Long: `Load resolves path and decodes it into a frame batch.

With --save every frame is written as a PNG to MEDIA_OUTPUT_DIR.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("max-res") {
				opts.maxRes = a.config.MaxRes
			}
			return runLoad(cmd, a.config, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.cap, "cap", 0, "maximum number of frames or files to load (0 loads all)")
	f.Float64Var(&opts.rate, "rate", 0, "resample videos and GIFs to this frame rate (0 keeps the native rate)")
	f.IntVar(&opts.maxRes, "max-res", loader.DefaultMaxRes, "bound the larger side of every frame (0 disables resizing)")
	f.StringVar(&opts.sort, "sort", "None", "order of multi-file loads: None, alphabetical, date_created, date_modified or random")
	f.BoolVar(&opts.save, "save", false, "write every frame as a PNG to the output directory")
	f.BoolVar(&opts.json, "json", false, "print the report as JSON")

	return cmd
}

func runLoad(cmd *cobra.Command, cfg *startup.Config, path string, opts *loadOptions) error {
	l := loader.New(cfg.LoaderConfig())

	out, err := node.Invoke(cmd.Context(), l, map[string]any{
		"path":           path,
		"image_load_cap": opts.cap,
		"force_rate":     opts.rate,
		"max_res":        opts.maxRes,
		"sort":           opts.sort,
	})
	if err != nil {
		return err
	}

	report := loadReport{
		Name:   out.FileName,
		Path:   out.FilePath,
		Count:  out.Count,
		Width:  out.Width,
		Height: out.Height,
		FPS:    out.FPS,
		Shape:  out.Image.Shape(),
		Bytes:  out.Image.SizeBytes(),
	}

	if opts.save {
		if err := cfg.EnsureOutputDir(); err != nil {
			return err
		}
		saved, err := saveFrames(out.Image, cfg.OutputDir, out.FileName)
		if err != nil {
			return err
		}
		report.Saved = saved
	}

	w := cmd.OutOrStdout()
	if opts.json || !isTerminal(w) {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return writeReport(w, report)
}

func writeReport(w io.Writer, r loadReport) error {
	_, err := fmt.Fprintf(w, "Name:   %s\nPath:   %s\nFrames: %d\nSize:   %dx%d\nFPS:    %g\nShape:  %v\nMemory: %.1f MiB\n",
		r.Name, r.Path, r.Count, r.Width, r.Height, r.FPS, r.Shape, float64(r.Bytes)/(1<<20))
	if err != nil {
		return err
	}
	if len(r.Saved) > 0 {
		_, err = fmt.Fprintf(w, "Saved:  %d frames to %s\n", len(r.Saved), filepath.Dir(r.Saved[0]))
	}
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
