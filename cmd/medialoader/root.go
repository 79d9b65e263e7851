package main

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"media-loader/internal/filesystem"
	"media-loader/internal/logging"
	"media-loader/internal/media"
	"media-loader/internal/mediatypes"
	"media-loader/internal/memory"
	"media-loader/internal/metrics"
	"media-loader/internal/node"
	"media-loader/internal/startup"

	"github.com/spf13/cobra"
)

// app carries what every command needs once configuration is loaded.
type app struct {
	config *startup.Config
	vips   bool
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}
	var logLevel string

	root := &cobra.Command{
		Use:   "medialoader",
		Short: "Load images, videos, GIFs and archives as uniform image batches",
		Long: `medialoader resolves a path (file, directory, image wildcard or archive)
and decodes it into an N×H×W×3 batch of normalized RGB frames.

Relative paths are looked up in the working directory and then in
MEDIA_INPUT_DIR. A trailing " [input]", " [output]" or " [temp]" picks a
root explicitly.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if logLevel != "" {
				level, ok := logging.ParseLevel(logLevel)
				if !ok {
					return fmt.Errorf("%w: unknown log level %q", mediatypes.ErrValidation, logLevel)
				}
				logging.SetLevel(level)
			}
			return a.init()
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error (default from LOG_LEVEL)")

	root.AddCommand(newLoadCmd(a), newSchemaCmd(), newVersionCmd())
	return root, a
}

// execute runs the command tree and then releases what init acquired. The
// cleanup runs even when the command fails, so the metrics textfile also
// records failed loads.
func execute(ctx context.Context, root *cobra.Command, a *app) error {
	err := root.ExecuteContext(ctx)
	return errors.Join(err, a.finish())
}

func (a *app) init() error {
	startup.LogMemoryConfig(memory.ConfigureFromEnv())

	config, err := startup.LoadConfig()
	if err != nil {
		return err
	}
	a.config = config

	filesystem.SetObserver(metrics.NewFilesystemObserver())
	filesystem.SetDefaultRoots(config.Roots())

	if err := startup.CheckVideoTools(config.VideoTools()); err != nil {
		logging.Warn("Video loading unavailable: %v", err)
	}

	if config.VipsFallback {
		if err := media.InitVips(); err != nil {
			logging.Warn("libvips fallback unavailable: %v", err)
		} else {
			a.vips = true
		}
	}

	info := startup.GetBuildInfo()
	metrics.AppInfo.WithLabelValues(info.Version, info.Commit, info.GoVersion).Set(1)
	metrics.InitializeMetrics()
	return nil
}

func (a *app) finish() error {
	if a.vips {
		media.ShutdownVips()
		a.vips = false
	}
	if a.config == nil {
		return nil
	}
	return metrics.WriteTextfile(a.config.MetricsFile)
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the loader node definition as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			def, err := node.Load()
			if err != nil {
				return err
			}
			out, err := def.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := startup.GetBuildInfo()
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "medialoader %s (commit %s, built %s, %s %s/%s)\n",
				info.Version, info.Commit, info.BuildTime, runtime.Version(), info.OS, info.Arch)
			return err
		},
	}
}

// exitCode maps error kinds to process exit codes.
func exitCode(err error) int {
	switch {
	case errors.Is(err, mediatypes.ErrValidation):
		return 2
	case errors.Is(err, mediatypes.ErrNotFound):
		return 3
	case errors.Is(err, mediatypes.ErrDecode), errors.Is(err, mediatypes.ErrEmptyResult):
		return 4
	default:
		return 1
	}
}
