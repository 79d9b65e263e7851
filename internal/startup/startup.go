package startup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"media-loader/internal/filesystem"
	"media-loader/internal/loader"
	"media-loader/internal/logging"
	"media-loader/internal/media"
	"media-loader/internal/memory"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Config holds all application configuration
type Config struct {
	InputDir  string
	OutputDir string
	TempDir   string

	FFmpegPath  string
	FFprobePath string

	// VipsFallback enables libvips for images the Go decoders reject.
	VipsFallback bool
	// MetricsFile is where metrics are written after each run; empty disables.
	MetricsFile string
	// MaxRes is the default resolution bound for the CLI.
	MaxRes int
}

// LoadConfig loads configuration from environment variables. Nothing here is
// fatal: a missing input directory only produces a warning since paths may
// be absolute.
func LoadConfig() (*Config, error) {
	logSystemInfo()

	logging.Debug("------------------------------------------------------------")
	logging.Debug("CONFIGURATION")
	logging.Debug("------------------------------------------------------------")

	inputDir := getEnv("MEDIA_INPUT_DIR", "./input")
	outputDir := getEnv("MEDIA_OUTPUT_DIR", "./output")
	tempDir := getEnv("MEDIA_TEMP_DIR", filepath.Join(os.TempDir(), "media-loader"))
	ffmpegPath := getEnv("FFMPEG_PATH", "ffmpeg")
	ffprobePath := getEnv("FFPROBE_PATH", "ffprobe")
	vipsFallback := getEnvBool("VIPS_FALLBACK", false)
	metricsFile := getEnv("METRICS_FILE", "")
	maxRes := getEnvInt("MAX_RES", loader.DefaultMaxRes)

	logging.Debug("  MEDIA_INPUT_DIR:   %s", inputDir)
	logging.Debug("  MEDIA_OUTPUT_DIR:  %s", outputDir)
	logging.Debug("  MEDIA_TEMP_DIR:    %s", tempDir)
	logging.Debug("  FFMPEG_PATH:       %s", ffmpegPath)
	logging.Debug("  FFPROBE_PATH:      %s", ffprobePath)
	logging.Debug("  VIPS_FALLBACK:     %v", vipsFallback)
	logging.Debug("  METRICS_FILE:      %s", metricsFile)
	logging.Debug("  MAX_RES:           %d", maxRes)
	logging.Debug("  LOG_LEVEL:         %s", logging.GetLevel())

	if maxRes < 0 {
		logging.Warn("  MAX_RES must not be negative, using default: %d", loader.DefaultMaxRes)
		maxRes = loader.DefaultMaxRes
	}

	var err error
	for _, dir := range []*string{&inputDir, &outputDir, &tempDir} {
		if *dir, err = filepath.Abs(*dir); err != nil {
			return nil, fmt.Errorf("failed to resolve directory path: %w", err)
		}
	}

	if err := checkDirectory(inputDir, "input"); err != nil {
		logging.Warn("  Input directory issue: %v", err)
	}

	return &Config{
		InputDir:     inputDir,
		OutputDir:    outputDir,
		TempDir:      tempDir,
		FFmpegPath:   ffmpegPath,
		FFprobePath:  ffprobePath,
		VipsFallback: vipsFallback,
		MetricsFile:  metricsFile,
		MaxRes:       maxRes,
	}, nil
}

// Roots returns the logical root directories for path annotations.
func (c *Config) Roots() *filesystem.RootResolver {
	return filesystem.NewRootResolver(map[string]string{
		filesystem.RootInput:  c.InputDir,
		filesystem.RootOutput: c.OutputDir,
		filesystem.RootTemp:   c.TempDir,
	})
}

// VideoTools returns the configured ffmpeg binaries, falling back to the
// PATH lookups of media.DefaultVideoTools for unset entries.
func (c *Config) VideoTools() media.VideoTools {
	tools := media.DefaultVideoTools()
	if c.FFmpegPath != "" {
		tools.FFmpeg = c.FFmpegPath
	}
	if c.FFprobePath != "" {
		tools.FFprobe = c.FFprobePath
	}
	return tools
}

// LoaderConfig wires the configuration into a loader.
func (c *Config) LoaderConfig() loader.Config {
	roots := c.Roots()
	retry := filesystem.DefaultRetryConfig()
	retry.Roots = roots
	return loader.Config{
		Roots:   roots,
		Retry:   retry,
		Tools:   c.VideoTools(),
		TempDir: c.TempDir,
	}
}

// EnsureOutputDir creates the output directory and checks it is writable.
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := testWriteAccess(c.OutputDir); err != nil {
		return fmt.Errorf("output directory is not writable: %w", err)
	}
	return nil
}

// LogMemoryConfig logs how the Go memory limit was configured.
func LogMemoryConfig(result memory.ConfigResult) {
	if !result.Configured {
		logging.Debug("  Memory limit: not configured")
		return
	}
	switch result.Source {
	case "MEMORY_LIMIT":
		logging.Debug("  Memory limit: %s (%.0f%% of %s)", memory.FormatBytes(result.GoMemLimit),
			result.Ratio*100, memory.FormatBytes(result.ContainerLimit))
	default:
		logging.Debug("  Memory limit: %s (from %s)", memory.FormatBytes(result.GoMemLimit), result.Source)
	}
}

// CheckVideoTools verifies that ffmpeg and ffprobe can be run. Video loads
// fail without them; everything else still works.
func CheckVideoTools(tools media.VideoTools) error {
	for _, bin := range []string{tools.FFmpeg, tools.FFprobe} {
		if err := checkTool(bin); err != nil {
			return err
		}
	}
	return nil
}

func logSystemInfo() {
	if !logging.IsDebugEnabled() {
		return
	}
	logging.Debug("------------------------------------------------------------")
	logging.Debug("SYSTEM INFORMATION")
	logging.Debug("------------------------------------------------------------")
	logging.Debug("  Version:         %s (%s)", Version, Commit)
	logging.Debug("  Go version:      %s", runtime.Version())
	logging.Debug("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Debug("  CPUs available:  %d", runtime.NumCPU())

	if wd, err := os.Getwd(); err == nil {
		logging.Debug("  Working dir:     %s", wd)
	}
}

func checkDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s directory %s does not exist", name, path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
		// Don't return error since write access was confirmed
	}
	return nil
}

func checkTool(name string) error {
	path, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("%s not found in PATH", name)
	}
	logging.Debug("  %s path: %s", name, path)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	output, err := exec.CommandContext(ctx, path, "-version").Output()
	if err != nil {
		return fmt.Errorf("failed to get %s version: %w", name, err)
	}

	lines := strings.Split(string(output), "\n")
	if len(lines) > 0 {
		logging.Debug("  %s version: %s", name, strings.TrimSpace(lines[0]))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
