// AtlasPack - Texture Atlas Packer
//
// Packs a set of images into one atlas. Each image is cropped to its
// opaque regions, every (scaleX, scaleY) pair of the search grid is tried,
// and the packing with the least transparent area wins.
//
// Build:
//   go build -ldflags "-X main.version=1.0.0" -o atlaspack ./cmd/atlaspack
//
// Usage:
//   atlaspack -o atlas.png --manifest atlas.json sprites/
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/piwi3910/AtlasPack/internal/engine"
	"github.com/piwi3910/AtlasPack/internal/export"
	"github.com/piwi3910/AtlasPack/internal/importer"
	"github.com/piwi3910/AtlasPack/internal/model"
	"github.com/piwi3910/AtlasPack/internal/project"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// Exit codes.
const (
	exitError      = 1
	exitUsage      = 2
	exitUnreadable = 3
	exitNoPacking  = 4
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// usageError marks errors caused by bad command-line input.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{err: fmt.Errorf(format, args...)}
}

// exitCode maps an error returned by run to the process exit status.
func exitCode(err error) int {
	var ue usageError
	switch {
	case errors.As(err, &ue), errors.Is(err, model.ErrEmptyInput):
		return exitUsage
	case errors.Is(err, model.ErrUnreadableImage), errors.Is(err, os.ErrNotExist):
		return exitUnreadable
	case errors.Is(err, model.ErrNoValidPacking):
		return exitNoPacking
	default:
		return exitError
	}
}

// options holds the parsed command line.
type options struct {
	output         string
	list           string
	manifest       string
	manifestFormat string
	xlsx           string
	report         string
	cards          string
	dxf            string
	scalesX        []float64
	scalesY        []float64
	workers        int
	preset         string
	presets        string
	config         string
	exportSettings string
	importSettings string
	compare        bool
	verbose        bool
	showVersion    bool
	help           bool
	inputs         []string

	// Set when the matching flag was given explicitly.
	scalesXSet bool
	scalesYSet bool
	workersSet bool
}

func newFlagSet(opts *options) *pflag.FlagSet {
	fs := pflag.NewFlagSet("atlaspack", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVarP(&opts.output, "output", "o", "atlas.png", "atlas image to write (format from extension)")
	fs.StringVar(&opts.list, "list", "", "CSV or Excel file listing input images (path and optional name columns)")
	fs.StringVar(&opts.manifest, "manifest", "", "write the frame manifest to this file")
	fs.StringVar(&opts.manifestFormat, "manifest-format", "", "manifest format: json, yaml or cbor (default from extension or config)")
	fs.StringVar(&opts.xlsx, "xlsx", "", "write a frame and candidate spreadsheet")
	fs.StringVar(&opts.report, "report", "", "write a PDF layout report")
	fs.StringVar(&opts.cards, "cards", "", "write printable PDF frame cards")
	fs.StringVar(&opts.dxf, "dxf", "", "write the atlas layout as DXF")
	fs.Float64SliceVar(&opts.scalesX, "scales-x", nil, "horizontal scale factors to try (comma separated)")
	fs.Float64SliceVar(&opts.scalesY, "scales-y", nil, "vertical scale factors to try (comma separated)")
	fs.IntVar(&opts.workers, "workers", 0, "parallel candidate evaluations (0 = one per CPU)")
	fs.StringVar(&opts.preset, "preset", "", "named scale preset to start from")
	fs.StringVar(&opts.presets, "presets", "", "presets file (default ~/.atlaspack/presets.yaml)")
	fs.StringVar(&opts.config, "config", "", "config file (default ~/.atlaspack/config.json)")
	fs.StringVar(&opts.exportSettings, "export-settings", "", "write config and saved presets to a bundle file and exit")
	fs.StringVar(&opts.importSettings, "import-settings", "", "restore config and saved presets from a bundle file and exit")
	fs.BoolVar(&opts.compare, "compare", false, "compare alternative scale grids and presets before packing")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "log every candidate")
	fs.BoolVar(&opts.showVersion, "version", false, "print version and exit")
	fs.BoolVarP(&opts.help, "help", "h", false, "show help")
	return fs
}

// parseArgs parses the command line. Inputs are required unless --list,
// --help, --version or a settings bundle flag is given.
func parseArgs(args []string) (options, *pflag.FlagSet, error) {
	var opts options
	fs := newFlagSet(&opts)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			opts.help = true
			return opts, fs, nil
		}
		return opts, fs, usageError{err: err}
	}
	opts.inputs = fs.Args()
	opts.scalesXSet = fs.Changed("scales-x")
	opts.scalesYSet = fs.Changed("scales-y")
	opts.workersSet = fs.Changed("workers")

	if opts.help || opts.showVersion || opts.exportSettings != "" || opts.importSettings != "" {
		return opts, fs, nil
	}
	if len(opts.inputs) == 0 && opts.list == "" {
		return opts, fs, usagef("no input images given")
	}
	for _, s := range append(append([]float64(nil), opts.scalesX...), opts.scalesY...) {
		if s <= 0 {
			return opts, fs, usagef("scale %g must be positive", s)
		}
	}
	switch opts.manifestFormat {
	case "", export.FormatJSON, export.FormatYAML, export.FormatCBOR:
	default:
		return opts, fs, usagef("unknown manifest format %q", opts.manifestFormat)
	}
	return opts, fs, nil
}

func printHelp(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintf(w, `AtlasPack packs images into a single texture atlas.

Usage:
  atlaspack [flags] <image|dir>...

Examples:
  # Pack every image in a directory
  atlaspack -o atlas.png sprites/

  # Write a YAML manifest and a PDF report
  atlaspack -o atlas.png --manifest atlas.yaml --report atlas.pdf a.png b.png

  # Try a custom scale grid
  atlaspack --scales-x 0.5,0.75,1 --scales-y 1 sprites/

Flags:
`)
	fs.SetOutput(w)
	fs.PrintDefaults()
}

// newLogger builds a text logger on w. --verbose or ATLASPACK_LOG_LEVEL
// lower the level from warn.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if env := os.Getenv("ATLASPACK_LOG_LEVEL"); env != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(env)); err == nil {
			level = l
		}
	}
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, fs, err := parseArgs(args)
	if err != nil {
		return err
	}
	if opts.help {
		printHelp(stdout, fs)
		return nil
	}
	if opts.showVersion {
		fmt.Fprintf(stdout, "atlaspack %s\n", version)
		return nil
	}

	logger := newLogger(stderr, opts.verbose)

	configPath := opts.config
	if configPath == "" {
		configPath = project.DefaultConfigPath()
	}
	cfg, err := project.LoadAppConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config %s: %w", configPath, err)
	}

	presetsPath := opts.presets
	if presetsPath == "" {
		presetsPath = project.DefaultPresetsPath()
	}
	switch {
	case opts.exportSettings != "":
		return exportSettings(stdout, opts.exportSettings, cfg, presetsPath)
	case opts.importSettings != "":
		return importSettings(stdout, opts.importSettings, configPath, presetsPath)
	}

	settings, err := resolveSettings(opts, cfg, presetsPath)
	if err != nil {
		return err
	}

	entries, err := collectEntries(opts, logger)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return model.ErrEmptyInput
	}

	sources, err := importer.LoadImages(entries, func(done, total int) {
		logger.Debug("loaded image", "done", done, "total", total)
	})
	if err != nil {
		return err
	}

	if opts.compare {
		if err := printComparison(stdout, settings, presetsPath, sources); err != nil {
			return err
		}
	}

	opt := engine.New(settings).
		WithLogger(logger).
		WithProgress(func(phase engine.Phase, done, total int) {
			logger.Debug("progress", "phase", phase.String(), "done", done, "total", total)
		})

	result, err := opt.PackSources(sources)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Started with waste of %.2f%%\n", result.SourceWaste*100)
	fmt.Fprintf(stdout, "Final waste of %.2f%%\n", result.Waste*100)

	if err := writeOutputs(opts, cfg, result, sources); err != nil {
		return err
	}

	cfg.AddRecentOutput(opts.output)
	if err := project.SaveAppConfig(configPath, cfg); err != nil {
		logger.Warn("could not save config", "path", configPath, "error", err)
	}
	return nil
}

func exportSettings(w io.Writer, path string, cfg model.AppConfig, presetsPath string) error {
	presets, err := project.LoadPresets(presetsPath)
	if err != nil {
		return err
	}
	if err := project.ExportAllData(path, cfg, presets); err != nil {
		return err
	}
	fmt.Fprintf(w, "Exported settings and %d presets to %s\n", len(presets), path)
	return nil
}

func importSettings(w io.Writer, path, configPath, presetsPath string) error {
	backup, err := project.ImportAllData(path)
	if err != nil {
		return err
	}
	if err := project.SaveAppConfig(configPath, backup.Config); err != nil {
		return err
	}
	if err := project.SavePresets(presetsPath, backup.Presets); err != nil {
		return err
	}
	fmt.Fprintf(w, "Imported settings and %d presets from %s\n", len(backup.Presets), path)
	return nil
}

// resolveSettings layers the config defaults, an optional preset and the
// explicit flags, in that order.
func resolveSettings(opts options, cfg model.AppConfig, presetsPath string) (model.Settings, error) {
	settings := model.DefaultSettings()
	cfg.ApplyToSettings(&settings)

	if opts.preset != "" {
		preset, err := project.FindPreset(presetsPath, opts.preset)
		if err != nil {
			return settings, usageError{err: err}
		}
		preset.Apply(&settings)
	}

	if opts.scalesXSet {
		settings.ScalesX = opts.scalesX
	}
	if opts.scalesYSet {
		settings.ScalesY = opts.scalesY
	}
	if opts.workersSet {
		settings.Workers = opts.workers
	}
	return settings, nil
}

// collectEntries gathers images from --list followed by the positional
// arguments.
func collectEntries(opts options, logger *slog.Logger) ([]importer.ImageEntry, error) {
	var entries []importer.ImageEntry
	if opts.list != "" {
		res := importer.ImportList(opts.list)
		for _, w := range res.Warnings {
			logger.Warn("image list", "file", opts.list, "warning", w)
		}
		if len(res.Errors) > 0 {
			return nil, fmt.Errorf("image list %s: %s", opts.list, strings.Join(res.Errors, "; "))
		}
		entries = append(entries, res.Entries...)
	}

	expanded, err := importer.ExpandInputs(opts.inputs)
	if err != nil {
		return nil, err
	}
	return append(entries, expanded...), nil
}

// printComparison runs the default what-if scenarios plus every preset and
// prints one line per scenario.
func printComparison(w io.Writer, settings model.Settings, presetsPath string, sources []*model.SourceImage) error {
	scenarios := engine.BuildDefaultScenarios(settings)
	presets, err := project.AllPresets(presetsPath)
	if err != nil {
		return err
	}
	for _, p := range presets {
		s := settings
		p.Apply(&s)
		scenarios = append(scenarios, engine.ComparisonScenario{Name: "Preset: " + p.Name, Settings: s})
	}

	results, err := engine.CompareScenarios(scenarios, sources)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tSCALE\tSIZE\tWASTE\tVALID")
	for _, r := range results {
		if !r.Valid {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t0/%d\n", r.Scenario.Name, r.Candidates)
			continue
		}
		fmt.Fprintf(tw, "%s\t%gx%g\t%dx%d\t%.2f%%\t%d/%d\n",
			r.Scenario.Name, r.ScaleX, r.ScaleY, r.Width, r.Height, r.WastePercent, r.ValidCount, r.Candidates)
	}
	return tw.Flush()
}

// writeOutputs saves the atlas and every requested side file. Report,
// spreadsheet and DXF toggles in the config write next to the atlas when
// no explicit path was given.
func writeOutputs(opts options, cfg model.AppConfig, result model.AtlasResult, sources []*model.SourceImage) error {
	if err := export.SaveAtlas(opts.output, result.Image); err != nil {
		return err
	}

	manifest := export.BuildManifest(result, sources, filepath.Base(opts.output))

	if opts.manifest != "" {
		format := opts.manifestFormat
		if format == "" && !knownManifestExt(opts.manifest) {
			format = cfg.ManifestFormat
		}
		if err := export.WriteManifest(opts.manifest, manifest, format); err != nil {
			return fmt.Errorf("writing manifest: %w", err)
		}
	}

	base := strings.TrimSuffix(opts.output, filepath.Ext(opts.output))
	xlsxPath := sidePath(opts.xlsx, cfg.WriteXLSX, base+".xlsx")
	reportPath := sidePath(opts.report, cfg.WriteReport, base+".pdf")
	dxfPath := sidePath(opts.dxf, cfg.WriteDXF, base+".dxf")

	if xlsxPath != "" {
		if err := export.ExportSpreadsheet(xlsxPath, manifest, result.Candidates); err != nil {
			return fmt.Errorf("writing spreadsheet: %w", err)
		}
	}
	if reportPath != "" {
		if err := export.ExportReport(reportPath, result, manifest); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	if opts.cards != "" {
		if err := export.ExportFrameCards(opts.cards, manifest, result.Image); err != nil {
			return fmt.Errorf("writing frame cards: %w", err)
		}
	}
	if dxfPath != "" {
		if err := export.ExportDXF(dxfPath, manifest); err != nil {
			return fmt.Errorf("writing DXF: %w", err)
		}
	}
	return nil
}

func knownManifestExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml", ".cbor":
		return true
	}
	return false
}

// sidePath returns explicit, or fallback when the config enables the output.
func sidePath(explicit string, enabled bool, fallback string) string {
	if explicit != "" {
		return explicit
	}
	if enabled {
		return fallback
	}
	return ""
}
