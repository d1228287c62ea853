package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/quidome/exif-trackr-go/pkg/config"
	"github.com/quidome/exif-trackr-go/pkg/geotag"
	"github.com/quidome/exif-trackr-go/pkg/logging"
	"github.com/quidome/exif-trackr-go/pkg/output"
	"github.com/quidome/exif-trackr-go/pkg/render"
	"github.com/quidome/exif-trackr-go/pkg/scan"
	"github.com/quidome/exif-trackr-go/pkg/track"
)

const version = "0.1.0"

var errNotDirectory = errors.New("not a directory")

type options struct {
	configPath string
	format     string
	recursive  bool
	output     string
	timezone   string
	extensions []string
	logLevel   string
	logFormat  string
	verbose    bool
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "exif-trackr [input dir]",
		Short:        "Build a GPS track from geotagged photos",
		Long:         "exif-trackr reads the EXIF capture time and GPS position of every image in a directory and prints them as a single time-ordered GPX or GeoJSON track.",
		Version:      version,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRun(cmd, opts, args[0])
			if err != nil {
				return err
			}

			t, err := r.track()
			if err != nil {
				return err
			}

			doc, err := render.Render(t, r.format)
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), r.cfg.Output, doc)
		},
	}

	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to a TOML configuration file")
	flags.StringVarP(&opts.format, "format", "f", string(render.FormatGPX), "output format, exactly one of gpx or geojson")
	flags.BoolVarP(&opts.recursive, "recursive", "r", false, "descend into subdirectories")
	flags.StringVarP(&opts.output, "output", "o", output.Stdout, "output file, - for stdout")
	flags.StringVar(&opts.timezone, "timezone", "", "IANA timezone of the camera clock (default local)")
	flags.StringSliceVar(&opts.extensions, "ext", nil, "only read files with these extensions (default all files)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "auto", "log format (auto, text, json)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, len(render.Formats))
		for _, f := range render.Formats {
			names = append(names, string(f))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newListCmd(opts))

	return rootCmd
}

// run holds everything resolved before the walk starts. Building it is where
// every configuration error surfaces, so nothing is written on failure.
type run struct {
	cfg    *config.Config
	format render.Format
	loc    string
	dir    string
	logger *slog.Logger
	walk   scan.Options
}

func newRun(cmd *cobra.Command, opts *options, dir string) (*run, error) {
	cfg, err := opts.resolve(cmd)
	if err != nil {
		return nil, err
	}

	format, err := cfg.RenderFormat()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input directory %s: %w", dir, errNotDirectory)
	}

	return &run{
		cfg:    cfg,
		format: format,
		loc:    loc.String(),
		dir:    dir,
		logger: logger,
		walk: scan.Options{
			Recursive:  cfg.Recursive,
			Extractor:  geotag.ExifExtractor{Location: loc},
			Reporter:   logging.NewReporter(logger, dir),
			Extensions: cfg.Extensions,
		},
	}, nil
}

// track walks the input directory and returns the ordered track.
func (r *run) track() (track.Track, error) {
	r.logger.Debug("reading images",
		slog.String("dir", r.dir),
		slog.Bool("recursive", r.walk.Recursive),
		slog.String("timezone", r.loc),
	)

	records, err := scan.Walk(os.DirFS(r.dir), ".", r.walk)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	t, err := track.Finalize(records)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("track built", slog.Int("points", len(t)))
	return t, nil
}

// resolve layers command-line flags the user set over the configuration file.
func (o *options) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = o.format
	}
	if flags.Changed("recursive") {
		cfg.Recursive = o.recursive
	}
	if flags.Changed("output") {
		cfg.Output = o.output
	}
	if flags.Changed("timezone") {
		cfg.Timezone = o.timezone
	}
	if flags.Changed("ext") {
		cfg.Extensions = o.extensions
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = o.logFormat
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	} else if o.verbose {
		cfg.Log.Level = "debug"
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
