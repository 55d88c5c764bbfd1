// mkicons draws the extension's icons and writes them as PNG files.
//
// Usage: go run ./cmd/mkicons [flags]
//
// Without flags, icon-16.png, icon-24.png, icon-48.png and icon-128.png
// are written into the "public" directory, which is created if missing.
package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/image/font"

	"janouch.name/badgen/config"
	"janouch.name/badgen/icon"
	"janouch.name/badgen/iconset"
)

type flags struct {
	config     string
	dir        string
	sizes      []int
	font       string
	letter     string
	favicon    bool
	manifest   bool
	sheet      bool
	sheetScale int
	sheetURL   string
	verbose    bool
}

// apply overrides configuration values with flags given on the command line.
func (f *flags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("dir") {
		cfg.OutputDir = f.dir
	}
	if changed("size") {
		cfg.Sizes = f.sizes
	}
	if changed("font") {
		cfg.Font = f.font
	}
	if changed("letter") {
		cfg.Letter = f.letter
	}
	if changed("favicon") {
		cfg.Favicon = f.favicon
	}
	if changed("manifest") {
		cfg.Manifest = f.manifest
	}
	if changed("sheet") {
		cfg.Sheet.Enabled = f.sheet
	}
	if changed("sheet-scale") {
		cfg.Sheet.Scale = f.sheetScale
	}
	if changed("sheet-url") {
		cfg.Sheet.URL = f.sheetURL
	}
}

// captionFace picks the preview sheet's caption font. Only bitmap fonts are
// used for captions, scalable ones would need a size to be chosen.
func captionFace(log logrus.FieldLogger, path string) font.Face {
	if !strings.EqualFold(filepath.Ext(path), ".bdf") {
		return nil
	}
	f, err := icon.LoadBDF(path)
	if err != nil {
		log.WithError(err).Warn("using the built-in font for captions")
		return nil
	}
	return f
}

func run(log *logrus.Logger, cfg config.Config) error {
	r := icon.New(log)
	r.Letter = cfg.Letter
	if cfg.Font != "" {
		r.Face = icon.FileFace(cfg.Font)
	}

	opts := iconset.Options{
		Dir:      cfg.OutputDir,
		Sizes:    cfg.Sizes,
		Favicon:  cfg.Favicon,
		Manifest: cfg.Manifest,
	}
	if cfg.Sheet.Enabled {
		opts.Sheet = &iconset.SheetOptions{
			Face:  captionFace(log, cfg.Font),
			Scale: cfg.Sheet.Scale,
			URL:   cfg.Sheet.URL,
		}
	}

	_, err := iconset.Generate(r, opts)
	return err
}

func newCommand(log *logrus.Logger) *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:           "mkicons",
		Short:         "Generate the extension's PNG icons",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			cfg, err := config.Load(f.config)
			if err != nil {
				return err
			}
			f.apply(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(log, cfg)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "TOML configuration file")
	fl.StringVarP(&f.dir, "dir", "d", config.DefaultOutputDir,
		"output directory, created if missing")
	fl.IntSliceVarP(&f.sizes, "size", "s", config.DefaultSizes,
		"icon edge length in pixels, may be repeated")
	fl.StringVar(&f.font, "font", "", "BDF or TrueType font for the badge letter")
	fl.StringVar(&f.letter, "letter", icon.DefaultLetter, "badge letter")
	fl.BoolVar(&f.favicon, "favicon", false, "also write "+iconset.FaviconName)
	fl.BoolVar(&f.manifest, "manifest", false, "also write "+iconset.ManifestName)
	fl.BoolVar(&f.sheet, "sheet", false, "also write "+iconset.SheetName)
	fl.IntVar(&f.sheetScale, "sheet-scale", 2, "icon magnification on the preview")
	fl.StringVar(&f.sheetURL, "sheet-url", "", "URL to put on the preview as a QR code")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "log debug messages")
	return cmd
}

func newLogger(w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
	})
	return log
}

func main() {
	log := newLogger(os.Stderr)
	if err := newCommand(log).Execute(); err != nil {
		log.Fatalln(err)
	}
}
