package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/weaming/psp-go/output"
	"github.com/weaming/psp-go/psp"
)

func main() {
	config := parseFlags()

	if err := run(config, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() *output.Config {
	config := &output.Config{}

	flag.StringVar(&config.Format, "f", "png", "output format: png, bmp, tiff, ppm, jpg")
	flag.IntVar(&config.Mask, "m", -1, "layer number used as the alpha plane (png/tiff), -1 for the first alpha channel")
	flag.StringVar(&config.InputDir, "i", ".", "input directory (batch mode)")
	flag.StringVar(&config.OutputDir, "o", "", "output directory (defaults to the input directory)")
	flag.BoolVar(&config.NonRecursive, "n", false, "do not descend into subdirectories")
	flag.BoolVar(&config.Expand, "x", false, "also dump layers and intermediate masks as BMP files")
	flag.BoolVar(&config.List, "l", false, "list blocks and layers instead of converting")
	flag.BoolVar(&config.Verbose, "v", false, "verbose output")
	flag.BoolVar(&config.SkipHidden, "skip-hidden", false, "leave hidden layers out of the flattened image")
	flag.IntVar(&config.Quality, "quality", 95, "JPEG quality (1-100)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "psp-go version %s\n", psp.Version)
		fmt.Fprintf(os.Stderr, "\nConverts Paint Shop Pro 8 images (.pspimage)\n\n")
		fmt.Fprintf(os.Stderr, "usage: psp-go [options] [input.pspimage]\n\n")
		fmt.Fprintf(os.Stderr, "Without an input file every .pspimage under -i is converted.\n\n")
		fmt.Fprintf(os.Stderr, "options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nexamples:\n")
		fmt.Fprintf(os.Stderr, "  psp-go -f png image.pspimage\n")
		fmt.Fprintf(os.Stderr, "  psp-go -f png -m 2 image.pspimage\n")
		fmt.Fprintf(os.Stderr, "  psp-go -i ~/art -o /tmp/art -f bmp\n")
		fmt.Fprintf(os.Stderr, "  psp-go -l -v image.pspimage\n")
	}

	flag.Parse()

	if flag.NArg() > 0 {
		config.Input = flag.Arg(0)
	}

	return config
}

func run(config *output.Config, w io.Writer) error {
	format, err := output.ParseFormat(config.Format)
	if err != nil {
		return err
	}

	if config.Input != "" {
		outDir := config.OutputDir
		if outDir == "" {
			outDir = filepath.Dir(config.Input)
		}
		return convertFile(config, format, config.Input, outDir, w)
	}

	return runBatch(config, format, w)
}

// convertFile decodes one file and lists, expands and converts it as
// config asks.
func convertFile(config *output.Config, format output.Format, input, outDir string, w io.Writer) error {
	logger := psp.NewLogger(w)

	opts := psp.Options{SkipHidden: config.SkipHidden}
	if config.Verbose {
		opts.Logger = logger
	}
	doc, err := psp.Open(input, opts)
	if err != nil {
		return err
	}

	if config.List {
		listDocument(w, input, doc, config.Verbose)
		return nil
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))

	if config.Expand {
		if err := expand(doc, outDir, stem, logger); err != nil {
			return err
		}
	}

	out := filepath.Join(outDir, stem+format.Ext())
	if config.Verbose {
		fmt.Fprintf(w, "converting: %s => %s\n", input, out)
	}
	logger.Step("export", filepath.Base(out))
	if err := output.Export(doc, out, format, config.Mask, config.Quality); err != nil {
		logger.Done("failed")
		return err
	}
	logger.Done(fmt.Sprintf("%dx%d", doc.Width(), doc.Height()))
	return nil
}

// expand writes the layer dumps to <outDir>/layers.<stem> and the
// intermediate masks to <outDir>/blocks.<stem>.
func expand(doc *psp.Document, outDir, stem string, logger *psp.Logger) error {
	layersDir := filepath.Join(outDir, "layers."+stem)
	blocksDir := filepath.Join(outDir, "blocks."+stem)
	for _, dir := range []string{layersDir, blocksDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	logger.Step("expand layers", layersDir)
	written, err := output.ExpandLayers(doc, layersDir)
	if err != nil {
		logger.Done("failed")
		return err
	}
	logger.Done(fmt.Sprintf("%d files", len(written)))

	logger.Step("expand blocks", blocksDir)
	written, err = output.ExpandBlocks(doc, blocksDir)
	if err != nil {
		logger.Done("failed")
		return err
	}
	logger.Done(fmt.Sprintf("%d files", len(written)))
	return nil
}
