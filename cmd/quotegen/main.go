// Command quotegen renders and reviews quotes from the command line.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/FungiProxy/QuoteTemplate-sub001/internal/config"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/generator"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/review"
)

func main() {
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 2
	}
	switch args[0] {
	case "generate":
		return runGenerate(args[1:], stdin, stdout, stderr)
	case "review":
		return runReview(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		printUsage(stderr)
		return 2
	}
}

func runGenerate(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	reqPath := fs.String("request", "-", "request JSON file (- for stdin)")
	out := fs.String("out", "", "output path (default: OUTPUT_DIR/<id><template ext>)")
	debug := fs.Bool("debug", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Load()
	log := newLogger(stderr, *debug || cfg.Debug)

	var data []byte
	var err error
	if *reqPath == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(*reqPath)
	}
	if err != nil {
		fmt.Fprintf(stderr, "read request: %v\n", err)
		return 1
	}
	var req generator.Request
	if err := json.Unmarshal(data, &req); err != nil {
		fmt.Fprintf(stderr, "parse request: %v\n", err)
		return 1
	}
	if *out != "" {
		req.OutputPath = *out
	}

	defaults, err := config.LoadDefaults(cfg.DefaultsFile)
	if err != nil {
		fmt.Fprintf(stderr, "load defaults: %v\n", err)
		return 1
	}
	rep, err := generator.New(cfg, defaults, log).Generate(req)
	if err != nil {
		fmt.Fprintf(stderr, "generate (%s): %v\n", generator.KindOf(err), err)
		return 1
	}

	fmt.Fprintf(stdout, "Wrote %s (%d item(s), template %s)\n", rep.OutputPath, rep.ItemCount, rep.Template)
	for _, name := range rep.Missing {
		fmt.Fprintf(stdout, "  missing: %s\n", name)
	}
	for _, is := range rep.Issues {
		fmt.Fprintf(stdout, "  invalid conditional at %s: %s\n", is.Location, is.Reason)
	}
	return 0
}

func runReview(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("review", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "print findings as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: quotegen review [-json] <file>")
		return 2
	}

	rep, err := (&review.Scanner{FallbackPdftotext: true}).ScanFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "review: %v\n", err)
		return 1
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		enc.Encode(rep)
	} else if rep.Clean() {
		fmt.Fprintf(stdout, "%s: no issues\n", rep.File)
	} else {
		for _, f := range rep.Findings {
			label := f.Name
			if label == "" {
				label = f.Text
			}
			fmt.Fprintf(stdout, "%s: %s: %s %s\n", rep.File, f.Location, f.Kind, label)
		}
	}
	// Non-zero so scripts can gate on a clean quote.
	if !rep.Clean() {
		return 3
	}
	return 0
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `quotegen - render quotes from templates

Usage:
  quotegen generate [flags]        Render a quote from a JSON request
  quotegen review [-json] <file>   List unresolved placeholders in a rendered quote
  quotegen help                    Show this help

Generate Flags:
  -request string   Request JSON file, - for stdin (default: -)
  -out string       Output path (default: OUTPUT_DIR/<id><template ext>)
  -debug            Enable debug logging

Templates and output locations come from TEMPLATES_DIR, MASTER_TEMPLATE,
CONFIGS_DIR, OUTPUT_DIR and QUOTE_DEFAULTS_FILE (a .env file is honored).`)
}
