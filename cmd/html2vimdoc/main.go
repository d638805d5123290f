// Command html2vimdoc converts a single document to the Vim help file
// format. It reads the named file (or standard input) and writes the
// generated help file to standard output.
package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/html2vimdoc/internal/parser"
	"github.com/dgallion1/html2vimdoc/internal/vimdoc"
	"github.com/spf13/pflag"
)

func main() {
	var (
		helpfile  = pflag.StringP("file", "f", "", "name of the generated help file (embedded as first defined tag)")
		title     = pflag.StringP("title", "t", "", "title of the generated help file")
		selector  = pflag.StringP("selector", "s", vimdoc.DefaultContentSelector, "CSS selector locating the content to convert")
		ignore    = pflag.StringSlice("ignore", nil, "CSS selectors to remove before conversion")
		baseURL   = pflag.String("base-url", "", "base URL for resolving relative link targets")
		docPrefix = pflag.String("doc-prefix", "", "link target prefix rewritten into help tag references")
		modeline  = pflag.String("modeline", vimdoc.DefaultModeline, "mode line appended to the output (empty to omit)")
		verbose   = pflag.BoolP("verbose", "v", false, "log conversion details to standard error")
	)
	pflag.Parse()

	if err := run(pflag.Args(), *helpfile, *title, *selector, *ignore, *baseURL, *docPrefix, *modeline, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, "html2vimdoc:", err)
		os.Exit(1)
	}
}

func run(args []string, helpfile, title, selector string, ignore []string, baseURL, docPrefix, modeline string, verbose bool) error {
	var (
		input    []byte
		filename string
		err      error
	)
	if len(args) > 0 {
		filename = args[0]
		input, err = os.ReadFile(filename)
		if err != nil {
			return err
		}
	} else {
		input, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		filename = "stdin.html"
	}

	if helpfile == "" && len(args) > 0 {
		base := filepath.Base(filename)
		helpfile = strings.TrimSuffix(base, filepath.Ext(base)) + ".txt"
	}

	p, err := parser.ForFile(filename)
	if err != nil {
		return err
	}
	htmlSrc, err := p.Parse(bytes.NewReader(input), filepath.Base(filename))
	if err != nil {
		return err
	}

	opts := vimdoc.Options{
		Title:             title,
		Filename:          helpfile,
		BaseURL:           baseURL,
		ContentSelector:   selector,
		SelectorsToIgnore: ignore,
		ExternalDocPrefix: docPrefix,
		Modeline:          modeline,
	}
	if verbose {
		opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	text, err := vimdoc.Convert(htmlSrc, opts)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}
