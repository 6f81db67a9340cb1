package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	img2pdf "github.com/alnah/go-img2pdf"
)

// runInspectCmd prints the structure of a PDF and returns an exit code.
func runInspectCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	jsonOutput := fs.Bool("json", false, "print JSON")
	fs.Usage = func() { printInspectUsage(env.Stdout) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		printInspectUsage(env.Stderr)
		return ExitUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(env.Stderr, "error: expected exactly one PDF file")
		printInspectUsage(env.Stderr)
		return ExitUsage
	}

	info, err := img2pdf.Inspect(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}

	if *jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(info)
		return ExitSuccess
	}

	printDocumentInfo(env.Stdout, info)
	return ExitSuccess
}

// printDocumentInfo outputs a human-readable page listing.
func printDocumentInfo(w io.Writer, info *img2pdf.DocumentInfo) {
	fmt.Fprintln(w, info.Path)
	fmt.Fprintf(w, "Pages: %d\n", len(info.Pages))
	fmt.Fprintln(w)

	for i, p := range info.Pages {
		fmt.Fprintf(w, "  %4d  %gx%g pt", i+1, p.Width, p.Height)
		for _, img := range p.Images {
			fmt.Fprintf(w, "  %s %dx%d %s %s", img.Name, img.Width, img.Height, img.ColorSpace, img.Filter)
			if img.HasAlpha {
				fmt.Fprint(w, " alpha")
			}
		}
		fmt.Fprintln(w)
	}

	if len(info.Outline) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Outline:")
	for _, title := range info.Outline {
		fmt.Fprintf(w, "  %s\n", title)
	}
}
