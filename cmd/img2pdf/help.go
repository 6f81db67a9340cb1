package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: img2pdf [command] [flags] [root]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Collect learning aids into one PDF (default)")
	fmt.Fprintln(w, "  inspect    Show pages, images and outline of a PDF")
	fmt.Fprintln(w, "  doctor     Check the folder layout and system")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'img2pdf help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: img2pdf convert [root] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Collect the images of every <root>/<folder>/00_LEARNINGAIDS/ folder,")
	fmt.Fprintln(w, "in natural order, into a single PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  root    Folder to scan (default: folders)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output PDF (default: compressed_learningaids.pdf)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --aids-dir <name>     Child folder holding images")
	fmt.Fprintln(w, "      --ext <ext>           Image extension, case-insensitive")
	fmt.Fprintln(w, "      --skip-invalid        Skip unreadable images instead of aborting")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compression:")
	fmt.Fprintln(w, "      --no-compress         Keep original size, lossless pages")
	fmt.Fprintln(w, "      --max-width <px>      Downsample wider images (default: 1600)")
	fmt.Fprintln(w, "      --quality <n>         JPEG quality 1-100 (default: 75)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Chapters:")
	fmt.Fprintln(w, "      --chapters            Divider page and bookmark per folder")
	fmt.Fprintln(w, "      --font <path>         TrueType/OpenType font for dividers")
	fmt.Fprintln(w, "      --font-size <pt>      Caption size (default: 64)")
	fmt.Fprintln(w, "      --canvas-width <px>   Divider width (default: 1600)")
	fmt.Fprintln(w, "      --canvas-height <px>  Divider height (default: 900)")
	fmt.Fprintln(w, "      --prefix <s>          Caption prefix (default: \"Chapter: \")")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs, timing and outline")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  IMG2PDF_ROOT, IMG2PDF_OUTPUT, IMG2PDF_CONFIG, IMG2PDF_AIDS_DIR, IMG2PDF_EXT,")
	fmt.Fprintln(w, "  IMG2PDF_COMPRESS, IMG2PDF_MAX_WIDTH, IMG2PDF_QUALITY, IMG2PDF_CHAPTERS,")
	fmt.Fprintln(w, "  IMG2PDF_FONT, IMG2PDF_ON_INVALID")
	fmt.Fprintln(w, "  Precedence: flags > environment > config file > defaults")
}

// printInspectUsage prints usage for the inspect command.
func printInspectUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: img2pdf inspect <file.pdf> [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Show page sizes, embedded images and bookmarks of a PDF.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: img2pdf doctor [root] [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the folder layout, chapter font and output locations.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "inspect":
		printInspectUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: img2pdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: img2pdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
