package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	flag "github.com/spf13/pflag"

	img2pdf "github.com/alnah/go-img2pdf"
	"github.com/alnah/go-img2pdf/internal/chapter"
	"github.com/alnah/go-img2pdf/internal/config"
	"github.com/alnah/go-img2pdf/internal/hints"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Layout   layoutInfo `json:"layout"`
	Font     fontInfo   `json:"font"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// layoutInfo holds the result of scanning the root folder.
type layoutInfo struct {
	Root    string `json:"root"`
	AidsDir string `json:"aids_dir"`
	Found   bool   `json:"found"`
	Folders int    `json:"folders"`
	Images  int    `json:"images"`
}

// fontInfo holds chapter font loading results.
type fontInfo struct {
	Path     string `json:"path,omitempty"` // empty = embedded
	Embedded bool   `json:"embedded"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
}

// systemInfo holds system check results.
type systemInfo struct {
	Output         string `json:"output"`
	OutputWritable bool   `json:"output_writable"`
	TempWritable   bool   `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	jsonOutput := fs.Bool("json", false, "print JSON")
	configName := fs.StringP("config", "c", "", "config file name or path")
	fs.Usage = func() { printDoctorUsage(env.Stdout) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		printDoctorUsage(env.Stderr)
		return ExitUsage
	}

	flags := &convertFlags{common: commonFlags{config: *configName}, changed: map[string]bool{}}
	cfg, err := resolveConfig(flags, loadEnvConfig())
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err, nil))
		return exitCodeFor(err)
	}
	if fs.NArg() > 0 {
		cfg.Input.RootDir = fs.Arg(0)
	}

	result := runDoctor(cfg)

	if *jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(cfg *config.Config) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	checkLayout(result, cfg)
	checkFont(result, cfg)
	checkEnvironment(result)
	checkSystem(result, cfg.Output.Path)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkLayout scans the root folder the way convert does.
func checkLayout(result *doctorResult, cfg *config.Config) {
	result.Layout.Root = cfg.Input.RootDir
	result.Layout.AidsDir = cfg.Input.AidsDir

	folders, err := img2pdf.Collect(cfg.Input.RootDir, img2pdf.CollectOptions{
		AidsDir:   cfg.Input.AidsDir,
		Extension: cfg.Input.Extension,
	})
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read root folder: %v", err))
		return
	}

	result.Layout.Found = true
	result.Layout.Folders = len(folders)
	result.Layout.Images = img2pdf.CountImages(folders)
	if result.Layout.Images == 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("No %s images under %s/*/%s", cfg.Input.Extension, cfg.Input.RootDir, cfg.Input.AidsDir))
	}
}

// checkFont loads the chapter font the way divider rendering does.
func checkFont(result *doctorResult, cfg *config.Config) {
	s := chapter.DefaultSettings()
	s.FontPath = cfg.Chapters.Font
	r := chapter.NewRenderer(s)

	result.Font.Path = cfg.Chapters.Font
	result.Font.Embedded = cfg.Chapters.Font == "" || r.FontFallback() != nil
	if cfg.Chapters.Font != "" && r.FontFallback() != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Chapter font unusable, embedded font will be used: %v", r.FontFallback()))
	}
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("IMG2PDF_CONTAINER") == "1" {
		return true, "IMG2PDF_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the output and temp directories accept files.
func checkSystem(result *doctorResult, output string) {
	result.System.Output = output

	outDir := filepath.Dir(output)
	if dirWritable(outDir) {
		result.System.OutputWritable = true
	} else if _, err := os.Stat(outDir); os.IsNotExist(err) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Output directory %s does not exist yet, it will be created", outDir))
	} else {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Output directory not writable: %s", outDir))
	}

	tmpDir := os.TempDir()
	if dirWritable(tmpDir) {
		result.System.TempWritable = true
	} else {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	}
}

// dirWritable reports whether a file can be created in dir.
func dirWritable(dir string) bool {
	f, err := os.CreateTemp(dir, ".img2pdf-doctor-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "img2pdf doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Layout")
	if r.Layout.Found {
		fmt.Fprintf(w, "  [OK] Root: %s\n", r.Layout.Root)
		fmt.Fprintf(w, "  [OK] Folders: %d\n", r.Layout.Folders)
		fmt.Fprintf(w, "  [OK] Images: %d\n", r.Layout.Images)
	} else {
		fmt.Fprintf(w, "  [ERROR] Root: %s not readable\n", r.Layout.Root)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chapter font")
	if r.Font.Path == "" {
		fmt.Fprintln(w, "  [OK] Embedded")
	} else if r.Font.Embedded {
		fmt.Fprintf(w, "  [WARN] %s unusable, embedded font used%s\n", r.Font.Path, hints.ForFontFallback())
	} else {
		fmt.Fprintf(w, "  [OK] %s\n", r.Font.Path)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.OutputWritable {
		fmt.Fprintf(w, "  [OK] Output directory: writable (%s)\n", r.System.Output)
	}
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
