package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	undo, _ := maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	code := runMain(os.Args, DefaultEnv())
	undo()
	os.Exit(code)
}

// runMain dispatches to a command and returns the process exit code.
// Without a known command name, arguments are handed to convert, so
// running the binary bare converts the default folder.
func runMain(args []string, env *Environment) int {
	ctx, stop := notifyContext(context.Background())
	defer stop()

	if len(args) > 0 {
		args = args[1:]
	}

	cmd, rest := "convert", args
	if len(args) > 0 && isCommand(args[0]) {
		cmd, rest = args[0], args[1:]
	}

	switch cmd {
	case "convert":
		return runConvertCmd(ctx, rest, env)
	case "inspect":
		return runInspectCmd(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "version":
		fmt.Fprintf(env.Stdout, "img2pdf %s\n", Version)
		return ExitSuccess
	default: // help
		return runHelp(rest, env)
	}
}

// isCommand reports whether arg names a command.
func isCommand(arg string) bool {
	switch arg {
	case "convert", "inspect", "doctor", "version", "help", "-h", "--help":
		return true
	}
	return false
}
