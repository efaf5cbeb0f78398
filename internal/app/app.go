package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "serve":
		return runServe(args[1:])
	case "health":
		return runHealth(args[1:])
	case "translate":
		return runTranslate(args[1:])
	case "compose":
		return runCompose(args[1:])
	case "alerts":
		return runAlerts(args[1:])
	case "monitor":
		return runMonitor(args[1:])
	case "cache-clear":
		return runCacheClear(args[1:])
	case "hash-token":
		return runHashToken(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "pressroom CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  pressroom <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  serve       Start the Echo API server")
	fmt.Fprintln(os.Stderr, "  health      Check configuration, cache database, and monitor upstream")
	fmt.Fprintln(os.Stderr, "  translate   Translate text through the provider chain once")
	fmt.Fprintln(os.Stderr, "  compose     Generate a press-release narrative and render it in a language")
	fmt.Fprintln(os.Stderr, "  alerts      Fetch the current crisis alert list and print it")
	fmt.Fprintln(os.Stderr, "  monitor     Send a monitor configuration to the monitoring service")
	fmt.Fprintln(os.Stderr, "  cache-clear Drop cached translations for one target language")
	fmt.Fprintln(os.Stderr, "  hash-token  Produce a bcrypt hash for ADMIN_TOKEN_HASH")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"pressroom <command> -h\" for command-specific flags.")
}
