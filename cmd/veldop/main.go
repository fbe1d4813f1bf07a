package main

import (
	"errors"
	"fmt"
	"os"
)

const cliToolVersion = "veldop 0.1.0-dev"

var errManifestNotFound = errors.New("suites.yml not found")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	mode, modeExplicit, remaining, err := parseModeFlag(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(remaining) == 0 {
		printUsage()
		return 1
	}

	switch remaining[0] {
	case "--help", "-h":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "eval":
		return runEval(remaining[1:], mode)
	case "repl":
		return runRepl(remaining[1:], mode)
	case "rules":
		return runRules(remaining[1:], mode)
	case "conformance":
		return runConformance(remaining[1:], mode, modeExplicit)
	case "suites":
		return runSuites(remaining[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", remaining[0])
		printUsage()
		return 1
	}
}
