package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"veld/semantics-go/pkg/expr"
	"veld/semantics-go/pkg/operators"
	"veld/semantics-go/pkg/runtime"
)

const (
	replHistoryFile = ".veldop_history"
	replBanner      = "veld operator repl - Ctrl+C clears the line, Ctrl+D exits. Type :help for commands."
	replHelp        = `
Commands:
  :help            Show this help
  :quit / :exit    Leave the repl
  :mode [name]     Show or set the evaluation mode (strict, legacy)
  :rules [family]  Print the acceptance tables for the current mode
`
)

var colorEnabled = os.Getenv("NO_COLOR") == ""

func red(s string) string {
	if !colorEnabled {
		return s
	}
	return "\x1b[31m" + s + "\x1b[0m"
}

func blue(s string) string {
	if !colorEnabled {
		return s
	}
	return "\x1b[94m" + s + "\x1b[0m"
}

func runRepl(args []string, mode operators.Mode) int {
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "veldop repl does not take arguments (received %s)\n", strings.Join(args, " "))
		return 1
	}
	fmt.Println(replBanner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, replHistoryFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		line, err := ln.Prompt(mode.String() + "> ")
		if errors.Is(err, io.EOF) {
			fmt.Println()
			break
		}
		if err != nil {
			// Ctrl+C drops the pending line and prompts again.
			continue
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if strings.HasPrefix(input, ":") {
			if done := handleReplCommand(input, &mode); done {
				break
			}
			ln.AppendHistory(input)
			continue
		}

		value, err := expr.EvalString(input, mode)
		if err != nil {
			fmt.Println(red(err.Error()))
		} else {
			fmt.Println(blue(runtime.Format(value)))
		}
		ln.AppendHistory(input)
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return 0
}

func handleReplCommand(line string, mode *operators.Mode) (exit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch strings.ToLower(fields[0]) {
	case ":help":
		fmt.Print(replHelp)

	case ":quit", ":exit":
		return true

	case ":mode":
		if len(fields) < 2 {
			fmt.Println(mode.String())
			return false
		}
		parsed, ok := operators.ParseMode(strings.ToLower(fields[1]))
		if !ok {
			fmt.Println(red(fmt.Sprintf("unknown mode %q (expected strict or legacy)", fields[1])))
			return false
		}
		*mode = parsed
		fmt.Printf("mode set to %s\n", parsed)

	case ":rules":
		if len(fields) >= 2 {
			family, ok := operators.ParseFamily(fields[1])
			if !ok {
				fmt.Println(red(fmt.Sprintf("unknown family %q (expected %s)", fields[1], strings.Join(allFamilyNames(), ", "))))
				return false
			}
			renderFamily(os.Stdout, family, *mode)
			return false
		}
		renderAllRules(os.Stdout, *mode)

	default:
		fmt.Println("unknown command. Type :help for help.")
	}
	return false
}
