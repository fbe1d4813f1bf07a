package main

import (
	"fmt"
	"os"
)

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  veldop [--mode=strict|legacy] eval <expression>")
	fmt.Fprintln(os.Stderr, "  veldop [--mode=strict|legacy] repl")
	fmt.Fprintln(os.Stderr, "  veldop [--mode=strict|legacy] rules [family]")
	fmt.Fprintln(os.Stderr, "  veldop [--mode=strict|legacy] conformance run [fixture.yml ...]")
	fmt.Fprintln(os.Stderr, "  veldop suites install")
	fmt.Fprintln(os.Stderr, "  veldop suites update [suite ...]")
	fmt.Fprintln(os.Stderr, "  veldop version")
}
