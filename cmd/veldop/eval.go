package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"veld/semantics-go/pkg/expr"
	"veld/semantics-go/pkg/operators"
	"veld/semantics-go/pkg/runtime"
)

func runEval(args []string, mode operators.Mode) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "veldop eval requires an expression")
		return 1
	}
	// Joining lets the shell split an unquoted expression without harm.
	return evalExpression(os.Stdout, os.Stderr, strings.Join(args, " "), mode)
}

func evalExpression(out, errOut io.Writer, source string, mode operators.Mode) int {
	value, err := expr.EvalString(source, mode)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	fmt.Fprintln(out, runtime.Format(value))
	return 0
}
