package conformance

import (
	"errors"
	"fmt"

	"veld/semantics-go/pkg/expr"
	"veld/semantics-go/pkg/operators"
	"veld/semantics-go/pkg/runtime"
)

// CaseResult records one case executed in one mode. Got and Want hold the
// rendered forms compared for the verdict; Err keeps the raw evaluator error
// for diagnostics.
type CaseResult struct {
	Case *Case
	Mode operators.Mode
	Pass bool
	Got  string
	Want string
	Err  error
}

// Label names the result for diagnostics, e.g. `case "int-add" [strict]`.
func (r CaseResult) Label() string {
	return fmt.Sprintf("case %q [%s]", r.Case.Name, r.Mode)
}

// Summary aggregates one suite run.
type Summary struct {
	Suite   *Suite
	Results []CaseResult
	Passed  int
	Failed  int
}

// Run executes every case of the suite in each of its modes.
func (s *Suite) Run() *Summary {
	sum := &Summary{Suite: s}
	for _, c := range s.Cases {
		for _, mode := range c.Modes {
			res := runCase(c, mode)
			if res.Pass {
				sum.Passed++
			} else {
				sum.Failed++
			}
			sum.Results = append(sum.Results, res)
		}
	}
	return sum
}

// Failures returns the failing results in run order.
func (s *Summary) Failures() []CaseResult {
	var failed []CaseResult
	for _, r := range s.Results {
		if !r.Pass {
			failed = append(failed, r)
		}
	}
	return failed
}

// runCase compares rendered notation forms rather than values directly, so a
// NAN result matches a NAN expectation and -0.0 stays distinct from 0.0.
func runCase(c *Case, mode operators.Mode) CaseResult {
	res := CaseResult{Case: c, Mode: mode}
	if c.WantError != "" {
		res.Want = "error " + c.WantError
	} else {
		res.Want = runtime.Format(c.Want)
	}

	got, err := c.execute(mode)
	if err != nil {
		res.Err = err
		name, known := taxonomyName(err)
		if known {
			res.Got = "error " + name
		} else {
			res.Got = "error: " + err.Error()
		}
		res.Pass = known && name == c.WantError
		return res
	}

	res.Got = runtime.Format(got)
	res.Pass = c.WantError == "" && res.Got == res.Want
	return res
}

func (c *Case) execute(mode operators.Mode) (runtime.Value, error) {
	switch c.Form {
	case FormExpr:
		return expr.EvalString(c.Expr, mode)
	case FormBinary:
		return operators.EvalBinary(c.Op, c.Left, c.Right, mode)
	case FormUnary:
		return operators.EvalUnary(c.Op, c.Operand, mode)
	case FormSwitch:
		idx, err := operators.SelectCase(c.Subject, c.Candidates, mode)
		if err != nil {
			return nil, err
		}
		return runtime.IntValue{Val: int64(idx)}, nil
	default:
		return nil, fmt.Errorf("conformance: unknown case form %d", c.Form)
	}
}

// taxonomyName maps an evaluator error to its fixture taxonomy name.
func taxonomyName(err error) (string, bool) {
	var unsupported *operators.UnsupportedOperandError
	var divzero *operators.DivisionByZeroError
	var negshift *operators.NegativeShiftError
	var nomatch *operators.NoMatchingCaseError
	switch {
	case errors.As(err, &unsupported):
		return ErrorUnsupportedOperand, true
	case errors.As(err, &divzero):
		return ErrorDivisionByZero, true
	case errors.As(err, &negshift):
		return ErrorNegativeShift, true
	case errors.As(err, &nomatch):
		return ErrorNoMatchingCase, true
	default:
		return "", false
	}
}
