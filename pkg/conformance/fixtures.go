// Package conformance loads and runs operator fixture suites: YAML files of
// cases that pin the observable behavior of the semantics engine in both
// modes. The fixtures double as package tests here and as an exchange format
// for suites fetched from other repositories.
package conformance

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"veld/semantics-go/pkg/expr"
	"veld/semantics-go/pkg/operators"
	"veld/semantics-go/pkg/runtime"
)

// CaseForm selects how a fixture case feeds the evaluator.
type CaseForm int

const (
	// FormExpr parses and evaluates a notation expression.
	FormExpr CaseForm = iota
	// FormBinary applies a binary operator to two decoded values.
	FormBinary
	// FormUnary applies a unary operator to one decoded value.
	FormUnary
	// FormSwitch selects the first candidate matching the subject.
	FormSwitch
)

// Case is one executable conformance check.
type Case struct {
	Name  string
	Modes []operators.Mode
	Form  CaseForm

	Expr string // FormExpr

	Op      operators.Op  // FormBinary, FormUnary
	Left    runtime.Value // FormBinary
	Right   runtime.Value // FormBinary
	Operand runtime.Value // FormUnary

	Subject    runtime.Value   // FormSwitch
	Candidates []runtime.Value // FormSwitch; the expected result is the matched index

	Want      runtime.Value // nil when an error is expected
	WantError string        // taxonomy name, empty when a value is expected
}

// Suite is a decoded fixture file.
type Suite struct {
	Path  string
	Name  string
	Cases []*Case
}

// Taxonomy names a case may expect under error:.
const (
	ErrorUnsupportedOperand = "unsupported_operand"
	ErrorDivisionByZero     = "division_by_zero"
	ErrorNegativeShift      = "negative_shift"
	ErrorNoMatchingCase     = "no_matching_case"
)

// ValidationError aggregates validation failures from a fixture file or a
// suite manifest.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "conformance: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("suite validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

type suiteDisk struct {
	Suite string     `yaml:"suite"`
	Cases []caseDisk `yaml:"cases"`
}

type caseDisk struct {
	Name    string      `yaml:"name"`
	Mode    string      `yaml:"mode"`
	Expr    string      `yaml:"expr"`
	Op      string      `yaml:"op"`
	Left    yaml.Node   `yaml:"left"`
	Right   yaml.Node   `yaml:"right"`
	Operand yaml.Node   `yaml:"operand"`
	Subject yaml.Node   `yaml:"subject"`
	Cases   []yaml.Node `yaml:"cases"`
	Want    yaml.Node   `yaml:"want"`
	Error   string      `yaml:"error"`
}

// LoadSuiteFile parses one fixture file from disk, returning a validated
// suite.
func LoadSuiteFile(path string) (*Suite, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw suiteDisk
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("fixtures: %s is empty", path)
		}
		return nil, fmt.Errorf("fixtures: parse %s: %w", path, err)
	}

	suite, err := raw.toSuite()
	if err != nil {
		return nil, err
	}
	suite.Path = path
	return suite, nil
}

func (d *suiteDisk) toSuite() (*Suite, error) {
	var errs ValidationError
	suite := &Suite{Name: strings.TrimSpace(d.Suite)}
	if suite.Name == "" {
		errs.Issues = append(errs.Issues, "suite must be named")
	}
	if len(d.Cases) == 0 {
		errs.Issues = append(errs.Issues, "suite has no cases")
	}

	names := make(map[string]bool, len(d.Cases))
	for i := range d.Cases {
		c, issues := d.Cases[i].toCase()
		label := fmt.Sprintf("cases[%d]", i)
		if c.Name != "" {
			label = fmt.Sprintf("case %q", c.Name)
			if names[c.Name] {
				errs.Issues = append(errs.Issues, fmt.Sprintf("case %q appears more than once", c.Name))
			}
			names[c.Name] = true
		}
		for _, issue := range issues {
			errs.Issues = append(errs.Issues, label+": "+issue)
		}
		suite.Cases = append(suite.Cases, c)
	}

	if len(errs.Issues) > 0 {
		return nil, &errs
	}
	return suite, nil
}

func (d *caseDisk) toCase() (*Case, []string) {
	var issues []string
	c := &Case{Name: strings.TrimSpace(d.Name)}
	if c.Name == "" {
		issues = append(issues, "case must be named")
	}

	switch mode := strings.TrimSpace(d.Mode); mode {
	case "", "both":
		c.Modes = []operators.Mode{operators.ModeStrict, operators.ModeLegacy}
	default:
		m, ok := operators.ParseMode(mode)
		if !ok {
			issues = append(issues, fmt.Sprintf("unknown mode %q", d.Mode))
		} else {
			c.Modes = []operators.Mode{m}
		}
	}

	decode := func(node *yaml.Node, field string) runtime.Value {
		v, err := decodeValue(node)
		if err != nil {
			issues = append(issues, fmt.Sprintf("%s: %v", field, err))
			return nil
		}
		return v
	}

	hasExpr := strings.TrimSpace(d.Expr) != ""
	hasOp := strings.TrimSpace(d.Op) != ""
	hasLeft := isSet(d.Left)
	hasRight := isSet(d.Right)
	hasOperand := isSet(d.Operand)
	hasSubject := isSet(d.Subject)
	hasCandidates := len(d.Cases) > 0

	switch {
	case hasExpr:
		if hasOp || hasLeft || hasRight || hasOperand || hasSubject || hasCandidates {
			issues = append(issues, "expr does not combine with op or switch fields")
		}
		if _, err := expr.Parse(d.Expr); err != nil {
			issues = append(issues, fmt.Sprintf("expr: %v", err))
		}
		c.Form = FormExpr
		c.Expr = d.Expr
	case hasOp:
		if hasSubject || hasCandidates {
			issues = append(issues, "op does not combine with switch fields")
		}
		opText := strings.TrimSpace(d.Op)
		switch {
		case hasOperand:
			if hasLeft || hasRight {
				issues = append(issues, "operand does not combine with left and right")
			}
			op, ok := operators.ParseUnaryOp(opText)
			if !ok {
				issues = append(issues, fmt.Sprintf("%q is not a unary operator", d.Op))
			}
			c.Form = FormUnary
			c.Op = op
			c.Operand = decode(&d.Operand, "operand")
		case hasLeft && hasRight:
			op, ok := operators.ParseBinaryOp(opText)
			if !ok {
				issues = append(issues, fmt.Sprintf("%q is not a binary operator", d.Op))
			}
			c.Form = FormBinary
			c.Op = op
			c.Left = decode(&d.Left, "left")
			c.Right = decode(&d.Right, "right")
		default:
			issues = append(issues, "op needs either an operand or both left and right")
		}
	case hasSubject:
		if hasLeft || hasRight || hasOperand {
			issues = append(issues, "subject does not combine with operator fields")
		}
		c.Form = FormSwitch
		c.Subject = decode(&d.Subject, "subject")
		for i := range d.Cases {
			c.Candidates = append(c.Candidates, decode(&d.Cases[i], fmt.Sprintf("cases[%d]", i)))
		}
	default:
		if hasCandidates {
			issues = append(issues, "cases need a subject")
		} else {
			issues = append(issues, "case needs an expr, an op, or a subject")
		}
	}

	hasWant := isSet(d.Want)
	wantError := strings.TrimSpace(d.Error)
	switch {
	case hasWant && wantError != "":
		issues = append(issues, "want and error are mutually exclusive")
	case hasWant:
		c.Want = decode(&d.Want, "want")
	case wantError != "":
		if !validTaxonomy(wantError) {
			issues = append(issues, fmt.Sprintf("unknown error taxonomy %q", d.Error))
		}
		c.WantError = wantError
	default:
		issues = append(issues, "case needs a want or an error")
	}

	return c, issues
}

func validTaxonomy(name string) bool {
	switch name {
	case ErrorUnsupportedOperand, ErrorDivisionByZero, ErrorNegativeShift, ErrorNoMatchingCase:
		return true
	default:
		return false
	}
}

func isSet(node yaml.Node) bool { return node.Kind != 0 }
