package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"veld/semantics-go/pkg/operators"
	"veld/semantics-go/pkg/runtime"
)

var ruleKinds = []runtime.Kind{
	runtime.KindNull,
	runtime.KindBool,
	runtime.KindInt,
	runtime.KindFloat,
	runtime.KindString,
	runtime.KindArray,
	runtime.KindObject,
	runtime.KindResource,
}

var binaryRuleFamilies = []operators.Family{
	operators.FamilyArithmetic,
	operators.FamilyComparison,
	operators.FamilyIdentity,
	operators.FamilyBitwise,
	operators.FamilyShift,
	operators.FamilyConcat,
	operators.FamilyLogical,
}

var unaryRuleOps = []operators.Op{
	operators.OpNot,
	operators.OpNeg,
	operators.OpPlus,
	operators.OpBitNot,
	operators.OpInc,
	operators.OpDec,
}

func runRules(args []string, mode operators.Mode) int {
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "veldop rules takes at most one family (received %s)\n", strings.Join(args, " "))
		return 1
	}
	if len(args) == 1 {
		family, ok := operators.ParseFamily(args[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown family %q (expected %s)\n", args[0], strings.Join(allFamilyNames(), ", "))
			return 1
		}
		renderFamily(os.Stdout, family, mode)
	} else {
		renderAllRules(os.Stdout, mode)
	}
	fmt.Fprintln(os.Stdout, "legend: + accepted, ? conditional, - rejected")
	return 0
}

func allFamilyNames() []string {
	names := make([]string, 0, len(binaryRuleFamilies)+1)
	for _, family := range binaryRuleFamilies {
		names = append(names, family.String())
	}
	return append(names, operators.FamilyIncDec.String())
}

func renderAllRules(w io.Writer, mode operators.Mode) {
	for _, family := range binaryRuleFamilies {
		renderBinaryFamily(w, family, mode)
		fmt.Fprintln(w)
	}
	renderUnaryOps(w, "unary", unaryRuleOps, mode)
	fmt.Fprintln(w)
}

// renderFamily prints one family's acceptance table. The inc/dec family is
// unary, so it renders as operand rows instead of a kind matrix.
func renderFamily(w io.Writer, family operators.Family, mode operators.Mode) {
	if family == operators.FamilyIncDec {
		renderUnaryOps(w, family.String(), []operators.Op{operators.OpInc, operators.OpDec}, mode)
		return
	}
	renderBinaryFamily(w, family, mode)
}

func renderBinaryFamily(w io.Writer, family operators.Family, mode operators.Mode) {
	fmt.Fprintf(w, "%s (%s)\n", family, mode)
	fmt.Fprintf(w, "%-9s", "")
	for _, kind := range ruleKinds {
		fmt.Fprintf(w, " %-8s", kind)
	}
	fmt.Fprintln(w)
	for _, left := range ruleKinds {
		fmt.Fprintf(w, "%-9s", left)
		for _, right := range ruleKinds {
			fmt.Fprintf(w, " %-8s", acceptanceMark(operators.RuleFor(family, left, right, mode)))
		}
		fmt.Fprintln(w)
	}
}

func renderUnaryOps(w io.Writer, title string, ops []operators.Op, mode operators.Mode) {
	fmt.Fprintf(w, "%s (%s)\n", title, mode)
	fmt.Fprintf(w, "%-9s", "")
	for _, kind := range ruleKinds {
		fmt.Fprintf(w, " %-8s", kind)
	}
	fmt.Fprintln(w)
	for _, op := range ops {
		fmt.Fprintf(w, "%-9s", op)
		for _, kind := range ruleKinds {
			fmt.Fprintf(w, " %-8s", acceptanceMark(operators.UnaryRuleFor(op, kind, mode)))
		}
		fmt.Fprintln(w)
	}
}

func acceptanceMark(a operators.Acceptance) string {
	switch a {
	case operators.Accepted:
		return "+"
	case operators.Conditional:
		return "?"
	default:
		return "-"
	}
}
