package operators

import "veld/semantics-go/pkg/runtime"

// EvalCase reports whether a case candidate matches the switch subject:
// identity in strict mode, loose equality in legacy mode.
func EvalCase(subject, candidate runtime.Value, mode Mode) bool {
	if mode == ModeStrict {
		return Identical(subject, candidate)
	}
	return LooseEquals(subject, candidate)
}

// SelectCase returns the index of the first candidate matching the subject.
// When nothing matches it returns -1 with *NoMatchingCaseError; a host with
// a default arm takes the default instead of surfacing the error.
func SelectCase(subject runtime.Value, cases []runtime.Value, mode Mode) (int, error) {
	for i, c := range cases {
		if EvalCase(subject, c, mode) {
			return i, nil
		}
	}
	var kind runtime.Kind
	if subject != nil {
		kind = subject.Kind()
	}
	return -1, &NoMatchingCaseError{Subject: kind}
}
