package main

import (
	"fmt"
	"strings"

	"veld/semantics-go/pkg/operators"
)

// parseModeFlag strips --mode from the argument list. The second result
// reports whether the flag appeared at all; conformance runs treat an
// explicit mode as a filter but leave fixture-declared modes alone otherwise.
func parseModeFlag(args []string) (operators.Mode, bool, []string, error) {
	mode := operators.ModeStrict
	explicit := false
	remaining := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			remaining = append(remaining, args[i:]...)
			break
		}
		switch {
		case arg == "--mode":
			if i+1 >= len(args) {
				return mode, false, nil, fmt.Errorf("--mode expects a value")
			}
			parsed, err := parseModeValue(args[i+1])
			if err != nil {
				return mode, false, nil, err
			}
			mode = parsed
			explicit = true
			i++
		case strings.HasPrefix(arg, "--mode="):
			parsed, err := parseModeValue(strings.TrimPrefix(arg, "--mode="))
			if err != nil {
				return mode, false, nil, err
			}
			mode = parsed
			explicit = true
		default:
			remaining = append(remaining, arg)
		}
	}
	return mode, explicit, remaining, nil
}

func parseModeValue(value string) (operators.Mode, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return operators.ModeStrict, fmt.Errorf("--mode expects a value")
	}
	parsed, ok := operators.ParseMode(trimmed)
	if !ok {
		return operators.ModeStrict, fmt.Errorf("unknown --mode value '%s' (expected strict or legacy)", value)
	}
	return parsed, nil
}
