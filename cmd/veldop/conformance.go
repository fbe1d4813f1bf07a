package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"veld/semantics-go/pkg/conformance"
	"veld/semantics-go/pkg/operators"
)

func runConformance(args []string, mode operators.Mode, modeExplicit bool) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "veldop conformance requires a subcommand (run)")
		return 1
	}
	switch args[0] {
	case "run":
		return runConformanceRun(args[1:], mode, modeExplicit)
	default:
		fmt.Fprintf(os.Stderr, "unknown conformance subcommand %q\n", args[0])
		return 1
	}
}

func runConformanceRun(paths []string, mode operators.Mode, modeExplicit bool) int {
	files := append([]string{}, paths...)
	if len(files) == 0 {
		collected, err := collectManifestFixtures()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		files = collected
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no fixture files to run (pass paths or declare fixtures in suites.yml)")
		return 1
	}

	totalPassed, totalFailed, totalSkipped := 0, 0, 0
	for _, path := range files {
		suite, err := conformance.LoadSuiteFile(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if modeExplicit {
			totalSkipped += restrictSuiteMode(suite, mode)
		}
		summary := suite.Run()
		fmt.Fprintf(os.Stdout, "%s: %d passed, %d failed\n", displayPath(path), summary.Passed, summary.Failed)
		for _, failure := range summary.Failures() {
			fmt.Fprintf(os.Stdout, "  %s: got %s, want %s\n", failure.Label(), failure.Got, failure.Want)
		}
		totalPassed += summary.Passed
		totalFailed += summary.Failed
	}

	if totalSkipped > 0 {
		fmt.Fprintf(os.Stdout, "total: %d passed, %d failed, %d skipped\n", totalPassed, totalFailed, totalSkipped)
	} else {
		fmt.Fprintf(os.Stdout, "total: %d passed, %d failed\n", totalPassed, totalFailed)
	}
	if totalFailed > 0 {
		return 1
	}
	return 0
}

// restrictSuiteMode prunes each case down to the requested mode, dropping
// cases that never declare it. The return value counts the case runs lost.
func restrictSuiteMode(suite *conformance.Suite, mode operators.Mode) int {
	skipped := 0
	kept := suite.Cases[:0]
	for _, c := range suite.Cases {
		found := false
		for _, m := range c.Modes {
			if m == mode {
				found = true
			} else {
				skipped++
			}
		}
		if found {
			c.Modes = []operators.Mode{mode}
			kept = append(kept, c)
		}
	}
	suite.Cases = kept
	return skipped
}

// collectManifestFixtures gathers the local fixture globs from the nearest
// suites.yml plus every installed external suite's fixture files.
func collectManifestFixtures() ([]string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}
	manifestPath, err := findSuitesManifest(cwd)
	if err != nil {
		return nil, fmt.Errorf("unable to locate suites.yml: %w", err)
	}
	manifest, err := conformance.LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	files, err := manifest.FixtureFiles()
	if err != nil {
		return nil, err
	}
	if len(manifest.ExternalOrder) == 0 {
		return files, nil
	}

	lockPath := filepath.Join(filepath.Dir(manifest.Path), "suites.lock")
	lock, err := conformance.LoadLockfile(lockPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(os.Stderr, "external suites declared but no suites.lock; run veldop suites install")
			return files, nil
		}
		return nil, err
	}
	cacheRoot, err := resolveVeldopHome()
	if err != nil {
		return nil, err
	}
	for _, name := range manifest.ExternalOrder {
		locked, ok := lock.Find(name)
		if !ok {
			fmt.Fprintf(os.Stderr, "suite %s not locked; run veldop suites install\n", name)
			continue
		}
		dir := suiteCheckoutDir(cacheRoot, name, locked.Version)
		external, err := fixtureFilesUnder(dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "suite %s not installed; run veldop suites install\n", name)
			continue
		}
		files = append(files, external...)
	}
	return files, nil
}

func fixtureFilesUnder(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(d.Name()) != ".yml" || d.Name() == "suites.yml" {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func displayPath(path string) string {
	if cwd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(cwd, path); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}
	return path
}
