package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"veld/semantics-go/pkg/conformance"
)

func runSuites(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "veldop suites requires a subcommand (install, update)")
		return 1
	}
	switch args[0] {
	case "install":
		if len(args) > 1 {
			fmt.Fprintf(os.Stderr, "veldop suites install does not take arguments (received %s)\n", strings.Join(args[1:], " "))
			return 1
		}
		return runSuitesInstall()
	case "update":
		return runSuitesUpdate(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown suites subcommand %q\n", args[0])
		return 1
	}
}

func runSuitesInstall() int {
	manifest, lock, lockPath, lockCreated, code := loadSuiteState()
	if code != 0 {
		return code
	}
	cacheRoot, err := resolveVeldopHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve VELDOP_HOME: %v\n", err)
		return 1
	}

	fmt.Fprintf(os.Stdout, "Manifest: %s\n", manifest.Path)
	fmt.Fprintf(os.Stdout, "External suites: %d\n", len(manifest.ExternalOrder))
	fmt.Fprintf(os.Stdout, "Cache directory: %s\n", cacheRoot)

	installer := newSuiteInstaller(manifest, cacheRoot)
	changed, logs, err := installer.Install(lock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve suites: %v\n", err)
		return 1
	}
	for _, line := range logs {
		fmt.Fprintln(os.Stdout, line)
	}

	if changed || lockCreated {
		action := "Updated"
		if lockCreated {
			action = "Created"
		}
		if err := conformance.WriteLockfile(lock, lockPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
			return 1
		}
		fmt.Fprintf(os.Stdout, "%s suites.lock: %s\n", action, lock.Path)
	} else {
		fmt.Fprintf(os.Stdout, "suites.lock already up to date: %s\n", lock.Path)
	}

	fmt.Fprintln(os.Stdout, "Suites installed.")
	return 0
}

func runSuitesUpdate(targets []string) int {
	manifest, lock, lockPath, lockCreated, code := loadSuiteState()
	if code != 0 {
		return code
	}
	cacheRoot, err := resolveVeldopHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve VELDOP_HOME: %v\n", err)
		return 1
	}

	updateSet := make(map[string]struct{})
	if len(targets) > 0 {
		for _, target := range targets {
			sanitized := conformance.SanitizeSuiteName(target)
			if _, ok := manifest.External[sanitized]; !ok {
				fmt.Fprintf(os.Stderr, "suite %q not declared in suites.yml\n", target)
				return 1
			}
			updateSet[sanitized] = struct{}{}
		}
	}

	// Dropping the lock entries forces the installer to re-resolve them.
	if len(updateSet) == 0 {
		lock.Suites = nil
	} else {
		filtered := make([]*conformance.LockedSuite, 0, len(lock.Suites))
		for _, suite := range lock.Suites {
			if suite == nil {
				continue
			}
			if _, ok := updateSet[suite.Name]; ok {
				continue
			}
			filtered = append(filtered, suite)
		}
		lock.Suites = filtered
	}

	installer := newSuiteInstaller(manifest, cacheRoot)
	changed, logs, err := installer.Install(lock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to update suites: %v\n", err)
		return 1
	}
	for _, line := range logs {
		fmt.Fprintln(os.Stdout, line)
	}

	if changed || lockCreated {
		if err := conformance.WriteLockfile(lock, lockPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
			return 1
		}
		fmt.Fprintf(os.Stdout, "Updated suites.lock: %s\n", lock.Path)
	} else {
		fmt.Fprintln(os.Stdout, "Suites already up to date.")
	}
	return 0
}

// loadSuiteState resolves the nearest suites.yml and its lockfile, creating a
// fresh lock when none exists yet. A non-zero code means the caller should
// exit with it; the error was already reported.
func loadSuiteState() (*conformance.Manifest, *conformance.Lockfile, string, bool, int) {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to determine working directory: %v\n", err)
		return nil, nil, "", false, 1
	}
	manifestPath, err := findSuitesManifest(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to locate suites.yml: %v\n", err)
		return nil, nil, "", false, 1
	}
	manifest, err := conformance.LoadManifest(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read manifest: %v\n", err)
		return nil, nil, "", false, 1
	}

	lockPath := filepath.Join(filepath.Dir(manifest.Path), "suites.lock")
	lock, err := conformance.LoadLockfile(lockPath)
	lockCreated := false
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		lock = conformance.NewLockfile(cliToolVersion)
		lock.Path = lockPath
		lockCreated = true
	default:
		fmt.Fprintf(os.Stderr, "failed to read lockfile: %v\n", err)
		return nil, nil, "", false, 1
	}

	lock.Path = lockPath
	lock.Tool = cliToolVersion
	return manifest, lock, lockPath, lockCreated, 0
}

func findSuitesManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, "suites.yml")
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no suites.yml found from %s upwards: %w", origin, errManifestNotFound)
		}
		dir = parent
	}
}

func resolveVeldopHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv("VELDOP_HOME")); home != "" {
		abs, err := filepath.Abs(home)
		if err != nil {
			return "", fmt.Errorf("resolve VELDOP_HOME %q: %w", home, err)
		}
		return abs, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve user cache directory: %w", err)
	}
	return filepath.Join(base, "veldop"), nil
}
