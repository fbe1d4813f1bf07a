package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"veld/semantics-go/pkg/conformance"
)

// suiteInstaller fetches external conformance suites over git into the cache
// directory and keeps the lockfile in step with what landed on disk.
type suiteInstaller struct {
	manifest  *conformance.Manifest
	cacheRoot string
}

func newSuiteInstaller(manifest *conformance.Manifest, cacheRoot string) *suiteInstaller {
	return &suiteInstaller{manifest: manifest, cacheRoot: cacheRoot}
}

// Install brings every external suite into the cache. Locked suites are
// verified against their recorded checksum; unlocked ones are resolved and
// added to the lock. The first result reports whether the lock changed.
func (s *suiteInstaller) Install(lock *conformance.Lockfile) (bool, []string, error) {
	changed := false
	var logs []string
	for _, name := range s.manifest.ExternalOrder {
		spec := s.manifest.External[name]
		if spec == nil {
			continue
		}
		if locked, ok := lock.Find(name); ok {
			checkout, err := s.ensureCheckout(spec, locked.Version)
			if err != nil {
				return changed, logs, fmt.Errorf("suite %s: %w", name, err)
			}
			checksum, err := suiteChecksum(checkout)
			if err != nil {
				return changed, logs, fmt.Errorf("suite %s: checksum: %w", name, err)
			}
			if checksum != locked.Checksum {
				return changed, logs, fmt.Errorf("suite %s: checksum mismatch: lock has %s, fetched tree is %s", name, locked.Checksum, checksum)
			}
			logs = append(logs, fmt.Sprintf("suite %s pinned at %s", name, shortCommit(locked.Version)))
			continue
		}

		entry, err := s.resolve(name, spec)
		if err != nil {
			return changed, logs, err
		}
		lock.Upsert(entry)
		changed = true
		logs = append(logs, fmt.Sprintf("suite %s resolved to %s", name, shortCommit(entry.Version)))
	}
	return changed, logs, nil
}

// resolve fetches a suite at its manifest selector and builds its lock entry.
func (s *suiteInstaller) resolve(name string, spec *conformance.ExternalSuite) (*conformance.LockedSuite, error) {
	commit, err := s.fetch(spec, revisionForSuite(spec))
	if err != nil {
		return nil, fmt.Errorf("suite %s: %w", name, err)
	}
	checksum, err := suiteChecksum(suiteCheckoutDir(s.cacheRoot, spec.Name, commit))
	if err != nil {
		return nil, fmt.Errorf("suite %s: checksum: %w", name, err)
	}
	return &conformance.LockedSuite{
		Name:     spec.Name,
		Version:  commit,
		Source:   fmt.Sprintf("git+%s@%s", spec.Git, spec.Selector()),
		Checksum: checksum,
	}, nil
}

// ensureCheckout returns the cached checkout for a resolved commit, cloning
// it first when the cache is cold.
func (s *suiteInstaller) ensureCheckout(spec *conformance.ExternalSuite, commit string) (string, error) {
	dir := suiteCheckoutDir(s.cacheRoot, spec.Name, commit)
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir, nil
	}
	if _, err := s.fetch(spec, plumbing.Revision(commit)); err != nil {
		return "", err
	}
	return dir, nil
}

func (s *suiteInstaller) fetch(spec *conformance.ExternalSuite, revision plumbing.Revision) (string, error) {
	baseDir := filepath.Join(s.cacheRoot, "suites", spec.Name)
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", err
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{
		URL: spec.Git,
	})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git clone %s: %w", spec.Git, err)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}

	targetDir := suiteCheckoutDir(s.cacheRoot, spec.Name, hash.String())
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return hash.String(), nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{
		Hash:  *hash,
		Force: true,
	}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git checkout %s: %w", revision, err)
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	return hash.String(), nil
}

// revisionForSuite maps a manifest selector to a git revision. Unpinned
// suites track the remote default branch.
func revisionForSuite(spec *conformance.ExternalSuite) plumbing.Revision {
	switch {
	case spec.Rev != "":
		return plumbing.Revision(spec.Rev)
	case spec.Tag != "":
		return plumbing.Revision("refs/tags/" + spec.Tag)
	case spec.Branch != "":
		return plumbing.Revision("refs/heads/" + spec.Branch)
	default:
		return plumbing.Revision("HEAD")
	}
}

func suiteCheckoutDir(cacheRoot, name, version string) string {
	return filepath.Join(cacheRoot, "suites", conformance.SanitizeSuiteName(name), sanitizePathSegment(version))
}

// suiteChecksum hashes the fixture tree: file base names plus contents, in
// walk order, with the .git directory left out so the digest survives
// re-clones.
func suiteChecksum(path string) (string, error) {
	h := sha256.New()
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		h.Write([]byte(filepath.Base(p)))
		h.Write(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func shortCommit(version string) string {
	if len(version) > 12 {
		return version[:12]
	}
	return version
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	result := b.String()
	if result == "" {
		return "head"
	}
	return result
}
