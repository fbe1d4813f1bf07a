package conformance

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Lockfile models the suites.lock contents: the resolved state of every
// fetched external suite.
type Lockfile struct {
	Path      string
	Generated string
	Tool      string
	Suites    []*LockedSuite
}

// LockedSuite captures a single resolved external suite. Version is the
// commit the fetch resolved to; Checksum covers the suite's fixture tree.
type LockedSuite struct {
	Name     string
	Version  string
	Source   string
	Checksum string
}

// NewLockfile constructs a lockfile with metadata seeded for the given tool.
func NewLockfile(tool string) *Lockfile {
	return &Lockfile{
		Generated: time.Now().UTC().Format(time.RFC3339),
		Tool:      strings.TrimSpace(tool),
		Suites:    []*LockedSuite{},
	}
}

// LoadLockfile parses suites.lock from disk.
func LoadLockfile(path string) (*Lockfile, error) {
	if path == "" {
		return nil, fmt.Errorf("lockfile: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw lockfileDisk
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("lockfile: parse %s: %w", abs, err)
	}

	lock := raw.toLockfile()
	lock.Path = abs
	lock.normalize()
	return lock, nil
}

// WriteLockfile serialises the lockfile back to disk, refreshing metadata.
func WriteLockfile(lock *Lockfile, path string) error {
	if lock == nil {
		return fmt.Errorf("lockfile: nil lockfile")
	}
	if path == "" {
		if lock.Path == "" {
			return fmt.Errorf("lockfile: missing path")
		}
		path = lock.Path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}

	if lock.Generated == "" {
		lock.Generated = time.Now().UTC().Format(time.RFC3339)
	}
	lock.Path = abs
	lock.normalize()

	data := lock.toDisk()
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("lockfile: marshal %s: %w", abs, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("lockfile: encoder close: %w", err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("lockfile: write %s: %w", abs, err)
	}
	return nil
}

// Find returns the locked entry for a suite name, if present.
func (l *Lockfile) Find(name string) (*LockedSuite, bool) {
	if l == nil {
		return nil, false
	}
	key := SanitizeSuiteName(name)
	for _, suite := range l.Suites {
		if suite != nil && suite.Name == key {
			return suite, true
		}
	}
	return nil, false
}

// Upsert replaces the entry with the same name or appends a new one.
func (l *Lockfile) Upsert(entry *LockedSuite) {
	if l == nil || entry == nil {
		return
	}
	entry.Name = SanitizeSuiteName(entry.Name)
	for i, suite := range l.Suites {
		if suite != nil && suite.Name == entry.Name {
			l.Suites[i] = entry
			return
		}
	}
	l.Suites = append(l.Suites, entry)
}

func (l *Lockfile) normalize() {
	if l == nil {
		return
	}
	l.Tool = strings.TrimSpace(l.Tool)
	sort.SliceStable(l.Suites, func(i, j int) bool {
		return l.Suites[i].Name < l.Suites[j].Name
	})
	for _, suite := range l.Suites {
		if suite == nil {
			continue
		}
		suite.Name = SanitizeSuiteName(suite.Name)
		suite.Version = strings.TrimSpace(suite.Version)
		suite.Source = strings.TrimSpace(suite.Source)
		suite.Checksum = strings.TrimSpace(suite.Checksum)
	}
}

func (l *Lockfile) toDisk() lockfileDisk {
	suites := make([]lockfileSuite, 0, len(l.Suites))
	for _, suite := range l.Suites {
		if suite == nil {
			continue
		}
		suites = append(suites, lockfileSuite{
			Name:     suite.Name,
			Version:  suite.Version,
			Source:   suite.Source,
			Checksum: suite.Checksum,
		})
	}
	return lockfileDisk{
		Generated: l.Generated,
		Tool:      l.Tool,
		Suites:    suites,
	}
}

type lockfileDisk struct {
	Generated string          `yaml:"generated"`
	Tool      string          `yaml:"tool"`
	Suites    []lockfileSuite `yaml:"suites"`
}

type lockfileSuite struct {
	Name     string `yaml:"name"`
	Version  string `yaml:"version"`
	Source   string `yaml:"source"`
	Checksum string `yaml:"checksum"`
}

func (d lockfileDisk) toLockfile() *Lockfile {
	lock := &Lockfile{
		Generated: strings.TrimSpace(d.Generated),
		Tool:      strings.TrimSpace(d.Tool),
		Suites:    make([]*LockedSuite, 0, len(d.Suites)),
	}
	for _, suite := range d.Suites {
		lock.Suites = append(lock.Suites, &LockedSuite{
			Name:     SanitizeSuiteName(suite.Name),
			Version:  strings.TrimSpace(suite.Version),
			Source:   strings.TrimSpace(suite.Source),
			Checksum: strings.TrimSpace(suite.Checksum),
		})
	}
	lock.normalize()
	return lock
}
