package conformance

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest describes where a project's conformance suites come from: local
// fixture globs plus external suites fetched over git. Conventionally stored
// as suites.yml next to the fixtures it names.
type Manifest struct {
	Path          string
	Name          string
	Fixtures      []string
	External      map[string]*ExternalSuite
	ExternalOrder []string

	externalEntries []manifestExternalEntry
}

// ExternalSuite pins a git source for a fetched suite. At most one of Rev,
// Tag, and Branch selects a version; none means the remote default branch.
type ExternalSuite struct {
	Name         string
	OriginalName string
	Git          string
	Rev          string
	Tag          string
	Branch       string
}

type manifestExternalEntry struct {
	sanitized string
	spec      *ExternalSuite
}

// Selector names the requested version for diagnostics and lock entries.
func (s *ExternalSuite) Selector() string {
	switch {
	case s.Rev != "":
		return s.Rev
	case s.Tag != "":
		return s.Tag
	case s.Branch != "":
		return s.Branch
	default:
		return "HEAD"
	}
}

// LoadManifest parses suites.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", abs, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestDisk
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", abs)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", abs, err)
	}

	manifest := raw.toManifest(abs)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	for _, pattern := range m.Fixtures {
		if _, err := filepath.Match(pattern, "probe"); err != nil {
			errs.Issues = append(errs.Issues, fmt.Sprintf("fixtures pattern %q is malformed", pattern))
		}
	}

	names := make(map[string]string, len(m.externalEntries))
	for _, entry := range m.externalEntries {
		suite := entry.spec
		if suite == nil {
			continue
		}
		if other, exists := names[entry.sanitized]; exists {
			errs.Issues = append(errs.Issues, fmt.Sprintf("external suites %q and %q collide after sanitization", other, suite.OriginalName))
		} else {
			names[entry.sanitized] = suite.OriginalName
		}
		for _, issue := range suite.validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("external.%s: %s", suite.OriginalName, issue))
		}
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (s *ExternalSuite) validate() []string {
	var errs []string
	if s == nil {
		return errs
	}
	// The sanitized name becomes a cache directory segment.
	if strings.ContainsAny(s.Name, `/\`) || strings.Contains(s.Name, "..") {
		errs = append(errs, "name cannot contain path separators")
	}
	if s.Git == "" {
		errs = append(errs, "must specify a git source")
	}
	selectors := 0
	for _, sel := range []string{s.Rev, s.Tag, s.Branch} {
		if sel != "" {
			selectors++
		}
	}
	if selectors > 1 {
		errs = append(errs, "rev, tag, and branch are mutually exclusive")
	}
	return errs
}

// FixtureFiles expands the local fixture globs relative to the manifest's
// directory, deduplicated and sorted.
func (m *Manifest) FixtureFiles() ([]string, error) {
	base := filepath.Dir(m.Path)
	seen := make(map[string]struct{})
	var files []string
	for _, pattern := range m.Fixtures {
		matches, err := filepath.Glob(filepath.Join(base, pattern))
		if err != nil {
			return nil, fmt.Errorf("manifest: glob %s: %w", pattern, err)
		}
		for _, match := range matches {
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			files = append(files, match)
		}
	}
	sort.Strings(files)
	return files, nil
}

type manifestDisk struct {
	Name     string      `yaml:"name"`
	Fixtures globList    `yaml:"fixtures"`
	External externalMap `yaml:"external"`
}

type externalMap struct {
	items []externalMapEntry
}

type externalMapEntry struct {
	name string
	spec *externalYAML
}

type externalYAML struct {
	Git    string
	Rev    string
	Tag    string
	Branch string
}

func (d manifestDisk) toManifest(path string) *Manifest {
	capacity := len(d.External.items)
	result := &Manifest{
		Path:            path,
		Name:            strings.TrimSpace(d.Name),
		Fixtures:        []string(d.Fixtures),
		External:        make(map[string]*ExternalSuite, capacity),
		ExternalOrder:   make([]string, 0, capacity),
		externalEntries: make([]manifestExternalEntry, 0, capacity),
	}

	seen := make(map[string]struct{}, capacity)
	for _, item := range d.External.items {
		if item.spec == nil {
			continue
		}
		original := strings.TrimSpace(item.name)
		if original == "" {
			continue
		}
		sanitized := SanitizeSuiteName(original)
		spec := &ExternalSuite{
			Name:         sanitized,
			OriginalName: original,
			Git:          item.spec.Git,
			Rev:          item.spec.Rev,
			Tag:          item.spec.Tag,
			Branch:       item.spec.Branch,
		}
		if _, exists := result.External[sanitized]; !exists {
			result.External[sanitized] = spec
		}
		if _, exists := seen[sanitized]; !exists {
			result.ExternalOrder = append(result.ExternalOrder, sanitized)
			seen[sanitized] = struct{}{}
		}
		result.externalEntries = append(result.externalEntries, manifestExternalEntry{
			sanitized: sanitized,
			spec:      spec,
		})
	}
	return result
}

// SanitizeSuiteName normalizes a suite name into a cache directory segment.
func SanitizeSuiteName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), "-", "_")
}

func (em *externalMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 {
		em.items = nil
		return nil
	}
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		em.items = nil
		return nil
	}
	if value.Kind == yaml.AliasNode {
		return em.UnmarshalYAML(value.Alias)
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: external must be a mapping")
	}
	items := make([]externalMapEntry, 0, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valueNode := value.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: external suites must not use empty keys")
		}
		spec := new(externalYAML)
		if err := spec.unmarshalYAML(valueNode); err != nil {
			return fmt.Errorf("manifest: external %q: %w", key, err)
		}
		items = append(items, externalMapEntry{name: key, spec: spec})
	}
	em.items = items
	return nil
}

func (s *externalYAML) unmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*s = externalYAML{}
			return nil
		}
		// Bare string shorthand for {git: URL}.
		*s = externalYAML{Git: strings.TrimSpace(value.Value)}
		return nil
	case yaml.MappingNode:
		var raw struct {
			Git    string `yaml:"git"`
			Rev    string `yaml:"rev"`
			Tag    string `yaml:"tag"`
			Branch string `yaml:"branch"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		*s = externalYAML{
			Git:    strings.TrimSpace(raw.Git),
			Rev:    strings.TrimSpace(raw.Rev),
			Tag:    strings.TrimSpace(raw.Tag),
			Branch: strings.TrimSpace(raw.Branch),
		}
		return nil
	case yaml.AliasNode:
		return s.unmarshalYAML(value.Alias)
	default:
		return fmt.Errorf("expected git URL or mapping, found %s", value.ShortTag())
	}
}

type globList []string

func (l *globList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = globList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			str = strings.TrimSpace(str)
			if str == "" {
				continue
			}
			items = append(items, str)
		}
		*l = globList(items)
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	case 0:
		*l = nil
		return nil
	default:
		return fmt.Errorf("manifest: expected string or sequence for fixtures but found %s", value.ShortTag())
	}
}
