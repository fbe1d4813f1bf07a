package conformance

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "suites.yml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifestBasic(t *testing.T) {
	path := writeManifest(t, `
name: veld-core
fixtures:
  - "testdata/*.yml"
  - "extra/edge.yml"
external:
  php-parity:
    git: https://github.com/veld-lang/php-parity-suite.git
    tag: v1.2.0
  upstream: https://github.com/veld-lang/upstream-fixtures.git
`)
	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest returned error: %v", err)
	}

	if manifest.Name != "veld-core" {
		t.Errorf("Name = %q", manifest.Name)
	}
	if len(manifest.Fixtures) != 2 || manifest.Fixtures[0] != "testdata/*.yml" {
		t.Errorf("Fixtures = %v", manifest.Fixtures)
	}
	if len(manifest.ExternalOrder) != 2 || manifest.ExternalOrder[0] != "php_parity" || manifest.ExternalOrder[1] != "upstream" {
		t.Fatalf("ExternalOrder = %v", manifest.ExternalOrder)
	}

	parity := manifest.External["php_parity"]
	if parity == nil {
		t.Fatal("php_parity suite missing")
	}
	if parity.OriginalName != "php-parity" || parity.Name != "php_parity" {
		t.Errorf("names = %q / %q", parity.OriginalName, parity.Name)
	}
	if parity.Tag != "v1.2.0" || parity.Selector() != "v1.2.0" {
		t.Errorf("tag = %q, selector = %q", parity.Tag, parity.Selector())
	}

	upstream := manifest.External["upstream"]
	if upstream == nil {
		t.Fatal("upstream suite missing")
	}
	if upstream.Git != "https://github.com/veld-lang/upstream-fixtures.git" {
		t.Errorf("shorthand git = %q", upstream.Git)
	}
	if upstream.Selector() != "HEAD" {
		t.Errorf("unpinned selector = %q", upstream.Selector())
	}
}

func TestLoadManifestScalarFixtures(t *testing.T) {
	path := writeManifest(t, `
name: tiny
fixtures: "*.yml"
`)
	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest returned error: %v", err)
	}
	if len(manifest.Fixtures) != 1 || manifest.Fixtures[0] != "*.yml" {
		t.Errorf("Fixtures = %v", manifest.Fixtures)
	}
	if len(manifest.External) != 0 {
		t.Errorf("External = %v", manifest.External)
	}
}

func TestLoadManifestValidation(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		fragment string
	}{
		{
			name: "missing name",
			contents: `
fixtures: "*.yml"
`,
			fragment: "name must be provided",
		},
		{
			name: "missing git source",
			contents: `
name: x
external:
  bad:
    tag: v1
`,
			fragment: "external.bad: must specify a git source",
		},
		{
			name: "conflicting selectors",
			contents: `
name: x
external:
  multi:
    git: https://example.com/fixtures.git
    rev: abc123
    tag: v2
`,
			fragment: "rev, tag, and branch are mutually exclusive",
		},
		{
			name: "sanitization collision",
			contents: `
name: x
external:
  suite-a: https://example.com/a.git
  suite_a: https://example.com/b.git
`,
			fragment: `external suites "suite-a" and "suite_a" collide after sanitization`,
		},
		{
			name: "path traversal in suite name",
			contents: `
name: x
external:
  ../evil: https://example.com/evil.git
`,
			fragment: "name cannot contain path separators",
		},
		{
			name: "malformed glob",
			contents: `
name: x
fixtures: "["
`,
			fragment: `fixtures pattern "[" is malformed`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := writeManifest(t, test.contents)
			_, err := LoadManifest(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), test.fragment) {
				t.Fatalf("error %q does not mention %q", err, test.fragment)
			}
		})
	}
}

func TestLoadManifestRejectsUnknownFields(t *testing.T) {
	path := writeManifest(t, `
name: x
suites: []
`)
	_, err := LoadManifest(path)
	if err == nil || !strings.Contains(err.Error(), "suites") {
		t.Fatalf("unknown field not rejected: %v", err)
	}
}

func TestLoadManifestEmpty(t *testing.T) {
	path := writeManifest(t, "")
	_, err := LoadManifest(path)
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("empty manifest not rejected: %v", err)
	}
}

func TestManifestFixtureFiles(t *testing.T) {
	path := writeManifest(t, `
name: local
fixtures:
  - "fixtures/*.yml"
  - "fixtures/a.yml"
`)
	base := filepath.Dir(path)
	if err := os.Mkdir(filepath.Join(base, "fixtures"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, name := range []string{"a.yml", "b.yml", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(base, "fixtures", name), []byte("suite: s\n"), 0o600); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}

	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest returned error: %v", err)
	}
	files, err := manifest.FixtureFiles()
	if err != nil {
		t.Fatalf("FixtureFiles returned error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %v, want a.yml and b.yml once each", files)
	}
	if filepath.Base(files[0]) != "a.yml" || filepath.Base(files[1]) != "b.yml" {
		t.Fatalf("files = %v", files)
	}
}
