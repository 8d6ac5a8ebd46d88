package scenario

import (
	"bytes"
	"io"
	"os"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/depsolve/pubgrub/core"
)

// Manifest is a root project description: the package resolution starts
// from, its own version, and its direct constraints. It complements a
// scenario file, which supplies the catalog the constraints draw from.
type Manifest struct {
	Name         string
	Version      core.Version
	Dependencies []ManifestDependency
}

// ManifestDependency is one direct constraint of the root project.
type ManifestDependency struct {
	Name       string
	Constraint core.VersionSet
}

type rawManifest struct {
	Name         string          `toml:"name"`
	Version      string          `toml:"version"`
	Dependencies []rawManifestDep `toml:"dependencies"`
}

type rawManifestDep struct {
	Name       string `toml:"name"`
	Constraint string `toml:"constraint"`
}

// ReadManifest parses a TOML manifest:
//
//	name = "app"
//	version = "1.0.0"
//
//	[[dependencies]]
//	  name = "foo"
//	  constraint = "^1.2.0"
func ReadManifest(r io.Reader) (*Manifest, error) {
	buf := &bytes.Buffer{}
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, errors.Wrap(err, "unable to read manifest stream")
	}
	raw := rawManifest{}
	if err := toml.Unmarshal(buf.Bytes(), &raw); err != nil {
		return nil, errors.Wrap(err, "unable to parse manifest as TOML")
	}

	if raw.Name == "" {
		return nil, errors.New("manifest has no name")
	}
	if raw.Version == "" {
		return nil, errors.New("manifest has no version")
	}
	ver, err := core.ParseVersion(raw.Version)
	if err != nil {
		return nil, errors.Wrapf(err, "manifest %q", raw.Name)
	}

	m := &Manifest{Name: raw.Name, Version: ver}
	for _, d := range raw.Dependencies {
		if d.Name == "" {
			return nil, errors.Errorf("manifest %q has a dependency with no name", raw.Name)
		}
		set, err := ParseConstraint(d.Constraint)
		if err != nil {
			return nil, errors.Wrapf(err, "manifest %q dependency %q", raw.Name, d.Name)
		}
		m.Dependencies = append(m.Dependencies, ManifestDependency{Name: d.Name, Constraint: set})
	}
	return m, nil
}

// ReadManifestFile reads a manifest from a file on disk.
func ReadManifestFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open manifest %s", path)
	}
	defer f.Close()
	m, err := ReadManifest(f)
	if err != nil {
		return nil, errors.Wrapf(err, "manifest %s", path)
	}
	return m, nil
}

// Seed registers the manifest's root package and its direct constraints on
// oracle, so resolution can start at Name@Version against a scenario
// catalog loaded into the same oracle.
func (m *Manifest) Seed(oracle *core.MemoryOracle) {
	oracle.AddVersion(m.Name, m.Version)
	for _, d := range m.Dependencies {
		oracle.AddDependency(m.Name, m.Version, core.Dependency{
			Package: core.NewPackage(d.Name),
			Range:   d.Constraint,
		})
	}
}
