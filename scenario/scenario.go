package scenario

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/depsolve/pubgrub/core"
)

type rawScenario struct {
	Packages     []rawPackage    `json:"packages"`
	Dependencies []rawDependency `json:"dependencies"`
}

type rawPackage struct {
	Name     string   `json:"name"`
	Versions []string `json:"versions"`
}

type rawDependency struct {
	Package    string `json:"package"`
	Version    string `json:"version"`
	Dependency string `json:"dependency"`
	Constraint string `json:"constraint"`
}

// Scenario is a loaded package universe: every declared package and
// version, and every declared dependency edge, backed by an in-memory
// oracle ready to resolve against.
type Scenario struct {
	names  []string
	oracle *core.MemoryOracle
}

// Load reads and validates a JSON scenario. A dependency's owning
// (package, version) must be declared in the packages array; the
// dependency's target need not be — a dangling target is exactly how a
// scenario models a package the registry has never heard of.
func Load(r io.Reader) (*Scenario, error) {
	var raw rawScenario
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "unable to parse scenario JSON")
	}

	oracle := core.NewMemoryOracle()
	declared := make(map[string]map[string]core.Version)
	var names []string

	for _, p := range raw.Packages {
		if p.Name == "" {
			return nil, errors.New("scenario package with empty name")
		}
		if _, ok := declared[p.Name]; ok {
			return nil, errors.Errorf("package %q declared twice", p.Name)
		}
		vers := make(map[string]core.Version, len(p.Versions))
		for _, vs := range p.Versions {
			v, err := core.ParseVersion(vs)
			if err != nil {
				return nil, errors.Wrapf(err, "package %q", p.Name)
			}
			if _, ok := vers[vs]; ok {
				return nil, errors.Errorf("package %q declares version %s twice", p.Name, vs)
			}
			vers[vs] = v
			oracle.AddVersion(p.Name, v)
		}
		declared[p.Name] = vers
		names = append(names, p.Name)
	}

	for _, d := range raw.Dependencies {
		vers, ok := declared[d.Package]
		if !ok {
			return nil, errors.Errorf("dependency declared by unknown package %q", d.Package)
		}
		ver, ok := vers[d.Version]
		if !ok {
			return nil, errors.Errorf("dependency declared by unknown version %s@%s", d.Package, d.Version)
		}
		if d.Dependency == "" {
			return nil, errors.Errorf("%s@%s declares a dependency with no target", d.Package, d.Version)
		}
		set, err := ParseConstraint(d.Constraint)
		if err != nil {
			return nil, errors.Wrapf(err, "%s@%s depends on %q", d.Package, d.Version, d.Dependency)
		}
		oracle.AddDependency(d.Package, ver, core.Dependency{
			Package: core.NewPackage(d.Dependency),
			Range:   set,
		})
	}

	return &Scenario{names: names, oracle: oracle}, nil
}

// LoadFile loads a scenario from a file on disk.
func LoadFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open scenario %s", path)
	}
	defer f.Close()
	s, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "scenario %s", path)
	}
	return s, nil
}

// Oracle returns the scenario's backing oracle.
func (s *Scenario) Oracle() *core.MemoryOracle {
	return s.oracle
}

// PackageNames returns the declared package names in file order.
func (s *Scenario) PackageNames() []string {
	return append([]string(nil), s.names...)
}

// GreatestVersion returns the highest declared version of name, for
// callers that start resolution "at the newest root" without naming an
// explicit version.
func (s *Scenario) GreatestVersion(name string) (core.Version, bool) {
	vs, err := s.oracle.Versions(core.NewPackage(name))
	if err != nil || len(vs) == 0 {
		return core.Version{}, false
	}
	best := vs[0]
	for _, v := range vs[1:] {
		if best.Less(v) {
			best = v
		}
	}
	return best, true
}
