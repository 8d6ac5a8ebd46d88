package core

// Dependency is one (package, range) pair declared by a package/version.
// Range is a full VersionSet so that constraint grammars whose clauses
// intersect to nothing still declare an honest, explicitly empty range.
type Dependency struct {
	Package Package
	Range   VersionSet
}

// Oracle is the sole required collaborator of the resolver: a pluggable
// source of versions and dependencies per package/version. Calls must be
// pure with respect to a single resolution — repeated calls with the same
// arguments return equal results — but may be returned in any order; the
// resolver does its own sorting.
//
// Decorators (such as a caching layer) wrap an Oracle via composition;
// see CachingOracle below and the bolt-backed oracle package.
type Oracle interface {
	// Versions returns every known version of pkg, in any order. An empty
	// result means no versions are known; Exists tells an unknown package
	// apart from one with an empty catalog.
	Versions(pkg Package) ([]Version, error)
	// Dependencies returns the dependencies declared by pkg@ver.
	Dependencies(pkg Package, ver Version) ([]Dependency, error)
	// Exists reports whether pkg is known to the oracle at all.
	Exists(pkg Package) (bool, error)
}

// MemoryOracle is an in-memory test/fixture oracle: a pre-populated map
// from package name to its versions and each version's dependencies.
type MemoryOracle struct {
	versions map[string][]Version
	deps     map[versionKey][]Dependency
}

type versionKey struct {
	name string
	ver  string
}

// NewMemoryOracle returns an empty MemoryOracle ready for population via
// AddVersion/AddDependency.
func NewMemoryOracle() *MemoryOracle {
	return &MemoryOracle{
		versions: make(map[string][]Version),
		deps:     make(map[versionKey][]Dependency),
	}
}

// AddVersion registers ver as an available version of the named package.
func (m *MemoryOracle) AddVersion(name string, ver Version) {
	m.versions[name] = append(m.versions[name], ver)
}

// AddDependency registers one dependency of name@ver.
func (m *MemoryOracle) AddDependency(name string, ver Version, dep Dependency) {
	k := versionKey{name: name, ver: ver.String()}
	m.deps[k] = append(m.deps[k], dep)
}

func (m *MemoryOracle) Versions(pkg Package) ([]Version, error) {
	return append([]Version(nil), m.versions[pkg.Name]...), nil
}

func (m *MemoryOracle) Dependencies(pkg Package, ver Version) ([]Dependency, error) {
	k := versionKey{name: pkg.Name, ver: ver.String()}
	return append([]Dependency(nil), m.deps[k]...), nil
}

func (m *MemoryOracle) Exists(pkg Package) (bool, error) {
	_, ok := m.versions[pkg.Name]
	return ok, nil
}

// CachingOracle decorates another Oracle, memoizing each distinct query so
// repeated lookups for the same package/version don't reach the wrapped
// oracle again. It can wrap an in-memory oracle, a persistent one, or a
// future remote oracle identically.
type CachingOracle struct {
	inner Oracle

	versions map[string]versionsEntry
	deps     map[versionKey]depsEntry
	exists   map[string]existsEntry
}

type versionsEntry struct {
	v   []Version
	err error
}
type depsEntry struct {
	d   []Dependency
	err error
}
type existsEntry struct {
	ok  bool
	err error
}

// NewCachingOracle wraps inner with an in-memory memoizing layer.
func NewCachingOracle(inner Oracle) *CachingOracle {
	return &CachingOracle{
		inner:    inner,
		versions: make(map[string]versionsEntry),
		deps:     make(map[versionKey]depsEntry),
		exists:   make(map[string]existsEntry),
	}
}

func (c *CachingOracle) Versions(pkg Package) ([]Version, error) {
	if e, ok := c.versions[pkg.Name]; ok {
		return e.v, e.err
	}
	v, err := c.inner.Versions(pkg)
	c.versions[pkg.Name] = versionsEntry{v: v, err: err}
	return v, err
}

func (c *CachingOracle) Dependencies(pkg Package, ver Version) ([]Dependency, error) {
	k := versionKey{name: pkg.Name, ver: ver.String()}
	if e, ok := c.deps[k]; ok {
		return e.d, e.err
	}
	d, err := c.inner.Dependencies(pkg, ver)
	c.deps[k] = depsEntry{d: d, err: err}
	return d, err
}

func (c *CachingOracle) Exists(pkg Package) (bool, error) {
	if e, ok := c.exists[pkg.Name]; ok {
		return e.ok, e.err
	}
	ok, err := c.inner.Exists(pkg)
	c.exists[pkg.Name] = existsEntry{ok: ok, err: err}
	return ok, err
}
