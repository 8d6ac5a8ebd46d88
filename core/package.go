package core

// Package is an opaque package identity: a name plus a flag marking the
// root of the resolution (the package being resolved for, as opposed to one
// of its transitive dependencies). Identity is structural — two Packages
// with the same Name and Root compare equal — and Root never participates
// in version-set reasoning; it exists purely to let the resolver recognize
// the one vertex that seeds the whole process.
type Package struct {
	Name string
	Root bool
}

// NewPackage constructs a non-root package identity.
func NewPackage(name string) Package {
	return Package{Name: name}
}

// RootPackage constructs the root package identity for name.
func RootPackage(name string) Package {
	return Package{Name: name, Root: true}
}

func (p Package) String() string {
	if p.Root {
		return p.Name + " (root)"
	}
	return p.Name
}
