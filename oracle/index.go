package oracle

import "github.com/armon/go-radix"

// Entry is one indexed package: its name and how many versions it carries.
type Entry struct {
	Name     string
	Versions int
}

// NameIndex is a typed wrapper around a radix tree keyed by package name.
// The wrapper keeps the type assertions in one place so callers never see
// interface{}.
type NameIndex struct {
	t *radix.Tree
}

// NewNameIndex returns an empty index.
func NewNameIndex() *NameIndex {
	return &NameIndex{t: radix.New()}
}

// Insert adds or updates a package entry. Reports whether an entry with
// that name already existed.
func (x *NameIndex) Insert(name string, versions int) bool {
	_, had := x.t.Insert(name, Entry{Name: name, Versions: versions})
	return had
}

// Get looks up one package by exact name.
func (x *NameIndex) Get(name string) (Entry, bool) {
	if v, ok := x.t.Get(name); ok {
		return v.(Entry), true
	}
	return Entry{}, false
}

// Len returns the number of indexed packages.
func (x *NameIndex) Len() int {
	return x.t.Len()
}

// WalkPrefix returns every entry whose name starts with prefix, in
// lexical order.
func (x *NameIndex) WalkPrefix(prefix string) []Entry {
	var out []Entry
	x.t.WalkPrefix(prefix, func(s string, v interface{}) bool {
		out = append(out, v.(Entry))
		return false
	})
	return out
}
