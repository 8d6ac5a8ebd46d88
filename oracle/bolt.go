// Package oracle carries dependency-oracle decorators that live outside the
// solver core: a BoltDB-backed persistent cache and a radix-tree name index
// over a catalog.
package oracle

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"

	"github.com/depsolve/pubgrub/core"
)

var (
	keyVersions = []byte("versions")
	keyExists   = []byte("exists")
	depPrefix   = "deps:"
)

// BoltOracle decorates another core.Oracle with a persistent BoltDB cache,
// so repeated CLI invocations against the same catalog don't re-query the
// wrapped oracle. Each package gets a top-level bucket; versions, existence,
// and per-version dependency lists are stored under it as JSON. Only
// successful answers are cached — errors always propagate uncached.
type BoltOracle struct {
	inner core.Oracle
	db    *bolt.DB
}

// NewBoltOracle opens (creating if needed) the cache file at path and wraps
// inner with it.
func NewBoltOracle(path string, inner core.Oracle) (*BoltOracle, error) {
	dir := filepath.Dir(path)
	if fi, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, os.ModeDir|os.ModePerm); err != nil {
			return nil, errors.Wrapf(err, "failed to create oracle cache directory: %s", dir)
		}
	} else if err != nil {
		return nil, errors.Wrapf(err, "failed to check oracle cache directory: %s", dir)
	} else if !fi.IsDir() {
		return nil, errors.Errorf("oracle cache path is not a directory: %s", dir)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open BoltDB cache file %q", path)
	}
	return &BoltOracle{inner: inner, db: db}, nil
}

// Close releases the cache file.
func (o *BoltOracle) Close() error {
	return errors.Wrapf(o.db.Close(), "error closing Bolt database %q", o.db.Path())
}

type depRecord struct {
	Name  string          `json:"name"`
	Range core.VersionSet `json:"range"`
}

// Versions implements core.Oracle.
func (o *BoltOracle) Versions(pkg core.Package) ([]core.Version, error) {
	var cached []core.Version
	found := false
	err := o.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(pkg.Name))
		if b == nil {
			return nil
		}
		raw := b.Get(keyVersions)
		if raw == nil {
			return nil
		}
		if err := json.Unmarshal(raw, &cached); err != nil {
			return errors.Wrapf(err, "corrupt version cache for %s", pkg.Name)
		}
		found = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found {
		return cached, nil
	}

	vs, err := o.inner.Versions(pkg)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(vs)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding versions of %s", pkg.Name)
	}
	err = o.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(pkg.Name))
		if err != nil {
			return err
		}
		return b.Put(keyVersions, raw)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "caching versions of %s", pkg.Name)
	}
	return vs, nil
}

// Dependencies implements core.Oracle.
func (o *BoltOracle) Dependencies(pkg core.Package, ver core.Version) ([]core.Dependency, error) {
	key := []byte(depPrefix + ver.String())

	var records []depRecord
	found := false
	err := o.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(pkg.Name))
		if b == nil {
			return nil
		}
		raw := b.Get(key)
		if raw == nil {
			return nil
		}
		if err := json.Unmarshal(raw, &records); err != nil {
			return errors.Wrapf(err, "corrupt dependency cache for %s@%s", pkg.Name, ver)
		}
		found = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found {
		return recordsToDeps(records), nil
	}

	deps, err := o.inner.Dependencies(pkg, ver)
	if err != nil {
		return nil, err
	}
	records = make([]depRecord, len(deps))
	for i, d := range deps {
		records[i] = depRecord{Name: d.Package.Name, Range: d.Range}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding dependencies of %s@%s", pkg.Name, ver)
	}
	err = o.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(pkg.Name))
		if err != nil {
			return err
		}
		return b.Put(key, raw)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "caching dependencies of %s@%s", pkg.Name, ver)
	}
	return deps, nil
}

func recordsToDeps(records []depRecord) []core.Dependency {
	deps := make([]core.Dependency, len(records))
	for i, r := range records {
		deps[i] = core.Dependency{Package: core.NewPackage(r.Name), Range: r.Range}
	}
	return deps
}

// Exists implements core.Oracle.
func (o *BoltOracle) Exists(pkg core.Package) (bool, error) {
	// Values returned by Get are only valid inside the transaction, so the
	// answer is decoded before View returns.
	var cachedVal, found bool
	err := o.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(pkg.Name))
		if b == nil {
			return nil
		}
		raw := b.Get(keyExists)
		if raw == nil {
			return nil
		}
		cachedVal = len(raw) > 0 && raw[0] == '1'
		found = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if found {
		return cachedVal, nil
	}

	ok, err := o.inner.Exists(pkg)
	if err != nil {
		return false, err
	}
	val := []byte("0")
	if ok {
		val = []byte("1")
	}
	err = o.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(pkg.Name))
		if err != nil {
			return err
		}
		return b.Put(keyExists, val)
	})
	if err != nil {
		return false, errors.Wrapf(err, "caching existence of %s", pkg.Name)
	}
	return ok, nil
}
