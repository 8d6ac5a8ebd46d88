package core

import "testing"

func TestParseVersion(t *testing.T) {
	valid := []string{
		"0.0.0",
		"1.2.3",
		"10.20.30",
		"1.0.0-alpha",
		"1.0.0-alpha.1",
		"1.0.0-rc.1+build.5",
		"1.0.0+20130313144700",
	}
	for _, s := range valid {
		if _, err := ParseVersion(s); err != nil {
			t.Errorf("ParseVersion(%q) unexpected error: %v", s, err)
		}
	}

	invalid := []string{
		"",
		"1",
		"1.0",
		"1.0.0.0",
		"v1.0.0",
		"a.b.c",
		"1.0.0-",
		"1.0.0-alpha_1",
		"1.0.0 ",
	}
	for _, s := range invalid {
		if _, err := ParseVersion(s); err == nil {
			t.Errorf("ParseVersion(%q) should have failed", s)
		}
	}
}

func TestVersionOrdering(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.0", "2.0.0", -1},
		{"1.2.0", "1.1.9", 1},
		{"1.0.0", "1.0.1", -1},
		{"1.0.0-alpha", "1.0.0", -1},
		{"1.0.0-alpha", "1.0.0-beta", -1},
		{"1.0.0-alpha.1", "1.0.0-alpha", 1},
		{"1.0.0+build.1", "1.0.0+build.2", 0},
		{"1.0.0+anything", "1.0.0", 0},
	}
	for _, c := range cases {
		a, b := MustParseVersion(c.a), MustParseVersion(c.b)
		if got := a.Compare(b); got != c.want {
			t.Errorf("Compare(%s, %s) = %d, want %d", c.a, c.b, got, c.want)
		}
		if got := b.Compare(a); got != -c.want {
			t.Errorf("Compare(%s, %s) = %d, want %d", c.b, c.a, got, -c.want)
		}
	}
}

func TestVersionEqualityIgnoresBuild(t *testing.T) {
	a := MustParseVersion("1.2.3+abc")
	b := MustParseVersion("1.2.3+def")
	if !a.Equal(b) {
		t.Errorf("%s and %s should compare equal", a, b)
	}
	if a.String() != "1.2.3+abc" {
		t.Errorf("String() should preserve the build tag, got %s", a)
	}
}

func TestVersionComponents(t *testing.T) {
	v := MustParseVersion("4.5.6-rc.2")
	if v.Major() != 4 || v.Minor() != 5 || v.Patch() != 6 {
		t.Errorf("components of %s = (%d, %d, %d)", v, v.Major(), v.Minor(), v.Patch())
	}
	if v.Prerelease() != "rc.2" {
		t.Errorf("Prerelease() = %q, want %q", v.Prerelease(), "rc.2")
	}
}
