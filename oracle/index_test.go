package oracle

import "testing"

func TestNameIndex(t *testing.T) {
	x := NewNameIndex()
	if x.Len() != 0 {
		t.Fatalf("new index should be empty")
	}

	if had := x.Insert("logrus", 12); had {
		t.Errorf("first insert reported an existing entry")
	}
	x.Insert("logfmt", 3)
	x.Insert("sql-driver", 7)
	if had := x.Insert("logrus", 13); !had {
		t.Errorf("re-insert should report the existing entry")
	}

	if x.Len() != 3 {
		t.Errorf("Len() = %d, want 3", x.Len())
	}

	e, ok := x.Get("logrus")
	if !ok || e.Versions != 13 {
		t.Errorf("Get(logrus) = %+v, %v", e, ok)
	}
	if _, ok := x.Get("log"); ok {
		t.Errorf("Get on a bare prefix should miss")
	}

	got := x.WalkPrefix("log")
	if len(got) != 2 {
		t.Fatalf("WalkPrefix(log) = %v", got)
	}
	if got[0].Name != "logfmt" || got[1].Name != "logrus" {
		t.Errorf("WalkPrefix should be in lexical order: %v", got)
	}

	if all := x.WalkPrefix(""); len(all) != 3 {
		t.Errorf("WalkPrefix(\"\") = %v", all)
	}
}
