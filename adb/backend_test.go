package adb

import "testing"

func TestBackendDisplay(t *testing.T) {
	if got := BackendBuiltin.String(); got != "Builtin" {
		t.Errorf("BackendBuiltin.String() = %q, want Builtin", got)
	}
	if got := BackendSystem.String(); got != "System (adb)" {
		t.Errorf("BackendSystem.String() = %q, want System (adb)", got)
	}
}

func TestBackendDefaultIsBuiltin(t *testing.T) {
	if got := New().Backend(); got != BackendBuiltin {
		t.Errorf("New().Backend() = %v, want BackendBuiltin", got)
	}
	var zero Backend
	if zero != BackendBuiltin {
		t.Error("zero Backend is not BackendBuiltin")
	}
}

func TestBackendsEnumeration(t *testing.T) {
	if len(Backends) != 2 {
		t.Fatalf("len(Backends) = %d, want 2", len(Backends))
	}
	if Backends[0] != BackendBuiltin || Backends[1] != BackendSystem {
		t.Errorf("Backends = %v", Backends)
	}
}

func TestParseBackend(t *testing.T) {
	cases := []struct {
		in   string
		want Backend
		ok   bool
	}{
		{"", BackendBuiltin, true},
		{"builtin", BackendBuiltin, true},
		{"Builtin", BackendBuiltin, true},
		{"system", BackendSystem, true},
		{"adb", BackendSystem, true},
		{"SYSTEM", BackendSystem, true},
		{"bogus", BackendBuiltin, false},
	}
	for _, c := range cases {
		got, err := ParseBackend(c.in)
		if (err == nil) != c.ok {
			t.Errorf("ParseBackend(%q) err = %v, want ok=%v", c.in, err, c.ok)
			continue
		}
		if c.ok && got != c.want {
			t.Errorf("ParseBackend(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
