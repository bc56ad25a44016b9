package ptr_test

import (
	"testing"

	"github.com/javadev/javalsp/internal/ptr"
)

func TestEqualityAcrossConstructions(t *testing.T) {
	a := ptr.New("com.acme", "Widget")
	b := ptr.New("com.acme", "Widget")
	if a != b {
		t.Fatalf("expected equal Ptrs, got %v != %v", a, b)
	}
}

func TestDistinctOwnersDiffer(t *testing.T) {
	a := ptr.New("com.acme", "Widget")
	b := ptr.New("com.other", "Widget")
	if a == b {
		t.Fatalf("expected distinct owners to produce distinct Ptrs")
	}
}

func TestMethodParamsRoundTrip(t *testing.T) {
	m := ptr.NewMethod("com.acme.Widget", "resize", []string{"I", "Ljava/lang/String;"})
	if !m.IsMethod() {
		t.Fatal("expected IsMethod true")
	}
	got := m.Params()
	want := []string{"I", "Ljava/lang/String;"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestMethodIdentityRequiresSameParams(t *testing.T) {
	a := ptr.NewMethod("com.acme.Widget", "resize", []string{"I"})
	b := ptr.NewMethod("com.acme.Widget", "resize", []string{"I", "I"})
	if a == b {
		t.Fatalf("overloads with different erased params must be distinct Ptrs")
	}
}

func TestConstructorUsesOwnerSimpleName(t *testing.T) {
	// Constructors use the owning class's simple name, not a synthetic
	// "<init>" marker.
	ctor := ptr.NewMethod("com.acme.Widget", "Widget", nil)
	if ctor.Name() != "Widget" {
		t.Fatalf("expected constructor Ptr name %q, got %q", "Widget", ctor.Name())
	}
}

func TestFieldAndMethodOfSameNameDiffer(t *testing.T) {
	field := ptr.New("com.acme.Widget", "size")
	method := ptr.NewMethod("com.acme.Widget", "size", nil)
	if field == method {
		t.Fatalf("a field and a zero-arg method sharing a name must not collide")
	}
}

func TestFromPartsNestedClass(t *testing.T) {
	p := ptr.FromParts("com.acme", "Outer.Inner")
	if p.Owner() != "com.acme" || p.Name() != "Outer.Inner" {
		t.Fatalf("unexpected parts: owner=%q name=%q", p.Owner(), p.Name())
	}
}

func TestIsZero(t *testing.T) {
	var p ptr.Ptr
	if !p.IsZero() {
		t.Fatal("expected zero value to report IsZero")
	}
	if ptr.New("a", "b").IsZero() {
		t.Fatal("non-empty Ptr must not report IsZero")
	}
}

func TestStringIncludesParamsForMethods(t *testing.T) {
	m := ptr.NewMethod("com.acme.Widget", "resize", []string{"I", "I"})
	s := m.String()
	if s == "" {
		t.Fatal("expected non-empty String()")
	}
	if got := ptr.New("com.acme", "Widget").String(); got != "com.acme.Widget" {
		t.Fatalf("unexpected non-method String(): %q", got)
	}
}

func TestUsableAsMapKey(t *testing.T) {
	counts := map[ptr.Ptr]int{}
	p := ptr.New("com.acme", "Widget")
	counts[p]++
	counts[ptr.New("com.acme", "Widget")]++
	if counts[p] != 2 {
		t.Fatalf("expected map-key aggregation to merge equal Ptrs, got %d", counts[p])
	}
}
