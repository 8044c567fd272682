package soitin_test

import (
	"errors"
	"testing"

	"github.com/lsalmela/soitin"
	"github.com/lsalmela/soitin/units"
)

func newTestRegistry() *soitin.Registry {
	catalog := soitin.NewCatalog()
	units.Register(catalog)
	return soitin.NewRegistry(catalog)
}

func TestCatalogLookup(t *testing.T) {
	catalog := soitin.NewCatalog()
	units.Register(catalog)
	for _, name := range []string{"sin", "square", "saw", "triangle", "noise", "filter", "delay", "reverb", "midi"} {
		if !catalog.IsKnown(name) {
			t.Errorf("type %q is not registered", name)
		}
	}
	if _, err := catalog.Lookup("theremin"); !errors.Is(err, soitin.ErrUnknownType) {
		t.Errorf("Lookup(theremin): got %v, want ErrUnknownType", err)
	}
	if err := catalog.Register(&soitin.UnitType{Name: ""}); err == nil {
		t.Errorf("registering an empty type name should fail")
	}
}

func TestBindFillsDefaults(t *testing.T) {
	r := newTestRegistry()
	if err := r.Bind('a', "delay", []soitin.Value{soitin.Float(1.5)}); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	info, err := r.Describe('a')
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if info.TypeName != "delay" {
		t.Errorf("bound type is %q, want delay", info.TypeName)
	}
	want := []struct {
		name  string
		value soitin.Value
	}{
		{"time", soitin.Float(1.5)},
		{"feedback", soitin.Float(0.5)},
		{"wet", soitin.Float(0.5)},
		{"dry", soitin.Float(0.5)},
	}
	if len(info.Params) != len(want) {
		t.Fatalf("got %d params, want %d", len(info.Params), len(want))
	}
	for i, w := range want {
		if info.Params[i].Name != w.name || info.Params[i].Value != w.value {
			t.Errorf("param %d: got %s=%v, want %s=%v", i, info.Params[i].Name, info.Params[i].Value, w.name, w.value)
		}
	}
}

func TestBindUnknownType(t *testing.T) {
	r := newTestRegistry()
	if err := r.Bind('a', "theremin", nil); !errors.Is(err, soitin.ErrUnknownType) {
		t.Errorf("got %v, want ErrUnknownType", err)
	}
	if r.IsBound('a') {
		t.Errorf("failed bind must not leave a binding behind")
	}
}

func TestSetParamUnboundLetter(t *testing.T) {
	r := newTestRegistry()
	if err := r.SetParam('z', "note", soitin.Int(60)); !errors.Is(err, soitin.ErrUnboundLetter) {
		t.Errorf("got %v, want ErrUnboundLetter", err)
	}
	if r.IsBound('z') {
		t.Errorf("SetParam on an unbound letter must not create a binding")
	}
}

func TestSetParamUnknownName(t *testing.T) {
	r := newTestRegistry()
	if err := r.Bind('a', "sin", nil); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if err := r.SetParam('a', "cutoff", soitin.Float(440)); !errors.Is(err, soitin.ErrUnknownParameter) {
		t.Errorf("got %v, want ErrUnknownParameter", err)
	}
}

func TestSetParamsPositional(t *testing.T) {
	r := newTestRegistry()
	if err := r.Bind('a', "delay", nil); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if err := r.SetParams('a', []soitin.Value{soitin.Str("1.5"), soitin.Int(1)}); err != nil {
		t.Fatalf("SetParams failed: %v", err)
	}
	info, err := r.Describe('a')
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	want := []struct {
		name  string
		value soitin.Value
	}{
		{"time", soitin.Float(1.5)},
		{"feedback", soitin.Float(1)},
		{"wet", soitin.Float(0.5)},
		{"dry", soitin.Float(0.5)},
	}
	for i, w := range want {
		if info.Params[i].Name != w.name || info.Params[i].Value != w.value {
			t.Errorf("param %d: got %s=%v, want %s=%v", i, info.Params[i].Name, info.Params[i].Value, w.name, w.value)
		}
	}
}

func TestSetParamsUnboundLetter(t *testing.T) {
	r := newTestRegistry()
	if err := r.SetParams('z', []soitin.Value{soitin.Int(60)}); !errors.Is(err, soitin.ErrUnboundLetter) {
		t.Errorf("got %v, want ErrUnboundLetter", err)
	}
}

func TestSetParamsTooManyValues(t *testing.T) {
	r := newTestRegistry()
	if err := r.Bind('a', "sin", nil); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	vals := []soitin.Value{soitin.Int(40), soitin.Int(41)}
	if err := r.SetParams('a', vals); !errors.Is(err, soitin.ErrMalformedCommand) {
		t.Errorf("got %v, want ErrMalformedCommand", err)
	}
	info, _ := r.Describe('a')
	if info.Params[0].Value != soitin.Int(66) {
		t.Errorf("failed SetParams changed note to %v, want the default 66", info.Params[0].Value)
	}
}

func TestSetParamsBadValueLeavesBindingUnchanged(t *testing.T) {
	r := newTestRegistry()
	if err := r.Bind('a', "delay", []soitin.Value{soitin.Float(1.5)}); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	vals := []soitin.Value{soitin.Float(2), soitin.Str("loud")}
	if err := r.SetParams('a', vals); !errors.Is(err, soitin.ErrTypeMismatch) {
		t.Errorf("got %v, want ErrTypeMismatch", err)
	}
	info, _ := r.Describe('a')
	if info.Params[0].Value != soitin.Float(1.5) {
		t.Errorf("failed SetParams changed time to %v, want 1.5", info.Params[0].Value)
	}
}

func TestSetParamCoercesType(t *testing.T) {
	r := newTestRegistry()
	if err := r.Bind('a', "sin", nil); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if err := r.SetParam('a', "note", soitin.Str("72")); err != nil {
		t.Fatalf("SetParam failed: %v", err)
	}
	info, _ := r.Describe('a')
	if info.Params[0].Value != soitin.Int(72) {
		t.Errorf("note = %v, want 72", info.Params[0].Value)
	}
	if err := r.SetParam('a', "note", soitin.Str("loud")); !errors.Is(err, soitin.ErrTypeMismatch) {
		t.Errorf("got %v, want ErrTypeMismatch", err)
	}
}

func TestInstantiateIndependence(t *testing.T) {
	r := newTestRegistry()
	if err := r.Bind('a', "sin", []soitin.Value{soitin.Int(72)}); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	first, err := r.Instantiate('a')
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}
	if err := r.Bind('a', "midi", nil); err != nil {
		t.Fatalf("rebind failed: %v", err)
	}
	osc, ok := first.(*units.Oscillator)
	if !ok {
		t.Fatalf("instance is %T, want *units.Oscillator", first)
	}
	if osc.Note() != 72 {
		t.Errorf("rebinding the letter changed an existing instance: note = %d, want 72", osc.Note())
	}
	second, err := r.Instantiate('a')
	if err != nil {
		t.Fatalf("Instantiate after rebind failed: %v", err)
	}
	if second.Kind() != soitin.Pulse {
		t.Errorf("new instance kind = %v, want Pulse", second.Kind())
	}
}

func TestInstantiateNotMemoized(t *testing.T) {
	r := newTestRegistry()
	if err := r.Bind('a', "sin", nil); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	u1, _ := r.Instantiate('a')
	u2, _ := r.Instantiate('a')
	if u1 == u2 {
		t.Errorf("Instantiate returned the same instance twice")
	}
}

func TestBoundLettersSorted(t *testing.T) {
	r := newTestRegistry()
	for _, l := range []rune{'q', 'a', 'm'} {
		if err := r.Bind(l, "sin", nil); err != nil {
			t.Fatalf("Bind(%c) failed: %v", l, err)
		}
	}
	got := r.BoundLetters()
	want := []rune{'a', 'm', 'q'}
	if len(got) != len(want) {
		t.Fatalf("got %d letters, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("letter %d: got %c, want %c", i, got[i], want[i])
		}
	}
}

func TestRandomizeBindingsDeterministic(t *testing.T) {
	r1 := newTestRegistry()
	r2 := newTestRegistry()
	if err := soitin.RandomizeBindings(r1, 5); err != nil {
		t.Fatalf("RandomizeBindings failed: %v", err)
	}
	if err := soitin.RandomizeBindings(r2, 5); err != nil {
		t.Fatalf("RandomizeBindings failed: %v", err)
	}
	for _, l := range r1.BoundLetters() {
		i1, _ := r1.Describe(l)
		i2, _ := r2.Describe(l)
		if i1.TypeName != i2.TypeName {
			t.Errorf("letter %c: type %q vs %q for the same seed", l, i1.TypeName, i2.TypeName)
		}
		for i := range i1.Params {
			if i1.Params[i].Value != i2.Params[i].Value {
				t.Errorf("letter %c param %s differs for the same seed", l, i1.Params[i].Name)
			}
		}
	}
	letters := r1.BoundLetters()
	if len(letters) != 26 {
		t.Errorf("got %d bound letters, want 26", len(letters))
	}
}
