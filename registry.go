package soitin

import (
	"fmt"
	"sort"
)

type binding struct {
	unitType *UnitType
	values   []Value // positional, aligned to unitType.Params
}

// Registry maps single letters to parameterized unit bindings. Rebinding a
// letter replaces the binding entirely; bindings live for the lifetime of
// the registry.
type Registry struct {
	catalog  *Catalog
	bindings map[rune]*binding
}

func NewRegistry(catalog *Catalog) *Registry {
	return &Registry{catalog: catalog, bindings: make(map[rune]*binding)}
}

// Catalog returns the catalog this registry resolves type names against.
func (r *Registry) Catalog() *Catalog { return r.catalog }

// Bind binds the letter to the named type. Unspecified trailing parameters
// are filled from the type's defaults; given values are coerced to the
// declared parameter types. Any existing binding for the letter is replaced.
func (r *Registry) Bind(letter rune, typeName string, params []Value) error {
	t, err := r.catalog.Lookup(typeName)
	if err != nil {
		return err
	}
	if len(params) > len(t.Params) {
		return fmt.Errorf("%w: %d parameters given, %q takes %d", ErrMalformedCommand, len(params), typeName, len(t.Params))
	}
	values := t.Defaults()
	for i, v := range params {
		coerced, err := v.Convert(t.Params[i].Type)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", t.Params[i].Name, err)
		}
		values[i] = coerced
	}
	r.bindings[letter] = &binding{unitType: t, values: values}
	return nil
}

// SetParams updates the bound letter's parameters positionally, leaving
// trailing parameters untouched.
func (r *Registry) SetParams(letter rune, params []Value) error {
	b, err := r.lookup(letter)
	if err != nil {
		return err
	}
	if len(params) > len(b.unitType.Params) {
		return fmt.Errorf("%w: %d parameters given, %q takes %d", ErrMalformedCommand, len(params), b.unitType.Name, len(b.unitType.Params))
	}
	values := make([]Value, len(b.values))
	copy(values, b.values)
	for i, v := range params {
		coerced, err := v.Convert(b.unitType.Params[i].Type)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", b.unitType.Params[i].Name, err)
		}
		values[i] = coerced
	}
	b.values = values
	return nil
}

// SetParam updates one parameter of the bound letter by name.
func (r *Registry) SetParam(letter rune, name string, value Value) error {
	b, err := r.lookup(letter)
	if err != nil {
		return err
	}
	i, err := b.unitType.ParamIndex(name)
	if err != nil {
		return err
	}
	coerced, err := value.Convert(b.unitType.Params[i].Type)
	if err != nil {
		return fmt.Errorf("parameter %q: %w", name, err)
	}
	b.values[i] = coerced
	return nil
}

// Instantiate constructs a fresh unit instance from the letter's current
// binding. Every call yields an independent instance; later rebinds or
// parameter changes do not affect instances already created.
func (r *Registry) Instantiate(letter rune) (Unit, error) {
	b, err := r.lookup(letter)
	if err != nil {
		return nil, err
	}
	values := make([]Value, len(b.values))
	copy(values, b.values)
	return b.unitType.New(values), nil
}

// KindOf returns the processing kind the letter would instantiate to.
func (r *Registry) KindOf(letter rune) (Kind, error) {
	b, err := r.lookup(letter)
	if err != nil {
		return 0, err
	}
	return b.unitType.Kind, nil
}

// IsBound reports whether the letter has a binding.
func (r *Registry) IsBound(letter rune) bool {
	_, ok := r.bindings[letter]
	return ok
}

// BoundLetters returns all bound letters in sorted order.
func (r *Registry) BoundLetters() []rune {
	letters := make([]rune, 0, len(r.bindings))
	for l := range r.bindings {
		letters = append(letters, l)
	}
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })
	return letters
}

// BindingParam describes one parameter of a binding for diagnostics.
type BindingParam struct {
	Name    string
	Value   Value
	Default Value
}

// BindingInfo describes a letter's current binding for diagnostics.
type BindingInfo struct {
	Letter   rune
	TypeName string
	Params   []BindingParam
}

// Describe reports the letter's bound type and its current and default
// parameter values.
func (r *Registry) Describe(letter rune) (BindingInfo, error) {
	b, err := r.lookup(letter)
	if err != nil {
		return BindingInfo{}, err
	}
	info := BindingInfo{Letter: letter, TypeName: b.unitType.Name}
	for i, p := range b.unitType.Params {
		info.Params = append(info.Params, BindingParam{Name: p.Name, Value: b.values[i], Default: p.Default})
	}
	return info, nil
}

func (r *Registry) lookup(letter rune) (*binding, error) {
	b, ok := r.bindings[letter]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnboundLetter, letter)
	}
	return b, nil
}
