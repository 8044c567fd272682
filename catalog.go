package soitin

import "fmt"

// ParamSpec documents one parameter that a unit type takes.
type ParamSpec struct {
	Name    string
	Type    ValueType
	Default Value
}

// UnitType describes a registered unit type: its globally unique name, its
// processing kind, the ordered parameter specification and a constructor.
// UnitTypes are immutable once registered.
type UnitType struct {
	Name   string
	Kind   Kind
	Params []ParamSpec

	// New constructs a fresh unit instance from a full positional parameter
	// list. len(params) == len(Params) and every value has already been
	// coerced to its declared type.
	New func(params []Value) Unit
}

// Defaults returns a fresh positional list of the type's default values.
func (t *UnitType) Defaults() []Value {
	d := make([]Value, len(t.Params))
	for i, p := range t.Params {
		d[i] = p.Default
	}
	return d
}

// ParamIndex returns the position of the named parameter, or an
// ErrUnknownParameter error.
func (t *UnitType) ParamIndex(name string) (int, error) {
	for i, p := range t.Params {
		if p.Name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q has no parameter %q", ErrUnknownParameter, t.Name, name)
}

// Catalog maps unit type names to their descriptors. It is constructed once
// at process start and passed by reference to the registry and the notation
// compiler; there is no ambient global table.
type Catalog struct {
	types map[string]*UnitType
	names []string // registration order, used for deterministic seeding
}

func NewCatalog() *Catalog {
	return &Catalog{types: make(map[string]*UnitType)}
}

// Register adds or overwrites a unit type. It fails only when the type name
// is empty.
func (c *Catalog) Register(t *UnitType) error {
	if t.Name == "" {
		return fmt.Errorf("%w: empty type name", ErrUnknownType)
	}
	if _, ok := c.types[t.Name]; !ok {
		c.names = append(c.names, t.Name)
	}
	c.types[t.Name] = t
	return nil
}

// Lookup finds a descriptor by type name.
func (c *Catalog) Lookup(name string) (*UnitType, error) {
	t, ok := c.types[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return t, nil
}

// IsKnown reports whether a type name is registered.
func (c *Catalog) IsKnown(name string) bool {
	_, ok := c.types[name]
	return ok
}

// TypeNames returns the registered type names in registration order.
func (c *Catalog) TypeNames() []string {
	names := make([]string, len(c.names))
	copy(names, c.names)
	return names
}
