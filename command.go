package soitin

import (
	"fmt"
	"strings"
)

// ExecuteSet applies a bind command of the form
//
//	set <letter> [<type>] {<name> <value>}*
//
// The token after the letter is consumed as a type name when it is a known
// type or the letter is still unbound; the letter is then rebound with the
// type's defaults before the name/value overrides are applied. Otherwise the
// token starts the first name/value pair applied to the existing binding.
// A failed command leaves the registry unchanged.
func ExecuteSet(r *Registry, line string) error {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 || fields[0] != "set" {
		return fmt.Errorf("%w: expected 'set'", ErrMalformedCommand)
	}
	if len(fields) < 2 {
		return fmt.Errorf("%w: missing letter", ErrMalformedCommand)
	}
	letters := []rune(fields[1])
	if len(letters) != 1 {
		return fmt.Errorf("%w: %q is not a single letter", ErrMalformedCommand, fields[1])
	}
	letter := letters[0]
	if len(fields) < 3 {
		return fmt.Errorf("%w: incomplete set command", ErrMalformedCommand)
	}

	first := fields[2]
	if r.catalog.IsKnown(first) || !r.IsBound(letter) {
		t, err := r.catalog.Lookup(first)
		if err != nil {
			return err
		}
		values := t.Defaults()
		if err := applyPairs(t, values, fields[3:]); err != nil {
			return err
		}
		r.bindings[letter] = &binding{unitType: t, values: values}
		return nil
	}

	// first token is a parameter name of the existing binding
	b, err := r.lookup(letter)
	if err != nil {
		return err
	}
	values := make([]Value, len(b.values))
	copy(values, b.values)
	if err := applyPairs(b.unitType, values, fields[2:]); err != nil {
		return err
	}
	b.values = values
	return nil
}

// applyPairs validates and applies name/value token pairs onto a staged
// positional value list, so that callers can commit all-or-nothing.
func applyPairs(t *UnitType, values []Value, tokens []string) error {
	if len(tokens)%2 != 0 {
		return fmt.Errorf("%w: parameter %q without value", ErrMalformedCommand, tokens[len(tokens)-1])
	}
	for i := 0; i < len(tokens); i += 2 {
		idx, err := t.ParamIndex(tokens[i])
		if err != nil {
			return err
		}
		v, err := ParseValue(tokens[i+1]).Convert(t.Params[idx].Type)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", tokens[i], err)
		}
		values[idx] = v
	}
	return nil
}
