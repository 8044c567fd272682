package soitin

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type savedBinding struct {
	Type   string                 `yaml:"type"`
	Params map[string]interface{} `yaml:"params,omitempty"`
}

// SaveBindings writes every binding of the registry as yaml, keyed by letter.
func SaveBindings(r *Registry, w io.Writer) error {
	out := make(map[string]savedBinding)
	for _, letter := range r.BoundLetters() {
		info, err := r.Describe(letter)
		if err != nil {
			return err
		}
		params := make(map[string]interface{}, len(info.Params))
		for _, p := range info.Params {
			switch p.Value.Type() {
			case IntValue:
				v, _ := p.Value.Int()
				params[p.Name] = v
			case FloatValue:
				v, _ := p.Value.Float()
				params[p.Name] = v
			default:
				params[p.Name] = p.Value.Text()
			}
		}
		out[string(letter)] = savedBinding{Type: info.TypeName, Params: params}
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("cannot marshal bindings: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// LoadBindings reads yaml written by SaveBindings and rebinds the letters it
// names. Letters not present in the file keep their current bindings. Every
// entry is staged before any is committed, so a failing load leaves the
// registry untouched.
func LoadBindings(r *Registry, rd io.Reader) error {
	data, err := io.ReadAll(rd)
	if err != nil {
		return err
	}
	var in map[string]savedBinding
	if err := yaml.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("cannot parse bindings: %w", err)
	}
	staged := make(map[rune]*binding, len(in))
	for key, sb := range in {
		letters := []rune(key)
		if len(letters) != 1 {
			return fmt.Errorf("%w: %q is not a single letter", ErrMalformedCommand, key)
		}
		t, err := r.catalog.Lookup(sb.Type)
		if err != nil {
			return err
		}
		values := t.Defaults()
		for name, raw := range sb.Params {
			i, err := t.ParamIndex(name)
			if err != nil {
				return err
			}
			v, err := valueFromYAML(raw).Convert(t.Params[i].Type)
			if err != nil {
				return fmt.Errorf("parameter %q: %w", name, err)
			}
			values[i] = v
		}
		staged[letters[0]] = &binding{unitType: t, values: values}
	}
	for letter, b := range staged {
		r.bindings[letter] = b
	}
	return nil
}

func valueFromYAML(raw interface{}) Value {
	switch v := raw.(type) {
	case int:
		return Int(v)
	case int64:
		return Int(int(v))
	case float64:
		return Float(v)
	case string:
		return Str(v)
	}
	return Str(fmt.Sprint(raw))
}
