package soitin

// lcg is the linear congruential step used to derive the startup bindings.
// The mapping is a pure function of the seed, so a fixed seed reproduces the
// same letter assignment on every run.
func lcg(n uint32) uint32 {
	return (1103515245*n + 12345) & 0x7fffffff
}

// RandomizeBindings seeds every letter a..z with a type picked from the
// catalog and randomized parameters. Types are picked per letter as
// lcg(seed+letter) mod the number of registered types; parameters get values
// in ranges that make the result listenable rather than uniform noise.
func RandomizeBindings(r *Registry, seed uint32) error {
	names := r.catalog.TypeNames()
	if len(names) == 0 {
		return ErrUnknownType
	}
	for letter := 'a'; letter <= 'z'; letter++ {
		name := names[lcg(seed+uint32(letter))%uint32(len(names))]
		t, err := r.catalog.Lookup(name)
		if err != nil {
			return err
		}
		params := make([]Value, len(t.Params))
		for i, p := range t.Params {
			params[i] = randomParam(t, i, p, seed+1000+uint32(letter)*100+uint32(i))
		}
		if err := r.Bind(letter, name, params); err != nil {
			return err
		}
	}
	return nil
}

func randomParam(t *UnitType, index int, p ParamSpec, n uint32) Value {
	rand := lcg(n)
	switch p.Type {
	case IntValue:
		if t.Kind == Pulse {
			// beat counts stay in a danceable 1..8 range
			return Int(1 + int(rand%8))
		}
		// MIDI notes between C2 and C6
		return Int(36 + int(rand%48))
	case FloatValue:
		switch {
		case t.Name == "filter":
			return Float(200.0 + float64(rand%7800)) // cutoff in Hz
		case t.Kind == Pulse && index == 0:
			return Float(60.0 + float64(rand%120)) // bpm
		case t.Name == "delay" && index == 0:
			return Float(0.1 + float64(rand%1900)/1000.0) // delay time in s
		default:
			return Float(float64(rand%1000) / 1000.0)
		}
	}
	return p.Default
}
