// Package units implements the built-in unit types: the five oscillators,
// the three effects and the rhythmic MIDI pulse generator. Register wires
// them into a catalog; nothing else in the system knows their concrete types.
package units

import (
	"math"
	"math/rand"

	"github.com/lsalmela/soitin"
)

// Register adds the built-in unit types to the catalog. Adding further types
// later only requires another Register-style call; the notation compiler and
// the registry are driven entirely by the catalog.
func Register(c *soitin.Catalog) {
	registerOsc(c, "sin", 0.5, func(p float64) float64 {
		return math.Sin(2 * math.Pi * p)
	})
	registerOsc(c, "square", 0.05, func(p float64) float64 {
		if p < 0.5 {
			return 1
		}
		return -1
	})
	registerOsc(c, "saw", 0.15, func(p float64) float64 {
		return 2*p - 1
	})
	registerOsc(c, "triangle", 0.5, func(p float64) float64 {
		if p < 0.5 {
			return 4*p - 1
		}
		return 3 - 4*p
	})
	mustRegister(c, &soitin.UnitType{
		Name: "noise",
		Kind: soitin.Oscillator,
		Params: []soitin.ParamSpec{
			{Name: "note", Type: soitin.IntValue, Default: soitin.Int(66)},
		},
		New: func(params []soitin.Value) soitin.Unit {
			note, _ := params[0].Int()
			o := newOscillator(nil, 0.02, note)
			o.noise = rand.New(rand.NewSource(int64(note)))
			return o
		},
	})
	mustRegister(c, &soitin.UnitType{
		Name: "filter",
		Kind: soitin.Effect,
		Params: []soitin.ParamSpec{
			{Name: "cutoff", Type: soitin.FloatValue, Default: soitin.Float(2000)},
		},
		New: func(params []soitin.Value) soitin.Unit {
			cutoff, _ := params[0].Float()
			return newFilter(cutoff)
		},
	})
	mustRegister(c, &soitin.UnitType{
		Name: "delay",
		Kind: soitin.Effect,
		Params: []soitin.ParamSpec{
			{Name: "time", Type: soitin.FloatValue, Default: soitin.Float(0.5)},
			{Name: "feedback", Type: soitin.FloatValue, Default: soitin.Float(0.5)},
			{Name: "wet", Type: soitin.FloatValue, Default: soitin.Float(0.5)},
			{Name: "dry", Type: soitin.FloatValue, Default: soitin.Float(0.5)},
		},
		New: func(params []soitin.Value) soitin.Unit {
			time, _ := params[0].Float()
			feedback, _ := params[1].Float()
			wet, _ := params[2].Float()
			dry, _ := params[3].Float()
			return newDelay(time, feedback, wet, dry)
		},
	})
	mustRegister(c, &soitin.UnitType{
		Name: "reverb",
		Kind: soitin.Effect,
		Params: []soitin.ParamSpec{
			{Name: "size", Type: soitin.FloatValue, Default: soitin.Float(0.5)},
			{Name: "damp", Type: soitin.FloatValue, Default: soitin.Float(0.4)},
			{Name: "wet", Type: soitin.FloatValue, Default: soitin.Float(0.5)},
			{Name: "dry", Type: soitin.FloatValue, Default: soitin.Float(0.5)},
			{Name: "width", Type: soitin.FloatValue, Default: soitin.Float(0.2)},
		},
		New: func(params []soitin.Value) soitin.Unit {
			size, _ := params[0].Float()
			damp, _ := params[1].Float()
			wet, _ := params[2].Float()
			dry, _ := params[3].Float()
			width, _ := params[4].Float()
			return newReverb(size, damp, wet, dry, width)
		},
	})
	mustRegister(c, &soitin.UnitType{
		Name: "midi",
		Kind: soitin.Pulse,
		Params: []soitin.ParamSpec{
			{Name: "bpm", Type: soitin.FloatValue, Default: soitin.Float(120)},
			{Name: "on", Type: soitin.IntValue, Default: soitin.Int(1)},
			{Name: "off", Type: soitin.IntValue, Default: soitin.Int(1)},
		},
		New: func(params []soitin.Value) soitin.Unit {
			bpm, _ := params[0].Float()
			on, _ := params[1].Int()
			off, _ := params[2].Int()
			return NewPulse(bpm, on, off)
		},
	})
}

func registerOsc(c *soitin.Catalog, name string, level float32, wave func(float64) float64) {
	mustRegister(c, &soitin.UnitType{
		Name: name,
		Kind: soitin.Oscillator,
		Params: []soitin.ParamSpec{
			{Name: "note", Type: soitin.IntValue, Default: soitin.Int(66)},
		},
		New: func(params []soitin.Value) soitin.Unit {
			note, _ := params[0].Int()
			return newOscillator(wave, level, note)
		},
	})
}

func mustRegister(c *soitin.Catalog, t *soitin.UnitType) {
	if err := c.Register(t); err != nil {
		panic(err)
	}
}
