package units

import (
	"math"

	"github.com/lsalmela/soitin"
)

// Filter is a stereo lowpass biquad with a fixed cutoff.
type Filter struct {
	cutoff float64

	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     [2]float64
}

func newFilter(cutoff float64) *Filter {
	return &Filter{cutoff: cutoff}
}

func (f *Filter) Kind() soitin.Kind  { return soitin.Effect }
func (f *Filter) AcceptsMIDI() bool  { return false }
func (f *Filter) ProducesMIDI() bool { return false }

func (f *Filter) Prepare(sampleRate float64, blockSize int) {
	cutoff := f.cutoff
	if cutoff < 10 {
		cutoff = 10
	}
	nyquist := sampleRate / 2
	if cutoff > nyquist*0.99 {
		cutoff = nyquist * 0.99
	}
	// RBJ lowpass, Q = 1/sqrt(2)
	w := 2 * math.Pi * cutoff / sampleRate
	alpha := math.Sin(w) / (2 * math.Sqrt2 / 2)
	cosw := math.Cos(w)
	a0 := 1 + alpha
	f.b0 = (1 - cosw) / 2 / a0
	f.b1 = (1 - cosw) / a0
	f.b2 = (1 - cosw) / 2 / a0
	f.a1 = -2 * cosw / a0
	f.a2 = (1 - alpha) / a0
	f.x1, f.x2, f.y1, f.y2 = [2]float64{}, [2]float64{}, [2]float64{}, [2]float64{}
}

func (f *Filter) Process(buf *soitin.Block, mb *soitin.MIDIBuffer) {
	for ch, data := range [2][]float32{buf.L, buf.R} {
		for i, v := range data {
			x := float64(v)
			y := f.b0*x + f.b1*f.x1[ch] + f.b2*f.x2[ch] - f.a1*f.y1[ch] - f.a2*f.y2[ch]
			f.x2[ch], f.x1[ch] = f.x1[ch], x
			f.y2[ch], f.y1[ch] = f.y1[ch], y
			data[i] = float32(y)
		}
	}
	mb.Clear()
}

// Delay is a stereo feedback delay line with wet/dry mix.
type Delay struct {
	time     float64 // seconds
	feedback float64
	wet      float64
	dry      float64

	lines [2][]float32
	pos   [2]int
}

func newDelay(time, feedback, wet, dry float64) *Delay {
	if time < 0 {
		time = 0
	}
	if feedback > 0.99 {
		feedback = 0.99
	} else if feedback < 0 {
		feedback = 0
	}
	return &Delay{time: time, feedback: feedback, wet: clamp01(wet), dry: clamp01(dry)}
}

func (d *Delay) Kind() soitin.Kind  { return soitin.Effect }
func (d *Delay) AcceptsMIDI() bool  { return false }
func (d *Delay) ProducesMIDI() bool { return false }

func (d *Delay) Prepare(sampleRate float64, blockSize int) {
	n := int(sampleRate * d.time)
	if n < 1 {
		n = 1
	}
	// cap the line at 2 seconds, same as the delay's maximum setting
	if max := int(sampleRate * 2); n > max {
		n = max
	}
	for ch := range d.lines {
		d.lines[ch] = make([]float32, n)
		d.pos[ch] = 0
	}
}

func (d *Delay) Process(buf *soitin.Block, mb *soitin.MIDIBuffer) {
	for ch, data := range [2][]float32{buf.L, buf.R} {
		line := d.lines[ch]
		pos := d.pos[ch]
		for i, in := range data {
			delayed := line[pos]
			data[i] = in*float32(d.dry) + delayed*float32(d.wet)
			line[pos] = in + delayed*float32(d.feedback)
			pos++
			if pos == len(line) {
				pos = 0
			}
		}
		d.pos[ch] = pos
	}
	mb.Clear()
}

// Reverb is a Schroeder reverberator: four damped feedback combs and two
// allpasses per channel, with the right channel's lines slightly detuned for
// stereo width.
type Reverb struct {
	size, damp, wet, dry, width float64

	combs    [2][]comb
	allpass  [2][]allpass
	wet1     float32
	wet2     float32
	dryGain  float32
	combGain float32
}

type comb struct {
	buf      []float32
	pos      int
	feedback float32
	damp     float32
	filt     float32
}

type allpass struct {
	buf []float32
	pos int
}

// comb/allpass lengths in samples at 44.1 kHz
var combTuning = [4]int{1116, 1188, 1277, 1356}
var allpassTuning = [2]int{556, 441}

const stereoSpread = 23

func newReverb(size, damp, wet, dry, width float64) *Reverb {
	return &Reverb{
		size:  clamp01(size),
		damp:  clamp01(damp),
		wet:   clamp01(wet),
		dry:   clamp01(dry),
		width: clamp01(width),
	}
}

func (r *Reverb) Kind() soitin.Kind  { return soitin.Effect }
func (r *Reverb) AcceptsMIDI() bool  { return false }
func (r *Reverb) ProducesMIDI() bool { return false }

func (r *Reverb) Prepare(sampleRate float64, blockSize int) {
	scale := sampleRate / 44100
	feedback := float32(0.7 + 0.28*r.size)
	for ch := 0; ch < 2; ch++ {
		spread := ch * stereoSpread
		r.combs[ch] = r.combs[ch][:0]
		for _, t := range combTuning {
			n := int(float64(t+spread) * scale)
			r.combs[ch] = append(r.combs[ch], comb{
				buf:      make([]float32, n),
				feedback: feedback,
				damp:     float32(r.damp),
			})
		}
		r.allpass[ch] = r.allpass[ch][:0]
		for _, t := range allpassTuning {
			n := int(float64(t+spread) * scale)
			r.allpass[ch] = append(r.allpass[ch], allpass{buf: make([]float32, n)})
		}
	}
	r.wet1 = float32(r.wet * (r.width/2 + 0.5))
	r.wet2 = float32(r.wet * (1 - r.width) / 2)
	r.dryGain = float32(r.dry)
	r.combGain = 1.0 / float32(len(combTuning))
}

func (r *Reverb) Process(buf *soitin.Block, mb *soitin.MIDIBuffer) {
	for i := range buf.L {
		inL, inR := buf.L[i], buf.R[i]
		var outL, outR float32
		for c := range r.combs[0] {
			outL += r.combs[0][c].process(inL)
		}
		for c := range r.combs[1] {
			outR += r.combs[1][c].process(inR)
		}
		outL *= r.combGain
		outR *= r.combGain
		for a := range r.allpass[0] {
			outL = r.allpass[0][a].process(outL)
		}
		for a := range r.allpass[1] {
			outR = r.allpass[1][a].process(outR)
		}
		buf.L[i] = outL*r.wet1 + outR*r.wet2 + inL*r.dryGain
		buf.R[i] = outR*r.wet1 + outL*r.wet2 + inR*r.dryGain
	}
	mb.Clear()
}

func (c *comb) process(in float32) float32 {
	out := c.buf[c.pos]
	c.filt = out*(1-c.damp) + c.filt*c.damp
	c.buf[c.pos] = in + c.filt*c.feedback
	c.pos++
	if c.pos == len(c.buf) {
		c.pos = 0
	}
	return out
}

func (a *allpass) process(in float32) float32 {
	delayed := a.buf[a.pos]
	out := delayed - in
	a.buf[a.pos] = in + delayed*0.5
	a.pos++
	if a.pos == len(a.buf) {
		a.pos = 0
	}
	return out
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
