package oto

import "math"

// floatBufferTo16BitLE converts a []float32 buffer to 16-bit little-endian
// PCM, appending to buf and returning the result.
func floatBufferTo16BitLE(src []float32, buf []byte) []byte {
	for _, v := range src {
		var uv int16
		if v < -1.0 {
			uv = -math.MaxInt16
		} else if v > 1.0 {
			uv = math.MaxInt16
		} else {
			uv = int16(v * math.MaxInt16)
		}
		buf = append(buf, byte(uv), byte(uv>>8))
	}
	return buf
}
