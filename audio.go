package soitin

// AudioSink consumes rendered audio. WriteAudio takes interleaved stereo
// float32 samples and may block until the device has room for them.
type AudioSink interface {
	WriteAudio(buffer []float32) error
	Close() error
}

// AudioContext represents the audio output device of the system.
type AudioContext interface {
	Output() AudioSink
	Close() error
}
