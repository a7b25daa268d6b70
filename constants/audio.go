package constants

import "time"

// Audio engine
const (
	// AudioSampleRate is the speaker and generator rate in Hz
	AudioSampleRate = 48000

	// AudioBufferDuration is the speaker buffer length
	AudioBufferDuration = 100 * time.Millisecond
)

// Restart cue: one upward sweep
const (
	RestartCueFromHz    = 440.0
	RestartCueToHz      = 880.0
	RestartCueDuration  = 60 * time.Millisecond
	RestartCueDecayRate = 20.0
)

// Stop cue: two descending notes
const (
	StopCueNote1Hz       = 784.0
	StopCueNote1Duration = 120 * time.Millisecond
	StopCueNote1Decay    = 12.0
	StopCueNote2Hz       = 523.0
	StopCueNote2Duration = 200 * time.Millisecond
	StopCueNote2Decay    = 8.0
)
