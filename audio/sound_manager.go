// Package audio plays short cues for propagation events through beep.
package audio

import (
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/pixel-play/constants"
)

const sampleRate = beep.SampleRate(constants.AudioSampleRate)

// SoundManager mixes cues onto the speaker; all Play methods are no-ops until Initialize succeeds
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
}

// NewSoundManager creates a manager; volume is in beep's logarithmic units, 0 is unchanged
func NewSoundManager(volume float64) *SoundManager {
	return &SoundManager{
		mixer:  &beep.Mixer{},
		volume: volume,
	}
}

// Initialize sets up the audio system
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(constants.AudioBufferDuration)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup stops all sounds
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

// PlayRestart plays a short rising blip for a seed restart
func (sm *SoundManager) PlayRestart() {
	sm.play(RestartCue(sampleRate))
}

// PlayStop plays a two-tone chime when a run ends
func (sm *SoundManager) PlayStop() {
	sm.play(StopCue(sampleRate))
}

func (sm *SoundManager) play(s beep.Streamer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Add(sm.withVolume(s))
	speaker.Unlock()
}

func (sm *SoundManager) withVolume(s beep.Streamer) beep.Streamer {
	if sm.volume == 0 {
		return s
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: sm.volume}
}

// RestartCue is a short upward sweep
func RestartCue(sr beep.SampleRate) beep.Streamer {
	return NewSweepGenerator(sr, constants.RestartCueFromHz, constants.RestartCueToHz,
		constants.RestartCueDuration, constants.RestartCueDecayRate)
}

// StopCue is two descending notes
func StopCue(sr beep.SampleRate) beep.Streamer {
	return beep.Seq(
		NewSweepGenerator(sr, constants.StopCueNote1Hz, constants.StopCueNote1Hz,
			constants.StopCueNote1Duration, constants.StopCueNote1Decay),
		NewSweepGenerator(sr, constants.StopCueNote2Hz, constants.StopCueNote2Hz,
			constants.StopCueNote2Duration, constants.StopCueNote2Decay),
	)
}
