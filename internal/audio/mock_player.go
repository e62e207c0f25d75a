package audio

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/measure/internal/ttypes"
)

// MockPlayer implements ttypes.AudioPlayer without producing sound.
// Playback ends on its own once the simulated duration has elapsed.
type MockPlayer struct {
	state      atomic.Int32
	startTime  time.Time
	sampleRate int

	audioData     []byte
	audioDuration time.Duration
	volume        float64
	failWith      error

	mu     sync.RWMutex
	stopCh chan struct{}
	done   chan struct{}

	playCount atomic.Int64
	stopCount atomic.Int64
}

// NewMockPlayer creates a mock player for 16-bit mono PCM at sampleRate.
func NewMockPlayer(sampleRate int) *MockPlayer {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	mp := &MockPlayer{
		sampleRate: sampleRate,
		volume:     1.0,
	}
	mp.state.Store(int32(StateStopped))
	return mp
}

// SetFailure makes every Play call return err. nil restores success.
func (mp *MockPlayer) SetFailure(err error) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.failWith = err
}

// Play starts simulated playback of audio.
func (mp *MockPlayer) Play(audio []byte) error {
	if len(audio) == 0 {
		return ErrNothingToPlay
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	if PlayerState(mp.state.Load()) == StateClosed {
		return ErrPlayerClosed
	}
	if mp.failWith != nil {
		return mp.failWith
	}
	mp.stopInternal()

	mp.audioData = make([]byte, len(audio))
	copy(mp.audioData, audio)
	mp.audioDuration = ttypes.PCMDuration(len(audio), mp.sampleRate, 1)
	mp.startTime = time.Now()

	mp.state.Store(int32(StatePlaying))
	mp.playCount.Add(1)

	mp.stopCh = make(chan struct{})
	mp.done = make(chan struct{})
	go mp.simulatePlayback(mp.audioDuration, mp.stopCh, mp.done)
	return nil
}

func (mp *MockPlayer) simulatePlayback(d time.Duration, stop, done chan struct{}) {
	defer close(done)
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-stop:
	case <-timer.C:
		mp.state.CompareAndSwap(int32(StatePlaying), int32(StateStopped))
	}
}

// Stop ends playback.
func (mp *MockPlayer) Stop() error {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.stopInternal()
	return nil
}

func (mp *MockPlayer) stopInternal() {
	if mp.stopCh == nil {
		return
	}
	close(mp.stopCh)
	<-mp.done
	mp.stopCh, mp.done = nil, nil

	if PlayerState(mp.state.Load()) == StatePlaying {
		mp.stopCount.Add(1)
		mp.state.Store(int32(StateStopped))
	}
}

// IsPlaying returns whether simulated audio is playing.
func (mp *MockPlayer) IsPlaying() bool {
	return PlayerState(mp.state.Load()) == StatePlaying
}

// GetPosition returns the simulated playback position.
func (mp *MockPlayer) GetPosition() time.Duration {
	if !mp.IsPlaying() {
		return 0
	}
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	elapsed := time.Since(mp.startTime)
	if elapsed > mp.audioDuration {
		elapsed = mp.audioDuration
	}
	return elapsed
}

// SetVolume sets the playback volume (0.0 to 1.0).
func (mp *MockPlayer) SetVolume(volume float64) error {
	if volume < 0.0 || volume > 1.0 {
		return fmt.Errorf("volume must be between 0.0 and 1.0, got %f", volume)
	}
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.volume = volume
	return nil
}

// Close stops playback; later Play calls fail.
func (mp *MockPlayer) Close() error {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	if PlayerState(mp.state.Load()) == StateClosed {
		return errors.New("player already closed")
	}
	mp.stopInternal()
	mp.state.Store(int32(StateClosed))
	return nil
}

// GetState returns the current player state.
func (mp *MockPlayer) GetState() PlayerState {
	return PlayerState(mp.state.Load())
}

// GetVolume returns the current volume.
func (mp *MockPlayer) GetVolume() float64 {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.volume
}

// PlayCount returns how many times playback started.
func (mp *MockPlayer) PlayCount() int64 { return mp.playCount.Load() }

// StopCount returns how many playbacks were stopped early.
func (mp *MockPlayer) StopCount() int64 { return mp.stopCount.Load() }

// Duration returns the length of the loaded audio.
func (mp *MockPlayer) Duration() time.Duration {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.audioDuration
}

// GetAudioData returns a copy of the loaded audio.
func (mp *MockPlayer) GetAudioData() []byte {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	if mp.audioData == nil {
		return nil
	}
	data := make([]byte, len(mp.audioData))
	copy(data, mp.audioData)
	return data
}

var _ ttypes.AudioPlayer = (*MockPlayer)(nil)
