package editor

// PlaybackOptions are the user-facing playback knobs offered by the speed
// menu.
type PlaybackOptions struct {
	Speed    float64
	PlayOnce bool
}

// SpeedChoices are the multipliers the speed menu lists.
var SpeedChoices = []float64{0.25, 0.5, 1, 1.5, 2, 3}
