package ui

import "time"

const (
	DefaultRate       float32 = 2
	DefaultCap        float32 = 85
	DefaultGain       float32 = 0.08
	DefaultMinStep    float32 = 0.15
	DefaultFinishStep float32 = 2
)

// Animator turns a bursty raw percentage into a value that moves every
// frame. A time-based floor (Rate percent per second, up to Cap) keeps the
// bar moving while the raw signal is flat. The output never decreases.
type Animator struct {
	Rate    float32
	Cap     float32
	Gain    float32
	MinStep float32

	value float32
}

func NewAnimator() *Animator {
	return &Animator{
		Rate:    DefaultRate,
		Cap:     DefaultCap,
		Gain:    DefaultGain,
		MinStep: DefaultMinStep,
	}
}

func (a *Animator) Value() float32 {
	return a.value
}

// Tick advances one frame towards max(raw, time floor) without overshooting.
func (a *Animator) Tick(raw uint32, elapsed time.Duration) float32 {
	floor := min(float32(elapsed.Seconds())*a.Rate, a.Cap)
	target := max(float32(min(raw, 100)), floor)

	if a.value < target {
		step := max((target-a.value)*a.Gain, a.MinStep)
		a.value = min(a.value+step, target)
	}
	return a.value
}

// Finish ramps to exactly 100 in fixed increments, calling frame with every
// intermediate value. It ignores the easing rule entirely.
func (a *Animator) Finish(step float32, frame func(float32)) {
	if step <= 0 {
		step = DefaultFinishStep
	}
	if a.value >= 100 {
		a.value = 100
		frame(a.value)
		return
	}
	for a.value < 100 {
		a.value = min(a.value+step, 100)
		frame(a.value)
	}
}
