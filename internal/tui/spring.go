package tui

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// springValue animates a scalar toward a target with a damped spring.
type springValue struct {
	spring   harmonica.Spring
	pos      float64
	vel      float64
	target   float64
	settled  bool
	epsilon  float64
	interval time.Duration
}

// newSpringValue mirrors a spring(response:, dampingFraction:) animation.
func newSpringValue(interval time.Duration, response, damping, start float64) springValue {
	if interval <= 0 {
		interval = defaultFrameRate
	}
	return springValue{
		spring:   harmonica.NewSpring(interval.Seconds(), 2*math.Pi/response, damping),
		pos:      start,
		target:   start,
		settled:  true,
		epsilon:  0.01,
		interval: interval,
	}
}

func (s *springValue) SetTarget(target float64) {
	if s.target == target {
		return
	}
	s.target = target
	s.settled = false
}

// Jump moves straight to target without animating.
func (s *springValue) Jump(target float64) {
	s.pos, s.vel, s.target, s.settled = target, 0, target, true
}

// Step advances one frame and reports whether the value is still moving.
func (s *springValue) Step() bool {
	if s.settled {
		return false
	}
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, s.target)
	if math.Abs(s.pos-s.target) < s.epsilon && math.Abs(s.vel) < s.epsilon {
		s.pos, s.vel, s.settled = s.target, 0, true
	}
	return !s.settled
}

func (s springValue) Value() float64 { return s.pos }

func (s springValue) Settled() bool { return s.settled }
