package gesture

import "github.com/ayusman/handwing/internal/profile"

// Phase is the debounce state of one hand's gesture machine.
type Phase int

const (
	// PhaseIdle means no shape is being tracked.
	PhaseIdle Phase = iota
	// PhaseCandidate means a shape has been seen but not yet held long
	// enough to confirm.
	PhaseCandidate
	// PhaseConfirmed means the shape is active and drives its button.
	PhaseConfirmed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseCandidate:
		return "candidate"
	case PhaseConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// Machine debounces one hand's per-frame shape candidates into stable
// confirmations. A shape must be held for the profile's hold window to
// confirm, and a confirmed shape survives brief misclassification for
// the release grace window, so button presses neither fire on flickers
// nor drop on them.
//
// The machine is owned by the pipeline goroutine; no locking.
type Machine struct {
	phase     Phase
	shape     Shape
	held      int
	graceLeft int
}

// NewMachine creates a machine in the idle phase.
func NewMachine() *Machine {
	return &Machine{shape: ShapeNone}
}

// Phase reports the current debounce phase.
func (m *Machine) Phase() Phase { return m.phase }

// Confirmed returns the active shape, or ShapeNone outside the
// confirmed phase.
func (m *Machine) Confirmed() Shape {
	if m.phase == PhaseConfirmed {
		return m.shape
	}
	return ShapeNone
}

// Reset drops the machine back to idle, as when the hand leaves the
// frame: an absent hand holds no gesture.
func (m *Machine) Reset() {
	*m = Machine{shape: ShapeNone}
}

// Advance feeds one frame's candidate into the machine and returns the
// shape confirmed after this frame, or ShapeNone.
//
// A candidate qualifies only when it names a real shape at or above the
// profile's confidence threshold; anything else counts as a non-match.
// An interrupted hold restarts from zero, it does not resume.
func (m *Machine) Advance(c Candidate, p *profile.Profile) Shape {
	qualified := c.Shape != ShapeNone && c.Confidence >= p.GestureThreshold

	switch m.phase {
	case PhaseIdle:
		if qualified {
			m.beginCandidacy(c.Shape, p)
		}

	case PhaseCandidate:
		switch {
		case qualified && c.Shape == m.shape:
			m.held++
			if m.held >= p.HoldFrames {
				m.confirm(p)
			}
		case qualified:
			// A different shape steals candidacy but gets no credit for
			// the frames the old one accumulated.
			m.beginCandidacy(c.Shape, p)
		default:
			m.Reset()
		}

	case PhaseConfirmed:
		switch {
		case qualified && c.Shape == m.shape:
			m.graceLeft = p.ReleaseGraceFrames
		default:
			m.graceLeft--
			if m.graceLeft <= 0 {
				m.Reset()
				if qualified {
					m.beginCandidacy(c.Shape, p)
				}
			}
		}
	}

	return m.Confirmed()
}

func (m *Machine) beginCandidacy(s Shape, p *profile.Profile) {
	m.phase = PhaseCandidate
	m.shape = s
	m.held = 1
	if m.held >= p.HoldFrames {
		m.confirm(p)
	}
}

func (m *Machine) confirm(p *profile.Profile) {
	m.phase = PhaseConfirmed
	m.graceLeft = p.ReleaseGraceFrames
}
