package gesture

import (
	"testing"

	"github.com/ayusman/handwing/internal/profile"
)

func feed(m *Machine, p *profile.Profile, shape Shape, conf float64, n int) Shape {
	var out Shape
	for i := 0; i < n; i++ {
		out = m.Advance(Candidate{Shape: shape, Confidence: conf}, p)
	}
	return out
}

func TestMachine_ConfirmsAfterHoldWindow(t *testing.T) {
	p := profile.Default() // HoldFrames 5
	m := NewMachine()

	if got := feed(m, p, ShapeFist, 0.9, p.HoldFrames-1); got != ShapeNone {
		t.Fatalf("confirmed %q one frame short of the hold window", got)
	}
	if m.Phase() != PhaseCandidate {
		t.Fatalf("phase = %s, want candidate", m.Phase())
	}

	if got := feed(m, p, ShapeFist, 0.9, 1); got != ShapeFist {
		t.Errorf("Advance() = %q at the hold window, want %q", got, ShapeFist)
	}
	if m.Phase() != PhaseConfirmed {
		t.Errorf("phase = %s, want confirmed", m.Phase())
	}
}

func TestMachine_InterruptionRestartsHold(t *testing.T) {
	p := profile.Default()
	m := NewMachine()

	feed(m, p, ShapeFist, 0.9, p.HoldFrames-1)
	feed(m, p, ShapeNone, 0, 1)

	// The interrupted hold gets no credit: another HoldFrames-1 frames
	// must not confirm.
	if got := feed(m, p, ShapeFist, 0.9, p.HoldFrames-1); got != ShapeNone {
		t.Errorf("confirmed %q without a full uninterrupted hold", got)
	}
	if got := feed(m, p, ShapeFist, 0.9, 1); got != ShapeFist {
		t.Errorf("Advance() = %q after a full hold, want %q", got, ShapeFist)
	}
}

func TestMachine_BelowThresholdIsNotACandidate(t *testing.T) {
	p := profile.Default() // GestureThreshold 0.6
	m := NewMachine()

	feed(m, p, ShapeFist, 0.5, p.HoldFrames*2)

	if m.Phase() != PhaseIdle {
		t.Errorf("phase = %s, want idle for sub-threshold candidates", m.Phase())
	}
}

func TestMachine_CompetingShapeStealsCandidacy(t *testing.T) {
	p := profile.Default()
	m := NewMachine()

	feed(m, p, ShapeFist, 0.9, p.HoldFrames-1)
	feed(m, p, ShapePoint, 0.9, 1)

	// The new shape starts from one held frame, not from the fist's
	// accumulated count.
	if got := feed(m, p, ShapePoint, 0.9, p.HoldFrames-2); got != ShapeNone {
		t.Fatalf("confirmed %q before the new shape earned its own hold", got)
	}
	if got := feed(m, p, ShapePoint, 0.9, 1); got != ShapePoint {
		t.Errorf("Advance() = %q, want %q", got, ShapePoint)
	}
}

func TestMachine_ConfirmedSurvivesFlicker(t *testing.T) {
	p := profile.Default() // ReleaseGraceFrames 3
	m := NewMachine()

	feed(m, p, ShapeFist, 0.9, p.HoldFrames)

	// Misclassified frames within the grace window must not release.
	if got := feed(m, p, ShapeNone, 0, p.ReleaseGraceFrames-1); got != ShapeFist {
		t.Fatalf("Advance() = %q during flicker, want %q held", got, ShapeFist)
	}

	// A matching frame refills the grace window completely.
	feed(m, p, ShapeFist, 0.9, 1)
	if got := feed(m, p, ShapeNone, 0, p.ReleaseGraceFrames-1); got != ShapeFist {
		t.Errorf("Advance() = %q, want %q after the grace window refilled", got, ShapeFist)
	}
}

func TestMachine_ReleasesAfterGraceWindow(t *testing.T) {
	p := profile.Default()
	m := NewMachine()

	feed(m, p, ShapeFist, 0.9, p.HoldFrames)
	if got := feed(m, p, ShapeNone, 0, p.ReleaseGraceFrames); got != ShapeNone {
		t.Fatalf("Advance() = %q, want release after the grace window", got)
	}
	if m.Phase() != PhaseIdle {
		t.Errorf("phase = %s, want idle after release", m.Phase())
	}
}

func TestMachine_NewShapeAfterReleaseEarnsItsOwnHold(t *testing.T) {
	p := profile.Default()
	m := NewMachine()

	feed(m, p, ShapeFist, 0.9, p.HoldFrames)

	// A different shape sustained past the fist's grace window releases
	// the fist and must then hold for its own full window.
	feed(m, p, ShapePoint, 0.9, p.ReleaseGraceFrames)
	if got := m.Confirmed(); got != ShapeNone {
		t.Fatalf("Confirmed() = %q right after release, want none", got)
	}

	if got := feed(m, p, ShapePoint, 0.9, p.HoldFrames-1); got != ShapePoint {
		t.Errorf("Advance() = %q, want %q once the new shape held its window", got, ShapePoint)
	}
}

func TestMachine_ResetDropsEverything(t *testing.T) {
	p := profile.Default()
	m := NewMachine()

	feed(m, p, ShapeFist, 0.9, p.HoldFrames)
	m.Reset()

	if m.Phase() != PhaseIdle || m.Confirmed() != ShapeNone {
		t.Errorf("after Reset: phase = %s, confirmed = %q, want idle/none",
			m.Phase(), m.Confirmed())
	}
}

func TestMachine_SingleFrameHold(t *testing.T) {
	p := profile.Default()
	p.HoldFrames = 1
	m := NewMachine()

	if got := feed(m, p, ShapeFist, 0.9, 1); got != ShapeFist {
		t.Errorf("Advance() = %q with a one-frame hold window, want %q", got, ShapeFist)
	}
}
