package controller

import (
	"testing"
	"time"

	"github.com/ayusman/handwing/internal/gesture"
	"github.com/ayusman/handwing/internal/profile"
	"github.com/ayusman/handwing/internal/track"
)

func TestAggregator_FirstFrameAlwaysEmits(t *testing.T) {
	p := profile.Default()
	a := NewAggregator()

	if !a.Push(NeutralFrame(p), time.Unix(0, 0), p) {
		t.Error("the first frame must be forwarded")
	}
}

func TestAggregator_StaticFrameEmitsOnceThenHeartbeats(t *testing.T) {
	p := profile.Default() // Heartbeat 500ms
	a := NewAggregator()
	f := NeutralFrame(p)
	f.LeftBrake = -40

	now := time.Unix(0, 0)
	emits := 0
	// Two seconds of an identical frame at ~30 fps.
	for i := 0; i < 60; i++ {
		if a.Push(f, now, p) {
			emits++
		}
		now = now.Add(33 * time.Millisecond)
	}

	// One initial emission plus one heartbeat per elapsed interval.
	want := 1 + int((59*33*time.Millisecond)/p.Heartbeat)
	if emits != want {
		t.Errorf("emits = %d over 2s of static input, want %d", emits, want)
	}
}

func TestAggregator_SubEpsilonJitterSuppressed(t *testing.T) {
	p := profile.Default() // EmitEpsilon 1
	a := NewAggregator()

	f := NeutralFrame(p)
	f.SpeedBar = 50
	a.Push(f, time.Unix(0, 0), p)

	f.SpeedBar = 51
	if a.Push(f, time.Unix(0, 0).Add(33*time.Millisecond), p) {
		t.Error("a one-unit change within epsilon should be suppressed")
	}

	f.SpeedBar = 52
	if !a.Push(f, time.Unix(0, 0).Add(66*time.Millisecond), p) {
		t.Error("a change beyond epsilon from the last emission should emit")
	}
}

func TestAggregator_ButtonFlipAlwaysEmits(t *testing.T) {
	p := profile.Default()
	a := NewAggregator()

	f := NeutralFrame(p)
	a.Push(f, time.Unix(0, 0), p)

	f.Buttons = make([]bool, p.Buttons)
	f.Buttons[2] = true
	if !a.Push(f, time.Unix(0, 0).Add(time.Millisecond), p) {
		t.Error("a button flip must emit regardless of axis deltas")
	}
}

func TestAggregator_RotationDeltaIsWrapAware(t *testing.T) {
	p := profile.Default()
	a := NewAggregator()

	f := NeutralFrame(p)
	f.Rotation = 359
	a.Push(f, time.Unix(0, 0), p)

	// 359 -> 0 is one degree, inside the default epsilon.
	f.Rotation = 0
	if a.Push(f, time.Unix(0, 0).Add(time.Millisecond), p) {
		t.Error("a one-degree wrap across 0 should be suppressed")
	}

	f.Rotation = 10
	if !a.Push(f, time.Unix(0, 0).Add(2*time.Millisecond), p) {
		t.Error("a ten-degree change should emit")
	}
}

func TestAggregator_RetainedFrameDoesNotAliasCaller(t *testing.T) {
	p := profile.Default()
	a := NewAggregator()

	f := NeutralFrame(p)
	a.Push(f, time.Unix(0, 0), p)

	// Mutating the caller's button slice must not disturb the recorded
	// emission, or the next flip would go undetected.
	f.Buttons[0] = true
	if !a.Push(f, time.Unix(0, 0).Add(time.Millisecond), p) {
		t.Error("button flip after the first push should emit")
	}
}

func TestAggregator_Reset(t *testing.T) {
	p := profile.Default()
	a := NewAggregator()

	a.Push(NeutralFrame(p), time.Unix(0, 0), p)
	a.Reset()

	if _, ok := a.Last(); ok {
		t.Error("Reset should clear the emission history")
	}
	if !a.Push(NeutralFrame(p), time.Unix(0, 0).Add(time.Millisecond), p) {
		t.Error("the first frame after Reset must be forwarded")
	}
}

func TestButtons_BindingsResolvePerHand(t *testing.T) {
	p := profile.Default()

	var confirmed [track.NumSlots]gesture.Shape
	confirmed[track.SlotLeft] = gesture.ShapeFist   // bound to button 0
	confirmed[track.SlotRight] = gesture.ShapePoint // bound to button 3

	got := Buttons(confirmed, p)
	want := []bool{true, false, false, true}

	if len(got) != len(want) {
		t.Fatalf("button count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("button %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestButtons_NoConfirmedShapes(t *testing.T) {
	p := profile.Default()

	var confirmed [track.NumSlots]gesture.Shape
	confirmed[track.SlotLeft] = gesture.ShapeNone
	confirmed[track.SlotRight] = gesture.ShapeNone

	for i, pressed := range Buttons(confirmed, p) {
		if pressed {
			t.Errorf("button %d pressed with no confirmed shapes", i)
		}
	}
}
