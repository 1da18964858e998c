package track

import (
	"sort"

	"github.com/ayusman/handwing/internal/detector"
	"github.com/ayusman/handwing/internal/profile"
)

// Normalize converts one frame's raw landmark sets into per-slot hand
// states. It is a pure function of the frame and the profile.
//
// Handedness comes from the tracker label when it is unambiguous. When
// both hands carry the same label (a common tracker failure) or labels
// are missing, the tie breaks on horizontal position: with a mirrored
// view the hand with the smaller x is the left hand, without mirroring
// the larger x is. This heuristic is tracker-dependent; it matches the
// MediaPipe hand tracker the controller was built against.
//
// A detection below the profile's confidence floor fills its slot with
// Present=false: a single weak frame is a missed detection, not an
// absence, and only the temporal filter may promote sustained misses to
// a real absence.
func Normalize(hands []detector.HandLandmarks, p *profile.Profile) [NumSlots]HandState {
	var out [NumSlots]HandState

	if len(hands) == 0 {
		return out
	}

	// More than two reported hands: keep the two most confident.
	if len(hands) > int(NumSlots) {
		sorted := make([]detector.HandLandmarks, len(hands))
		copy(sorted, hands)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Score > sorted[j].Score
		})
		hands = sorted[:NumSlots]
	}

	assign := func(slot Slot, h detector.HandLandmarks) {
		c := h.Center()
		lm := h
		out[slot] = HandState{
			Position:   Point{X: c.X, Y: c.Y},
			Confidence: h.Score,
			Present:    h.Score >= p.MinDetection,
			Landmarks:  &lm,
		}
	}

	if len(hands) == 1 {
		assign(slotForSingle(hands[0], p), hands[0])
		return out
	}

	a, b := hands[0], hands[1]
	if a.Handedness != b.Handedness && isLabeled(a) && isLabeled(b) {
		assign(slotForLabel(a.Handedness), a)
		assign(slotForLabel(b.Handedness), b)
		return out
	}

	// Ambiguous pair: resolve by horizontal position.
	left, right := orderByPosition(a, b, p.MirrorMode)
	assign(SlotLeft, left)
	assign(SlotRight, right)
	return out
}

func isLabeled(h detector.HandLandmarks) bool {
	return h.Handedness == profile.HandLeft || h.Handedness == profile.HandRight
}

func slotForLabel(label string) Slot {
	if label == profile.HandRight {
		return SlotRight
	}
	return SlotLeft
}

// slotForSingle places a lone hand: trust the label if present, else
// fall back to the position heuristic against the frame center.
func slotForSingle(h detector.HandLandmarks, p *profile.Profile) Slot {
	if isLabeled(h) {
		return slotForLabel(h.Handedness)
	}
	onLeftHalf := h.Center().X < 0.5
	if p.MirrorMode == onLeftHalf {
		return SlotLeft
	}
	return SlotRight
}

// orderByPosition splits an ambiguous pair into (left, right) slots.
// Mirrored view: smaller x is the left hand; inverted otherwise.
func orderByPosition(a, b detector.HandLandmarks, mirrored bool) (left, right detector.HandLandmarks) {
	aLeftmost := a.Center().X < b.Center().X
	if aLeftmost == mirrored {
		return a, b
	}
	return b, a
}
