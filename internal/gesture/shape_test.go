package gesture

import (
	"testing"

	"github.com/ayusman/handwing/internal/detector"
)

func classifyShape(t *testing.T, s detector.Shape) Candidate {
	t.Helper()
	lm := detector.HandAt(0.5, 0.5, "Left", 0.9, s)
	return Classify(&lm)
}

func TestClassify_KnownShapes(t *testing.T) {
	cases := []struct {
		name string
		hand detector.Shape
		want Shape
	}{
		{"fist", detector.ShapeFist, ShapeFist},
		{"point", detector.ShapePoint, ShapePoint},
		{"peace", detector.ShapePeace, ShapePeace},
		{"thumbs up", detector.ShapeThumbsUp, ShapeThumbsUp},
		{"open palm", detector.ShapeOpenPalm, ShapeOpenPalm},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyShape(t, tc.hand)
			if got.Shape != tc.want {
				t.Errorf("Classify() = %q, want %q", got.Shape, tc.want)
			}
			if got.Confidence != 0.9 {
				t.Errorf("confidence = %f, want the detection score 0.9", got.Confidence)
			}
		})
	}
}

func TestClassify_UnrecognizedConfiguration(t *testing.T) {
	// Ring and pinky up with index and middle down matches no shape.
	got := classifyShape(t, detector.Shape{Ring: true, Pinky: true})
	if got.Shape != ShapeNone {
		t.Errorf("Classify() = %q, want %q", got.Shape, ShapeNone)
	}
}

func TestClassify_NilHand(t *testing.T) {
	got := Classify(nil)
	if got.Shape != ShapeNone || got.Confidence != 0 {
		t.Errorf("Classify(nil) = %+v, want the zero candidate", got)
	}
}
