package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func pointsClose(a, b Point) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func TestMatrixTransformPoint(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		in   Point
		want Point
	}{
		{"identity", Identity(), Pt(3, 4), Pt(3, 4)},
		{"translate", Translate(10, -5), Pt(1, 1), Pt(11, -4)},
		{"scale", Scale(2, 3), Pt(1, 1), Pt(2, 3)},
		{"rotate 90deg", Rotate(math.Pi / 2), Pt(1, 0), Pt(0, 1)},
		{"scale then translate", Translate(1, 1).Multiply(Scale(2, 2)), Pt(1, 1), Pt(3, 3)},
		{"translate then scale", Scale(2, 2).Multiply(Translate(1, 1)), Pt(1, 1), Pt(4, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.TransformPoint(tt.in)
			if !pointsClose(got, tt.want) {
				t.Errorf("TransformPoint(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMatrixTransformVectorIgnoresTranslation(t *testing.T) {
	m := Translate(100, 100).Multiply(Scale(2, 2))
	got := m.TransformVector(Pt(1, 0))
	if !pointsClose(got, Pt(2, 0)) {
		t.Errorf("TransformVector = %v, want (2, 0)", got)
	}
}

func TestChainOrder(t *testing.T) {
	chained := Chain(Scale(2, 2), Rotate(math.Pi/2), Translate(1, 0))
	manual := Scale(2, 2).Multiply(Rotate(math.Pi / 2)).Multiply(Translate(1, 0))
	p := Pt(0.5, -0.25)
	if !pointsClose(chained.TransformPoint(p), manual.TransformPoint(p)) {
		t.Errorf("Chain differs from manual multiplication")
	}
	if !Chain().IsIdentity() {
		t.Error("empty Chain should be identity")
	}
}

func TestMatrixInvert(t *testing.T) {
	ms := []Matrix{
		Identity(),
		Translate(3, -7),
		Scale(0.5, 4),
		Rotate(1.234),
		Chain(Scale(2, 3), Rotate(-0.4), Translate(-10, 20)),
	}
	p := Pt(12.5, -3.75)
	for i, m := range ms {
		inv, ok := m.Invert()
		if !ok {
			t.Fatalf("matrix %d: expected invertible", i)
		}
		got := inv.TransformPoint(m.TransformPoint(p))
		if !pointsClose(got, p) {
			t.Errorf("matrix %d: round trip = %v, want %v", i, got, p)
		}
	}
}

func TestMatrixInvertSingular(t *testing.T) {
	inv, ok := Scale(0, 1).Invert()
	if ok {
		t.Error("expected singular matrix to report not invertible")
	}
	if !inv.IsIdentity() {
		t.Errorf("singular inverse = %+v, want identity", inv)
	}
}

func TestMatrixColumns(t *testing.T) {
	m := Matrix{A: 1, B: 2, C: 3, D: 4, E: 5, F: 6}
	want := [9]float32{1, 4, 0, 2, 5, 0, 3, 6, 1}
	if got := m.Columns(); got != want {
		t.Errorf("Columns() = %v, want %v", got, want)
	}
}
