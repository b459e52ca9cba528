package fontstash

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestSmoothstep(t *testing.T) {
	tests := []struct {
		name      string
		e0, e1, x float64
		want      float64
	}{
		{"below", 0.4, 0.6, 0.1, 0},
		{"at e0", 0.4, 0.6, 0.4, 0},
		{"middle", 0.4, 0.6, 0.5, 0.5},
		{"at e1", 0.4, 0.6, 0.6, 1},
		{"above", 0.4, 0.6, 0.9, 1},
		{"step below", 0.5, 0.5, 0.49, 0},
		{"step at edge", 0.5, 0.5, 0.5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Smoothstep(tt.e0, tt.e1, tt.x)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
				t.Errorf("Smoothstep(%v, %v, %v) mismatch (-want +got):\n%s", tt.e0, tt.e1, tt.x, diff)
			}
		})
	}
}

func TestSmoothstepMonotone(t *testing.T) {
	prev := -1.0
	for i := 0; i <= 1000; i++ {
		x := float64(i) / 1000
		v := Smoothstep(0.45, 0.55, x)
		if v < prev {
			t.Fatalf("Smoothstep decreases at %v: %v < %v", x, v, prev)
		}
		if v < 0 || v > 1 {
			t.Fatalf("Smoothstep(%v) = %v outside [0, 1]", x, v)
		}
		prev = v
	}
}

func TestMix(t *testing.T) {
	if got := Mix(2, 10, 0); got != 2 {
		t.Errorf("Mix(2, 10, 0) = %v", got)
	}
	if got := Mix(2, 10, 1); got != 10 {
		t.Errorf("Mix(2, 10, 1) = %v", got)
	}
	if got := Mix(2, 10, 0.25); got != 4 {
		t.Errorf("Mix(2, 10, 0.25) = %v", got)
	}
}

func TestEvalSDFFragmentInsideThresholds(t *testing.T) {
	fill := RGBA2(0.2, 0.4, 0.6, 0.8)
	u := SDFUniforms{
		Color:        fill,
		OutlineColor: RGBA2(1, 0, 0, 1),
		Params:       SDFParams{MinOutline: 0.2, MaxOutline: 0.3, MinInside: 0.45, MaxInside: 0.55},
		MixFactor:    1,
	}

	if got := EvalSDFFragment(Vec4{W: 0.45}, u); got != (RGBA{}) {
		t.Errorf("at minInside: %+v, want zero", got)
	}
	if got := EvalSDFFragment(Vec4{W: 0.55}, u); got != fill {
		t.Errorf("at maxInside: %+v, want %+v", got, fill)
	}

	prev := -1.0
	for i := 0; i <= 100; i++ {
		d := 0.45 + 0.1*float64(i)/100
		a := EvalSDFFragment(Vec4{W: d}, u).A
		if a < prev {
			t.Fatalf("inside weight decreases at d=%v", d)
		}
		prev = a
	}
}

func TestEvalSDFFragmentMix(t *testing.T) {
	u := SDFUniforms{
		Color:        RGBA2(0, 0, 1, 1),
		OutlineColor: RGBA2(1, 0, 0, 1),
		Params:       SDFParams{MinOutline: 0.1, MaxOutline: 0.2, MinInside: 0.5, MaxInside: 0.6},
		MixFactor:    0,
	}
	// Past both ramps: only the outline at mix 0, only the fill at mix 1,
	// halfway at 0.5.
	tex := Vec4{X: 1, Y: 1, Z: 1, W: 0.9}
	if got := EvalSDFFragment(tex, u); got != u.OutlineColor {
		t.Errorf("mix 0 = %+v, want outline", got)
	}
	u.MixFactor = 1
	if got := EvalSDFFragment(tex, u); got != u.Color {
		t.Errorf("mix 1 = %+v, want fill", got)
	}
	u.MixFactor = 0.5
	want := RGBA2(0.5, 0, 0.5, 1)
	if diff := cmp.Diff(want, EvalSDFFragment(tex, u), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("mix 0.5 mismatch (-want +got):\n%s", diff)
	}
}

func TestEvalSDFFragmentReadsAlphaOnly(t *testing.T) {
	u := DefaultSDFUniforms()
	a := EvalSDFFragment(Vec4{X: 0, Y: 0, Z: 0, W: 0.7}, u)
	b := EvalSDFFragment(Vec4{X: 1, Y: 1, Z: 1, W: 0.7}, u)
	if a != b {
		t.Errorf("rgb of the sample changed the result: %+v vs %+v", a, b)
	}
}

func TestEvalDefaultFragment(t *testing.T) {
	u := DefaultUniforms{Color: RGBA2(0.1, 0.2, 0.3, 0.4)}
	for _, alpha := range []float64{0, 0.5, 1, 7} {
		got := EvalDefaultFragment(Vec4{X: 1, Y: 1, Z: 1, W: 0}, alpha, u)
		if got.A != 0 {
			t.Errorf("texture alpha 0, v_alpha %v: alpha = %v, want 0", alpha, got.A)
		}
	}
	got := EvalDefaultFragment(Vec4{W: 0.5}, 0.5, u)
	want := RGBA2(0.1, 0.2, 0.3, 0.25)
	if got != want {
		t.Errorf("EvalDefaultFragment = %+v, want %+v", got, want)
	}
}

func TestSDFParamsFloat32(t *testing.T) {
	p := SDFParams{MinOutline: 0.1, MaxOutline: 0.2, MinInside: 0.3, MaxInside: 0.4}
	want := [4]float32{0.1, 0.2, 0.3, 0.4}
	if got := p.Float32(); got != want {
		t.Errorf("Float32() = %v, want %v", got, want)
	}
}
