package evaluator

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		v     float64
		scale Scale
		want  float64
	}{
		{"ten scale", 7, ScaleTen, 70},
		{"hundred scale", 64, ScaleHundred, 64},
		{"clamped high", 150, ScaleHundred, 100},
		{"clamped low", -1, ScaleTen, 0},
		{"unknown scale", 42, 0, 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.v, tt.scale); got != tt.want {
				t.Errorf("Normalize(%v, %d) = %v, want %v", tt.v, tt.scale, got, tt.want)
			}
		})
	}
}

func TestNormalizeLegacy(t *testing.T) {
	if got := NormalizeLegacy(8); got != 80 {
		t.Errorf("NormalizeLegacy(8) = %v, want 80", got)
	}
	if got := NormalizeLegacy(85); got != 85 {
		t.Errorf("NormalizeLegacy(85) = %v, want 85", got)
	}
}

func TestNormalizeStored(t *testing.T) {
	tests := []struct {
		v     float64
		scale int
		want  float64
	}{
		{8, 100, 8},
		{8, 10, 80},
		{8, 0, 80},
		{72, 0, 72},
	}
	for _, tt := range tests {
		if got := NormalizeStored(tt.v, tt.scale); got != tt.want {
			t.Errorf("NormalizeStored(%v, %d) = %v, want %v", tt.v, tt.scale, got, tt.want)
		}
	}
}
