package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeDistribution(t *testing.T) {
	// Unsorted on purpose; the input must not be reordered.
	values := []float64{1000, 400, 300, 200, 100, 600, 500, 700, 900, 800}
	d := ComputeDistribution(values)

	if math.Abs(d.Mean-550) > 0.001 {
		t.Errorf("mean = %v, want 550", d.Mean)
	}
	// Population std of 100..1000 step 100
	if math.Abs(d.Std-287.228) > 0.01 {
		t.Errorf("std = %v, want ~287.228", d.Std)
	}
	if math.Abs(d.P10-190) > 0.01 {
		t.Errorf("p10 = %v, want 190", d.P10)
	}
	if math.Abs(d.P50-550) > 0.01 {
		t.Errorf("p50 = %v, want 550", d.P50)
	}
	if math.Abs(d.P90-910) > 0.01 {
		t.Errorf("p90 = %v, want 910", d.P90)
	}
	if d.Max != 1000 {
		t.Errorf("max = %v, want 1000", d.Max)
	}
	if values[0] != 1000 || values[1] != 400 {
		t.Error("input slice was modified")
	}
}

func TestComputeDistributionEmpty(t *testing.T) {
	if d := ComputeDistribution(nil); d != (Distribution{}) {
		t.Errorf("empty slice should return zero distribution, got %+v", d)
	}
}
