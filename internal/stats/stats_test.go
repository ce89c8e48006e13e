package stats

import (
	"math"
	"testing"
)

func TestMeanAndStdDev(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if m := Mean(values); m != 5 {
		t.Fatalf("expected mean 5, got %f", m)
	}
	if sd := StdDev(values); sd != 2 {
		t.Fatalf("expected stddev 2, got %f", sd)
	}
}

func TestStdDevDegenerate(t *testing.T) {
	if sd := StdDev(nil); sd != 0 {
		t.Fatalf("expected 0 for empty input, got %f", sd)
	}
	if sd := StdDev([]float64{42}); sd != 0 {
		t.Fatalf("expected 0 for single value, got %f", sd)
	}
}

func TestPercentileNearestRank(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i + 1)
	}
	cases := []struct {
		p    float64
		want float64
	}{
		{50, 50},
		{95, 95},
		{99, 99},
		{100, 100},
	}
	for _, c := range cases {
		if got := Percentile(values, c.p); got != c.want {
			t.Fatalf("p%g: expected %f, got %f", c.p, c.want, got)
		}
	}
}

func TestPercentileSmallInput(t *testing.T) {
	if got := Percentile([]float64{7}, 99); got != 7 {
		t.Fatalf("expected sole value, got %f", got)
	}
	if got := Percentile(nil, 50); !math.IsNaN(got) {
		t.Fatalf("expected NaN for empty input, got %f", got)
	}
}

func TestPercentileDoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Percentile(values, 50)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Fatalf("input reordered: %v", values)
	}
}

func TestQuartiles(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	q1, q3 := Quartiles(values)
	if q1 != 2 || q3 != 6 {
		t.Fatalf("expected quartiles 2 and 6, got %f and %f", q1, q3)
	}
}

func TestPearsonPerfectCorrelation(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{2, 4, 6, 8, 10}
	if r := Pearson(a, b); math.Abs(r-1) > 1e-9 {
		t.Fatalf("expected r=1, got %f", r)
	}
	inverse := []float64{10, 8, 6, 4, 2}
	if r := Pearson(a, inverse); math.Abs(r+1) > 1e-9 {
		t.Fatalf("expected r=-1, got %f", r)
	}
}

func TestPearsonZeroVariance(t *testing.T) {
	a := []float64{1, 2, 3}
	flat := []float64{5, 5, 5}
	if r := Pearson(a, flat); !math.IsNaN(r) {
		t.Fatalf("expected NaN for zero variance, got %f", r)
	}
}

func TestLinearRegressionSlope(t *testing.T) {
	values := []float64{10, 12, 14, 16, 18}
	slope, intercept, r := LinearRegression(values)
	if math.Abs(slope-2) > 1e-9 {
		t.Fatalf("expected slope 2, got %f", slope)
	}
	if math.Abs(intercept-10) > 1e-9 {
		t.Fatalf("expected intercept 10, got %f", intercept)
	}
	if math.Abs(r-1) > 1e-9 {
		t.Fatalf("expected r=1, got %f", r)
	}
}

func TestAutocorrelationPeriodicSignal(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = math.Sin(2 * math.Pi * float64(i) / 8)
	}
	if ac := Autocorrelation(values, 8); ac < 0.7 {
		t.Fatalf("expected strong autocorrelation at season lag, got %f", ac)
	}
	if ac := Autocorrelation(values, 4); ac > 0 {
		t.Fatalf("expected anti-correlation at half period, got %f", ac)
	}
}
