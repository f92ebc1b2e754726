package estimator

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/iwvelando/payroll-estimate/pkg/mathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestComputeBaseline(t *testing.T) {
	r := Compute(9631, 48000.0, 0.05, 110000.0)

	assert.Equal(t, 9631, r.NActive)
	assert.Equal(t, 482, r.CountHigh)
	assert.Equal(t, 9149, r.CountRemaining)
	assert.InDelta(t, 53020000.0, r.TotalHighPayroll, 0.001)
	assert.InDelta(t, 439152000.0, r.TotalRemainingPayroll, 0.001)
	assert.InDelta(t, 492172000.0, r.TotalMarketCap, 0.001)
}

func TestComputeDefaultsMatchBaseline(t *testing.T) {
	assert.Equal(t, Compute(9631, 48000.0, 0.05, 110000.0), DefaultInputs().Compute())
}

func TestComputeDegenerateCases(t *testing.T) {
	tests := []struct {
		name           string
		nActive        int
		avgSalary      float64
		highPercentile float64
		highSalary     float64
		countHigh      int
		countRemaining int
		marketCap      float64
	}{
		{"Empty population", 0, 48000.0, 0.05, 110000.0, 0, 0, 0},
		{"No high earners", 100, 50000.0, 0.0, 110000.0, 0, 100, 5000000.0},
		{"Only high earners", 100, 50000.0, 1.0, 110000.0, 100, 0, 11000000.0},
		{"Tie rounds to even", 50, 40000.0, 0.05, 100000.0, 2, 48, 2120000.0},
		{"Tie rounds up to even", 70, 40000.0, 0.05, 100000.0, 4, 66, 3040000.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Compute(tt.nActive, tt.avgSalary, tt.highPercentile, tt.highSalary)
			assert.Equal(t, tt.countHigh, r.CountHigh)
			assert.Equal(t, tt.countRemaining, r.CountRemaining)
			assert.InDelta(t, tt.marketCap, r.TotalMarketCap, 0.001)
			require.NoError(t, r.Check())
		})
	}
}

func TestComputeEmptyPopulationIsAllZero(t *testing.T) {
	r := Compute(0, 48000.0, 0.05, 110000.0)
	assert.Zero(t, r.CountHigh)
	assert.Zero(t, r.CountRemaining)
	assert.Zero(t, r.TotalHighPayroll)
	assert.Zero(t, r.TotalRemainingPayroll)
	assert.Zero(t, r.TotalMarketCap)
}

func TestComputeOutOfDomainInputsStayConsistent(t *testing.T) {
	inputs := []Inputs{
		{NActive: -100, AvgSalary: 48000, HighPercentile: 0.05, HighSalary: 110000},
		{NActive: 100, AvgSalary: 48000, HighPercentile: 1.5, HighSalary: 110000},
		{NActive: 100, AvgSalary: -48000, HighPercentile: -0.2, HighSalary: 110000},
	}

	for _, in := range inputs {
		r := in.Compute()
		assert.Equal(t, in.NActive, r.CountHigh+r.CountRemaining)
		assert.NoError(t, r.Check())
	}
}

func TestComputeClampsNonFiniteHeadCounts(t *testing.T) {
	tests := []struct {
		name      string
		in        Inputs
		countHigh int
	}{
		{"NaN percentile", Inputs{NActive: 100, AvgSalary: 48000, HighPercentile: math.NaN(), HighSalary: 110000}, 0},
		{"Huge percentile", Inputs{NActive: 100, AvgSalary: 48000, HighPercentile: 1e18, HighSalary: 110000}, mathutil.MaxCount},
		{"Huge negative percentile", Inputs{NActive: 100, AvgSalary: 48000, HighPercentile: -1e18, HighSalary: 110000}, -mathutil.MaxCount},
		{"Infinite percentile", Inputs{NActive: 100, AvgSalary: 48000, HighPercentile: math.Inf(1), HighSalary: 110000}, mathutil.MaxCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.in.Compute()
			assert.Equal(t, tt.countHigh, r.CountHigh)
			assert.Equal(t, tt.in.NActive, r.CountHigh+r.CountRemaining)
			assert.NoError(t, r.Check())
		})
	}
}

func TestCheckOverflowedTotals(t *testing.T) {
	overflow := Compute(100, 48000, 0.05, 1e308)
	require.True(t, math.IsInf(overflow.TotalHighPayroll, 1))
	require.True(t, math.IsInf(overflow.TotalMarketCap, 1))
	assert.NoError(t, overflow.Check())

	cancelled := Compute(100, -1e308, 0.05, 1e308)
	require.True(t, math.IsNaN(cancelled.TotalMarketCap))
	assert.Error(t, cancelled.Check())

	mismatched := overflow
	mismatched.TotalMarketCap = math.Inf(-1)
	assert.Error(t, mismatched.Check())
}

func TestComputeInvariantsAcrossGrid(t *testing.T) {
	for n := 0; n <= 2000; n += 37 {
		for p := 0.0; p <= 1.0; p += 0.07 {
			r := Compute(n, 51234.56, p, 123456.78)
			require.GreaterOrEqual(t, r.CountHigh, 0)
			require.GreaterOrEqual(t, r.CountRemaining, 0)
			require.NoError(t, r.Check(), "n=%d p=%v", n, p)
		}
	}
}

func TestCheckDetectsInconsistentResults(t *testing.T) {
	r := Compute(9631, 48000.0, 0.05, 110000.0)

	badCounts := r
	badCounts.CountRemaining++
	assert.Error(t, badCounts.Check())

	badTotal := r
	badTotal.TotalMarketCap += 10
	assert.Error(t, badTotal.Check())
}

func TestResultJSONRoundTrip(t *testing.T) {
	r := Compute(9631, 48000.0, 0.05, 110000.0)

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Len(t, fields, 9)
	for _, key := range []string{
		"n_active", "avg_salary", "high_percentile", "high_salary", "count_high",
		"count_remaining", "total_high_payroll", "total_remaining_payroll", "total_market_cap",
	} {
		assert.Contains(t, fields, key)
	}

	var decoded Result
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, r, decoded)
}

func TestResultYAMLRoundTrip(t *testing.T) {
	r := Compute(1200, 52000.0, 0.1, 95000.0)

	data, err := yaml.Marshal(r)
	require.NoError(t, err)

	var decoded Result
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, r, decoded)
}
