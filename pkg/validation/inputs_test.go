package validation

import (
	"math"
	"testing"

	"github.com/iwvelando/payroll-estimate/pkg/estimator"
	"github.com/iwvelando/payroll-estimate/pkg/mathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarningsForDefaults(t *testing.T) {
	assert.Empty(t, Warnings(estimator.DefaultInputs()))
}

func TestWarnings(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*estimator.Inputs)
		contains []string
	}{
		{
			name:     "Negative population",
			mutate:   func(in *estimator.Inputs) { in.NActive = -1 },
			contains: []string{"n_active is negative"},
		},
		{
			name:     "Percentile above one",
			mutate:   func(in *estimator.Inputs) { in.HighPercentile = 1.2 },
			contains: []string{"outside [0, 1]"},
		},
		{
			name:     "Percentile below zero",
			mutate:   func(in *estimator.Inputs) { in.HighPercentile = -0.1 },
			contains: []string{"outside [0, 1]"},
		},
		{
			name: "Negative salaries",
			mutate: func(in *estimator.Inputs) {
				in.AvgSalary = -1
				in.HighSalary = -2
			},
			contains: []string{"avg_salary is negative", "high_salary is negative", "is below avg_salary"},
		},
		{
			name:     "NaN percentile",
			mutate:   func(in *estimator.Inputs) { in.HighPercentile = math.NaN() },
			contains: []string{"high_percentile is not a finite number (NaN)"},
		},
		{
			name:     "Infinite high salary",
			mutate:   func(in *estimator.Inputs) { in.HighSalary = math.Inf(1) },
			contains: []string{"high_salary is not a finite number (+Inf)"},
		},
		{
			name:     "Inverted tiers",
			mutate:   func(in *estimator.Inputs) { in.HighSalary = 30000 },
			contains: []string{"high_salary (30000.00) is below avg_salary (48000.00)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := estimator.DefaultInputs()
			tt.mutate(&in)

			warnings := Warnings(in)
			require.Len(t, warnings, len(tt.contains))
			for i, want := range tt.contains {
				assert.Contains(t, warnings[i], want)
			}
		})
	}
}

func TestStrict(t *testing.T) {
	require.NoError(t, Strict(estimator.DefaultInputs()))
	require.NoError(t, Strict(estimator.Inputs{NActive: 0, HighPercentile: 1}))

	err := Strict(estimator.Inputs{NActive: -5, AvgSalary: 48000, HighPercentile: 1.5, HighSalary: 110000})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NActive must satisfy gte=0 (got -5)")
	assert.Contains(t, err.Error(), "HighPercentile must satisfy lte=1 (got 1.5)")
}

func TestRepresentable(t *testing.T) {
	require.NoError(t, Representable(estimator.DefaultInputs()))
	require.NoError(t, Representable(estimator.Inputs{NActive: -100, AvgSalary: -1, HighPercentile: 2, HighSalary: 1e300}))

	tests := []struct {
		name   string
		mutate func(*estimator.Inputs)
		want   string
	}{
		{
			name:   "NaN percentile",
			mutate: func(in *estimator.Inputs) { in.HighPercentile = math.NaN() },
			want:   "high_percentile must be a finite number (got NaN)",
		},
		{
			name:   "Infinite average salary",
			mutate: func(in *estimator.Inputs) { in.AvgSalary = math.Inf(-1) },
			want:   "avg_salary must be a finite number (got -Inf)",
		},
		{
			name:   "Head count product beyond exact range",
			mutate: func(in *estimator.Inputs) { in.HighPercentile = 1e20 },
			want:   "n_active * high_percentile must be within",
		},
		{
			name:   "Population beyond exact range",
			mutate: func(in *estimator.Inputs) { in.NActive = mathutil.MaxCount + 1 },
			want:   "n_active must be within",
		},
		{
			name:   "Payroll overflow",
			mutate: func(in *estimator.Inputs) { in.HighSalary = 1e308 },
			want:   "payroll totals overflow",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := estimator.DefaultInputs()
			tt.mutate(&in)

			err := Representable(in)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
