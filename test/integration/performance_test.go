package integration

import (
	"io"
	"testing"

	"github.com/iwvelando/payroll-estimate/pkg/estimator"
	"github.com/iwvelando/payroll-estimate/pkg/output"
)

func BenchmarkCompute(b *testing.B) {
	in := estimator.DefaultInputs()
	for i := 0; i < b.N; i++ {
		_ = in.Compute()
	}
}

func BenchmarkTextReport(b *testing.B) {
	result := estimator.DefaultInputs().Compute()
	opts := output.DefaultReportOptions()
	for i := 0; i < b.N; i++ {
		if err := output.Text(io.Discard, result, opts); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkJSON(b *testing.B) {
	result := estimator.DefaultInputs().Compute()
	for i := 0; i < b.N; i++ {
		if err := output.JSON(io.Discard, result); err != nil {
			b.Fatal(err)
		}
	}
}
