package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"

	"github.com/klauspost/cpuid/v2"
)

func runVersion(_ context.Context, _ []string, stdout io.Writer, _ *slog.Logger) error {
	fmt.Fprintf(stdout, "surrogate %s (%s, %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(stdout, "CPU: %s, %d physical / %d logical cores\n",
		cpuid.CPU.BrandName, cpuid.CPU.PhysicalCores, cpuid.CPU.LogicalCores)

	simd := "scalar"
	switch {
	case cpuid.CPU.Supports(cpuid.AVX512F, cpuid.AVX512DQ):
		simd = "avx512"
	case cpuid.CPU.Supports(cpuid.AVX2, cpuid.FMA3):
		simd = "avx2"
	case cpuid.CPU.Supports(cpuid.ASIMD):
		simd = "neon"
	}
	fmt.Fprintf(stdout, "SIMD: %s\n", simd)
	fmt.Fprintf(stdout, "Features: %s\n", strings.Join(cpuid.CPU.FeatureSet(), " "))
	return nil
}
