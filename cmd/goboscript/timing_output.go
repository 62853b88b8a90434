package main

import (
	"fmt"
	"io"
	"time"

	"goboscript/internal/buildpipeline"
)

// printStageTimings prints one line per recorded stage, in pipeline order.
func printStageTimings(out io.Writer, timings buildpipeline.Timings) {
	if out == nil {
		return
	}
	for _, stage := range buildpipeline.Stages {
		if !timings.Has(stage) {
			continue
		}
		fmt.Fprintf(out, "%-8s %7.1f ms\n", stage, toMillis(timings.Duration(stage)))
	}
	if total := timings.Sum(buildpipeline.Stages...); total > 0 {
		fmt.Fprintf(out, "%-8s %7.1f ms\n", "total", toMillis(total))
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
