package report

import (
	"lunchwatch/lib/telemetry"
)

var tracer = telemetry.Tracer("lunchwatch.internal.report")
