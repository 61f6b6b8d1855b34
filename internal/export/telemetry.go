package export

import (
	"lunchwatch/lib/telemetry"
)

var tracer = telemetry.Tracer("lunchwatch.internal.export")
