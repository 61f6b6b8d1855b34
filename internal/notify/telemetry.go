package notify

import (
	"lunchwatch/lib/telemetry"
)

var tracer = telemetry.Tracer("lunchwatch.internal.notify")
