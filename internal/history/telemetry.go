package history

import "lunchwatch/lib/telemetry"

var tracer = telemetry.Tracer("lunchwatch.internal.history")
