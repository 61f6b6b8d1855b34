package matochmat

import (
	"lunchwatch/lib/restyutil"
	"lunchwatch/lib/telemetry"
)

var tracer = telemetry.Tracer("lunchwatch.internal.scrapers.matochmat")
var restyInstrumentOutput restyutil.InstrumentOutput

func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}
