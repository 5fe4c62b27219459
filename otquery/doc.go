/*
Package otquery answers common questions about a font: its type, names,
metrics and the metrics of single glyphs.

Functions accept a parsed *ot.Font and never modify it. They return zero
values, not errors, for information missing from a font.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package otquery

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'tyse.fonts'
func tracer() tracing.Trace {
	return tracing.Select("tyse.fonts")
}
