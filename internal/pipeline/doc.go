// Package pipeline runs one tag count as an ordered list of steps over a
// model.Result: fetch, count, classify, report and, optionally, record.
//
// Each step reads what earlier steps left on the result and adds its own
// fields. The pipeline stops at the first failing step and records the
// error on the result.
package pipeline
