// Package model defines the data structures shared across tagcount.
//
// This package contains the following main types:
//   - Target: The (URL, tag) pair a run is asked to inspect
//   - Result: Everything one run produces, from fetch to classification
//
// Models live in their own package so that the fetch, counter, report,
// pipeline and database packages can share them without import cycles.
//
// Result is serializable to JSON for history output and database storage.
package model
