// Package database stores recorded runs in SQLite for the history command.
//
// The store is a single file (tagcount.db) opened with the CGO-free
// modernc.org/sqlite driver. Only successful runs are recorded.
package database
