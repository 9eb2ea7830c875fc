// Package sqlite is the embedded order store used for local runs and
// tests. It mirrors the postgres adapter on top of modernc.org/sqlite.
package sqlite
