// Package cache provides the canonical get-or-create maps behind every accessor,
// modifier and constructor cache.
//
// Entries are never evicted. Racing computations for the same key are allowed; the first
// value stored wins and is returned to every caller.
package cache
