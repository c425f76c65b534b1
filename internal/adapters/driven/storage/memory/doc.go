// Package memory provides in-memory implementations of the driven storage
// ports. main falls back to them when the cache database or the session
// file cannot be opened; nothing survives the process.
package memory
