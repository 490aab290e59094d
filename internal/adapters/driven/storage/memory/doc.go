// Package memory provides in-memory implementations of driven ports.
// They back tests and act as the fallback when persistent storage is
// disabled.
package memory
