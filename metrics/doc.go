// Package metrics exposes Prometheus instrumentation for a running fit:
// particles proposed and accepted per generation, generation wall-clock
// time, and the current tolerance.
package metrics
