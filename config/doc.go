// Package config provides functional-option run configuration for an
// ABC-SMC fit: particle counts, concurrency, the optional explicit
// tolerance schedule, and logging.
package config
