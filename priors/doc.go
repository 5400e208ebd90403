// Package priors parses and evaluates the independent univariate priors an
// ABC-SMC fit draws parameter proposals from.
//
// A Prior is a tagged variant over four families (Uniform, Normal,
// LogNormal, Gamma), each exposing a uniform {Sample, PDF, LogPDF,
// Contains} interface backed by gonum.org/v1/gonum/stat/distuv. A
// PriorSet binds a sequence of named priors to a single target parameter
// space (gdata or ldata); constructing a set that mixes the two spaces
// is a construction error.
package priors
