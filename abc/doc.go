// Package abc orchestrates generations of proposal, simulation, distance
// evaluation, acceptance, weighting, and tolerance selection, driving a
// SimulatorHandle across a tolerance schedule (explicit or adaptive) until
// the schedule is exhausted or the stopping rule fires.
package abc
