// Package simulator defines the boundary between the ABC-SMC engine and
// the stochastic simulator it drives. The simulator itself — SSA,
// multi-scale SSA, or AEM kernels — stays out of scope; this package
// specifies only the contract: a Runner that executes one trajectory for
// a given Model, and a Handle that owns the parameter slots (gdata,
// ldata) and the scheduled-event table a proposal is written into before
// each run.
//
// Handle is consumed, not owned: the ABC loop clones a Handle per worker
// so that concurrent trajectories never share mutable parameter state;
// each worker writes into its own thread-local scratch and hands the
// result back to the loop on completion.
package simulator
