// Package tolerance selects the next generation's tolerance vector when
// the caller supplied no explicit tolerance schedule: sort-and-truncate for
// generation 1, KLIEP-based supremum selection from generation 2 onward,
// and the stopping rule that ends adaptive runs.
package tolerance
