package particle

import "fmt"

// Store is the ordered list of committed Generations a run accumulates.
// All mutation goes through Push, which enforces the strictly-decreasing
// tolerance invariant across generations.
type Store struct {
	generations []*Generation
}

// NewStore returns an empty Store.
func NewStore() *Store { return &Store{} }

// Len returns the number of committed generations.
func (s *Store) Len() int { return len(s.generations) }

// Push appends g, validating that its tolerance is strictly less than the
// previous generation's, componentwise, when a previous generation exists.
func (s *Store) Push(g *Generation) error {
	if len(s.generations) > 0 {
		prev := s.generations[len(s.generations)-1]
		if prev.S() != g.S() {
			return ErrToleranceDimensionMismatch
		}
		for i, eps := range g.eps {
			if eps >= prev.eps[i] {
				return fmt.Errorf("%w: statistic %d: new=%v prev=%v", ErrToleranceNotDecreasing, i, eps, prev.eps[i])
			}
		}
	}
	s.generations = append(s.generations, g)
	return nil
}

// At returns the generation at index i (0-based).
func (s *Store) At(i int) *Generation { return s.generations[i] }

// Last returns the most recently committed generation, or an error if the
// store is empty.
func (s *Store) Last() (*Generation, error) {
	if len(s.generations) == 0 {
		return nil, ErrEmptyStore
	}
	return s.generations[len(s.generations)-1], nil
}

// Generations returns the full committed history, oldest first.
func (s *Store) Generations() []*Generation { return append([]*Generation(nil), s.generations...) }

// ToleranceHistory materializes the S×G tolerance matrix a run carries,
// one column per generation.
func (s *Store) ToleranceHistory() [][]float64 {
	if len(s.generations) == 0 {
		return nil
	}
	sCount := s.generations[0].S()
	history := make([][]float64, sCount)
	for stat := 0; stat < sCount; stat++ {
		history[stat] = make([]float64, len(s.generations))
		for g, gen := range s.generations {
			history[stat][g] = gen.eps[stat]
		}
	}
	return history
}

// MaterializeX builds the N_p×k×G view of accepted particle values across
// every committed generation, one [][]float64 (N_p x k) per generation.
// This is computed on demand rather than kept as a standing field, since
// callers only need it for post-hoc inspection or export.
func (s *Store) MaterializeX() [][][]float64 {
	out := make([][][]float64, len(s.generations))
	for g, gen := range s.generations {
		np, k := gen.NP(), gen.K()
		rows := make([][]float64, np)
		for i := 0; i < np; i++ {
			row := make([]float64, k)
			copy(row, gen.Row(i))
			rows[i] = row
		}
		out[g] = rows
	}
	return out
}
