package particle

import (
	"encoding/json"

	"gonum.org/v1/gonum/mat"
)

// jsonGeneration is the wire shape for one Generation: matrices flatten
// to row-major slices since gonum's mat.Dense has no exported JSON codec.
type jsonGeneration struct {
	X     []float64 `json:"x"`
	XRows int       `json:"x_rows"`
	XCols int       `json:"x_cols"`
	W     []float64 `json:"w"`
	D     []float64 `json:"d"`
	DRows int       `json:"d_rows"`
	DCols int       `json:"d_cols"`
	Eps   []float64 `json:"eps"`
	NProp int       `json:"nprop"`
}

// MarshalJSON flattens g's matrices row-major alongside its vectors.
func (g *Generation) MarshalJSON() ([]byte, error) {
	xr, xc := g.x.Dims()
	dr, dc := g.d.Dims()
	return json.Marshal(jsonGeneration{
		X:     g.x.RawMatrix().Data,
		XRows: xr,
		XCols: xc,
		W:     g.w,
		D:     g.d.RawMatrix().Data,
		DRows: dr,
		DCols: dc,
		Eps:   g.eps,
		NProp: g.nprop,
	})
}

// UnmarshalJSON reconstructs a Generation, skipping NewGeneration's
// validation since the source was already a validated Generation.
func (g *Generation) UnmarshalJSON(data []byte) error {
	var jg jsonGeneration
	if err := json.Unmarshal(data, &jg); err != nil {
		return err
	}
	g.x = mat.NewDense(jg.XRows, jg.XCols, append([]float64(nil), jg.X...))
	g.w = append([]float64(nil), jg.W...)
	g.d = mat.NewDense(jg.DRows, jg.DCols, append([]float64(nil), jg.D...))
	g.eps = append([]float64(nil), jg.Eps...)
	g.nprop = jg.NProp
	g.ess = ess(g.w)
	return nil
}

// MarshalJSON serializes the full committed generation history in order.
func (s *Store) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.generations)
}

// UnmarshalJSON replaces s's history with the decoded generations,
// bypassing Push's tolerance-monotonicity check on the assumption the
// source was already a validated Store.
func (s *Store) UnmarshalJSON(data []byte) error {
	var gens []*Generation
	if err := json.Unmarshal(data, &gens); err != nil {
		return err
	}
	s.generations = gens
	return nil
}
