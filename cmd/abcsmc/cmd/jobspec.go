package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dhelms-lab/abcsmc/config"
	"github.com/dhelms-lab/abcsmc/priors"
	"github.com/dhelms-lab/abcsmc/simulator"
	"gonum.org/v1/gonum/mat"

	"github.com/dhelms-lab/abcsmc/cmd/abcsmc/internal/demo"
	"github.com/dhelms-lab/abcsmc/events"
)

// priorSpec is one JSON-encoded prior in a job file.
type priorSpec struct {
	Name   string  `json:"name"`
	Family string  `json:"family"`
	P1     float64 `json:"p1"`
	P2     float64 `json:"p2"`
}

// jobSpec is the on-disk job description the fit and continue subcommands
// read: the priors and demo target defining the run, plus its tolerance
// schedule (either an explicit S x G matrix or an oversample count for
// adaptive selection).
type jobSpec struct {
	Priors     []priorSpec `json:"priors"`
	Target     []float64   `json:"target"`
	Particles  int         `json:"particles"`
	NInit      int         `json:"n_init,omitempty"`
	Schedule   [][]float64 `json:"schedule,omitempty"`
	Seed       uint64      `json:"seed"`
	MaxRejects int         `json:"max_rejections,omitempty"`
}

var familyByName = map[string]priors.Family{
	"uniform":   priors.Uniform,
	"normal":    priors.Normal,
	"lognormal": priors.LogNormal,
	"gamma":     priors.Gamma,
}

func loadJobSpec(path string) (*jobSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cmd: loadJobSpec: %w", err)
	}
	defer f.Close()

	var js jobSpec
	if err := json.NewDecoder(f).Decode(&js); err != nil {
		return nil, fmt.Errorf("cmd: loadJobSpec: decoding %s: %w", path, err)
	}
	return &js, nil
}

// buildPriors resolves js's prior list into a gdata-targeted PriorSet.
func (js *jobSpec) buildPriors() (*priors.Set, error) {
	names := make([]string, len(js.Priors))
	ps := make([]priors.Prior, len(js.Priors))
	for i, spec := range js.Priors {
		family, ok := familyByName[spec.Family]
		if !ok {
			return nil, fmt.Errorf("cmd: unknown prior family %q", spec.Family)
		}
		p, err := priors.New(spec.Name, family, spec.P1, spec.P2)
		if err != nil {
			return nil, fmt.Errorf("cmd: building prior %q: %w", spec.Name, err)
		}
		names[i] = spec.Name
		ps[i] = p
	}
	return priors.NewSet(names, nil, ps...)
}

// buildHandle constructs the demo gdata Handle for js: a single Enter
// event on node 1, and one gdata slot per prior, in prior order.
func (js *jobSpec) buildHandle(names []string) (*simulator.Handle, error) {
	tbl, err := events.NewEventTable([]events.RawRow{
		{Event: events.Enter, Time: 1, Node: 1, Dest: 0, N: 1, Proportion: 0, Select: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("cmd: building demo event table: %w", err)
	}
	gdata := make([]float64, len(names))
	return simulator.NewHandle(demo.Runner{Target: js.Target}, tbl, names, gdata, nil, nil, nil)
}

// buildConfig applies js's schedule/n_init choice, mutually exclusive per
// config.RunConfig's Adaptive() semantics. concurrency overrides the
// runtime.NumCPU() default when positive. extraOpts is appended last, so
// callers (e.g. config.WithLogger) can override anything above.
func (js *jobSpec) buildConfig(concurrency int, extraOpts ...config.Option) (*config.RunConfig, error) {
	if js.Particles <= 0 {
		return nil, fmt.Errorf("cmd: job spec: particles must be > 0")
	}
	opts := []config.Option{config.WithSeed(js.Seed)}
	if js.MaxRejects > 0 {
		opts = append(opts, config.WithMaxRejections(js.MaxRejects))
	}
	if concurrency > 0 {
		opts = append(opts, config.WithConcurrency(concurrency))
	}
	if len(js.Schedule) > 0 {
		opts = append(opts, config.WithToleranceSchedule(scheduleToDense(js.Schedule)))
	} else if js.NInit > 0 {
		opts = append(opts, config.WithNInit(js.NInit))
	} else {
		return nil, fmt.Errorf("cmd: job spec: exactly one of schedule or n_init must be set")
	}
	opts = append(opts, extraOpts...)
	return config.New(js.Particles, opts...), nil
}

func scheduleToDense(schedule [][]float64) *mat.Dense {
	rows := len(schedule)
	cols := len(schedule[0])
	d := mat.NewDense(rows, cols, nil)
	for r, row := range schedule {
		d.SetRow(r, row)
	}
	return d
}
