package events

import (
	"fmt"
	"sort"
	"time"
)

// TimeOriginKind distinguishes whether an EventTable's Time column was
// supplied as plain integers or as calendar dates. Recasting this as
// explicit, inspectable metadata (rather than inferring it from whatever
// happens to be stored) is what lets ToRows render the table back in its
// original shape.
type TimeOriginKind int

const (
	// TimeOriginInt marks a table whose Time values were already integers.
	TimeOriginInt TimeOriginKind = iota
	// TimeOriginDate marks a table whose Time values were calendar dates,
	// normalized by subtracting Day.
	TimeOriginDate
)

// TimeOrigin records how a table's Time column was normalized.
type TimeOrigin struct {
	Kind TimeOriginKind
	Day  time.Time // reference day; zero value when Kind == TimeOriginInt
}

// KindOriginKind distinguishes whether an EventTable's event column was
// supplied as integers or as string labels.
type KindOriginKind int

const (
	// KindOriginInt marks a table whose Event values were already Kind/int.
	KindOriginInt KindOriginKind = iota
	// KindOriginString marks a table whose Event values were string labels.
	KindOriginString
)

// EventTable is a normalized, validated, time-ordered scheduled-event set,
// plus the auxiliary Select (E) and Shift (N) matrices. Values are
// immutable after construction; every accessor returns copies or read-only
// views.
type EventTable struct {
	rows       []Row
	timeOrigin TimeOrigin
	kindOrigin KindOriginKind
	sel        *SelectMatrix
	shift      *ShiftMatrix
}

// config holds the resolved state of the functional Options passed to
// NewEventTable: unexported fields set by the With... constructors, which
// NewEventTable applies in order before validating rows.
type config struct {
	dateOrigin    *time.Time
	sel           *SelectMatrix
	shift         *ShiftMatrix
	skipSelectRng bool
}

// Option configures NewEventTable.
type Option func(*config)

// WithDateOrigin supplies the reference day subtracted from calendar-date
// Time values. Required iff any RawRow.Time is a time.Time.
func WithDateOrigin(t0 time.Time) Option {
	return func(c *config) { c.dateOrigin = &t0 }
}

// WithSelectMatrix attaches E, enabling range validation of each row's
// Select field against E's column count and row-label cross-validation
// against a WithShiftMatrix.
func WithSelectMatrix(sel *SelectMatrix) Option {
	return func(c *config) { c.sel = sel }
}

// WithShiftMatrix attaches N.
func WithShiftMatrix(shift *ShiftMatrix) Option {
	return func(c *config) { c.shift = shift }
}

// NewEventTable validates and normalizes rows into an EventTable, sorted
// into execution order per RowLess. Construction fails fast: on the first
// invariant violation, a descriptive error identifying the offending row
// and field is returned and no partial object is exposed.
func NewEventTable(rows []RawRow, opts ...Option) (*EventTable, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}

	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.sel != nil && cfg.shift != nil {
		if !sameLabels(cfg.sel.RowLabels(), cfg.shift.RowLabels()) {
			return nil, ErrRowLabelMismatch
		}
	}

	kindOrigin := KindOriginInt
	timeOrigin := TimeOrigin{Kind: TimeOriginInt}
	if cfg.dateOrigin != nil {
		timeOrigin = TimeOrigin{Kind: TimeOriginDate, Day: *cfg.dateOrigin}
	}

	normalized := make([]Row, len(rows))
	for i, raw := range rows {
		row, sawString, sawDate, err := normalizeRow(raw, cfg)
		if err != nil {
			return nil, fmt.Errorf("events: row %d: %w", i, err)
		}
		if sawString {
			kindOrigin = KindOriginString
		}
		if sawDate && cfg.dateOrigin == nil {
			return nil, fmt.Errorf("events: row %d: %w", i, ErrMissingOrigin)
		}
		normalized[i] = row
	}

	sort.SliceStable(normalized, func(i, j int) bool { return RowLess(normalized[i], normalized[j]) })

	return &EventTable{
		rows:       normalized,
		timeOrigin: timeOrigin,
		kindOrigin: kindOrigin,
		sel:        cfg.sel,
		shift:      cfg.shift,
	}, nil
}

// normalizeRow validates and converts one RawRow into a Row.
func normalizeRow(raw RawRow, cfg *config) (row Row, sawString, sawDate bool, err error) {
	switch v := raw.Event.(type) {
	case Kind:
		row.Kind = v
	case int:
		row.Kind = Kind(v)
	case string:
		k, perr := ParseKind(v)
		if perr != nil {
			return Row{}, false, false, perr
		}
		row.Kind = k
		sawString = true
	default:
		return Row{}, false, false, fmt.Errorf("%w: unsupported event value %T", ErrInvalidKind, raw.Event)
	}
	if !validKind(row.Kind) {
		return Row{}, false, false, fmt.Errorf("%w: %d", ErrInvalidKind, row.Kind)
	}

	switch v := raw.Time.(type) {
	case int:
		row.Time = v
	case time.Time:
		sawDate = true
		if cfg.dateOrigin != nil {
			row.Time = int(v.Sub(*cfg.dateOrigin).Hours() / 24)
		}
	default:
		return Row{}, false, false, fmt.Errorf("%w: unsupported time value %T", ErrInvalidTime, raw.Time)
	}
	if !sawDate && row.Time <= 0 {
		return Row{}, sawString, sawDate, ErrInvalidTime
	}
	if sawDate && cfg.dateOrigin != nil && row.Time <= 0 {
		return Row{}, sawString, sawDate, ErrInvalidTime
	}

	if raw.Node < 1 {
		return Row{}, sawString, sawDate, ErrInvalidNode
	}
	row.Node = raw.Node

	if row.Kind == ExtTransfer {
		if raw.Dest < 1 {
			return Row{}, sawString, sawDate, ErrMissingDest
		}
		row.Dest = raw.Dest
	}

	if raw.N < 0 {
		return Row{}, sawString, sawDate, ErrInvalidCount
	}
	row.N = raw.N

	if raw.Proportion < 0 || raw.Proportion > 1 {
		return Row{}, sawString, sawDate, ErrInvalidProportion
	}
	row.Proportion = raw.Proportion

	if raw.Select < 1 {
		return Row{}, sawString, sawDate, ErrInvalidSelect
	}
	if cfg.sel != nil {
		_, cols := cfg.sel.Dims()
		if raw.Select > cols {
			return Row{}, sawString, sawDate, ErrInvalidSelect
		}
	}
	row.Select = raw.Select

	if row.Kind == IntTransfer {
		if raw.Shift < 1 {
			return Row{}, sawString, sawDate, ErrMissingShift
		}
		row.Shift = raw.Shift
	}

	return row, sawString, sawDate, nil
}

// RowLess implements the lexicographic (time, kind, select) execution
// order rows are sorted into before a run.
func RowLess(a, b Row) bool {
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	return a.Select < b.Select
}

// Len returns the number of rows.
func (t *EventTable) Len() int { return len(t.rows) }

// Rows returns a defensive copy of the normalized, sorted rows.
func (t *EventTable) Rows() []Row {
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// Select returns the attached E matrix, or nil.
func (t *EventTable) Select() *SelectMatrix { return t.sel }

// Shift returns the attached N matrix, or nil.
func (t *EventTable) Shift() *ShiftMatrix { return t.shift }

// TimeOrigin reports how the Time column was normalized.
func (t *EventTable) TimeOrigin() TimeOrigin { return t.timeOrigin }

// ToRows renders the table back into its original caller-facing shape:
// Event as a string when the table was built from string labels, Time as a
// time.Time when the table was built from calendar dates. This is the
// inverse of normalizeRow, driven entirely by the explicit origin metadata
// recorded at construction, never inferred from the row values themselves.
func (t *EventTable) ToRows() []RawRow {
	out := make([]RawRow, len(t.rows))
	for i, r := range t.rows {
		raw := RawRow{
			Node:       r.Node,
			Dest:       r.Dest,
			N:          r.N,
			Proportion: r.Proportion,
			Select:     r.Select,
			Shift:      r.Shift,
		}
		if t.kindOrigin == KindOriginString {
			raw.Event = r.Kind.String()
		} else {
			raw.Event = int(r.Kind)
		}
		if t.timeOrigin.Kind == TimeOriginDate {
			raw.Time = t.timeOrigin.Day.AddDate(0, 0, r.Time)
		} else {
			raw.Time = r.Time
		}
		out[i] = raw
	}
	return out
}
