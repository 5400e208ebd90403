package events

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// csvColumns is the fixed column order: event, time, node, dest, n,
// proportion, select, shift. time must be an integer day offset; ParseCSV
// rejects calendar dates in that column (date-valued times are accepted
// only by NewEventTable, given a WithDateOrigin option).
var csvColumns = [...]string{"event", "time", "node", "dest", "n", "proportion", "select", "shift"}

// ParseCSV reads a row-oriented event table in the fixed eight-column
// format and constructs an EventTable from it. This is a deliberately
// thin reader over exactly those eight columns, not a general dataframe
// loader: the schema is fixed, so encoding/csv plus strconv is the right
// amount of machinery (see DESIGN.md).
func ParseCSV(r io.Reader, opts ...Option) (*EventTable, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("events: ParseCSV: reading header: %w", err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []RawRow
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("events: ParseCSV: %w", err)
		}
		raw, err := parseCSVRow(record, idx)
		if err != nil {
			return nil, err
		}
		rows = append(rows, raw)
	}
	return NewEventTable(rows, opts...)
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(csvColumns))
	for i, h := range header {
		idx[h] = i
	}
	for _, want := range csvColumns {
		if _, ok := idx[want]; !ok {
			return nil, fmt.Errorf("events: ParseCSV: missing column %q", want)
		}
	}
	return idx, nil
}

func parseCSVRow(record []string, idx map[string]int) (RawRow, error) {
	field := func(name string) string { return record[idx[name]] }

	eventField := field("event")
	var event any
	if n, err := strconv.Atoi(eventField); err == nil {
		event = n
	} else {
		event = eventField
	}

	timeField := field("time")
	timeVal, err := strconv.Atoi(timeField)
	if err != nil {
		return RawRow{}, fmt.Errorf("events: ParseCSV: time %q: only integer day offsets are supported by ParseCSV; use NewEventTable with time.Time values for calendar dates", timeField)
	}

	node, err := strconv.Atoi(field("node"))
	if err != nil {
		return RawRow{}, fmt.Errorf("events: ParseCSV: node: %w", err)
	}
	dest, err := strconv.Atoi(field("dest"))
	if err != nil {
		return RawRow{}, fmt.Errorf("events: ParseCSV: dest: %w", err)
	}
	n, err := strconv.Atoi(field("n"))
	if err != nil {
		return RawRow{}, fmt.Errorf("events: ParseCSV: n: %w", err)
	}
	proportion, err := strconv.ParseFloat(field("proportion"), 64)
	if err != nil {
		return RawRow{}, fmt.Errorf("events: ParseCSV: proportion: %w", err)
	}
	sel, err := strconv.Atoi(field("select"))
	if err != nil {
		return RawRow{}, fmt.Errorf("events: ParseCSV: select: %w", err)
	}
	shift, err := strconv.Atoi(field("shift"))
	if err != nil {
		return RawRow{}, fmt.Errorf("events: ParseCSV: shift: %w", err)
	}

	return RawRow{
		Event:      event,
		Time:       timeVal,
		Node:       node,
		Dest:       dest,
		N:          n,
		Proportion: proportion,
		Select:     sel,
		Shift:      shift,
	}, nil
}
