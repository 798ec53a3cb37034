package domain

import (
	"fmt"
	"strings"
)

// Outcome is the binary survival outcome of a passenger.
type Outcome int

const (
	// OutcomeDied is the "did not survive" outcome, encoded as 0 in the dataset.
	OutcomeDied Outcome = 0
	// OutcomeSurvived is the positive outcome, encoded as 1 in the dataset.
	OutcomeSurvived Outcome = 1
)

// Outcomes lists every outcome in legend order.
var Outcomes = []Outcome{OutcomeDied, OutcomeSurvived}

// ParseOutcome converts a raw dataset cell into an Outcome.
func ParseOutcome(raw string) (Outcome, error) {
	switch strings.TrimSpace(raw) {
	case "0":
		return OutcomeDied, nil
	case "1":
		return OutcomeSurvived, nil
	default:
		return 0, fmt.Errorf("%w: invalid outcome value %q", ErrDataUnavailable, raw)
	}
}

// Label returns the legend label for the outcome.
func (o Outcome) Label() string {
	if o == OutcomeSurvived {
		return "Survived"
	}
	return "Did not survive"
}

// Dataset column names the summary depends on.
const (
	ColumnGroup   = "Sex"
	ColumnOutcome = "Survived"
)

// Passenger is one immutable dataset row.
type Passenger struct {
	// Sex is the grouping attribute.
	Sex string
	// Survived is the outcome attribute.
	Survived Outcome
	// Record holds every raw cell of the row in column order.
	Record []string
}

// Dataset is the fully loaded tabular file.
type Dataset struct {
	Columns []string
	Rows    []Passenger
}

// Len returns the number of rows.
func (d Dataset) Len() int {
	return len(d.Rows)
}
