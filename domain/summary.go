package domain

import (
	"encoding/base64"
	"fmt"
	"math"
	"sort"
)

// DefaultPreviewRows is how many leading rows the preview table shows.
const DefaultPreviewRows = 5

// GroupCount holds the per-outcome counts of one group value.
type GroupCount struct {
	Group    string
	Died     int
	Survived int
}

// Count returns the count for the given outcome.
func (g GroupCount) Count(o Outcome) int {
	if o == OutcomeSurvived {
		return g.Survived
	}
	return g.Died
}

// Total returns the number of rows in the group.
func (g GroupCount) Total() int {
	return g.Died + g.Survived
}

// GroupSummary maps (group, outcome) pairs to row counts. Groups are sorted by name.
type GroupSummary struct {
	Groups []GroupCount
}

// GroupBySurvival partitions rows by their grouping attribute and outcome.
func GroupBySurvival(rows []Passenger) GroupSummary {
	byGroup := make(map[string]*GroupCount)
	for _, p := range rows {
		gc, ok := byGroup[p.Sex]
		if !ok {
			gc = &GroupCount{Group: p.Sex}
			byGroup[p.Sex] = gc
		}
		if p.Survived == OutcomeSurvived {
			gc.Survived++
		} else {
			gc.Died++
		}
	}

	groups := make([]GroupCount, 0, len(byGroup))
	for _, gc := range byGroup {
		groups = append(groups, *gc)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Group < groups[j].Group
	})

	return GroupSummary{Groups: groups}
}

// IsEmpty reports whether there is nothing to plot.
func (s GroupSummary) IsEmpty() bool {
	return s.Total() == 0
}

// Total returns the sum of all group counts.
func (s GroupSummary) Total() int {
	total := 0
	for _, g := range s.Groups {
		total += g.Total()
	}
	return total
}

// Count returns the count for a (group, outcome) pair, 0 when absent.
func (s GroupSummary) Count(group string, o Outcome) int {
	for _, g := range s.Groups {
		if g.Group == group {
			return g.Count(o)
		}
	}
	return 0
}

// Statistics are the scalar figures shown on the summary page.
type Statistics struct {
	Total    int
	Survived int
	// Rate is the survival percentage rounded to one decimal place.
	Rate float64
}

// ComputeStatistics counts rows and positive outcomes.
func ComputeStatistics(rows []Passenger) (Statistics, error) {
	survived := 0
	for _, p := range rows {
		if p.Survived == OutcomeSurvived {
			survived++
		}
	}

	rate, err := SurvivalRate(survived, len(rows))
	if err != nil {
		return Statistics{}, err
	}

	return Statistics{
		Total:    len(rows),
		Survived: survived,
		Rate:     rate,
	}, nil
}

// SurvivalRate returns survived/total as a percentage rounded to one decimal,
// ties to even.
func SurvivalRate(survived, total int) (float64, error) {
	if total <= 0 {
		return 0, fmt.Errorf("%w: dataset is empty", ErrDataUnavailable)
	}
	pct := float64(survived) / float64(total) * 100
	return math.RoundToEven(pct*10) / 10, nil
}

// PreviewTable is the header plus the leading rows of the dataset.
type PreviewTable struct {
	Columns []string
	Rows    [][]string
}

// NewPreviewTable takes the first n rows of the dataset.
func NewPreviewTable(ds Dataset, n int) PreviewTable {
	if n > ds.Len() {
		n = ds.Len()
	}
	if n < 0 {
		n = 0
	}

	rows := make([][]string, 0, n)
	for _, p := range ds.Rows[:n] {
		rows = append(rows, p.Record)
	}

	return PreviewTable{Columns: ds.Columns, Rows: rows}
}

// IsEmpty reports whether the table has no rows.
func (t PreviewTable) IsEmpty() bool {
	return len(t.Rows) == 0
}

// ChartImage is an encoded PNG ready for inline embedding.
type ChartImage struct {
	PNG    []byte
	Width  int
	Height int
}

// Base64 returns the standard base64 encoding of the PNG bytes.
func (c ChartImage) Base64() string {
	return base64.StdEncoding.EncodeToString(c.PNG)
}

// DataURI returns the image as a data: URI.
func (c ChartImage) DataURI() string {
	return "data:image/png;base64," + c.Base64()
}

// RenderedSummary is the per-request view model of the summary page.
type RenderedSummary struct {
	Preview PreviewTable
	Groups  GroupSummary
	// Chart is nil when no chart could be produced.
	Chart *ChartImage
	Stats Statistics
	// Err is set when the dataset could not be summarized.
	Err error
}

// Unavailable reports whether the summary is in the data-unavailable state.
func (s RenderedSummary) Unavailable() bool {
	return s.Err != nil
}

// ErrorMessage returns the human-readable message for the unavailable state.
func (s RenderedSummary) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return "Error loading Titanic data: " + s.Err.Error()
}

// UnavailableSummary builds the degraded summary carrying err.
func UnavailableSummary(err error) RenderedSummary {
	return RenderedSummary{Err: err}
}
