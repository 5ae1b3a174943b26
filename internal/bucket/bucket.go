// Package bucket windows tracked events into fixed time intervals and groups
// them by categorical dimensions.
//
// Grouping replaces a relational GROUP BY: one pass over the input builds a
// (bucket, dimension value) -> (sum, count) accumulator, which is finalized
// into one Row per bucket. Every Row carries every value of every dimension,
// zero-filled, so consumers never branch on missing keys.
package bucket

import (
	"sort"

	"github.com/PratikDhanave/venue-analytics-service/internal/models"
)

// Aggregation selects how grouped values are reduced.
type Aggregation int

const (
	// Mean averages the values of a group.
	Mean Aggregation = iota
	// Count counts the rows of a group that carry a value.
	Count
)

// Index returns floor(epoch / interval). interval must be positive.
func Index(epoch, interval int64) int64 {
	q := epoch / interval
	if epoch%interval != 0 && (epoch < 0) != (interval < 0) {
		q--
	}
	return q
}

// Start returns the first epoch second of bucket index.
func Start(index, interval int64) int64 {
	return index * interval
}

// Dimension is a categorical attribute of an event with a closed set of values.
type Dimension struct {
	Name   string
	Values []string
	Key    func(models.TrackedEvent) *string
}

// Demographic dimensions of a tracked event.
var (
	Gender = Dimension{
		Name:   "gender",
		Values: models.Genders,
		Key:    func(e models.TrackedEvent) *string { return e.Gender },
	}
	Ethnicity = Dimension{
		Name:   "ethnicity",
		Values: models.Ethnicities,
		Key:    func(e models.TrackedEvent) *string { return e.Ethnicity },
	}
	AgeBand = Dimension{
		Name:   "age",
		Values: models.AgeBands,
		Key:    func(e models.TrackedEvent) *string { return e.AgeBand },
	}
	Demographics = []Dimension{Gender, Ethnicity, AgeBand}
)

// ValueFunc extracts the measured value of an event; ok is false for null.
type ValueFunc func(models.TrackedEvent) (v float64, ok bool)

// Happiness measures the happiness score.
func Happiness(e models.TrackedEvent) (float64, bool) {
	if e.Happiness == nil {
		return 0, false
	}
	return float64(*e.Happiness), true
}

// Row is one finalized bucket.
type Row struct {
	Index  int64
	Start  int64
	Values map[string]float64
}

type accumulator struct {
	sum   float64
	count int
}

func (a accumulator) result(agg Aggregation) float64 {
	if agg == Count {
		return float64(a.count)
	}
	if a.count == 0 {
		return 0
	}
	return a.sum / float64(a.count)
}

// Group buckets events by interval and reduces value per (bucket, dimension value).
// Events whose value is null are ignored; events without a dimension value are
// ignored for that dimension only. Rows are returned in ascending bucket order.
func Group(events []models.TrackedEvent, interval int64, dims []Dimension, agg Aggregation, value ValueFunc) []Row {
	if interval <= 0 || len(events) == 0 {
		return []Row{}
	}

	buckets := make(map[int64]map[string]accumulator)
	for _, e := range events {
		v, ok := value(e)
		if !ok {
			continue
		}
		idx := Index(e.Epoch, interval)
		accs, ok := buckets[idx]
		if !ok {
			accs = make(map[string]accumulator)
			buckets[idx] = accs
		}
		for _, d := range dims {
			k := d.Key(e)
			if k == nil {
				continue
			}
			acc := accs[*k]
			acc.sum += v
			acc.count++
			accs[*k] = acc
		}
	}

	indexes := make([]int64, 0, len(buckets))
	for idx := range buckets {
		indexes = append(indexes, idx)
	}
	sort.Slice(indexes, func(i, j int) bool { return indexes[i] < indexes[j] })

	rows := make([]Row, 0, len(indexes))
	for _, idx := range indexes {
		values := make(map[string]float64)
		for _, d := range dims {
			for _, dv := range d.Values {
				values[dv] = 0
			}
		}
		for k, acc := range buckets[idx] {
			values[k] = acc.result(agg)
		}
		rows = append(rows, Row{Index: idx, Start: Start(idx, interval), Values: values})
	}
	return rows
}

// GenderTotal averages the Male and Female values of a row. A zero value is
// treated as "no data" and the other gender's value is returned instead.
func GenderTotal(values map[string]float64) float64 {
	male, female := values[models.GenderMale], values[models.GenderFemale]
	switch {
	case female == 0:
		return male
	case male == 0:
		return female
	default:
		return (male + female) / 2
	}
}
