// Package journey extracts per-identity area sequences from tracked events and
// mines the most frequent fixed-length paths through a center.
package journey

import (
	"sort"
	"strings"

	"github.com/PratikDhanave/venue-analytics-service/internal/models"
)

// DefaultLength is the number of consecutive areas in a mined path.
const DefaultLength = 3

// pathSep joins area names into a map key; area names never contain it.
const pathSep = "\x1f"

// Frequency is a path and how many identities walked it.
type Frequency struct {
	Path    []string
	Count   int
	Percent float64
}

// Sequences returns, per identity, the time-ordered areas it visited with Free
// rows removed and consecutive repeats collapsed.
func Sequences(events []models.TrackedEvent) map[string][]string {
	ordered := make([]models.TrackedEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Epoch < ordered[j].Epoch })

	seqs := make(map[string][]string)
	for _, e := range ordered {
		if e.AreaType == models.AreaTypeFree || e.AreaName == "" {
			continue
		}
		seqs[e.IdentityID] = append(seqs[e.IdentityID], e.AreaName)
	}
	for id, seq := range seqs {
		seqs[id] = Dedupe(seq)
	}
	return seqs
}

// Dedupe collapses consecutive repeats of the same area.
func Dedupe(seq []string) []string {
	out := make([]string, 0, len(seq))
	for _, s := range seq {
		if len(out) > 0 && out[len(out)-1] == s {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Windows slices seq into contiguous windows of length n, sliding by one.
// Sequences shorter than n yield no windows.
func Windows(seq []string, n int) [][]string {
	if n <= 0 || len(seq) < n {
		return nil
	}
	out := make([][]string, 0, len(seq)-n+1)
	for i := 0; i+n <= len(seq); i++ {
		out = append(out, seq[i:i+n])
	}
	return out
}

// MostTraveled counts, for every distinct n-step path, the identities whose
// sequence contains it at least once. Percent is relative to every identity
// with at least one non-Free row. Results are ordered by count, then path.
func MostTraveled(events []models.TrackedEvent, n int) ([]Frequency, int) {
	seqs := Sequences(events)
	total := len(seqs)
	if total == 0 {
		return []Frequency{}, 0
	}

	counts := make(map[string]int)
	for _, seq := range seqs {
		seen := make(map[string]struct{})
		for _, w := range Windows(seq, n) {
			key := strings.Join(w, pathSep)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			counts[key]++
		}
	}

	out := make([]Frequency, 0, len(counts))
	for key, c := range counts {
		out = append(out, Frequency{
			Path:    strings.Split(key, pathSep),
			Count:   c,
			Percent: float64(c) / float64(total),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return strings.Join(out[i].Path, pathSep) < strings.Join(out[j].Path, pathSep)
	})
	return out, total
}
