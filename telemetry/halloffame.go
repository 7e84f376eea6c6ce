package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
)

// HallEntry is one generation's best genome.
type HallEntry struct {
	GenomeID   int     `json:"genome_id"`
	Generation int     `json:"generation"`
	Fitness    float64 `json:"fitness"`
	Score      int     `json:"score"`
	Ticks      int     `json:"ticks"`
	Cause      string  `json:"cause"`
	Genome     string  `json:"genome"` // plain goNEAT encoding
}

// HallOfFame keeps the fittest generation bests of a run, sorted by fitness descending.
type HallOfFame struct {
	entries []HallEntry
	maxSize int
}

// NewHallOfFame creates a hall holding at most maxSize entries.
func NewHallOfFame(maxSize int) *HallOfFame {
	if maxSize < 1 {
		maxSize = 1
	}
	return &HallOfFame{
		entries: make([]HallEntry, 0, maxSize),
		maxSize: maxSize,
	}
}

// Qualifies reports whether an entry with this fitness would be kept.
// Callers use it to skip encoding genomes that would be dropped.
func (hof *HallOfFame) Qualifies(fitness float64) bool {
	if len(hof.entries) < hof.maxSize {
		return true
	}
	return fitness > hof.entries[len(hof.entries)-1].Fitness
}

// Consider inserts the entry if it qualifies. Returns true if it was added.
func (hof *HallOfFame) Consider(entry HallEntry) bool {
	if !hof.Qualifies(entry.Fitness) {
		return false
	}
	hof.entries = hof.insertEntry(hof.entries, entry)
	return true
}

// insertEntry adds an entry, maintaining descending fitness order.
// Ties keep the earlier entry first.
func (hof *HallOfFame) insertEntry(hall []HallEntry, entry HallEntry) []HallEntry {
	idx := sort.Search(len(hall), func(i int) bool {
		return hall[i].Fitness < entry.Fitness
	})

	hall = append(hall, HallEntry{})
	copy(hall[idx+1:], hall[idx:])
	hall[idx] = entry

	if len(hall) > hof.maxSize {
		hall = hall[:hof.maxSize]
	}
	return hall
}

// Entries returns a copy of the hall, best first.
func (hof *HallOfFame) Entries() []HallEntry {
	return append([]HallEntry(nil), hof.entries...)
}

// Best returns the top entry.
func (hof *HallOfFame) Best() (HallEntry, bool) {
	if len(hof.entries) == 0 {
		return HallEntry{}, false
	}
	return hof.entries[0], true
}

// Size returns the number of entries.
func (hof *HallOfFame) Size() int {
	return len(hof.entries)
}

// MarshalJSON serializes the hall as an array, best first.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(hof.entries, "", "  ")
}

// LoadHallOfFameFromFile reads a hall written by OutputManager.WriteHallOfFame.
func LoadHallOfFameFromFile(path string) (*HallOfFame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hall of fame: %w", err)
	}

	var raw []HallEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing hall of fame JSON: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("hall of fame is empty")
	}

	hof := NewHallOfFame(len(raw))
	for _, e := range raw {
		hof.entries = hof.insertEntry(hof.entries, e)
	}
	return hof, nil
}
