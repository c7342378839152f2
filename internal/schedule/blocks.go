package schedule

import (
	"errors"
	"fmt"
	"sort"
)

// Block is a maximal run of contiguous selected hours. Each block becomes
// one persisted reservation row.
type Block struct {
	StartHour     int `json:"start_hour"`
	DurationHours int `json:"duration_hours"`
}

// Label formats the block start as "HH:00".
func (b Block) Label() string {
	return fmt.Sprintf("%02d:00", b.StartHour%24)
}

// ErrNoHours is returned when a selection contains no hours. Callers must
// reject empty selections before building a reservation.
var ErrNoHours = errors.New("no hours selected")

// ErrHourOutOfRange rejects hours outside the day's axis. Hours past
// midnight are encoded as 24+, so the axis runs 0..47.
var ErrHourOutOfRange = errors.New("hour out of range")

// MaxAxisHour is the exclusive upper bound of the hour axis.
const MaxAxisHour = 48

// Coalesce merges an unordered, possibly non-contiguous hour selection into
// the minimal set of contiguous blocks, ascending by start hour. Duplicate
// hours are collapsed. A single hour yields one block of duration 1.
func Coalesce(hours []int) ([]Block, error) {
	if len(hours) == 0 {
		return nil, ErrNoHours
	}

	sorted := make([]int, 0, len(hours))
	seen := make(map[int]struct{}, len(hours))
	for _, h := range hours {
		if h < 0 || h >= MaxAxisHour {
			return nil, fmt.Errorf("%w: %d", ErrHourOutOfRange, h)
		}
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		sorted = append(sorted, h)
	}
	sort.Ints(sorted)

	blocks := []Block{{StartHour: sorted[0], DurationHours: 1}}
	for _, h := range sorted[1:] {
		last := &blocks[len(blocks)-1]
		if h == last.StartHour+last.DurationHours {
			last.DurationHours++
			continue
		}
		blocks = append(blocks, Block{StartHour: h, DurationHours: 1})
	}
	return blocks, nil
}

// TotalHours sums the durations of all blocks.
func TotalHours(blocks []Block) int {
	total := 0
	for _, b := range blocks {
		total += b.DurationHours
	}
	return total
}
