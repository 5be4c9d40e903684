package sensor

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const (
	// CorePrefix starts the label of every on-die CPU core sensor.
	CorePrefix = "coretemp"
	// GPUMarker appears (case-sensitive) in the label of GPU sensors.
	GPUMarker = "gpu"
)

// ErrEnumerationMismatch means the provider reported more core temperature
// sensors than CPUs, so a reading has no usage value to pair with.
var ErrEnumerationMismatch = errors.New("core sensor count exceeds cpu count")

// Group is a set of group tags. A label can match both predicates.
type Group uint8

const (
	GroupCore Group = 1 << iota
	GroupGPU
)

// Has reports whether g contains every tag in o.
func (g Group) Has(o Group) bool { return g&o == o && o != 0 }

func (g Group) String() string {
	switch g {
	case 0:
		return "other"
	case GroupCore:
		return "core"
	case GroupGPU:
		return "gpu"
	case GroupCore | GroupGPU:
		return "core+gpu"
	}
	return fmt.Sprintf("Group(%d)", uint8(g))
}

// Tag maps a label to its groups. The core and GPU predicates are evaluated
// independently; there is no precedence between them.
func Tag(label string) Group {
	var g Group
	if strings.HasPrefix(label, CorePrefix) {
		g |= GroupCore
	}
	if strings.Contains(label, GPUMarker) {
		g |= GroupGPU
	}
	return g
}

// Ordinal extracts the first run of decimal digits in label.
// "coretemp-Core 12" yields 12; a label without digits yields 0.
func Ordinal(label string) int {
	start := strings.IndexFunc(label, isDigit)
	if start < 0 {
		return 0
	}
	end := start
	for end < len(label) && isDigit(rune(label[end])) {
		end++
	}
	n, err := strconv.Atoi(label[start:end])
	if err != nil {
		return 0
	}
	return n
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// Classification holds the two ordered groups for one snapshot.
type Classification struct {
	Cores []Reading
	GPUs  []Reading
}

// Classify filters sensors into the core and GPU groups, each ordered
// ascending by ordinal. Equal ordinals keep their enumeration order.
func Classify(sensors []Sensor) Classification {
	var c Classification
	for _, s := range sensors {
		tag := Tag(s.Label)
		r := Reading{Label: s.Label, Index: Ordinal(s.Label), Temp: s.Temp}
		if tag.Has(GroupCore) {
			c.Cores = append(c.Cores, r)
		}
		if tag.Has(GroupGPU) {
			c.GPUs = append(c.GPUs, r)
		}
	}
	byIndex := func(a, b Reading) int { return cmp.Compare(a.Index, b.Index) }
	slices.SortStableFunc(c.Cores, byIndex)
	slices.SortStableFunc(c.GPUs, byIndex)
	return c
}

// PairUsage pairs core reading i with usage[i]. Running out of usage values
// is an enumeration mismatch; extra usage values are ignored.
func PairUsage(cores []Reading, usage []float64) ([]CoreReading, error) {
	out := make([]CoreReading, 0, len(cores))
	for i, r := range cores {
		if i >= len(usage) {
			return nil, fmt.Errorf("%w: reading %d (%s) with %d cpus", ErrEnumerationMismatch, i, r.Label, len(usage))
		}
		out = append(out, CoreReading{Reading: r, Usage: usage[i]})
	}
	return out, nil
}
