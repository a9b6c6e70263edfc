package config

import (
	"fmt"
	"strconv"
	"strings"
)

// NumTargets is the number of selectable targets.
const NumTargets = 5

// TargetSet is a set of 0-based target labels, stored as a bit mask.
type TargetSet uint8

// ParseTargetCode decodes a decimal target code: every digit 1-5 selects
// the target with that 1-based number. Order and repetition are irrelevant.
// A code made only of zeros selects nothing; a zero next to other digits,
// or any digit above 5, is an error.
func ParseTargetCode(code string) (TargetSet, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return 0, fmt.Errorf("%w: empty target code", ErrUsage)
	}
	if strings.Trim(code, "0") == "" {
		return 0, nil
	}

	var s TargetSet
	for _, r := range code {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: invalid target code %q", ErrUsage, code)
		}
		d := int(r - '0')
		if d < 1 || d > NumTargets {
			return 0, fmt.Errorf("%w: wrong target %d in code %q", ErrUsage, d, code)
		}
		s |= 1 << (d - 1)
	}
	return s, nil
}

// Has reports whether the 0-based label is selected.
func (s TargetSet) Has(label int) bool {
	return label >= 0 && label < NumTargets && s&(1<<label) != 0
}

// Len returns the number of selected targets.
func (s TargetSet) Len() int {
	return len(s.Labels())
}

// Labels returns the selected 0-based labels in ascending order.
func (s TargetSet) Labels() []int {
	var out []int
	for i := range NumTargets {
		if s.Has(i) {
			out = append(out, i)
		}
	}
	return out
}

// String lists the selected targets 1-based, separated by spaces.
func (s TargetSet) String() string {
	var b strings.Builder
	for _, l := range s.Labels() {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(l + 1))
	}
	return b.String()
}

// targetFlag adapts a TargetSet to flag.Value and remembers whether it was
// set.
type targetFlag struct {
	set     *TargetSet
	defined *bool
}

func (f targetFlag) String() string {
	if f.set == nil {
		return ""
	}
	return f.set.String()
}

func (f targetFlag) Set(v string) error {
	s, err := ParseTargetCode(v)
	if err != nil {
		return err
	}
	*f.set = s
	*f.defined = true
	return nil
}
