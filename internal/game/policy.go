package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Policy maps a Difficulty to the number of foxes placed on the board.
// Levels without an explicit entry fall back to their numeric value.
type Policy struct {
	counts []int
}

// DefaultPolicy places one fox per level: easy 0, normal 1, hard 2.
func DefaultPolicy() *Policy {
	return &Policy{counts: []int{0, 1, 2}}
}

// NewPolicy builds a policy from per-level fox counts, indexed by Difficulty.
func NewPolicy(counts []int) (*Policy, error) {
	for i, c := range counts {
		if c < 0 {
			return nil, fmt.Errorf("fox count for %v is negative: %d", Difficulty(i), c)
		}
	}
	return &Policy{counts: append([]int(nil), counts...)}, nil
}

// ParsePolicy reads a comma separated list such as "0,1,2".
// An empty string yields DefaultPolicy.
func ParsePolicy(s string) (*Policy, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultPolicy(), nil
	}
	parts := strings.Split(s, ",")
	counts := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("parse fox counts %q: %w", s, err)
		}
		counts = append(counts, n)
	}
	return NewPolicy(counts)
}

// FoxCount returns the fox count for d. The result is not clamped to the
// board; the generator rejects counts that do not fit.
func (p *Policy) FoxCount(d Difficulty) (int, error) {
	if d < 0 {
		return 0, fmt.Errorf("difficulty %d is negative", int(d))
	}
	if int(d) < len(p.counts) {
		return p.counts[d], nil
	}
	return int(d), nil
}

// String renders the policy in the form ParsePolicy accepts.
func (p *Policy) String() string {
	parts := make([]string, len(p.counts))
	for i, c := range p.counts {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ",")
}
