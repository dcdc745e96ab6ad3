package board

import (
	"strconv"
	"strings"
)

// Placeholder is rendered in place of any absent detail value.
const Placeholder = "N/A"

// OrPlaceholder substitutes the literal placeholder for empty values so
// cards never render an empty string.
func OrPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

// Column is one board column: a status/phase label and the records sharing
// it, in their original relative order.
type Column[T any] struct {
	Label string
	Cards []T
}

// Group partitions records into columns keyed by label(record). Column
// order: labels with a parsable leading number sort ascending by that
// number; the rest follow in first-encounter order. Grouping is stable and
// never mutates the input.
func Group[T any](records []T, label func(T) string) []Column[T] {
	idx := map[string]int{}
	cols := []Column[T]{}
	for _, r := range records {
		l := label(r)
		i, ok := idx[l]
		if !ok {
			i = len(cols)
			idx[l] = i
			cols = append(cols, Column[T]{Label: l})
		}
		cols[i].Cards = append(cols[i].Cards, r)
	}

	// Insertion sort keeps equal keys in encounter order.
	ordered := make([]Column[T], 0, len(cols))
	for _, c := range cols {
		pos := len(ordered)
		for pos > 0 && lessLabel(c.Label, ordered[pos-1].Label) {
			pos--
		}
		ordered = append(ordered, Column[T]{})
		copy(ordered[pos+1:], ordered[pos:])
		ordered[pos] = c
	}
	return ordered
}

func lessLabel(a, b string) bool {
	na, oka := numericPrefix(a)
	nb, okb := numericPrefix(b)
	switch {
	case oka && okb:
		return na < nb
	case oka:
		return true // numbered labels sort before unnumbered ones
	default:
		return false
	}
}

// numericPrefix parses the leading digit run of a label ("2. Build" -> 2).
func numericPrefix(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
