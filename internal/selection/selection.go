// Package selection parses user-supplied episode selections such as "all",
// "5", or "1-5,10-15,20" into sorted 1-based index sets, and renders sets back
// to a human description.
//
// The empty set is the sentinel for "all episodes". Indices are positions in
// the feed's declaration order, not database ids.
package selection

import (
	"sort"
	"strconv"
	"strings"
)

// Parse converts an episode selection string into a sorted, deduplicated set
// of 1-based indices. "all", the empty string, and any token that fails to
// parse contribute nothing; a fully unparseable input therefore yields the
// empty set, which callers must treat as "all episodes". Reversed ranges are
// swapped, and both range bounds are inclusive.
func Parse(input string) []int {
	input = strings.TrimSpace(input)
	if input == "" || strings.EqualFold(input, "all") {
		return nil
	}

	seen := make(map[int]struct{})
	for _, token := range strings.Split(input, ",") {
		for _, index := range parseToken(strings.TrimSpace(token)) {
			seen[index] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return nil
	}
	result := make([]int, 0, len(seen))
	for index := range seen {
		result = append(result, index)
	}
	sort.Ints(result)
	return result
}

func parseToken(token string) []int {
	if token == "" {
		return nil
	}

	if single, err := strconv.Atoi(token); err == nil {
		return []int{single}
	}

	startText, endText, ok := strings.Cut(token, "-")
	if !ok {
		return nil
	}
	start, err := strconv.Atoi(strings.TrimSpace(startText))
	if err != nil {
		return nil
	}
	end, err := strconv.Atoi(strings.TrimSpace(endText))
	if err != nil {
		return nil
	}
	if start > end {
		start, end = end, start
	}

	indices := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		indices = append(indices, i)
	}
	return indices
}

// Describe renders an index set as a human-readable phrase: "all episodes",
// "episode 7", "episodes 1-5" for contiguous sets, or a literal list.
func Describe(indices []int) string {
	if len(indices) == 0 {
		return "all episodes"
	}
	if len(indices) == 1 {
		return "episode " + strconv.Itoa(indices[0])
	}

	if isContiguous(indices) {
		return "episodes " + strconv.Itoa(indices[0]) + "-" + strconv.Itoa(indices[len(indices)-1])
	}

	parts := make([]string, len(indices))
	for i, index := range indices {
		parts[i] = strconv.Itoa(index)
	}
	return "episodes " + strings.Join(parts, ", ")
}

// Contains reports whether the selection includes the given 1-based index.
// The empty selection contains everything.
func Contains(indices []int, index int) bool {
	if len(indices) == 0 {
		return true
	}
	pos := sort.SearchInts(indices, index)
	return pos < len(indices) && indices[pos] == index
}

func isContiguous(indices []int) bool {
	for i := 1; i < len(indices); i++ {
		if indices[i] != indices[i-1]+1 {
			return false
		}
	}
	return true
}
