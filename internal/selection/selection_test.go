package selection

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []int
	}{
		{"empty means all", "", nil},
		{"all keyword", "all", nil},
		{"all keyword uppercase", "ALL", nil},
		{"single", "5", []int{5}},
		{"range", "1-5", []int{1, 2, 3, 4, 5}},
		{"reversed range swaps", "5-1", []int{1, 2, 3, 4, 5}},
		{"mixed ranges and singles", "1-5,10-15,20", []int{1, 2, 3, 4, 5, 10, 11, 12, 13, 14, 15, 20}},
		{"duplicates removed", "3,1-3,2", []int{1, 2, 3}},
		{"whitespace tolerated", " 1 - 3 , 7 ", []int{1, 2, 3, 7}},
		{"garbage means all", "abc", nil},
		{"garbage token dropped", "abc,4", []int{4}},
		{"half-garbage range dropped", "1-x,9", []int{9}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.input)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Parse(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	cases := []struct {
		name    string
		indices []int
		want    string
	}{
		{"empty", nil, "all episodes"},
		{"singleton", []int{7}, "episode 7"},
		{"contiguous", []int{1, 2, 3, 4, 5}, "episodes 1-5"},
		{"gappy", []int{1, 3, 9}, "episodes 1, 3, 9"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Describe(tc.indices); got != tc.want {
				t.Fatalf("Describe(%v) = %q, want %q", tc.indices, got, tc.want)
			}
		})
	}
}

func TestDescribeParseRoundTrip(t *testing.T) {
	for _, input := range []string{"", "all", "5", "1-5", "1-5,10-15,20"} {
		first := Parse(input)
		second := Parse(Describe(first))
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("round trip for %q: %v != %v", input, first, second)
		}
	}
}

func TestContains(t *testing.T) {
	if !Contains(nil, 42) {
		t.Fatal("empty selection must contain everything")
	}
	set := []int{1, 3, 5}
	if !Contains(set, 3) || Contains(set, 4) {
		t.Fatalf("unexpected membership results for %v", set)
	}
}
