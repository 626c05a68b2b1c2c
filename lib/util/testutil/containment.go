package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertContainsSubseq asserts that subseq appears in list as a contiguous run
func AssertContainsSubseq[T any](t *testing.T, list, subseq []T) bool {
	t.Helper()
	if start := indexSubseq(list, subseq); start < 0 {
		return assert.Fail(t,
			fmt.Sprintf("List does not contain subsequence:\n  list: %s\n  subseq: %s",
				pplist(list), pplist(subseq)),
		)
	}
	return true
}

func AssertNotContainsSubseq[T any](t *testing.T, list, subseq []T) bool {
	t.Helper()
	if start := indexSubseq(list, subseq); start >= 0 {
		return assert.Fail(t,
			fmt.Sprintf("List contains subsequence at %d:\n  list: %s\n  subseq: %s",
				start, pplist(list), pplist(subseq)),
		)
	}
	return true
}

// AssertOrdered asserts that every element of want appears in list, in the same
// relative order, with anything allowed in between
func AssertOrdered[T any](t *testing.T, list, want []T) bool {
	t.Helper()
	j := 0
	for i := 0; i < len(list) && j < len(want); i++ {
		if assert.ObjectsAreEqual(list[i], want[j]) {
			j++
		}
	}
	if j < len(want) {
		return assert.Fail(t,
			fmt.Sprintf("List does not contain %v in order (stopped at index %d):\n  list: %s",
				pplist(want), j, pplist(list)),
		)
	}
	return true
}

// returns the first index at which subseq starts in list, or -1
func indexSubseq[T any](list, subseq []T) int {
	// all lists contain empty subsequences
	if len(subseq) == 0 {
		return 0
	}
outer:
	for i := 0; i+len(subseq) <= len(list); i++ {
		for j := range subseq {
			if !assert.ObjectsAreEqual(list[i+j], subseq[j]) {
				continue outer
			}
		}
		return i
	}
	return -1
}

func pplist[T any](list []T) string {
	if len(list) == 0 {
		return "[]"
	}
	items := make([]string, len(list))
	for i, item := range list {
		items[i] = fmt.Sprintf("%v", item)
	}
	horiz := "[" + strings.Join(items, " ") + "]"
	if len(horiz) <= 120 {
		return horiz
	}
	return "[\n    " + strings.Join(items, "\n    ") + "\n  ]"
}
