package utils

import (
	"sync/atomic"
	"testing"

	"go.viam.com/test"
)

func TestForEachRowParallel(t *testing.T) {
	const rows = 1000
	counts := make([]int32, rows)
	ForEachRowParallel(rows, func(row int) {
		atomic.AddInt32(&counts[row], 1)
	})
	for _, n := range counts {
		test.That(t, n, test.ShouldEqual, 1)
	}
}

func TestForEachRowParallelFewRows(t *testing.T) {
	// Fewer rows than workers still visits every row exactly once.
	counts := make([]int32, 3)
	ForEachRowParallel(len(counts), func(row int) {
		atomic.AddInt32(&counts[row], 1)
	})
	test.That(t, counts[0], test.ShouldEqual, 1)
	test.That(t, counts[1], test.ShouldEqual, 1)
	test.That(t, counts[2], test.ShouldEqual, 1)
}

func TestForEachRowParallelNoRows(t *testing.T) {
	called := false
	ForEachRowParallel(0, func(int) { called = true })
	test.That(t, called, test.ShouldBeFalse)
}

func TestClamp(t *testing.T) {
	test.That(t, Clamp(-1, 1, 2.5), test.ShouldEqual, 1)
	test.That(t, Clamp(-1, 1, -2.5), test.ShouldEqual, -1)
	test.That(t, Clamp(-1, 1, 0.5), test.ShouldEqual, 0.5)
	test.That(t, Clamp(-1, 1, Clamp(-1, 1, 3)), test.ShouldEqual, 1)
}

func TestSquare(t *testing.T) {
	test.That(t, Square(3), test.ShouldEqual, 9)
	test.That(t, Square(-0.5), test.ShouldEqual, 0.25)
}
