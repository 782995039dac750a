// Package utils contains small helpers shared by the optimizer packages.
package utils

import (
	"runtime"
	"sync"

	goutils "go.viam.com/utils"
)

// ParallelFactor controls the max level of parallelization. This might be useful
// to set in tests where too much parallelism actually slows tests down in
// aggregate.
var ParallelFactor = runtime.GOMAXPROCS(0)

func init() {
	if ParallelFactor <= 0 {
		ParallelFactor = 1
	}
}

// ForEachRowParallel divides totalRows contiguous row indices across worker
// goroutines and calls work once per row. Work must only read shared state and
// write its own row.
func ForEachRowParallel(totalRows int, work func(row int)) {
	if totalRows <= 0 {
		return
	}
	workers := ParallelFactor
	if workers > totalRows {
		workers = totalRows
	}
	rowsPer := totalRows / workers
	extra := totalRows % workers

	var wait sync.WaitGroup
	wait.Add(workers)
	from := 0
	for w := 0; w < workers; w++ {
		size := rowsPer
		if w < extra {
			size++
		}
		start, end := from, from+size
		goutils.PanicCapturingGo(func() {
			defer wait.Done()
			for row := start; row < end; row++ {
				work(row)
			}
		})
		from += size
	}
	wait.Wait()
}
