/*
Copyright © 2020 ConsenSys

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package parallel provides a helper to split row-indexed work across CPUs.
package parallel

import (
	"runtime"
	"sync"
)

// Execute runs work in parallel over the half-open interval [iStart, iEnd),
// splitting it into contiguous chunks, and waits for completion. Chunks are
// disjoint, so workers may write to per-index slots without synchronization.
// An optional nbTasks caps the number of goroutines.
func Execute(iStart, iEnd int, work func(int, int), nbTasks ...int) {
	nbIterations := iEnd - iStart
	if nbIterations <= 0 {
		return
	}

	nbWorkers := runtime.NumCPU()
	if len(nbTasks) == 1 && nbTasks[0] > 0 {
		nbWorkers = nbTasks[0]
	}
	if nbWorkers > nbIterations {
		nbWorkers = nbIterations
	}

	chunkSize := nbIterations / nbWorkers

	var wg sync.WaitGroup
	start := iStart
	for i := 0; i < nbWorkers; i++ {
		end := start + chunkSize
		if i == nbWorkers-1 {
			end = iEnd
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			work(s, e)
		}(start, end)
		start = end
	}
	wg.Wait()
}
