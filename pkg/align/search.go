package align

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/masstools/massalign/pkg/seq"
)

// Entry is one database record to align the query against.
type Entry struct {
	Name string
	Seq  *seq.Sequence
}

// Hit is one ranked database-search result.
type Hit struct {
	// Index is the entry's position in the input database; ties in score
	// are broken by it so ranking is deterministic.
	Index     int
	Name      string
	Alignment *Alignment
}

// Search aligns the query independently against every database entry and
// returns the topN hits ordered by score descending, ties broken by input
// order. Entries are fanned out across threads workers (NumCPU when
// threads < 1); each worker computes self-contained hits and the results
// are merged and sorted here. topN < 1 returns every hit.
func Search(ctx context.Context, query *seq.Sequence, db []Entry, opts Options, topN, threads int) ([]Hit, error) {
	opts, err := opts.validate()
	if err != nil {
		return nil, err
	}
	if threads < 1 {
		threads = runtime.NumCPU()
	}
	if threads > len(db) {
		threads = len(db)
	}
	if len(db) == 0 {
		return nil, nil
	}

	hits := make([]*Alignment, len(db))
	errs := make([]error, len(db))
	jobs := make(chan int, threads*2)

	var wg sync.WaitGroup
	wg.Add(threads)
	for w := 0; w < threads; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case idx, ok := <-jobs:
					if !ok {
						return
					}
					a, err := Align(query, db[idx].Seq, opts)
					if err != nil {
						errs[idx] = fmt.Errorf("entry %q: %w", db[idx].Name, err)
						continue
					}
					hits[idx] = a
				}
			}
		}()
	}

feed:
	for idx := range db {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// First error by input order, so failures are deterministic.
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	out := make([]Hit, 0, len(db))
	for idx, a := range hits {
		out = append(out, Hit{Index: idx, Name: db[idx].Name, Alignment: a})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Alignment.Score != out[j].Alignment.Score {
			return out[i].Alignment.Score > out[j].Alignment.Score
		}
		return out[i].Index < out[j].Index
	})
	if topN > 0 && topN < len(out) {
		out = out[:topN]
	}
	return out, nil
}
