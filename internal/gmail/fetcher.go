package gmail

import (
	"context"
	"sync"
)

// DefaultConcurrency bounds per-request hydration fan-out when no
// explicit bound is configured.
const DefaultConcurrency = 8

// Fetcher retrieves normalized message records: one list call followed
// by a bounded concurrent hydration of every listed message.
type Fetcher struct {
	api         API
	concurrency int
}

// NewFetcher creates a Fetcher over the given API. A non-positive
// concurrency falls back to DefaultConcurrency.
func NewFetcher(api API, concurrency int) *Fetcher {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Fetcher{api: api, concurrency: concurrency}
}

// FetchMessages lists up to limit message IDs and hydrates each into a
// Message. Hydration calls run concurrently, bounded by the fetcher's
// concurrency; the returned slice preserves list order. Any single
// failure fails the whole call with FetchError; there is no
// partial-result mode.
func (f *Fetcher) FetchMessages(ctx context.Context, limit int64) ([]Message, error) {
	ids, err := f.api.ListMessageIDs(ctx, limit)
	if err != nil {
		return nil, &FetchError{Op: "list", Err: err}
	}
	if len(ids) == 0 {
		return []Message{}, nil
	}

	records := make([]Message, len(ids))
	sem := make(chan struct{}, f.concurrency)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			mu.Lock()
			failed := firstErr != nil
			mu.Unlock()
			if failed {
				return
			}

			msg, err := f.api.GetMessage(ctx, id)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			records[i] = newRecord(id, msg)
		}(i, id)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, &FetchError{Op: "hydrate", Err: firstErr}
	}
	return records, nil
}
