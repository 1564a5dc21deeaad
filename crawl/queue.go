// Package crawl: archive download queue with deduplication.
// Maintains a seen set so each archive is downloaded once per run.
package crawl

// Queue is a FIFO queue of archives with deduplication.
type Queue struct {
	items []Archive
	seen  map[string]bool
	idx   int // current read position
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{
		seen: make(map[string]bool),
	}
}

// Plan queues one archive per type code for the given issue.
func Plan(issue int, codes []string) *Queue {
	q := NewQueue()
	for _, code := range codes {
		q.Add(Archive{Code: code, Issue: issue})
	}
	return q
}

// Add enqueues an archive if it hasn't been seen before.
func (q *Queue) Add(a Archive) {
	key := a.Name()
	if q.seen[key] {
		return
	}
	q.seen[key] = true
	q.items = append(q.items, a)
}

// HasNext returns true if there are unprocessed archives.
func (q *Queue) HasNext() bool {
	return q.idx < len(q.items)
}

// Next returns the next unprocessed archive and advances the pointer.
func (q *Queue) Next() Archive {
	a := q.items[q.idx]
	q.idx++
	return a
}

// Len returns the total number of unique archives queued.
func (q *Queue) Len() int {
	return len(q.items)
}
