package route

import (
	"context"

	"github.com/gaurav-prasanna/rpipipe/core"
	"github.com/gaurav-prasanna/rpipipe/core/tree"
)

// Batch accumulates the records of one file for one collection. It is
// consumed by a single Flush and is empty afterwards, whatever the outcome.
type Batch struct {
	collection string
	records    []tree.Node
}

// NewBatch creates an empty batch bound for collection.
func NewBatch(collection string) *Batch {
	return &Batch{collection: collection}
}

// Append adds records in order.
func (b *Batch) Append(records ...tree.Node) {
	b.records = append(b.records, records...)
}

// Len is the number of pending records.
func (b *Batch) Len() int { return len(b.records) }

// Collection is the destination collection name.
func (b *Batch) Collection() string { return b.collection }

// Flush hands every pending record to sink in one bulk insert and clears
// the batch. An empty batch does not reach the sink.
func (b *Batch) Flush(ctx context.Context, sink core.Sink) error {
	records := b.records
	b.records = nil
	if len(records) == 0 {
		return nil
	}
	return sink.InsertMany(ctx, b.collection, records)
}
