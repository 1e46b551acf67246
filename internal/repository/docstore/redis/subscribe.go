package redis

import (
	"context"

	"github.com/gharapp/server/internal/repository/docstore"
)

// Subscribe delivers the current collection contents immediately and again
// after every write to the collection. The returned function stops the
// subscription.
func (r repo) Subscribe(ctx context.Context, collection string, onSnapshot docstore.SnapshotFunc, onError docstore.ErrorFunc) func() {
	pubsub := r.rc.Subscribe(ctx, r.getUpdatesChannel(collection))

	deliver := func() {
		docs, err := r.ListDocuments(ctx, collection)
		if err != nil {
			onError(err)
			return
		}

		onSnapshot(docs)
	}

	deliver()

	go func() {
		for range pubsub.Channel() {
			deliver()
		}
	}()

	return func() {
		pubsub.Close()
	}
}
