package redis

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

func (r repo) executePipe(ctx context.Context, pipe redis.Pipeliner) error {
	cmds, err := pipe.Exec(ctx)
	if err != nil {
		for _, cmd := range cmds {
			if err := cmd.Err(); err != nil {
				return err
			}
		}

		return err
	}

	return nil
}

func (r repo) publishUpdate(ctx context.Context, collection string) {
	if err := r.rc.Publish(ctx, r.getUpdatesChannel(collection), "updated").Err(); err != nil {
		slog.Debug("failed to publish collection update", "collection", collection, "error", err)
	}
}
