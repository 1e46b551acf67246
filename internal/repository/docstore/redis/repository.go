package redis

import (
	"github.com/redis/go-redis/v9"
)

type repo struct {
	rc *redis.Client
}

func NewRepo(rc *redis.Client) *repo {
	return &repo{rc: rc}
}

func (r repo) getDocumentKey(collection, id string) string {
	return "doc:" + collection + ":" + id
}

func (r repo) getCollectionKey(collection string) string {
	return "collection:" + collection
}

func (r repo) getUpdatesChannel(collection string) string {
	return "updates:" + collection
}
