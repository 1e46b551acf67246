package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/gharapp/server/internal/repository/docstore"
)

func (r repo) GetDocument(ctx context.Context, collection, id string) (docstore.Document, error) {
	data, err := r.rc.Get(ctx, r.getDocumentKey(collection, id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return docstore.Document{}, docstore.ErrDocumentNotFound
		}
		return docstore.Document{}, fmt.Errorf("failed to get document: %w", err)
	}

	return docstore.Document{Id: id, Data: data}, nil
}

func (r repo) SetDocument(ctx context.Context, params *docstore.SetDocumentParams) error {
	data, err := json.Marshal(params.Value)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	pipe := r.rc.TxPipeline()
	pipe.Set(ctx, r.getDocumentKey(params.Collection, params.Id), data, 0)
	pipe.SAdd(ctx, r.getCollectionKey(params.Collection), params.Id)
	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to set document: %w", err)
	}

	r.publishUpdate(ctx, params.Collection)

	return nil
}

func (r repo) UpdateDocument(ctx context.Context, params *docstore.UpdateDocumentParams) error {
	fields, err := r.getDocumentFields(ctx, params.Collection, params.Id)
	if err != nil {
		return err
	}

	for k, v := range params.Patch {
		fields[k] = v
	}

	if err := r.setDocumentFields(ctx, params.Collection, params.Id, fields); err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	r.publishUpdate(ctx, params.Collection)

	return nil
}

func (r repo) DeleteDocument(ctx context.Context, params *docstore.DeleteDocumentParams) error {
	pipe := r.rc.TxPipeline()
	delCmd := pipe.Del(ctx, r.getDocumentKey(params.Collection, params.Id))
	pipe.SRem(ctx, r.getCollectionKey(params.Collection), params.Id)
	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	if delCmd.Val() == 0 {
		return docstore.ErrDocumentNotFound
	}

	r.publishUpdate(ctx, params.Collection)

	return nil
}

func (r repo) ArrayUnion(ctx context.Context, params *docstore.ArrayOpParams) error {
	fields, err := r.getDocumentFields(ctx, params.Collection, params.Id)
	if err != nil {
		return err
	}

	element, err := normalize(params.Element)
	if err != nil {
		return fmt.Errorf("failed to normalize element: %w", err)
	}

	arr, _ := fields[params.Field].([]any)
	for _, existing := range arr {
		if reflect.DeepEqual(existing, element) {
			return nil
		}
	}
	fields[params.Field] = append(arr, element)

	if err := r.setDocumentFields(ctx, params.Collection, params.Id, fields); err != nil {
		return fmt.Errorf("failed to apply array union: %w", err)
	}

	r.publishUpdate(ctx, params.Collection)

	return nil
}

func (r repo) ArrayRemove(ctx context.Context, params *docstore.ArrayOpParams) error {
	fields, err := r.getDocumentFields(ctx, params.Collection, params.Id)
	if err != nil {
		return err
	}

	element, err := normalize(params.Element)
	if err != nil {
		return fmt.Errorf("failed to normalize element: %w", err)
	}

	arr, _ := fields[params.Field].([]any)
	kept := make([]any, 0, len(arr))
	for _, existing := range arr {
		if !reflect.DeepEqual(existing, element) {
			kept = append(kept, existing)
		}
	}
	fields[params.Field] = kept

	if err := r.setDocumentFields(ctx, params.Collection, params.Id, fields); err != nil {
		return fmt.Errorf("failed to apply array remove: %w", err)
	}

	r.publishUpdate(ctx, params.Collection)

	return nil
}

func (r repo) ListDocuments(ctx context.Context, collection string) ([]docstore.Document, error) {
	ids, err := r.rc.SMembers(ctx, r.getCollectionKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list collection ids: %w", err)
	}

	if len(ids) == 0 {
		return []docstore.Document{}, nil
	}

	sort.Strings(ids)

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, r.getDocumentKey(collection, id))
	}

	values, err := r.rc.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get documents: %w", err)
	}

	docs := make([]docstore.Document, 0, len(ids))
	for i, value := range values {
		data, ok := value.(string)
		if !ok {
			// id in the index but document gone, skip
			continue
		}

		docs = append(docs, docstore.Document{Id: ids[i], Data: []byte(data)})
	}

	return docs, nil
}

func (r repo) getDocumentFields(ctx context.Context, collection, id string) (map[string]any, error) {
	doc, err := r.GetDocument(ctx, collection, id)
	if err != nil {
		return nil, err
	}

	var fields map[string]any
	if err := json.Unmarshal(doc.Data, &fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	if fields == nil {
		fields = make(map[string]any)
	}

	return fields, nil
}

func (r repo) setDocumentFields(ctx context.Context, collection, id string, fields map[string]any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	return r.rc.Set(ctx, r.getDocumentKey(collection, id), data, 0).Err()
}

// normalize round-trips a value through JSON so array elements compare
// equal to what was previously stored.
func normalize(value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}

	return out, nil
}
