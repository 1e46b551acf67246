// Package docstore defines the document-store contract the services are
// written against: keyed JSON documents grouped into collections, with
// field-level patch and array operations and collection subscriptions.
package docstore

import (
	"encoding/json"
	"errors"
)

var ErrDocumentNotFound = errors.New("document not found")

type Document struct {
	Id   string
	Data json.RawMessage
}

type SetDocumentParams struct {
	Collection string
	Id         string
	Value      any
}

type UpdateDocumentParams struct {
	Collection string
	Id         string
	Patch      map[string]any
}

type DeleteDocumentParams struct {
	Collection string
	Id         string
}

type ArrayOpParams struct {
	Collection string
	Id         string
	Field      string
	Element    any
}

// SnapshotFunc receives the full collection contents. It fires once at
// subscribe time and again after every write to the collection.
type SnapshotFunc func(docs []Document)

type ErrorFunc func(err error)
