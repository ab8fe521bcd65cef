package docstore

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when no document exists for the id.
	ErrNotFound = errors.New("docstore: document not found")
	// ErrConflict is returned by RunTransaction when a concurrent writer
	// modified one of the read documents before the transaction committed.
	ErrConflict = errors.New("docstore: transaction conflict")
)

// Ref addresses a single document inside a collection.
type Ref struct {
	Collection string
	ID         string
}

// Document is a loosely-typed snapshot of a stored document. Fields values
// come back as whatever the backing store decodes them to (strings, numbers,
// []interface{} for arrays), so callers coerce at their own boundary.
type Document struct {
	ID     string
	Fields map[string]interface{}
}

// Write describes one document replacement applied at commit time.
type Write struct {
	Ref    Ref
	Fields map[string]interface{}
}

// TxFunc receives the read set of a transaction, keyed by Ref. A Ref that
// resolved to no document maps to nil, so existence checks happen inside the
// transaction rather than before it. The returned writes are applied
// atomically; returning an error aborts the transaction without writing.
type TxFunc func(docs map[Ref]*Document) ([]Write, error)

// Filter is one field predicate. Op uses firestore operator spelling:
// "==", "!=", "array-contains".
type Filter struct {
	Field string
	Op    string
	Value interface{}
}

// QuerySpec describes a filtered, ordered, paginated collection scan.
type QuerySpec struct {
	Filters    []Filter
	OrderBy    string
	Descending bool
	Offset     int
	Limit      int
}

// Store is the document-store surface the application depends on. A
// transaction is a single read-validate-write attempt: the implementation
// reads every ref, calls fn, and commits the returned writes only if none of
// the read documents changed in the meantime, otherwise it fails with
// ErrConflict. Retry policy belongs to the caller.
type Store interface {
	Get(ctx context.Context, collection, id string) (*Document, error)
	BatchGet(ctx context.Context, collection string, ids []string) ([]Document, error)
	RunTransaction(ctx context.Context, refs []Ref, fn TxFunc) error
}

// CollectionStore extends Store with the create/query surface the CRUD
// repositories use.
type CollectionStore interface {
	Store
	Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error)
	Set(ctx context.Context, collection, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, collection, id string) error
	Query(ctx context.Context, collection string, q QuerySpec) ([]Document, error)
}
