package docstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore implements Store on top of Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new FirestoreStore
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("firestore get %s/%s: %w", collection, id, err)
	}
	return &Document{ID: snap.Ref.ID, Fields: snap.Data()}, nil
}

func (s *FirestoreStore) BatchGet(ctx context.Context, collection string, ids []string) ([]Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, s.client.Collection(collection).Doc(id))
	}
	snaps, err := s.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("firestore batch get %s: %w", collection, err)
	}
	docs := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		if !snap.Exists() {
			// Missing ids are simply absent from the result.
			continue
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Fields: snap.Data()})
	}
	return docs, nil
}

// RunTransaction runs a single optimistic attempt. Firestore's own retry
// machinery is disabled with MaxAttempts(1) so that the caller's retry loop
// is the only one, and contention surfaces as ErrConflict.
func (s *FirestoreStore) RunTransaction(ctx context.Context, refs []Ref, fn TxFunc) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docs := make(map[Ref]*Document, len(refs))
		for _, r := range refs {
			snap, err := tx.Get(s.client.Collection(r.Collection).Doc(r.ID))
			if err != nil {
				if status.Code(err) == codes.NotFound {
					docs[r] = nil
					continue
				}
				return err
			}
			docs[r] = &Document{ID: snap.Ref.ID, Fields: snap.Data()}
		}
		writes, err := fn(docs)
		if err != nil {
			return err
		}
		for _, w := range writes {
			if err := tx.Set(s.client.Collection(w.Ref.Collection).Doc(w.Ref.ID), w.Fields, firestore.MergeAll); err != nil {
				return err
			}
		}
		return nil
	}, firestore.MaxAttempts(1))
	if err != nil {
		switch status.Code(err) {
		case codes.Aborted, codes.FailedPrecondition:
			return ErrConflict
		}
		return err
	}
	return nil
}

// Query runs a simple filtered, ordered query against a collection. It
// covers the narrow shapes the repositories need without exposing the
// firestore query builder everywhere.
func (s *FirestoreStore) Query(ctx context.Context, collection string, q QuerySpec) ([]Document, error) {
	var fq firestore.Query = s.client.Collection(collection).Query
	for _, f := range q.Filters {
		fq = fq.Where(f.Field, f.Op, f.Value)
	}
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Descending {
			dir = firestore.Desc
		}
		fq = fq.OrderBy(q.OrderBy, dir)
	}
	if q.Offset > 0 {
		fq = fq.Offset(q.Offset)
	}
	if q.Limit > 0 {
		fq = fq.Limit(q.Limit)
	}
	it := fq.Documents(ctx)
	defer it.Stop()

	var docs []Document
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore query %s: %w", collection, err)
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Fields: snap.Data()})
	}
	return docs, nil
}

// Create adds a document with a generated id and returns the id.
func (s *FirestoreStore) Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, fields)
	if err != nil {
		return "", fmt.Errorf("firestore create in %s: %w", collection, err)
	}
	return ref.ID, nil
}

// Set writes a document at a known id, merging with any existing fields.
func (s *FirestoreStore) Set(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	_, err := s.client.Collection(collection).Doc(id).Set(ctx, fields, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("firestore set %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete removes a document. Deleting a missing document is not an error.
func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("firestore delete %s/%s: %w", collection, id, err)
	}
	return nil
}
