package docstore

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"
)

type memoryDoc struct {
	fields  map[string]interface{}
	version uint64
}

// MemoryStore is an in-process CollectionStore with per-document version
// counters and snapshot-validate-commit transactions. It backs tests and
// local development; semantics mirror FirestoreStore, including single
// attempt transactions that fail with ErrConflict when a read document was
// written concurrently.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]*memoryDoc
	nextID      uint64
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]*memoryDoc)}
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return &Document{ID: id, Fields: cloneFields(doc.fields)}, nil
}

func (s *MemoryStore) BatchGet(ctx context.Context, collection string, ids []string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		if doc, ok := s.collections[collection][id]; ok {
			docs = append(docs, Document{ID: id, Fields: cloneFields(doc.fields)})
		}
	}
	return docs, nil
}

// RunTransaction snapshots the read set, runs fn outside the lock, then
// commits under the lock only if every read document still has the version
// it was read at. One attempt; the caller retries on ErrConflict.
func (s *MemoryStore) RunTransaction(ctx context.Context, refs []Ref, fn TxFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	versions := make(map[Ref]uint64, len(refs))
	docs := make(map[Ref]*Document, len(refs))
	s.mu.RLock()
	for _, r := range refs {
		if doc, ok := s.collections[r.Collection][r.ID]; ok {
			versions[r] = doc.version
			docs[r] = &Document{ID: r.ID, Fields: cloneFields(doc.fields)}
		} else {
			versions[r] = 0
			docs[r] = nil
		}
	}
	s.mu.RUnlock()

	writes, err := fn(docs)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for r, v := range versions {
		var current uint64
		if doc, ok := s.collections[r.Collection][r.ID]; ok {
			current = doc.version
		}
		if current != v {
			return ErrConflict
		}
	}
	for _, w := range writes {
		s.applyLocked(w.Ref.Collection, w.Ref.ID, w.Fields)
	}
	return nil
}

func (s *MemoryStore) Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := fmt.Sprintf("%s-%d", collection, s.nextID)
	s.applyLocked(collection, id, fields)
	return id, nil
}

func (s *MemoryStore) Set(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(collection, id, fields)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections[collection], id)
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, q QuerySpec) ([]Document, error) {
	s.mu.RLock()
	var docs []Document
	for id, doc := range s.collections[collection] {
		if matchesFilters(doc.fields, q.Filters) {
			docs = append(docs, Document{ID: id, Fields: cloneFields(doc.fields)})
		}
	}
	s.mu.RUnlock()

	if q.OrderBy != "" {
		sort.Slice(docs, func(i, j int) bool {
			less := lessValue(fieldPath(docs[i].Fields, q.OrderBy), fieldPath(docs[j].Fields, q.OrderBy))
			if q.Descending {
				return !less
			}
			return less
		})
	}
	if q.Offset > 0 {
		if q.Offset >= len(docs) {
			return nil, nil
		}
		docs = docs[q.Offset:]
	}
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs, nil
}

func (s *MemoryStore) applyLocked(collection, id string, fields map[string]interface{}) {
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]*memoryDoc)
	}
	doc, ok := s.collections[collection][id]
	if !ok {
		doc = &memoryDoc{fields: make(map[string]interface{})}
		s.collections[collection][id] = doc
	}
	for k, v := range cloneFields(fields) {
		doc.fields[k] = v
	}
	doc.version++
}

func matchesFilters(fields map[string]interface{}, filters []Filter) bool {
	for _, f := range filters {
		v := fieldPath(fields, f.Field)
		switch f.Op {
		case "==":
			if !reflect.DeepEqual(v, f.Value) {
				return false
			}
		case "!=":
			if reflect.DeepEqual(v, f.Value) {
				return false
			}
		case "array-contains":
			arr, ok := v.([]interface{})
			if !ok {
				return false
			}
			found := false
			for _, item := range arr {
				if reflect.DeepEqual(item, f.Value) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// fieldPath resolves "a.b" style dotted paths into nested maps.
func fieldPath(fields map[string]interface{}, path string) interface{} {
	var v interface{} = fields
	for len(path) > 0 {
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil
		}
		key := path
		for i := 0; i < len(path); i++ {
			if path[i] == '.' {
				key = path[:i]
				break
			}
		}
		v = m[key]
		if len(key) == len(path) {
			break
		}
		path = path[len(key)+1:]
	}
	return v
}

func lessValue(a, b interface{}) bool {
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		return av < bv
	case int64:
		bv, _ := b.(int64)
		return av < bv
	case float64:
		bv, _ := b.(float64)
		return av < bv
	case time.Time:
		bv, _ := b.(time.Time)
		return av.Before(bv)
	}
	return false
}

func cloneFields(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch tv := v.(type) {
	case map[string]interface{}:
		return cloneFields(tv)
	case []interface{}:
		out := make([]interface{}, len(tv))
		for i, item := range tv {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		// Stored as []interface{} so reads look like decoded store data.
		out := make([]interface{}, len(tv))
		for i, item := range tv {
			out[i] = item
		}
		return out
	default:
		return v
	}
}
