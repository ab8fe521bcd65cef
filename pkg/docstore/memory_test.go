package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "users", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "users", "u1", map[string]interface{}{"username": "alice"}))
	doc, err := store.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", doc.ID)
	assert.Equal(t, "alice", doc.Fields["username"])
}

func TestMemoryStoreGetReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "users", "u1", map[string]interface{}{
		"tags": []string{"a", "b"},
	}))

	doc, err := store.Get(ctx, "users", "u1")
	require.NoError(t, err)
	doc.Fields["tags"].([]interface{})[0] = "mutated"
	doc.Fields["extra"] = true

	fresh, err := store.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"a", "b"}, fresh.Fields["tags"])
	assert.NotContains(t, fresh.Fields, "extra")
}

func TestMemoryStoreBatchGetSkipsMissing(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "users", "u1", map[string]interface{}{"username": "alice"}))
	require.NoError(t, store.Set(ctx, "users", "u3", map[string]interface{}{"username": "carol"}))

	docs, err := store.BatchGet(ctx, "users", []string{"u1", "u2", "u3"})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "u1", docs[0].ID)
	assert.Equal(t, "u3", docs[1].ID)
}

func TestMemoryStoreTransactionCommits(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "users", "u1", map[string]interface{}{"count": int64(1)}))

	ref := Ref{Collection: "users", ID: "u1"}
	err := store.RunTransaction(ctx, []Ref{ref}, func(docs map[Ref]*Document) ([]Write, error) {
		require.NotNil(t, docs[ref])
		return []Write{{Ref: ref, Fields: map[string]interface{}{"count": int64(2)}}}, nil
	})
	require.NoError(t, err)

	doc, err := store.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), doc.Fields["count"])
}

func TestMemoryStoreTransactionReadsMissingAsNil(t *testing.T) {
	store := NewMemoryStore()
	ref := Ref{Collection: "users", ID: "ghost"}
	err := store.RunTransaction(context.Background(), []Ref{ref}, func(docs map[Ref]*Document) ([]Write, error) {
		assert.Nil(t, docs[ref])
		return nil, nil
	})
	require.NoError(t, err)
}

func TestMemoryStoreTransactionConflicts(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "users", "u1", map[string]interface{}{"count": int64(1)}))

	ref := Ref{Collection: "users", ID: "u1"}
	err := store.RunTransaction(ctx, []Ref{ref}, func(docs map[Ref]*Document) ([]Write, error) {
		// A concurrent writer lands between this transaction's read and
		// its commit.
		require.NoError(t, store.Set(ctx, "users", "u1", map[string]interface{}{"count": int64(99)}))
		return []Write{{Ref: ref, Fields: map[string]interface{}{"count": int64(2)}}}, nil
	})
	assert.ErrorIs(t, err, ErrConflict)

	doc, err := store.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(99), doc.Fields["count"], "losing transaction must not overwrite the concurrent commit")
}

func TestMemoryStoreTransactionConflictsOnCreatedDoc(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	ref := Ref{Collection: "users", ID: "u1"}
	err := store.RunTransaction(ctx, []Ref{ref}, func(docs map[Ref]*Document) ([]Write, error) {
		// The doc did not exist at read time but is created concurrently.
		require.NoError(t, store.Set(ctx, "users", "u1", map[string]interface{}{"username": "first"}))
		return []Write{{Ref: ref, Fields: map[string]interface{}{"username": "second"}}}, nil
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestMemoryStoreTransactionFnErrorAborts(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "users", "u1", map[string]interface{}{"count": int64(1)}))

	boom := assert.AnError
	ref := Ref{Collection: "users", ID: "u1"}
	err := store.RunTransaction(ctx, []Ref{ref}, func(docs map[Ref]*Document) ([]Write, error) {
		return []Write{{Ref: ref, Fields: map[string]interface{}{"count": int64(5)}}}, boom
	})
	assert.ErrorIs(t, err, boom)

	doc, err := store.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), doc.Fields["count"])
}

func TestMemoryStoreQuery(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "posts", "p1", map[string]interface{}{
		"userId": "alice", "createdAt": int64(1), "tags": []string{"go"},
	}))
	require.NoError(t, store.Set(ctx, "posts", "p2", map[string]interface{}{
		"userId": "bob", "createdAt": int64(2), "tags": []string{"go", "web"},
	}))
	require.NoError(t, store.Set(ctx, "posts", "p3", map[string]interface{}{
		"userId": "alice", "createdAt": int64(3), "tags": []string{},
	}))

	docs, err := store.Query(ctx, "posts", QuerySpec{
		Filters:    []Filter{{Field: "userId", Op: "==", Value: "alice"}},
		OrderBy:    "createdAt",
		Descending: true,
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "p3", docs[0].ID)
	assert.Equal(t, "p1", docs[1].ID)

	docs, err = store.Query(ctx, "posts", QuerySpec{
		Filters: []Filter{{Field: "tags", Op: "array-contains", Value: "web"}},
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "p2", docs[0].ID)

	docs, err = store.Query(ctx, "posts", QuerySpec{OrderBy: "createdAt", Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "p2", docs[0].ID)
}

func TestMemoryStoreQueryNestedOrderBy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "conversations", "c1", map[string]interface{}{
		"lastMessage": map[string]interface{}{"createdAt": int64(5)},
	}))
	require.NoError(t, store.Set(ctx, "conversations", "c2", map[string]interface{}{
		"lastMessage": map[string]interface{}{"createdAt": int64(9)},
	}))

	docs, err := store.Query(ctx, "conversations", QuerySpec{
		OrderBy:    "lastMessage.createdAt",
		Descending: true,
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "c2", docs[0].ID)
}

func TestMemoryStoreSetMergesFields(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "users", "u1", map[string]interface{}{"username": "alice", "bio": "hi"}))
	require.NoError(t, store.Set(ctx, "users", "u1", map[string]interface{}{"bio": "hello"}))

	doc, err := store.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", doc.Fields["username"])
	assert.Equal(t, "hello", doc.Fields["bio"])
}

func TestMemoryStoreCreateAssignsIDs(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id1, err := store.Create(ctx, "posts", map[string]interface{}{"content": "one"})
	require.NoError(t, err)
	id2, err := store.Create(ctx, "posts", map[string]interface{}{"content": "two"})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	doc, err := store.Get(ctx, "posts", id1)
	require.NoError(t, err)
	assert.Equal(t, "one", doc.Fields["content"])
}
