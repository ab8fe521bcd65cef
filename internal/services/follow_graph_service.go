package services

import (
	"context"
	"errors"

	"github.com/amandajiang259/Yapp/internal/models"
	"github.com/amandajiang259/Yapp/pkg/docstore"
	"go.uber.org/zap"
)

// UsersCollection is the document collection holding user profiles.
const UsersCollection = "users"

// defaultMaxAttempts bounds the optimistic-conflict retry loop so a
// contended request fails fast instead of spinning.
const defaultMaxAttempts = 5

var (
	// ErrUserNotFound means one or both profile ids do not resolve to a document.
	ErrUserNotFound = errors.New("user profile not found")
	// ErrSelfFollow means a user tried to follow or unfollow themselves.
	ErrSelfFollow = errors.New("cannot follow yourself")
	// ErrFollowConflict means the transaction kept losing to concurrent
	// writers and exhausted its retries. The caller may retry the call.
	ErrFollowConflict = errors.New("follow update conflicted, try again")
)

// FollowGraphService maintains the bidirectional follow relationship between
// user profiles. For any two distinct profiles A and B it keeps the
// invariant: A is in B.followers exactly when B is in A.following, even
// though the two membership lists live in two separately-addressable
// documents. Both sides are always written inside one atomic transaction.
type FollowGraphService interface {
	Follow(ctx context.Context, actorID, targetID string) error
	Unfollow(ctx context.Context, actorID, targetID string) error
	IsFollowing(ctx context.Context, actorID, targetID string) bool
	ListFollowers(ctx context.Context, userID string) ([]models.UserProfileSummary, error)
	ListFollowing(ctx context.Context, userID string) ([]models.UserProfileSummary, error)
}

// DocstoreFollowGraphService implements FollowGraphService on a docstore.Store
type DocstoreFollowGraphService struct {
	store       docstore.Store
	logger      *zap.Logger
	maxAttempts int
}

// NewFollowGraphService creates a new DocstoreFollowGraphService
func NewFollowGraphService(store docstore.Store, logger *zap.Logger) *DocstoreFollowGraphService {
	return &DocstoreFollowGraphService{
		store:       store,
		logger:      logger,
		maxAttempts: defaultMaxAttempts,
	}
}

// Follow adds actorID to target.followers and targetID to actor.following.
// Membership is computed as a set union inside the transaction, so calling
// it again, or racing another follower of the same target, converges on the
// same final state.
func (s *DocstoreFollowGraphService) Follow(ctx context.Context, actorID, targetID string) error {
	return s.mutate(ctx, actorID, targetID, true)
}

// Unfollow removes the edge in both directions. Unfollowing someone the
// actor does not follow is a no-op that still succeeds.
func (s *DocstoreFollowGraphService) Unfollow(ctx context.Context, actorID, targetID string) error {
	return s.mutate(ctx, actorID, targetID, false)
}

func (s *DocstoreFollowGraphService) mutate(ctx context.Context, actorID, targetID string, follow bool) error {
	if actorID == targetID {
		return ErrSelfFollow
	}

	actorRef := docstore.Ref{Collection: UsersCollection, ID: actorID}
	targetRef := docstore.Ref{Collection: UsersCollection, ID: targetID}
	refs := []docstore.Ref{actorRef, targetRef}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err := s.store.RunTransaction(ctx, refs, func(docs map[docstore.Ref]*docstore.Document) ([]docstore.Write, error) {
			actor := docs[actorRef]
			target := docs[targetRef]
			if actor == nil || target == nil {
				return nil, ErrUserNotFound
			}

			// memberSet drops duplicates, non-string entries, and the
			// owner's own id, so malformed historical data is repaired
			// on the next write instead of propagated.
			following := memberSet(actor.Fields["following"], actorID)
			followers := memberSet(target.Fields["followers"], targetID)

			var changed bool
			if follow {
				changed = following.add(targetID)
				changed = followers.add(actorID) || changed
			} else {
				changed = following.remove(targetID)
				changed = followers.remove(actorID) || changed
			}
			if !changed {
				// Already in the requested state; commit with no writes.
				return nil, nil
			}

			return []docstore.Write{
				{Ref: actorRef, Fields: map[string]interface{}{"following": following.values()}},
				{Ref: targetRef, Fields: map[string]interface{}{"followers": followers.values()}},
			}, nil
		})
		if errors.Is(err, docstore.ErrConflict) {
			s.logger.Debug("follow transaction conflicted, retrying",
				zap.String("actor_id", actorID),
				zap.String("target_id", targetID),
				zap.Int("attempt", attempt),
			)
			continue
		}
		return err
	}

	s.logger.Warn("follow transaction exhausted retries",
		zap.String("actor_id", actorID),
		zap.String("target_id", targetID),
		zap.Int("attempts", s.maxAttempts),
	)
	return ErrFollowConflict
}

// IsFollowing reports whether actorID currently follows targetID. It is a
// single-document read used only for display, so it fails open to false on
// self-checks, unresolved ids, and read errors instead of surfacing them.
func (s *DocstoreFollowGraphService) IsFollowing(ctx context.Context, actorID, targetID string) bool {
	if actorID == targetID {
		return false
	}
	doc, err := s.store.Get(ctx, UsersCollection, targetID)
	if err != nil {
		if !errors.Is(err, docstore.ErrNotFound) {
			s.logger.Warn("is-following read failed",
				zap.String("actor_id", actorID),
				zap.String("target_id", targetID),
				zap.Error(err),
			)
		}
		return false
	}
	return memberSet(doc.Fields["followers"], targetID).has(actorID)
}

// ListFollowers resolves the followers of userID to profile summaries.
func (s *DocstoreFollowGraphService) ListFollowers(ctx context.Context, userID string) ([]models.UserProfileSummary, error) {
	return s.listMembers(ctx, userID, "followers")
}

// ListFollowing resolves the profiles userID follows to profile summaries.
func (s *DocstoreFollowGraphService) ListFollowing(ctx context.Context, userID string) ([]models.UserProfileSummary, error) {
	return s.listMembers(ctx, userID, "following")
}

func (s *DocstoreFollowGraphService) listMembers(ctx context.Context, userID, field string) ([]models.UserProfileSummary, error) {
	doc, err := s.store.Get(ctx, UsersCollection, userID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	ids := memberSet(doc.Fields[field], userID).values()
	if len(ids) == 0 {
		return []models.UserProfileSummary{}, nil
	}

	// Member ids pointing at deleted profiles simply vanish from the
	// result; BatchGet leaves them out.
	memberDocs, err := s.store.BatchGet(ctx, UsersCollection, ids)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.UserProfileSummary, 0, len(memberDocs))
	for _, md := range memberDocs {
		summaries = append(summaries, summaryFromDocument(md))
	}
	return summaries, nil
}

func summaryFromDocument(doc docstore.Document) models.UserProfileSummary {
	return models.UserProfileSummary{
		ID:        doc.ID,
		Username:  stringField(doc.Fields, "username"),
		FirstName: stringField(doc.Fields, "firstName"),
		LastName:  stringField(doc.Fields, "lastName"),
		PhotoURL:  stringField(doc.Fields, "photoURL"),
	}
}

func stringField(fields map[string]interface{}, key string) string {
	s, _ := fields[key].(string)
	return s
}

// stringSet is an insertion-ordered string set. The follow lists are stored
// as arrays, so order is preserved across rewrites to keep diffs minimal.
type stringSet struct {
	order []string
	seen  map[string]struct{}
}

// memberSet coerces a raw stored membership list into a stringSet, dropping
// non-string entries, duplicates, and the owner's own id.
func memberSet(raw interface{}, owner string) *stringSet {
	set := &stringSet{seen: make(map[string]struct{})}
	items, _ := raw.([]interface{})
	for _, item := range items {
		id, ok := item.(string)
		if !ok || id == owner {
			continue
		}
		set.add(id)
	}
	return set
}

func (s *stringSet) add(id string) bool {
	if _, ok := s.seen[id]; ok {
		return false
	}
	s.seen[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

func (s *stringSet) remove(id string) bool {
	if _, ok := s.seen[id]; !ok {
		return false
	}
	delete(s.seen, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *stringSet) has(id string) bool {
	_, ok := s.seen[id]
	return ok
}

func (s *stringSet) values() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
