package engagement

import (
	"context"
	"errors"

	"github.com/tahmid-rahman/inkwell-backend/internal/apperrors"
	"github.com/tahmid-rahman/inkwell-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeUsers is an in-memory UserRepository keyed by hex id.
type fakeUsers struct {
	byID map[string]*models.User
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{byID: make(map[string]*models.User)}
	for _, u := range users {
		f.byID[u.ID.Hex()] = u
	}
	return f
}

func (f *fakeUsers) CreateUser(_ context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	f.byID[user.ID.Hex()] = user
	return nil
}

func (f *fakeUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, apperrors.NotFound("user not found")
}

func (f *fakeUsers) GetUserByLogin(_ context.Context, username, email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Username == username || u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user not found")
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user not found")
}

func (f *fakeUsers) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	for _, u := range f.byID {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id string, update models.UpdateProfileRequest) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	if update.Name != "" {
		u.Name = update.Name
	}
	if update.Bio != "" {
		u.Bio = update.Bio
	}
	return u, nil
}

// fakePosts is an in-memory PostRepository keyed by hex id.
type fakePosts struct {
	byID map[string]*models.Post
}

func newFakePosts(posts ...*models.Post) *fakePosts {
	f := &fakePosts{byID: make(map[string]*models.Post)}
	for _, p := range posts {
		f.byID[p.ID.Hex()] = p
	}
	return f
}

func (f *fakePosts) CreatePost(_ context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	f.byID[post.ID.Hex()] = post
	return nil
}

func (f *fakePosts) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, apperrors.NotFound("post not found")
}

func (f *fakePosts) GetPostBySlug(_ context.Context, slug string) (*models.Post, error) {
	for _, p := range f.byID {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, apperrors.NotFound("post not found")
}

func (f *fakePosts) ViewPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	p, err := f.GetPostBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	p.Views++
	return p, nil
}

func (f *fakePosts) ListPublished(_ context.Context, _, _ int64) ([]models.Post, error) {
	var posts []models.Post
	for _, p := range f.byID {
		if p.Status == models.PostStatusPublished {
			posts = append(posts, *p)
		}
	}
	return posts, nil
}

func (f *fakePosts) UpdatePost(_ context.Context, slug string, _ models.UpdatePostRequest) (*models.Post, error) {
	return f.GetPostBySlug(context.Background(), slug)
}

func (f *fakePosts) DeletePost(_ context.Context, slug string) error {
	for id, p := range f.byID {
		if p.Slug == slug {
			delete(f.byID, id)
			return nil
		}
	}
	return apperrors.NotFound("post not found")
}

// fakeRels keeps the mirrored sets in maps. The mirror is updated in lockstep
// the way the transactional repository does.
type fakeRels struct {
	following       map[string]map[string]bool // follower -> followee set
	followers       map[string]map[string]bool // followee -> follower set
	bookmarksByUser map[string]map[string]bool // user -> post set
	bookmarksByPost map[string]map[string]bool // post -> user set
	likesByPost     map[string]map[string]bool // post -> user set
	failWrites      bool
}

func newFakeRels() *fakeRels {
	return &fakeRels{
		following:       make(map[string]map[string]bool),
		followers:       make(map[string]map[string]bool),
		bookmarksByUser: make(map[string]map[string]bool),
		bookmarksByPost: make(map[string]map[string]bool),
		likesByPost:     make(map[string]map[string]bool),
	}
}

func put(m map[string]map[string]bool, key, member string) {
	if m[key] == nil {
		m[key] = make(map[string]bool)
	}
	m[key][member] = true
}

func (f *fakeRels) IsFollowing(_ context.Context, followerID, followeeID string) (bool, error) {
	return f.following[followerID][followeeID], nil
}

func (f *fakeRels) AddFollow(_ context.Context, followerID, followeeID string) error {
	if f.failWrites {
		return apperrors.Storage("relationship write failed", errors.New("boom"))
	}
	put(f.following, followerID, followeeID)
	put(f.followers, followeeID, followerID)
	return nil
}

func (f *fakeRels) RemoveFollow(_ context.Context, followerID, followeeID string) error {
	if f.failWrites {
		return apperrors.Storage("relationship write failed", errors.New("boom"))
	}
	delete(f.following[followerID], followeeID)
	delete(f.followers[followeeID], followerID)
	return nil
}

func (f *fakeRels) FollowCounts(_ context.Context, userID string) (int64, int64, error) {
	return int64(len(f.followers[userID])), int64(len(f.following[userID])), nil
}

func (f *fakeRels) HasBookmarked(_ context.Context, userID, postID string) (bool, error) {
	return f.bookmarksByUser[userID][postID], nil
}

func (f *fakeRels) AddBookmark(_ context.Context, userID, postID string) error {
	put(f.bookmarksByUser, userID, postID)
	put(f.bookmarksByPost, postID, userID)
	return nil
}

func (f *fakeRels) RemoveBookmark(_ context.Context, userID, postID string) error {
	delete(f.bookmarksByUser[userID], postID)
	delete(f.bookmarksByPost[postID], userID)
	return nil
}

func (f *fakeRels) HasLiked(_ context.Context, userID, postID string) (bool, error) {
	return f.likesByPost[postID][userID], nil
}

func (f *fakeRels) AddLike(_ context.Context, userID, postID string) error {
	put(f.likesByPost, postID, userID)
	return nil
}

func (f *fakeRels) RemoveLike(_ context.Context, userID, postID string) error {
	delete(f.likesByPost[postID], userID)
	return nil
}

func (f *fakeRels) LikeCount(_ context.Context, postID string) (int64, error) {
	return int64(len(f.likesByPost[postID])), nil
}

// mirrorAgrees checks the follower/following pair invariant from both sides.
func (f *fakeRels) mirrorAgrees(a, b string) bool {
	return f.following[a][b] == f.followers[b][a]
}

// fakeNotifs is an in-memory NotificationRepository.
type fakeNotifs struct {
	records   []*models.Notification
	nextID    uint
	createErr error
}

func newFakeNotifs() *fakeNotifs {
	return &fakeNotifs{nextID: 1}
}

func (f *fakeNotifs) Create(_ context.Context, n *models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	n.ID = f.nextID
	f.nextID++
	f.records = append(f.records, n)
	return nil
}

func (f *fakeNotifs) FindByTuple(_ context.Context, recipientID, actorID, notifType string, subject models.Subject) (*models.Notification, error) {
	for _, n := range f.records {
		if n.RecipientID == recipientID && n.ActorID == actorID && n.Type == notifType &&
			n.SubjectKind == subject.Kind && n.SubjectID == subject.ID {
			return n, nil
		}
	}
	return nil, nil
}

func (f *fakeNotifs) ListByRecipient(_ context.Context, recipientID string) ([]models.Notification, error) {
	var out []models.Notification
	// records append oldest first; list newest first
	for i := len(f.records) - 1; i >= 0; i-- {
		if f.records[i].RecipientID == recipientID {
			out = append(out, *f.records[i])
		}
	}
	return out, nil
}

func (f *fakeNotifs) GetByID(_ context.Context, id uint) (*models.Notification, error) {
	for _, n := range f.records {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, apperrors.NotFound("notification not found")
}

func (f *fakeNotifs) MarkRead(_ context.Context, id uint) error {
	for _, n := range f.records {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return apperrors.NotFound("notification not found")
}

func (f *fakeNotifs) UnreadCount(_ context.Context, recipientID string) (int64, error) {
	var count int64
	for _, n := range f.records {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

// fakePresence records deliveries and answers with a fixed reachability.
type fakePresence struct {
	reachable bool
	delivered map[string][]Event
}

func newFakePresence(reachable bool) *fakePresence {
	return &fakePresence{reachable: reachable, delivered: make(map[string][]Event)}
}

func (f *fakePresence) Deliver(recipientID string, event Event) bool {
	if !f.reachable {
		return false
	}
	f.delivered[recipientID] = append(f.delivered[recipientID], event)
	return true
}
