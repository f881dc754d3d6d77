package engagement

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tahmid-rahman/inkwell-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newFanoutFixture(reachable bool) (*Fanout, *fakeNotifs, *fakePresence, *models.User, *models.User) {
	alice := &models.User{ID: primitive.NewObjectID(), Username: "alice"}
	bob := &models.User{ID: primitive.NewObjectID(), Username: "bob"}

	notifs := newFakeNotifs()
	presence := newFakePresence(reachable)
	fanout := NewFanout(notifs, newFakeUsers(alice, bob), presence, logrus.New())
	return fanout, notifs, presence, alice, bob
}

func TestNotifyOnCreatePersistsUnread(t *testing.T) {
	fanout, notifs, _, alice, bob := newFanoutFixture(true)

	n, err := fanout.NotifyOnCreate(context.Background(), models.NotificationFollow, bob.ID.Hex(), alice.ID.Hex(), models.NoSubject())
	require.NoError(t, err)
	require.NotNil(t, n)

	assert.False(t, n.Read)
	assert.False(t, n.CreatedAt.IsZero())
	assert.Len(t, notifs.records, 1)
}

func TestNotifyOnCreateSelfSuppressed(t *testing.T) {
	fanout, notifs, _, alice, _ := newFanoutFixture(true)

	n, err := fanout.NotifyOnCreate(context.Background(), models.NotificationBookmark, alice.ID.Hex(), alice.ID.Hex(), models.PostSubject(primitive.NewObjectID().Hex()))
	require.NoError(t, err)
	assert.Nil(t, n)
	assert.Empty(t, notifs.records)
}

func TestNotifyOnCreateDedupReturnsExisting(t *testing.T) {
	fanout, notifs, _, alice, bob := newFanoutFixture(true)
	ctx := context.Background()
	subject := models.PostSubject(primitive.NewObjectID().Hex())

	first, err := fanout.NotifyOnCreate(ctx, models.NotificationLike, bob.ID.Hex(), alice.ID.Hex(), subject)
	require.NoError(t, err)

	second, err := fanout.NotifyOnCreate(ctx, models.NotificationLike, bob.ID.Hex(), alice.ID.Hex(), subject)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, notifs.records, 1)
}

func TestNotifyOnCreateDistinctSubjectsNotify(t *testing.T) {
	fanout, notifs, _, alice, bob := newFanoutFixture(true)
	ctx := context.Background()

	_, err := fanout.NotifyOnCreate(ctx, models.NotificationLike, bob.ID.Hex(), alice.ID.Hex(), models.PostSubject(primitive.NewObjectID().Hex()))
	require.NoError(t, err)
	_, err = fanout.NotifyOnCreate(ctx, models.NotificationLike, bob.ID.Hex(), alice.ID.Hex(), models.PostSubject(primitive.NewObjectID().Hex()))
	require.NoError(t, err)

	assert.Len(t, notifs.records, 2)
}

func TestNotifyOnCreatePushesLiveEvent(t *testing.T) {
	fanout, _, presence, alice, bob := newFanoutFixture(true)

	_, err := fanout.NotifyOnCreate(context.Background(), models.NotificationFollow, bob.ID.Hex(), alice.ID.Hex(), models.NoSubject())
	require.NoError(t, err)

	events := presence.delivered[bob.ID.Hex()]
	require.Len(t, events, 1)
	assert.Equal(t, models.NotificationFollow, events[0].Type)
	assert.Equal(t, "alice", events[0].Actor.Username)
	assert.False(t, events[0].CreatedAt.IsZero())
}

func TestNotifyOnCreateUnreachableRecipientIgnored(t *testing.T) {
	fanout, notifs, presence, alice, bob := newFanoutFixture(false)

	n, err := fanout.NotifyOnCreate(context.Background(), models.NotificationFollow, bob.ID.Hex(), alice.ID.Hex(), models.NoSubject())
	require.NoError(t, err)
	require.NotNil(t, n)

	// record persisted even though nothing was delivered
	assert.Len(t, notifs.records, 1)
	assert.Empty(t, presence.delivered[bob.ID.Hex()])
}

func TestNotifyOnCreateNilPresence(t *testing.T) {
	alice := &models.User{ID: primitive.NewObjectID(), Username: "alice"}
	bob := &models.User{ID: primitive.NewObjectID(), Username: "bob"}
	notifs := newFakeNotifs()
	fanout := NewFanout(notifs, newFakeUsers(alice, bob), nil, logrus.New())

	n, err := fanout.NotifyOnCreate(context.Background(), models.NotificationFollow, bob.ID.Hex(), alice.ID.Hex(), models.NoSubject())
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Len(t, notifs.records, 1)
}

func TestNotifyOnCreatePersistFailureSurfaces(t *testing.T) {
	fanout, notifs, presence, alice, bob := newFanoutFixture(true)
	notifs.createErr = errors.New("store down")

	_, err := fanout.NotifyOnCreate(context.Background(), models.NotificationFollow, bob.ID.Hex(), alice.ID.Hex(), models.NoSubject())
	require.Error(t, err)
	assert.Empty(t, presence.delivered[bob.ID.Hex()])
}
