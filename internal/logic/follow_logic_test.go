package logic

import (
	"testing"

	"github.com/dootling/dcs/internal/apperr"
	"github.com/dootling/dcs/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	follows := NewFollowLogic(db)

	first, err := follows.Follow(alice.Id, bob.Id)
	require.NoError(t, err)

	second, err := follows.Follow(alice.Id, bob.Id)
	require.NoError(t, err)
	assert.Equal(t, first.Id, second.Id)

	var count int64
	require.NoError(t, db.Model(&model.Follow{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFollowSelfRejected(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	follows := NewFollowLogic(db)

	_, err := follows.Follow(alice.Id, alice.Id)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "a user cannot follow themselves", apperr.MessageOf(err))
}

func TestFollowUnknownTarget(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	follows := NewFollowLogic(db)

	_, err := follows.Follow(alice.Id, "missing-user")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUnfollow(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	follows := NewFollowLogic(db)

	_, err := follows.Follow(alice.Id, bob.Id)
	require.NoError(t, err)

	require.NoError(t, follows.Unfollow(alice.Id, bob.Id))

	// 再次取关返回未找到
	err = follows.Unfollow(alice.Id, bob.Id)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestListFollowersAndFollowing(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")
	follows := NewFollowLogic(db)

	_, err := follows.Follow(bob.Id, alice.Id)
	require.NoError(t, err)
	_, err = follows.Follow(carol.Id, alice.Id)
	require.NoError(t, err)
	_, err = follows.Follow(alice.Id, bob.Id)
	require.NoError(t, err)

	followers, err := follows.ListFollowers(alice.Id, 0, 0)
	require.NoError(t, err)
	assert.Len(t, followers, 2)

	following, err := follows.ListFollowing(alice.Id, 0, 0)
	require.NoError(t, err)
	require.Len(t, following, 1)
	require.NotNil(t, following[0].Following)
	assert.Equal(t, "bob", following[0].Following.Username)
}

func TestFindUsersExcludesSelfAndFollowed(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")
	follows := NewFollowLogic(db)

	_, err := follows.Follow(alice.Id, bob.Id)
	require.NoError(t, err)

	users, err := follows.FindUsers(alice.Id, "", 10, 0)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, carol.Id, users[0].Id)

	// 搜索词过滤
	users, err = follows.FindUsers(alice.Id, "car", 10, 0)
	require.NoError(t, err)
	require.Len(t, users, 1)

	users, err = follows.FindUsers(alice.Id, "zzz", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, users)
}
