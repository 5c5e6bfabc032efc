package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToggleMembershipAddsWhenAbsent(t *testing.T) {
	user := primitive.NewObjectID()
	other := primitive.NewObjectID()

	likes, liked := toggleMembership([]primitive.ObjectID{other}, user)

	assert.True(t, liked)
	assert.Len(t, likes, 2)
	assert.Contains(t, likes, user)
	assert.Contains(t, likes, other)
}

func TestToggleMembershipRemovesWhenPresent(t *testing.T) {
	user := primitive.NewObjectID()
	other := primitive.NewObjectID()

	likes, liked := toggleMembership([]primitive.ObjectID{other, user}, user)

	assert.False(t, liked)
	assert.Equal(t, []primitive.ObjectID{other}, likes)
}

func TestToggleMembershipIsInvolution(t *testing.T) {
	user := primitive.NewObjectID()
	initial := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}

	once, liked := toggleMembership(initial, user)
	assert.True(t, liked)

	twice, liked := toggleMembership(once, user)
	assert.False(t, liked)
	assert.Equal(t, initial, twice)
}

func TestToggleMembershipCountMatchesLength(t *testing.T) {
	users := []primitive.ObjectID{
		primitive.NewObjectID(),
		primitive.NewObjectID(),
		primitive.NewObjectID(),
	}

	var likes []primitive.ObjectID
	for _, u := range users {
		likes, _ = toggleMembership(likes, u)
	}
	assert.Len(t, likes, len(users))

	likes, _ = toggleMembership(likes, users[1])
	assert.Len(t, likes, len(users)-1)
	assert.NotContains(t, likes, users[1])
}
