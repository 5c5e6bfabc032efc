package handlers

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var errLikeTargetNotFound = errors.New("like target not found")

type likeState struct {
	Liked     bool
	LikeCount int
}

// toggleLike flips the caller's membership in the target's likes set.
//
// Each branch is a single guarded update, so two concurrent toggles for the
// same (target, user) pair cannot double-count: the add branch only matches
// while the user is absent from likes, the remove branch only while present.
// The stored likeCount moves with the same update via $inc; the reported count
// is derived from the returned likes array, which floors it at zero even for
// drifted legacy documents.
func toggleLike(ctx context.Context, coll *mongo.Collection, targetID, userID primitive.ObjectID) (likeState, error) {
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc struct {
		Likes []primitive.ObjectID `bson:"likes"`
	}

	err := coll.FindOneAndUpdate(ctx,
		bson.M{"_id": targetID, "likes": bson.M{"$ne": userID}},
		bson.M{
			"$addToSet": bson.M{"likes": userID},
			"$inc":      bson.M{"likeCount": 1},
		},
		after,
	).Decode(&doc)
	if err == nil {
		return likeState{Liked: true, LikeCount: len(doc.Likes)}, nil
	}
	if err != mongo.ErrNoDocuments {
		return likeState{}, err
	}

	// Either the user already liked the target, or the target is gone.
	err = coll.FindOneAndUpdate(ctx,
		bson.M{"_id": targetID, "likes": userID},
		bson.M{
			"$pull": bson.M{"likes": userID},
			"$inc":  bson.M{"likeCount": -1},
		},
		after,
	).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return likeState{}, errLikeTargetNotFound
	}
	if err != nil {
		return likeState{}, err
	}

	return likeState{Liked: false, LikeCount: len(doc.Likes)}, nil
}

// toggleMembership is the pure counterpart of toggleLike, used to reason about
// (and test) the toggle semantics: flip membership, report the new state.
func toggleMembership(likes []primitive.ObjectID, userID primitive.ObjectID) ([]primitive.ObjectID, bool) {
	out := make([]primitive.ObjectID, 0, len(likes)+1)
	removed := false
	for _, id := range likes {
		if id == userID {
			removed = true
			continue
		}
		out = append(out, id)
	}
	if removed {
		return out, false
	}
	return append(out, userID), true
}
