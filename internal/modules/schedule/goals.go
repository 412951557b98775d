package schedule

import (
	"context"
	"time"

	"github.com/studykit/core/internal/database"
	"github.com/studykit/core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GoalStore persists a user's study goals. Unlike bundles, goals are a
// replace-set: each save swaps the user's whole goal list.
type GoalStore struct {
	db *mongo.Database
}

func NewGoalStore(db *mongo.Database) *GoalStore {
	return &GoalStore{db: db}
}

func (g *GoalStore) collection() *mongo.Collection {
	return g.db.Collection(models.CollectionGoals)
}

// Replace swaps the user's goal set for the given list.
func (g *GoalStore) Replace(ctx context.Context, userID string, goals []models.Goal) error {
	if _, err := g.collection().DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return &database.PersistenceError{Op: "replace goals", Err: err}
	}
	if len(goals) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(goals))
	now := time.Now()
	for _, goal := range goals {
		goal.UserID = userID
		if goal.CreatedAt.IsZero() {
			goal.CreatedAt = now
		}
		docs = append(docs, goal)
	}
	if _, err := g.collection().InsertMany(ctx, docs); err != nil {
		return &database.PersistenceError{Op: "replace goals", Err: err}
	}
	return nil
}

// List returns the user's goals. No goals is an empty slice, not an error.
func (g *GoalStore) List(ctx context.Context, userID string) ([]models.Goal, error) {
	cur, err := g.collection().Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, &database.PersistenceError{Op: "list goals", Err: err}
	}
	defer cur.Close(ctx)

	goals := make([]models.Goal, 0)
	if err := cur.All(ctx, &goals); err != nil {
		return nil, &database.PersistenceError{Op: "list goals", Err: err}
	}
	return goals, nil
}
