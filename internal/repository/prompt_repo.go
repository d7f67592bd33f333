package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"amberreview/internal/model"
)

// PromptRepo handles MongoDB operations for the prompt catalog. Room state is
// never persisted; only the catalog lives outside the process.
type PromptRepo interface {
	LoadAll(ctx context.Context) ([]model.Prompt, error)
	Seed(ctx context.Context, prompts []model.Prompt) error
}

type promptRepo struct {
	collection *mongo.Collection
}

// NewPromptRepo creates a new prompt repository.
func NewPromptRepo(db *mongo.Database) PromptRepo {
	return &promptRepo{
		collection: db.Collection("prompts"),
	}
}

func (r *promptRepo) LoadAll(ctx context.Context) ([]model.Prompt, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var prompts []model.Prompt
	if err := cursor.All(ctx, &prompts); err != nil {
		return nil, err
	}
	return prompts, nil
}

func (r *promptRepo) Seed(ctx context.Context, prompts []model.Prompt) error {
	for _, p := range prompts {
		// Upsert so reseeding is idempotent.
		_, err := r.collection.UpdateOne(ctx,
			bson.M{"_id": p.ID},
			bson.M{"$set": p},
			options.Update().SetUpsert(true))
		if err != nil {
			return err
		}
	}
	return nil
}
