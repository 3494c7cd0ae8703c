package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"studioai/internal/app/studio/entity"
)

type photoRepository struct {
	collection *mongo.Collection
}

// NewPhotoRepository создает новый репозиторий сгенерированных фото.
// Автоматически создает индекс по user_id для выборки галереи пользователя.
func NewPhotoRepository(db *mongo.Database, collectionName string) PhotoRepository {
	collection := db.Collection(collectionName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "created_at", Value: -1},
		},
		Options: options.Index().SetName("user_id_created_at_idx"),
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		// Индекс может уже существовать - работу не прерываем
		fmt.Printf("Warning: failed to create index on user_id: %v\n", err)
	}

	return &photoRepository{
		collection: collection,
	}
}

// Create сохраняет запись о сгенерированном фото
func (r *photoRepository) Create(ctx context.Context, photo *entity.Photo) error {
	result, err := r.collection.InsertOne(ctx, photo)
	if err != nil {
		countDBError("photos.create")
		return fmt.Errorf("failed to create photo: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		photo.ID = oid
	}

	return nil
}

// ListByUser возвращает страницу фото пользователя (новые первыми) и общее количество
func (r *photoRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]entity.Photo, int64, error) {
	filter := bson.M{"user_id": userID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		countDBError("photos.list")
		return nil, 0, fmt.Errorf("failed to count photos: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		countDBError("photos.list")
		return nil, 0, fmt.Errorf("failed to find photos: %w", err)
	}
	defer cursor.Close(ctx)

	var photos []entity.Photo
	if err := cursor.All(ctx, &photos); err != nil {
		return nil, 0, fmt.Errorf("failed to decode photos: %w", err)
	}

	return photos, total, nil
}

// DeleteAllForUser удаляет все фото пользователя (удаление аккаунта)
func (r *photoRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		countDBError("photos.delete")
		return fmt.Errorf("failed to delete user photos: %w", err)
	}
	return nil
}
