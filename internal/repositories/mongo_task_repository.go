package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"task-manager.com/task-manager/internal/constants"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
)

const mongoTaskCollection = "tasks"

type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Completed   bool               `bson:"completed"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d taskDocument) toModel() model.Task {
	return model.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Completed:   d.Completed,
		Status:      constants.TaskStatus(d.Status),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// MongoTaskRepository keeps tasks as documents in a single collection.
// Ids are ObjectIDs; listing is newest first.
type MongoTaskRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoTaskRepository(client *mongo.Client, database string) *MongoTaskRepository {
	return &MongoTaskRepository{
		client:     client,
		collection: client.Database(database).Collection(mongoTaskCollection),
	}
}

func (r *MongoTaskRepository) Create(ctx context.Context, task *model.Task) error {
	now := time.Now().UTC()
	doc := taskDocument{
		ID:          primitive.NewObjectID(),
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		Status:      string(task.Status),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	*task = doc.toModel()
	return nil
}

func (r *MongoTaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	oid, ok := parseObjectID(id)
	if !ok {
		return nil, apperrors.ErrTaskNotFound
	}

	var doc taskDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}

	task := doc.toModel()
	return &task, nil
}

func (r *MongoTaskRepository) List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, mongoFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	tasks := make([]model.Task, 0, len(docs))
	for _, doc := range docs {
		tasks = append(tasks, doc.toModel())
	}
	return tasks, nil
}

func (r *MongoTaskRepository) Update(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	oid, ok := parseObjectID(id)
	if !ok {
		return nil, apperrors.ErrTaskNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc taskDocument
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": mongoSet(patch, time.Now().UTC())},
		opts,
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	task := doc.toModel()
	return &task, nil
}

func (r *MongoTaskRepository) Delete(ctx context.Context, id string) error {
	oid, ok := parseObjectID(id)
	if !ok {
		return apperrors.ErrTaskNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

func (r *MongoTaskRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func parseObjectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

func mongoFilter(filter model.TaskFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.Query != "" {
		needle := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Query), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": needle},
			bson.M{"description": needle},
		}
	}
	return query
}

func mongoSet(patch model.TaskPatch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Completed != nil {
		set["completed"] = *patch.Completed
	}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}
	return set
}
