package repository

import (
	"context"

	"puntualo-api/internal/db"
	"puntualo-api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FollowRequestRepository struct {
	col *mongo.Collection
}

func NewFollowRequestRepository() *FollowRequestRepository {
	return &FollowRequestRepository{
		col: db.DB().Collection("follow_requests"),
	}
}

func (r *FollowRequestRepository) Insert(ctx context.Context, fr *models.FollowRequest) error {
	res, err := r.col.InsertOne(ctx, fr)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		fr.ID = oid
	}
	return nil
}

func (r *FollowRequestRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.FollowRequest, error) {
	var fr models.FollowRequest
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&fr)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &fr, err
}

// FindPending busca una solicitud pendiente entre dos usuarios concretos
// (para no duplicar solicitudes).
func (r *FollowRequestRepository) FindPending(ctx context.Context, from, to primitive.ObjectID) (*models.FollowRequest, error) {
	var fr models.FollowRequest
	err := r.col.FindOne(ctx, bson.M{
		"from":   from,
		"to":     to,
		"status": models.FollowRequestStatusPending,
	}).Decode(&fr)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &fr, err
}

func (r *FollowRequestRepository) Update(ctx context.Context, fr *models.FollowRequest) error {
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": fr.ID}, fr)
	return err
}

// FindByRecipient lista las solicitudes recibidas por un usuario,
// opcionalmente filtradas por estado, más recientes primero.
func (r *FollowRequestRepository) FindByRecipient(
	ctx context.Context,
	to primitive.ObjectID,
	status string,
	limit, offset int,
) ([]models.FollowRequest, error) {

	filter := bson.M{"to": to}
	if status != "" && status != "all" {
		filter["status"] = status
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(int64(offset)).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.FollowRequest
	for cur.Next(ctx) {
		var fr models.FollowRequest
		if err := cur.Decode(&fr); err != nil {
			return nil, err
		}
		out = append(out, fr)
	}
	return out, cur.Err()
}
