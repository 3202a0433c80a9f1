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

type ItemRepository struct {
	col *mongo.Collection
}

func NewItemRepository() *ItemRepository {
	return &ItemRepository{col: db.DB().Collection("items")}
}

func (r *ItemRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.ItemDoc, error) {
	var it models.ItemDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&it)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &it, err
}

// FindByIDs trae en lote los items pedidos. El orden del resultado NO es el
// orden de los ids: el caller debe reordenar si le importa el ranking.
func (r *ItemRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.ItemDoc, error) {
	if len(ids) == 0 {
		return []models.ItemDoc{}, nil
	}

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ItemDoc
	for cur.Next(ctx) {
		var it models.ItemDoc
		if err := cur.Decode(&it); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, cur.Err()
}

func (r *ItemRepository) Insert(ctx context.Context, it *models.ItemDoc) error {
	res, err := r.col.InsertOne(ctx, it)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		it.ID = oid
	}
	return nil
}

func (r *ItemRepository) Search(
	ctx context.Context,
	q string,
	itemType string,
	limit, offset int,
) ([]models.ItemDoc, error) {

	filter := bson.M{}
	if q != "" {
		filter["title"] = bson.M{"$regex": q, "$options": "i"}
	}
	if itemType != "" {
		filter["itemType"] = itemType
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ItemDoc
	for cur.Next(ctx) {
		var it models.ItemDoc
		if err := cur.Decode(&it); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, cur.Err()
}

func (r *ItemRepository) CountByType(ctx context.Context, itemType string) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"itemType": itemType})
}
