package repository

import (
	"context"
	"time"

	"puntualo-api/internal/db"
	"puntualo-api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository() *UserRepository {
	return &UserRepository{col: db.DB().Collection("users")}
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.UserDoc, error) {
	var u models.UserDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.UserDoc, error) {
	var u models.UserDoc
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepository) FindByHandle(ctx context.Context, handle string) (*models.UserDoc, error) {
	var u models.UserDoc
	err := r.col.FindOne(ctx, bson.M{"handle": handle}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepository) Insert(ctx context.Context, u *models.UserDoc) error {
	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

// UpdateByID aplica un $set parcial sobre el usuario.
func (r *UserRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *UserRepository) CountUsers(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

// ====== Ratings embebidos ======

// UpsertRating actualiza el rating existente del (usuario, item) si ya hay
// uno, o lo agrega como subdocumento nuevo. Nunca quedan dos ratings del
// mismo item para el mismo usuario.
func (r *UserRepository) UpsertRating(ctx context.Context, userID primitive.ObjectID, rating models.RatedItem) error {
	set := bson.M{
		"ratedItems.$.itemType":     rating.ItemType,
		"ratedItems.$.comment":      rating.Comment,
		"ratedItems.$.status":       rating.Status,
		"ratedItems.$.lastModified": rating.LastModified,
	}
	update := bson.M{"$set": set}
	if rating.Score != nil {
		set["ratedItems.$.score"] = *rating.Score
	} else {
		// sin score: se elimina el campo para no guardar un 0 fantasma
		update["$unset"] = bson.M{"ratedItems.$.score": ""}
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": userID, "ratedItems.itemId": rating.ItemID},
		update,
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// no existía: push como rating nuevo
	if rating.ID.IsZero() {
		rating.ID = primitive.NewObjectID()
	}
	res2, err := r.col.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$push": bson.M{"ratedItems": rating}},
	)
	if err != nil {
		return err
	}
	if res2.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// RemoveRating elimina un subdocumento de ratedItems por su _id.
func (r *UserRepository) RemoveRating(ctx context.Context, userID, ratingID primitive.ObjectID) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"ratedItems": bson.M{"_id": ratingID}}},
	)
	return err
}

// ====== Grafo de seguimiento ======

// AddFollow registra el follow en ambos lados ($addToSet evita duplicados).
func (r *UserRepository) AddFollow(ctx context.Context, followerID, targetID primitive.ObjectID) error {
	if _, err := r.col.UpdateOne(ctx,
		bson.M{"_id": followerID},
		bson.M{"$addToSet": bson.M{"following": targetID}},
	); err != nil {
		return err
	}
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": targetID},
		bson.M{"$addToSet": bson.M{"followers": followerID}},
	)
	return err
}

// RemoveFollow deshace el follow en ambos lados.
func (r *UserRepository) RemoveFollow(ctx context.Context, followerID, targetID primitive.ObjectID) error {
	if _, err := r.col.UpdateOne(ctx,
		bson.M{"_id": followerID},
		bson.M{"$pull": bson.M{"following": targetID}},
	); err != nil {
		return err
	}
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": targetID},
		bson.M{"$pull": bson.M{"followers": followerID}},
	)
	return err
}

// ====== Proyecciones para recomendador y feed ======

// ListAllWithRatings devuelve _id + ratedItems de todos los usuarios
// (incluidos los que no tienen ratings). Es el full scan que alimenta la
// matriz de ratings del recomendador.
func (r *UserRepository) ListAllWithRatings(ctx context.Context) ([]models.UserRatings, error) {
	opts := options.Find().SetProjection(bson.M{"ratedItems": 1})

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.UserRatings
	for cur.Next(ctx) {
		var u models.UserRatings
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, cur.Err()
}

// FindPublicWithRatings devuelve los usuarios pedidos con su identidad
// pública y sus ratedItems (lo que necesita el feed). El orden no está
// garantizado.
func (r *UserRepository) FindPublicWithRatings(ctx context.Context, ids []primitive.ObjectID) ([]models.UserDoc, error) {
	opts := options.Find().SetProjection(bson.M{
		"name":          1,
		"handle":        1,
		"avatarBgColor": 1,
		"ratedItems":    1,
	})

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.UserDoc
	for cur.Next(ctx) {
		var u models.UserDoc
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, cur.Err()
}

// TouchUpdatedAt deja constancia de la última modificación del perfil.
func (r *UserRepository) TouchUpdatedAt(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"updatedAt": time.Now().UTC().Format(time.RFC3339)}},
	)
	return err
}
