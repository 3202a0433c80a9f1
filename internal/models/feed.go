package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedEntry es un rating de un usuario seguido, con la identidad pública del
// que puntuó y el item resuelto. Item puede ser nil si el item fue borrado
// después de puntuarse (left join).
type FeedEntry struct {
	ItemID       primitive.ObjectID `json:"itemId" bson:"itemId"`
	ItemType     string             `json:"itemType" bson:"itemType"`
	Score        *float64           `json:"score,omitempty" bson:"score,omitempty"`
	Comment      string             `json:"comment,omitempty" bson:"comment,omitempty"`
	Status       string             `json:"status" bson:"status"`
	LastModified time.Time          `json:"lastModified" bson:"lastModified"`
	User         PublicUser         `json:"user" bson:"user"`
	Item         *ItemDoc           `json:"item,omitempty" bson:"item,omitempty"`
}

type FeedPage struct {
	Items []FeedEntry `json:"items"`
	Total int         `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}
