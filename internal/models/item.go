package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Tipos de item soportados
const (
	ItemTypeMovie  = "movie"
	ItemTypeSeries = "series"
	ItemTypeBook   = "book"
)

// ItemData es el payload descriptivo del item (viene de TMDB / Google Books
// vía el cliente; aquí solo se persiste).
type ItemData struct {
	Type        string   `json:"type,omitempty" bson:"type,omitempty"`
	Cover       string   `json:"cover,omitempty" bson:"cover,omitempty"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
	Author      string   `json:"author,omitempty" bson:"author,omitempty"`
	Genres      []string `json:"genres,omitempty" bson:"genres,omitempty"`
}

type ItemDoc struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ItemType   string             `json:"itemType" bson:"itemType"`
	Title      string             `json:"title" bson:"title"`
	Data       ItemData           `json:"data" bson:"data"`
	ExternalID string             `json:"externalId,omitempty" bson:"externalId,omitempty"`
}
