package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Estados posibles de un item puntuado
const (
	RatedStatusWatching  = "watching"
	RatedStatusCompleted = "completed"
)

// RatedItem es el subdocumento embebido en users.ratedItems.
// Score es puntero porque el usuario puede marcar estado sin puntuar.
type RatedItem struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ItemID       primitive.ObjectID `json:"itemId" bson:"itemId"`
	ItemType     string             `json:"itemType" bson:"itemType"`
	Score        *float64           `json:"score,omitempty" bson:"score,omitempty"`
	Comment      string             `json:"comment,omitempty" bson:"comment,omitempty"`
	Status       string             `json:"status" bson:"status"`
	LastModified time.Time          `json:"lastModified" bson:"lastModified"`
}

type UserDoc struct {
	ID            primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Handle        string               `json:"handle" bson:"handle"`
	Name          string               `json:"name" bson:"name"`
	Email         string               `json:"email" bson:"email"`
	PasswordHash  string               `json:"-" bson:"passwordHash"`
	Description   string               `json:"description,omitempty" bson:"description,omitempty"`
	IsPrivate     bool                 `json:"isPrivate" bson:"isPrivate"`
	AvatarBgColor string               `json:"avatarBgColor,omitempty" bson:"avatarBgColor,omitempty"`
	Followers     []primitive.ObjectID `json:"followers" bson:"followers"`
	Following     []primitive.ObjectID `json:"following" bson:"following"`
	RatedItems    []RatedItem          `json:"ratedItems" bson:"ratedItems"`
	CreatedAt     string               `json:"createdAt" bson:"createdAt"`
	UpdatedAt     string               `json:"updatedAt" bson:"updatedAt"`
}

// PublicUser es la vista pública de un usuario (feed, followers, notificaciones).
type PublicUser struct {
	ID            primitive.ObjectID `json:"id" bson:"_id"`
	Name          string             `json:"name" bson:"name"`
	Handle        string             `json:"handle" bson:"handle"`
	AvatarBgColor string             `json:"avatarBgColor,omitempty" bson:"avatarBgColor,omitempty"`
}

// UserRatings es la proyección mínima que consume el recomendador:
// solo _id y ratedItems de cada usuario.
type UserRatings struct {
	ID         primitive.ObjectID `json:"id" bson:"_id"`
	RatedItems []RatedItem        `json:"ratedItems" bson:"ratedItems"`
}

// RatedItemView es un rating propio con su item resuelto
// (lo que devuelve GET /users/{id}/ratings).
type RatedItemView struct {
	RatedItem
	Item *ItemDoc `json:"item,omitempty"`
}
