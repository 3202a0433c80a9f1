package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Estados posibles de una solicitud de seguimiento
const (
	FollowRequestStatusPending  = "pending"
	FollowRequestStatusAccepted = "accepted"
	FollowRequestStatusRejected = "rejected"
)

// FollowRequest es la solicitud para seguir a una cuenta privada.
type FollowRequest struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	From      primitive.ObjectID `json:"from" bson:"from"`
	To        primitive.ObjectID `json:"to" bson:"to"`
	Status    string             `json:"status" bson:"status"` // pending|accepted|rejected
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// FollowResult es lo que devuelve el intento de seguir a alguien:
// o bien ya lo sigues (cuenta pública) o quedó una solicitud pendiente.
type FollowResult struct {
	Message string         `json:"message"`
	Status  string         `json:"status"` // following|requested
	Request *FollowRequest `json:"request,omitempty"`
}
