package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tipos de notificación
const (
	NotificationFollowRequest  = "follow_request"
	NotificationFollowAccepted = "follow_accepted"
	NotificationNewFollower    = "new_follower"
)

type Notification struct {
	ID        primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Recipient primitive.ObjectID  `json:"recipient" bson:"recipient"`
	Sender    primitive.ObjectID  `json:"sender" bson:"sender"`
	Type      string              `json:"type" bson:"type"`
	Message   string              `json:"message" bson:"message"`
	RelatedID *primitive.ObjectID `json:"relatedId,omitempty" bson:"relatedId,omitempty"`
	Read      bool                `json:"read" bson:"read"`
	CreatedAt time.Time           `json:"createdAt" bson:"createdAt"`
}
