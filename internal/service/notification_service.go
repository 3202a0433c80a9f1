package service

import (
	"context"
	"fmt"
	"log"

	"puntualo-api/internal/models"
	"puntualo-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationService struct {
	notifs *repository.NotificationRepository
}

func NewNotificationService(notifs *repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifs: notifs}
}

// Notify crea una notificación. Que falle no debe romper la operación que
// la originó, así que solo se loguea.
func (s *NotificationService) Notify(ctx context.Context, recipient, sender primitive.ObjectID, ntype, message string, relatedID *primitive.ObjectID) {
	n := &models.Notification{
		Recipient: recipient,
		Sender:    sender,
		Type:      ntype,
		Message:   message,
		RelatedID: relatedID,
		Read:      false,
	}
	if err := s.notifs.Insert(ctx, n); err != nil {
		log.Printf("[notifications] error creando notificación: %v", err)
	}
}

func (s *NotificationService) GetAll(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []models.Notification{}, nil
	}
	return s.notifs.FindByRecipient(ctx, uid, unreadOnly)
}

func (s *NotificationService) CountUnread(ctx context.Context, userID string) (int64, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, nil
	}
	return s.notifs.CountUnread(ctx, uid)
}

func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	nid, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		return fmt.Errorf("notificationId inválido")
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("userId inválido")
	}
	return s.notifs.MarkRead(ctx, nid, uid)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("userId inválido")
	}
	return s.notifs.MarkAllRead(ctx, uid)
}

func (s *NotificationService) Delete(ctx context.Context, notificationID, userID string) error {
	nid, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		return fmt.Errorf("notificationId inválido")
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("userId inválido")
	}
	return s.notifs.Delete(ctx, nid, uid)
}
