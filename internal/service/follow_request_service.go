package service

import (
	"context"
	"fmt"
	"time"

	"puntualo-api/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Colaboradores del flujo de follows. Los repos de Mongo y el
// NotificationService los implementan; los tests usan fakes.

type FollowRequestStore interface {
	Insert(ctx context.Context, fr *models.FollowRequest) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.FollowRequest, error)
	FindPending(ctx context.Context, from, to primitive.ObjectID) (*models.FollowRequest, error)
	Update(ctx context.Context, fr *models.FollowRequest) error
	FindByRecipient(ctx context.Context, to primitive.ObjectID, status string, limit, offset int) ([]models.FollowRequest, error)
}

type FollowUserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.UserDoc, error)
	AddFollow(ctx context.Context, followerID, targetID primitive.ObjectID) error
}

type Notifier interface {
	Notify(ctx context.Context, recipient, sender primitive.ObjectID, ntype, message string, relatedID *primitive.ObjectID)
}

type FollowRequestService struct {
	requests FollowRequestStore
	users    FollowUserStore
	notifs   Notifier
}

func NewFollowRequestService(
	requests FollowRequestStore,
	users FollowUserStore,
	notifs Notifier,
) *FollowRequestService {
	return &FollowRequestService{
		requests: requests,
		users:    users,
		notifs:   notifs,
	}
}

// Follow intenta seguir a un usuario. Cuenta pública: sigue directo.
// Cuenta privada: deja una solicitud pendiente y notifica al destinatario.
func (s *FollowRequestService) Follow(ctx context.Context, fromID, toID string) (*models.FollowResult, error) {
	from, err := primitive.ObjectIDFromHex(fromID)
	if err != nil {
		return nil, fmt.Errorf("userId inválido")
	}
	to, err := primitive.ObjectIDFromHex(toID)
	if err != nil {
		return nil, fmt.Errorf("userId inválido")
	}

	if from == to {
		// seguirse a uno mismo es un no-op
		return &models.FollowResult{Message: "Ya eres tú", Status: "following"}, nil
	}

	target, err := s.users.FindByID(ctx, to)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fmt.Errorf("usuario no encontrado")
	}

	if !target.IsPrivate {
		if err := s.users.AddFollow(ctx, from, to); err != nil {
			return nil, err
		}
		return &models.FollowResult{Message: "Ahora sigues a este usuario", Status: "following"}, nil
	}

	// cuenta privada: ¿ya hay solicitud pendiente?
	existing, err := s.requests.FindPending(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &models.FollowResult{
			Message: "Ya has enviado una solicitud a este usuario",
			Status:  "requested",
			Request: existing,
		}, nil
	}

	now := time.Now()
	fr := &models.FollowRequest{
		From:      from,
		To:        to,
		Status:    models.FollowRequestStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.requests.Insert(ctx, fr); err != nil {
		return nil, err
	}

	fromUser, err := s.users.FindByID(ctx, from)
	if err != nil {
		return nil, err
	}
	name := "Alguien"
	if fromUser != nil && fromUser.Name != "" {
		name = fromUser.Name
	}
	s.notifs.Notify(ctx, to, from, models.NotificationFollowRequest,
		fmt.Sprintf("%s quiere seguirte", name), &fr.ID)

	return &models.FollowResult{Message: "Solicitud enviada", Status: "requested", Request: fr}, nil
}

// Accept acepta una solicitud pendiente. Solo el destinatario puede.
func (s *FollowRequestService) Accept(ctx context.Context, requestID, userID string) (*models.FollowRequest, error) {
	fr, err := s.loadPendingFor(ctx, requestID, userID)
	if err != nil {
		return nil, err
	}

	fr.Status = models.FollowRequestStatusAccepted
	fr.UpdatedAt = time.Now()
	if err := s.requests.Update(ctx, fr); err != nil {
		return nil, err
	}

	if err := s.users.AddFollow(ctx, fr.From, fr.To); err != nil {
		return nil, err
	}

	toUser, _ := s.users.FindByID(ctx, fr.To)
	fromUser, _ := s.users.FindByID(ctx, fr.From)
	toName, fromName := "Alguien", "Alguien"
	if toUser != nil && toUser.Name != "" {
		toName = toUser.Name
	}
	if fromUser != nil && fromUser.Name != "" {
		fromName = fromUser.Name
	}

	s.notifs.Notify(ctx, fr.From, fr.To, models.NotificationFollowAccepted,
		fmt.Sprintf("%s aceptó tu solicitud", toName), &fr.ID)
	s.notifs.Notify(ctx, fr.To, fr.From, models.NotificationNewFollower,
		fmt.Sprintf("%s ha empezado a seguirte", fromName), &fr.ID)

	return fr, nil
}

// Reject rechaza una solicitud pendiente. Solo el destinatario puede.
func (s *FollowRequestService) Reject(ctx context.Context, requestID, userID string) (*models.FollowRequest, error) {
	fr, err := s.loadPendingFor(ctx, requestID, userID)
	if err != nil {
		return nil, err
	}

	fr.Status = models.FollowRequestStatusRejected
	fr.UpdatedAt = time.Now()
	if err := s.requests.Update(ctx, fr); err != nil {
		return nil, err
	}
	return fr, nil
}

func (s *FollowRequestService) loadPendingFor(ctx context.Context, requestID, userID string) (*models.FollowRequest, error) {
	rid, err := primitive.ObjectIDFromHex(requestID)
	if err != nil {
		return nil, fmt.Errorf("requestId inválido")
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("userId inválido")
	}

	fr, err := s.requests.FindByID(ctx, rid)
	if err != nil {
		return nil, err
	}
	if fr == nil {
		return nil, fmt.Errorf("solicitud no encontrada")
	}
	if fr.To != uid {
		return nil, fmt.Errorf("no tienes permiso sobre esta solicitud")
	}
	if fr.Status != models.FollowRequestStatusPending {
		return nil, fmt.Errorf("esta solicitud ya fue procesada")
	}
	return fr, nil
}

// ListIncoming lista las solicitudes recibidas por un usuario.
func (s *FollowRequestService) ListIncoming(ctx context.Context, userID, status string, limit, offset int) ([]models.FollowRequest, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []models.FollowRequest{}, nil
	}
	return s.requests.FindByRecipient(ctx, uid, status, limit, offset)
}
