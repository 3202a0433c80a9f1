package service

import (
	"context"
	"testing"

	"puntualo-api/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeFollowRequestStore struct {
	byID map[string]*models.FollowRequest
}

func newFakeFollowRequestStore() *fakeFollowRequestStore {
	return &fakeFollowRequestStore{byID: map[string]*models.FollowRequest{}}
}

func (f *fakeFollowRequestStore) Insert(ctx context.Context, fr *models.FollowRequest) error {
	fr.ID = primitive.NewObjectID()
	cp := *fr
	f.byID[fr.ID.Hex()] = &cp
	return nil
}

func (f *fakeFollowRequestStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.FollowRequest, error) {
	if fr, ok := f.byID[id.Hex()]; ok {
		cp := *fr
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeFollowRequestStore) FindPending(ctx context.Context, from, to primitive.ObjectID) (*models.FollowRequest, error) {
	for _, fr := range f.byID {
		if fr.From == from && fr.To == to && fr.Status == models.FollowRequestStatusPending {
			cp := *fr
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeFollowRequestStore) Update(ctx context.Context, fr *models.FollowRequest) error {
	cp := *fr
	f.byID[fr.ID.Hex()] = &cp
	return nil
}

func (f *fakeFollowRequestStore) FindByRecipient(ctx context.Context, to primitive.ObjectID, status string, limit, offset int) ([]models.FollowRequest, error) {
	out := []models.FollowRequest{}
	for _, fr := range f.byID {
		if fr.To != to {
			continue
		}
		if status != "" && status != "all" && fr.Status != status {
			continue
		}
		out = append(out, *fr)
	}
	return out, nil
}

type fakeFollowUserStore struct {
	docs    map[string]*models.UserDoc
	follows [][2]string // pares (follower, target) registrados
}

func (f *fakeFollowUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.UserDoc, error) {
	return f.docs[id.Hex()], nil
}

func (f *fakeFollowUserStore) AddFollow(ctx context.Context, followerID, targetID primitive.ObjectID) error {
	f.follows = append(f.follows, [2]string{followerID.Hex(), targetID.Hex()})
	return nil
}

type fakeNotifier struct {
	sent []models.Notification
}

func (f *fakeNotifier) Notify(ctx context.Context, recipient, sender primitive.ObjectID, ntype, message string, relatedID *primitive.ObjectID) {
	f.sent = append(f.sent, models.Notification{
		Recipient: recipient, Sender: sender, Type: ntype, Message: message, RelatedID: relatedID,
	})
}

func followFixture(t *testing.T) (*FollowRequestService, *fakeFollowRequestStore, *fakeFollowUserStore, *fakeNotifier, string, string, string) {
	t.Helper()

	alice := oid(t, "64a000000000000000000001") // pública
	carla := oid(t, "64a000000000000000000002") // privada
	dani := oid(t, "64a000000000000000000003")

	users := &fakeFollowUserStore{docs: map[string]*models.UserDoc{
		alice.Hex(): {ID: alice, Name: "Alice"},
		carla.Hex(): {ID: carla, Name: "Carla", IsPrivate: true},
		dani.Hex():  {ID: dani, Name: "Dani"},
	}}
	requests := newFakeFollowRequestStore()
	notifs := &fakeNotifier{}

	svc := NewFollowRequestService(requests, users, notifs)
	return svc, requests, users, notifs, alice.Hex(), carla.Hex(), dani.Hex()
}

func TestFollowPublicAccountIsDirect(t *testing.T) {
	svc, requests, users, _, alice, _, dani := followFixture(t)

	res, err := svc.Follow(context.Background(), dani, alice)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != "following" || res.Request != nil {
		t.Fatalf("cuenta pública debería seguirse directo: %+v", res)
	}
	if len(users.follows) != 1 || users.follows[0] != [2]string{dani, alice} {
		t.Fatalf("follow no registrado: %v", users.follows)
	}
	if len(requests.byID) != 0 {
		t.Fatal("no debería quedar ninguna solicitud")
	}
}

func TestFollowPrivateAccountCreatesPendingRequest(t *testing.T) {
	svc, _, users, notifs, _, carla, dani := followFixture(t)

	res, err := svc.Follow(context.Background(), dani, carla)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != "requested" || res.Request == nil {
		t.Fatalf("cuenta privada debería dejar solicitud: %+v", res)
	}
	if res.Request.Status != models.FollowRequestStatusPending {
		t.Fatalf("estado inicial inesperado: %s", res.Request.Status)
	}
	if len(users.follows) != 0 {
		t.Fatal("no debería haber follow todavía")
	}
	if len(notifs.sent) != 1 || notifs.sent[0].Type != models.NotificationFollowRequest {
		t.Fatalf("notificación inesperada: %+v", notifs.sent)
	}

	// repetir no duplica la solicitud
	res2, err := svc.Follow(context.Background(), dani, carla)
	if err != nil {
		t.Fatal(err)
	}
	if res2.Status != "requested" || res2.Request.ID != res.Request.ID {
		t.Fatalf("debería devolver la misma solicitud pendiente: %+v", res2)
	}
}

func TestFollowSelfIsNoOp(t *testing.T) {
	svc, _, users, _, alice, _, _ := followFixture(t)

	res, err := svc.Follow(context.Background(), alice, alice)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != "following" || len(users.follows) != 0 {
		t.Fatalf("seguirse a uno mismo debería ser no-op: %+v", res)
	}
}

func TestFollowUnknownTargetFails(t *testing.T) {
	svc, _, _, _, alice, _, _ := followFixture(t)

	if _, err := svc.Follow(context.Background(), alice, "64a0000000000000000000ff"); err == nil {
		t.Fatal("seguir a un usuario inexistente debería fallar")
	}
}

func TestAcceptRequest(t *testing.T) {
	svc, _, users, notifs, _, carla, dani := followFixture(t)
	ctx := context.Background()

	res, err := svc.Follow(ctx, dani, carla)
	if err != nil {
		t.Fatal(err)
	}
	rid := res.Request.ID.Hex()

	fr, err := svc.Accept(ctx, rid, carla)
	if err != nil {
		t.Fatal(err)
	}
	if fr.Status != models.FollowRequestStatusAccepted {
		t.Fatalf("estado inesperado: %s", fr.Status)
	}
	if len(users.follows) != 1 || users.follows[0] != [2]string{dani, carla} {
		t.Fatalf("el accept debería registrar el follow: %v", users.follows)
	}

	// la de la solicitud + aceptación + nuevo seguidor
	if len(notifs.sent) != 3 {
		t.Fatalf("esperaba 3 notificaciones, hay %d", len(notifs.sent))
	}

	// una solicitud ya procesada no se puede volver a aceptar
	if _, err := svc.Accept(ctx, rid, carla); err == nil {
		t.Fatal("aceptar dos veces debería fallar")
	}
}

func TestAcceptOnlyByRecipient(t *testing.T) {
	svc, _, _, _, alice, carla, dani := followFixture(t)
	ctx := context.Background()

	res, err := svc.Follow(ctx, dani, carla)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Accept(ctx, res.Request.ID.Hex(), alice); err == nil {
		t.Fatal("solo el destinatario puede aceptar")
	}
}

func TestRejectRequest(t *testing.T) {
	svc, _, users, _, _, carla, dani := followFixture(t)
	ctx := context.Background()

	res, err := svc.Follow(ctx, dani, carla)
	if err != nil {
		t.Fatal(err)
	}

	fr, err := svc.Reject(ctx, res.Request.ID.Hex(), carla)
	if err != nil {
		t.Fatal(err)
	}
	if fr.Status != models.FollowRequestStatusRejected {
		t.Fatalf("estado inesperado: %s", fr.Status)
	}
	if len(users.follows) != 0 {
		t.Fatal("el reject no debería registrar ningún follow")
	}

	// tras el rechazo se puede volver a solicitar
	res2, err := svc.Follow(ctx, dani, carla)
	if err != nil {
		t.Fatal(err)
	}
	if res2.Request.ID == fr.ID {
		t.Fatal("debería crearse una solicitud nueva tras el rechazo")
	}
}
