package service

import (
	"context"
	"testing"
	"time"

	"puntualo-api/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUserStore struct {
	docs map[string]*models.UserDoc
}

func (f *fakeUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.UserDoc, error) {
	return f.docs[id.Hex()], nil
}

func (f *fakeUserStore) FindPublicWithRatings(ctx context.Context, ids []primitive.ObjectID) ([]models.UserDoc, error) {
	out := make([]models.UserDoc, 0, len(ids))
	for _, id := range ids {
		if u, ok := f.docs[id.Hex()]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

// feedFixture: el target sigue a ana y bob. Entre los dos hay tres ratings
// con fechas escalonadas; el item de bob fue borrado del catálogo.
func feedFixture(t *testing.T) (*FeedService, string, time.Time) {
	t.Helper()

	target := oid(t, "64a000000000000000000001")
	ana := oid(t, "64a000000000000000000002")
	bob := oid(t, "64a000000000000000000003")

	i1 := oid(t, "64b000000000000000000001")
	i2 := oid(t, "64b000000000000000000002")
	iDeleted := oid(t, "64b000000000000000000003")

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	docs := map[string]*models.UserDoc{
		target.Hex(): {
			ID:        target,
			Following: []primitive.ObjectID{ana, bob, primitive.NilObjectID},
		},
		ana.Hex(): {
			ID: ana, Name: "Ana", Handle: "ana",
			RatedItems: []models.RatedItem{
				{ItemID: i1, Score: fptr(9), LastModified: base.Add(2 * time.Hour)},
				{ItemID: i2, Score: fptr(6), LastModified: base},
			},
		},
		bob.Hex(): {
			ID: bob, Name: "Bob", Handle: "bob",
			RatedItems: []models.RatedItem{
				{ItemID: iDeleted, Score: fptr(7), LastModified: base.Add(time.Hour)},
			},
		},
	}

	items := map[string]models.ItemDoc{
		i1.Hex(): {ID: i1, ItemType: models.ItemTypeMovie, Title: "uno"},
		i2.Hex(): {ID: i2, ItemType: models.ItemTypeBook, Title: "dos"},
		// iDeleted no está en el catálogo
	}

	svc := NewFeedService(&fakeUserStore{docs: docs}, &fakeItemStore{items: items})
	return svc, target.Hex(), base
}

func TestFeedOrderedByRecency(t *testing.T) {
	svc, target, base := feedFixture(t)

	page, err := svc.GetFeedForUser(context.Background(), target, 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 3 || len(page.Items) != 3 {
		t.Fatalf("esperaba 3 entradas, total=%d len=%d", page.Total, len(page.Items))
	}

	want := []time.Time{base.Add(2 * time.Hour), base.Add(time.Hour), base}
	for i, w := range want {
		if !page.Items[i].LastModified.Equal(w) {
			t.Fatalf("entrada %d fuera de orden: %v", i, page.Items[i].LastModified)
		}
	}

	// la primera entrada es de ana y su item resuelve
	if page.Items[0].User.Handle != "ana" || page.Items[0].Item == nil || page.Items[0].Item.Title != "uno" {
		t.Fatalf("primera entrada inesperada: %+v", page.Items[0])
	}
}

func TestFeedKeepsEntriesWithDeletedItem(t *testing.T) {
	svc, target, _ := feedFixture(t)

	page, err := svc.GetFeedForUser(context.Background(), target, 1, 20)
	if err != nil {
		t.Fatal(err)
	}

	// el rating de bob apunta a un item borrado: la entrada queda con Item nil
	var bobEntry *models.FeedEntry
	for i := range page.Items {
		if page.Items[i].User.Handle == "bob" {
			bobEntry = &page.Items[i]
		}
	}
	if bobEntry == nil {
		t.Fatal("falta la entrada de bob")
	}
	if bobEntry.Item != nil {
		t.Fatalf("item borrado debería dejar Item nil: %+v", bobEntry.Item)
	}
}

func TestFeedPagination(t *testing.T) {
	svc, target, _ := feedFixture(t)
	ctx := context.Background()

	p1, err := svc.GetFeedForUser(ctx, target, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := svc.GetFeedForUser(ctx, target, 2, 2)
	if err != nil {
		t.Fatal(err)
	}

	if p1.Total != 3 || p2.Total != 3 {
		t.Fatalf("totales inconsistentes: %d, %d", p1.Total, p2.Total)
	}
	if len(p1.Items) != 2 || len(p2.Items) != 1 {
		t.Fatalf("cortes inesperados: %d, %d", len(p1.Items), len(p2.Items))
	}
	// sin solapamiento entre páginas
	if p1.Items[1].LastModified.Equal(p2.Items[0].LastModified) &&
		p1.Items[1].User.ID == p2.Items[0].User.ID {
		t.Fatal("las páginas se solapan")
	}
}

func TestFeedEmptyCases(t *testing.T) {
	svc, _, _ := feedFixture(t)
	ctx := context.Background()

	// usuario sin follows
	lonely := oid(t, "64a0000000000000000000aa")
	svc.users.(*fakeUserStore).docs[lonely.Hex()] = &models.UserDoc{ID: lonely}

	page, err := svc.GetFeedForUser(ctx, lonely.Hex(), 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 0 || len(page.Items) != 0 {
		t.Fatalf("sin follows debería dar feed vacío: %+v", page)
	}

	// usuario inexistente
	page, err = svc.GetFeedForUser(ctx, "64a0000000000000000000ff", 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 0 {
		t.Fatalf("usuario inexistente debería dar feed vacío: %+v", page)
	}

	// id malformado
	page, err = svc.GetFeedForUser(ctx, "???", 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 0 {
		t.Fatalf("id malformado debería dar feed vacío: %+v", page)
	}
}
