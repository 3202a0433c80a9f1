package service

import (
	"testing"

	"puntualo-api/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestComputeTopRatedOrderingAndFilters(t *testing.T) {
	u1 := oid(t, "64a000000000000000000001")
	u2 := oid(t, "64a000000000000000000002")
	u3 := oid(t, "64a000000000000000000003")

	popular := oid(t, "64b000000000000000000001")  // 3 reviews, avg 6
	nicho := oid(t, "64b000000000000000000002")    // 1 review, avg 10
	sinScore := oid(t, "64b000000000000000000003") // solo ratings sin score
	borrado := oid(t, "64b000000000000000000004")  // no está en el catálogo

	users := []models.UserRatings{
		{ID: u1, RatedItems: []models.RatedItem{
			{ItemID: popular, Score: fptr(5)},
			{ItemID: nicho, Score: fptr(10)},
			{ItemID: sinScore},
		}},
		{ID: u2, RatedItems: []models.RatedItem{
			{ItemID: popular, Score: fptr(6)},
			{ItemID: borrado, Score: fptr(9)},
		}},
		{ID: u3, RatedItems: []models.RatedItem{
			{ItemID: popular, Score: fptr(7)},
		}},
	}

	items := map[string]models.ItemDoc{
		popular.Hex():  {ID: popular, ItemType: models.ItemTypeMovie, Title: "popular"},
		nicho.Hex():    {ID: nicho, ItemType: models.ItemTypeMovie, Title: "nicho"},
		sinScore.Hex(): {ID: sinScore, ItemType: models.ItemTypeMovie, Title: "sin score"},
	}

	top := computeTopRated(users, items, 10)

	if len(top.Movies) != 2 {
		t.Fatalf("esperaba 2 películas en el top, hay %d: %+v", len(top.Movies), top.Movies)
	}
	// cantidad de reviews manda sobre el promedio
	if top.Movies[0].ItemID != popular {
		t.Fatalf("el más reseñado debería ir primero: %+v", top.Movies[0])
	}
	if top.Movies[0].Count != 3 || top.Movies[0].AvgScore != 6 {
		t.Fatalf("agregado inesperado: %+v", top.Movies[0])
	}
	if top.Movies[1].ItemID != nicho {
		t.Fatalf("segundo inesperado: %+v", top.Movies[1])
	}

	// buckets sin entradas salen vacíos, no nil
	if top.Series == nil || top.Books == nil {
		t.Fatal("buckets vacíos deberían ser slices vacíos")
	}
}

func TestComputeTopRatedTruncates(t *testing.T) {
	uid := oid(t, "64a000000000000000000001")
	users := []models.UserRatings{{ID: uid}}
	items := map[string]models.ItemDoc{}

	// tres items del mismo tipo con una review cada uno, perType = 2
	for i := 0; i < 3; i++ {
		id := primitive.NewObjectID()
		items[id.Hex()] = models.ItemDoc{ID: id, ItemType: models.ItemTypeBook}
		users[0].RatedItems = append(users[0].RatedItems, models.RatedItem{
			ItemID: id, Score: fptr(float64(5 + i)),
		})
	}

	top := computeTopRated(users, items, 2)
	if len(top.Books) != 2 {
		t.Fatalf("perType=2 debería truncar a 2, hay %d", len(top.Books))
	}
	// con counts iguales gana el mejor promedio
	if top.Books[0].AvgScore < top.Books[1].AvgScore {
		t.Fatalf("desempate por promedio roto: %+v", top.Books)
	}
}
