package service

import (
	"math"
	"testing"

	"puntualo-api/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func oid(t *testing.T, hex string) primitive.ObjectID {
	t.Helper()
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		t.Fatalf("hex inválido %q: %v", hex, err)
	}
	return id
}

func fptr(v float64) *float64 { return &v }

func TestBuildRatingMatrixSkipsUnusable(t *testing.T) {
	uid := oid(t, "64a000000000000000000001")
	item1 := oid(t, "64b000000000000000000001")
	item2 := oid(t, "64b000000000000000000002")

	users := []models.UserRatings{
		{
			ID: uid,
			RatedItems: []models.RatedItem{
				{ItemID: item1, Score: fptr(8)},
				{ItemID: item2, Score: nil},                     // sin score: no aporta señal
				{ItemID: primitive.NilObjectID, Score: fptr(5)}, // itemId vacío
				{ItemID: item2, Score: fptr(math.NaN())},
			},
		},
		{ID: primitive.NilObjectID, RatedItems: []models.RatedItem{{ItemID: item1, Score: fptr(3)}}},
	}

	matrix := buildRatingMatrix(users)
	if len(matrix) != 1 {
		t.Fatalf("esperaba 1 fila, hay %d", len(matrix))
	}
	row := matrix[uid.Hex()]
	if len(row) != 1 || row[item1.Hex()] != 8 {
		t.Fatalf("fila inesperada: %v", row)
	}
}

func TestPearsonSymmetryAndBounds(t *testing.T) {
	u := map[string]float64{"a": 1, "b": 5, "c": 9, "d": 3}
	v := map[string]float64{"a": 2, "b": 6, "c": 8, "e": 4}

	uv := pearson(u, v)
	vu := pearson(v, u)
	if math.Abs(uv-vu) > 1e-12 {
		t.Fatalf("pearson no es simétrica: %v vs %v", uv, vu)
	}
	if uv < -1-1e-12 || uv > 1+1e-12 {
		t.Fatalf("pearson fuera de [-1, 1]: %v", uv)
	}
}

func TestPearsonPerfectCorrelation(t *testing.T) {
	u := map[string]float64{"a": 1, "b": 2, "c": 3}
	v := map[string]float64{"a": 2, "b": 4, "c": 6}
	if got := pearson(u, v); math.Abs(got-1) > 1e-9 {
		t.Fatalf("esperaba 1, obtuve %v", got)
	}

	w := map[string]float64{"a": 3, "b": 2, "c": 1}
	if got := pearson(u, w); math.Abs(got+1) > 1e-9 {
		t.Fatalf("esperaba -1, obtuve %v", got)
	}
}

func TestPearsonNoOverlap(t *testing.T) {
	u := map[string]float64{"a": 1, "b": 5}
	v := map[string]float64{"c": 2, "d": 6}
	if got := pearson(u, v); got != 0 {
		t.Fatalf("sin items en común debe ser 0, obtuve %v", got)
	}
}

func TestPearsonZeroVariance(t *testing.T) {
	// un usuario que puntúa todo igual no tiene varianza: similitud 0
	u := map[string]float64{"a": 7, "b": 7, "c": 7}
	v := map[string]float64{"a": 2, "b": 5, "c": 9}
	if got := pearson(u, v); got != 0 {
		t.Fatalf("varianza cero debe dar 0, obtuve %v", got)
	}
}

func TestComputeSimilaritiesSkipsSelfAndNearZero(t *testing.T) {
	matrix := map[string]map[string]float64{
		"target": {"a": 1, "b": 2, "c": 3},
		"corr":   {"a": 2, "b": 4, "c": 6},
		"flat":   {"a": 5, "b": 5, "c": 5}, // varianza cero: sim 0, se descarta
		"none":   {"x": 9},                 // sin overlap: sim 0, se descarta
	}

	sims := computeSimilarities(matrix, "target")
	if len(sims) != 1 {
		t.Fatalf("esperaba 1 vecino, hay %d: %v", len(sims), sims)
	}
	if sims[0].UserID != "corr" {
		t.Fatalf("vecino inesperado: %v", sims[0])
	}
}

func TestSelectNeighborsTruncatesAndBreaksTies(t *testing.T) {
	sims := []neighbor{
		{UserID: "u3", Sim: 0.5},
		{UserID: "u1", Sim: 0.9},
		{UserID: "u4", Sim: 0.5},
		{UserID: "u2", Sim: 0.7},
	}

	got := selectNeighbors(sims, 3)
	if len(got) != 3 {
		t.Fatalf("esperaba 3 vecinos, hay %d", len(got))
	}
	want := []string{"u1", "u2", "u3"} // empate 0.5 se rompe por id
	for i, w := range want {
		if got[i].UserID != w {
			t.Fatalf("orden inesperado en %d: %v", i, got)
		}
	}
}

func TestSelectNeighborsKZeroKeepsAll(t *testing.T) {
	sims := []neighbor{{UserID: "u1", Sim: 0.1}, {UserID: "u2", Sim: 0.2}}
	if got := selectNeighbors(sims, 0); len(got) != 2 {
		t.Fatalf("k=0 no debería truncar: %v", got)
	}
}

func TestAggregateCandidateScoresWeightedAverage(t *testing.T) {
	// dos vecinos con el mismo peso puntúan z con 8 y 6: predicho 7
	matrix := map[string]map[string]float64{
		"a": {"x": 5, "z": 8},
		"b": {"x": 4, "z": 6},
	}
	target := map[string]float64{"x": 5}
	neighbors := []neighbor{{UserID: "a", Sim: 0.5}, {UserID: "b", Sim: 0.5}}

	scores := aggregateCandidateScores(matrix, neighbors, target)
	if len(scores) != 1 {
		t.Fatalf("x ya está puntuado por el target, solo z debería salir: %v", scores)
	}
	if got := scores["z"]; math.Abs(got-7) > 1e-9 {
		t.Fatalf("esperaba 7, obtuve %v", got)
	}
}

func TestAggregateCandidateScoresNegativeNeighborPullsDown(t *testing.T) {
	matrix := map[string]map[string]float64{
		"pos": {"z": 8},
		"neg": {"z": 8},
	}
	target := map[string]float64{}
	neighbors := []neighbor{{UserID: "pos", Sim: 0.5}, {UserID: "neg", Sim: -0.5}}

	// (0.5*8 - 0.5*8) / (0.5 + 0.5) = 0
	scores := aggregateCandidateScores(matrix, neighbors, target)
	if got := scores["z"]; math.Abs(got) > 1e-9 {
		t.Fatalf("vecino opuesto debería anular el score: %v", got)
	}
}

func TestRankCandidatesOrderAndTies(t *testing.T) {
	scores := map[string]float64{
		"c": 5.0,
		"a": 5.0,
		"b": 9.0,
		"d": -2.0,
	}

	got := rankCandidates(scores)
	want := []string{"b", "a", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("largo inesperado: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ranking inesperado: %v (esperaba %v)", got, want)
		}
	}
}
