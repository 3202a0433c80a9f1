package service

import (
	"math"
	"sort"

	"puntualo-api/internal/models"
)

// Filtrado colaborativo user-based: funciones puras sobre la matriz de
// ratings, sin tocar la base. El servicio las orquesta (ver
// recommend_service.go) y los tests las ejercitan con fixtures en memoria.

// Similitudes con |sim| por debajo de este umbral se tratan como "sin señal"
// y el candidato se descarta del todo (no se deja como vecino de peso casi
// cero, que solo ensuciaría el promedio ponderado).
const simEpsilon = 1e-9

// buildRatingMatrix construye usuario -> (item -> score) a partir de las
// proyecciones de usuarios. Los ratings sin score numérico no aportan señal
// y se omiten; un usuario sin ratings queda con fila vacía.
func buildRatingMatrix(users []models.UserRatings) map[string]map[string]float64 {
	matrix := make(map[string]map[string]float64, len(users))
	for _, u := range users {
		if u.ID.IsZero() {
			continue
		}
		row := make(map[string]float64, len(u.RatedItems))
		for _, r := range u.RatedItems {
			if r.ItemID.IsZero() || r.Score == nil {
				continue
			}
			s := *r.Score
			if math.IsNaN(s) || math.IsInf(s, 0) {
				continue
			}
			row[r.ItemID.Hex()] = s
		}
		matrix[u.ID.Hex()] = row
	}
	return matrix
}

// pearson calcula la correlación de Pearson sobre los items puntuados en
// común por u y v. Sin items en común, o con varianza cero en alguno de los
// dos lados, devuelve 0.
func pearson(u, v map[string]float64) float64 {
	// iterar sobre el vector más corto
	if len(u) > len(v) {
		u, v = v, u
	}

	var n int
	var sum1, sum2, sum1Sq, sum2Sq, pSum float64
	for k, a := range u {
		b, ok := v[k]
		if !ok {
			continue
		}
		n++
		sum1 += a
		sum2 += b
		sum1Sq += a * a
		sum2Sq += b * b
		pSum += a * b
	}
	if n == 0 {
		return 0
	}

	fn := float64(n)
	num := pSum - sum1*sum2/fn
	den := math.Sqrt((sum1Sq - sum1*sum1/fn) * (sum2Sq - sum2*sum2/fn))
	if den == 0 {
		return 0
	}
	return num / den
}

type neighbor struct {
	UserID string
	Sim    float64
}

// computeSimilarities calcula la similitud del target contra el resto de
// usuarios de la matriz. Descarta similitudes no finitas o casi cero.
func computeSimilarities(matrix map[string]map[string]float64, targetID string) []neighbor {
	target := matrix[targetID]
	out := make([]neighbor, 0, len(matrix))
	for uid, row := range matrix {
		if uid == targetID {
			continue
		}
		sim := pearson(target, row)
		if math.IsNaN(sim) || math.IsInf(sim, 0) || math.Abs(sim) < simEpsilon {
			continue
		}
		out = append(out, neighbor{UserID: uid, Sim: sim})
	}
	return out
}

// selectNeighbors ordena por similitud descendente y trunca a k. Los empates
// se rompen por id de usuario para que el resultado sea determinista.
func selectNeighbors(sims []neighbor, k int) []neighbor {
	sort.Slice(sims, func(i, j int) bool {
		if sims[i].Sim == sims[j].Sim {
			return sims[i].UserID < sims[j].UserID
		}
		return sims[i].Sim > sims[j].Sim
	})
	if k > 0 && len(sims) > k {
		sims = sims[:k]
	}
	return sims
}

// aggregateCandidateScores calcula el score predicho de cada item puntuado
// por algún vecino pero no por el target: promedio de los ratings de los
// vecinos ponderado por similitud. Los vecinos con similitud negativa
// también pesan: con signo en el numerador y en valor absoluto en el
// denominador, así un vecino "opuesto" puede hundir un candidato.
func aggregateCandidateScores(
	matrix map[string]map[string]float64,
	neighbors []neighbor,
	target map[string]float64,
) map[string]float64 {

	weightedSum := make(map[string]float64)
	weightSum := make(map[string]float64)

	for _, nb := range neighbors {
		for itemID, score := range matrix[nb.UserID] {
			if _, rated := target[itemID]; rated {
				continue // el target ya lo puntuó
			}
			weightedSum[itemID] += nb.Sim * score
			weightSum[itemID] += math.Abs(nb.Sim)
		}
	}

	out := make(map[string]float64, len(weightedSum))
	for itemID, ws := range weightedSum {
		if w := weightSum[itemID]; w > 0 {
			out[itemID] = ws / w
		} else {
			// no debería pasar con el filtrado por simEpsilon, pero guardado
			out[itemID] = 0
		}
	}
	return out
}

// rankCandidates devuelve los ids de candidato ordenados por score predicho
// descendente; empates por id para que paginar sea reproducible.
func rankCandidates(scores map[string]float64) []string {
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		si, sj := scores[ids[i]], scores[ids[j]]
		if si == sj {
			return ids[i] < ids[j]
		}
		return si > sj
	})
	return ids
}
