package service

import (
	"context"
	"fmt"
	"log"

	"puntualo-api/internal/cache"
	"puntualo-api/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultLimit     = 20
	MaxLimit         = 100 // por seguridad, no deja pedir páginas gigantes
	DefaultNeighbors = 30
)

// RatingStore e ItemStore son los colaboradores del recomendador y del feed.
// Los repositorios de Mongo los implementan; los tests usan fakes en memoria.

type RatingStore interface {
	ListAllWithRatings(ctx context.Context) ([]models.UserRatings, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.UserDoc, error)
}

type ItemStore interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.ItemDoc, error)
}

type RecommendService struct {
	ratings RatingStore
	items   ItemStore
}

func NewRecommendService(ratings RatingStore, items ItemStore) *RecommendService {
	return &RecommendService{ratings: ratings, items: items}
}

type RecOptions struct {
	Page      int
	Limit     int
	Neighbors int
	Refresh   bool // si true, ignora el ranking cacheado en Redis
}

func recCacheKey(userID string, k int) string {
	// cachea el ranking completo por usuario + k; la página se corta encima
	return fmt.Sprintf("rec:user:%s:k:%d", userID, k)
}

// GetRecommendationsForUser calcula las recomendaciones para un usuario:
// Pearson contra todos los demás usuarios, top-K vecinos, promedio ponderado
// de sus ratings sobre items que el target no puntuó, ranking y paginación.
// Un usuario inexistente o sin señal devuelve página vacía, no error.
func (s *RecommendService) GetRecommendationsForUser(ctx context.Context, userID string, opts RecOptions) (*models.RecommendationPage, error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	} else if limit > MaxLimit {
		limit = MaxLimit
	}
	k := opts.Neighbors
	if k <= 0 {
		k = DefaultNeighbors
	}

	empty := &models.RecommendationPage{Items: []models.ItemDoc{}, Total: 0, Page: page, Limit: limit}

	// id malformado = usuario que no existe en el store, no es un error
	if _, err := primitive.ObjectIDFromHex(userID); err != nil {
		return empty, nil
	}

	// 1) ranking cacheado (solo si refresh = false)
	var ranked []string
	haveRanking := false
	if !opts.Refresh {
		if ok, err := cache.GetJSON(ctx, recCacheKey(userID, k), &ranked); err == nil && ok {
			haveRanking = true
		}
	}

	// 2) si no hay cache, calcular desde cero sobre un snapshot de ratings
	if !haveRanking {
		users, err := s.ratings.ListAllWithRatings(ctx)
		if err != nil {
			return nil, err
		}

		matrix := buildRatingMatrix(users)
		target, ok := matrix[userID]
		if !ok {
			return empty, nil
		}

		sims := computeSimilarities(matrix, userID)
		neighbors := selectNeighbors(sims, k)
		scores := aggregateCandidateScores(matrix, neighbors, target)
		ranked = rankCandidates(scores)

		if err := cache.SetJSON(ctx, recCacheKey(userID, k), ranked, 60*60); err != nil {
			log.Printf("[recommend] error cacheando ranking en Redis: %v", err)
		}
	}

	// 3) paginar sobre el ranking completo
	total := len(ranked)
	offset := (page - 1) * limit
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	items, err := s.resolveItems(ctx, ranked[offset:end])
	if err != nil {
		return nil, err
	}

	return &models.RecommendationPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// resolveItems trae los items de la página y los reordena según el ranking
// (el batch fetch no garantiza orden). Ids que no resuelven (item borrado
// después de puntuarse) se descartan sin error.
func (s *RecommendService) resolveItems(ctx context.Context, ids []string) ([]models.ItemDoc, error) {
	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue // id malformado: se ignora
		}
		objIDs = append(objIDs, oid)
	}
	if len(objIDs) == 0 {
		return []models.ItemDoc{}, nil
	}

	fetched, err := s.items.FindByIDs(ctx, objIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.ItemDoc, len(fetched))
	for _, it := range fetched {
		byID[it.ID.Hex()] = it
	}

	out := make([]models.ItemDoc, 0, len(objIDs))
	for _, oid := range objIDs {
		if it, ok := byID[oid.Hex()]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}
