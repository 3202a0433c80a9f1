package service

import (
	"context"
	"log"
	"sort"
	"time"

	"puntualo-api/internal/cache"
	"puntualo-api/internal/models"
	"puntualo-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	topRatedCacheKey = "stats:top_rated"
	topRatedTTL      = 5 * 60 // segundos
	topRatedPerType  = 10
)

type StatsService struct {
	users *repository.UserRepository
	items *repository.ItemRepository
}

func NewStatsService(users *repository.UserRepository, items *repository.ItemRepository) *StatsService {
	return &StatsService{users: users, items: items}
}

// GetStats devuelve conteos agregados: usuarios, reviews y items por tipo.
func (s *StatsService) GetStats(ctx context.Context) (*models.Stats, error) {
	users, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, err
	}

	// total de reviews = suma de ratedItems de todos los usuarios
	all, err := s.users.ListAllWithRatings(ctx)
	if err != nil {
		return nil, err
	}
	reviews := 0
	for _, u := range all {
		reviews += len(u.RatedItems)
	}

	movies, err := s.items.CountByType(ctx, models.ItemTypeMovie)
	if err != nil {
		return nil, err
	}
	series, err := s.items.CountByType(ctx, models.ItemTypeSeries)
	if err != nil {
		return nil, err
	}
	books, err := s.items.CountByType(ctx, models.ItemTypeBook)
	if err != nil {
		return nil, err
	}

	return &models.Stats{
		Users:     users,
		Reviews:   reviews,
		Movies:    movies,
		Series:    series,
		Books:     books,
		Source:    "db",
		CheckedAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// GetTopRated devuelve los items mejor valorados por tipo, con cache de
// 5 minutos en Redis (es una agregación sobre todos los usuarios).
func (s *StatsService) GetTopRated(ctx context.Context) (*models.TopRated, error) {
	var cached models.TopRated
	if ok, err := cache.GetJSON(ctx, topRatedCacheKey, &cached); err == nil && ok {
		return &cached, nil
	}

	users, err := s.users.ListAllWithRatings(ctx)
	if err != nil {
		return nil, err
	}

	// resolver los items referenciados por algún rating
	seen := make(map[string]struct{})
	ids := make([]primitive.ObjectID, 0)
	for _, u := range users {
		for _, r := range u.RatedItems {
			if r.ItemID.IsZero() {
				continue
			}
			key := r.ItemID.Hex()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			ids = append(ids, r.ItemID)
		}
	}

	itemsByID := make(map[string]models.ItemDoc)
	if len(ids) > 0 {
		fetched, err := s.items.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, it := range fetched {
			itemsByID[it.ID.Hex()] = it
		}
	}

	top := computeTopRated(users, itemsByID, topRatedPerType)

	if err := cache.SetJSON(ctx, topRatedCacheKey, top, topRatedTTL); err != nil {
		log.Printf("[stats] error cacheando top-rated en Redis: %v", err)
	}
	return &top, nil
}

// computeTopRated agrega los ratings con score por item, los junta con el
// item y arma el top por tipo: primero cantidad de reviews, promedio como
// desempate (y el id como último desempate, para que sea determinista).
func computeTopRated(users []models.UserRatings, itemsByID map[string]models.ItemDoc, perType int) models.TopRated {
	type acc struct {
		sum   float64
		count int
	}
	byItem := make(map[string]*acc)
	for _, u := range users {
		for _, r := range u.RatedItems {
			if r.ItemID.IsZero() || r.Score == nil {
				continue
			}
			key := r.ItemID.Hex()
			a := byItem[key]
			if a == nil {
				a = &acc{}
				byItem[key] = a
			}
			a.sum += *r.Score
			a.count++
		}
	}

	buckets := map[string][]models.TopRatedEntry{}
	for key, a := range byItem {
		it, ok := itemsByID[key]
		if !ok {
			continue // item borrado: fuera del top
		}
		buckets[it.ItemType] = append(buckets[it.ItemType], models.TopRatedEntry{
			ItemID:   it.ID,
			AvgScore: a.sum / float64(a.count),
			Count:    a.count,
			Item:     it,
		})
	}

	for _, entries := range buckets {
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Count != entries[j].Count {
				return entries[i].Count > entries[j].Count
			}
			if entries[i].AvgScore != entries[j].AvgScore {
				return entries[i].AvgScore > entries[j].AvgScore
			}
			return entries[i].ItemID.Hex() < entries[j].ItemID.Hex()
		})
	}

	trunc := func(entries []models.TopRatedEntry) []models.TopRatedEntry {
		if entries == nil {
			return []models.TopRatedEntry{}
		}
		if len(entries) > perType {
			return entries[:perType]
		}
		return entries
	}

	return models.TopRated{
		Movies: trunc(buckets[models.ItemTypeMovie]),
		Series: trunc(buckets[models.ItemTypeSeries]),
		Books:  trunc(buckets[models.ItemTypeBook]),
	}
}
