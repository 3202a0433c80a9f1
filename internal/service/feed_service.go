package service

import (
	"context"
	"sort"

	"puntualo-api/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore es lo que el feed necesita de los usuarios: el target (para su
// lista de following) y los seguidos con identidad pública + ratings.
type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.UserDoc, error)
	FindPublicWithRatings(ctx context.Context, ids []primitive.ObjectID) ([]models.UserDoc, error)
}

type FeedService struct {
	users UserStore
	items ItemStore
}

func NewFeedService(users UserStore, items ItemStore) *FeedService {
	return &FeedService{users: users, items: items}
}

// GetFeedForUser devuelve los ratings de los usuarios que el target sigue,
// con el item resuelto (left join) y la identidad pública del que puntuó,
// ordenados por fecha descendente y paginados. Usuario inexistente o sin
// follows devuelve página vacía, no error.
func (s *FeedService) GetFeedForUser(ctx context.Context, userID string, page, limit int) (*models.FeedPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultLimit
	} else if limit > MaxLimit {
		limit = MaxLimit
	}

	empty := &models.FeedPage{Items: []models.FeedEntry{}, Total: 0, Page: page, Limit: limit}

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return empty, nil
	}

	user, err := s.users.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return empty, nil
	}

	// referencias inválidas en following se ignoran en silencio
	following := make([]primitive.ObjectID, 0, len(user.Following))
	for _, fid := range user.Following {
		if fid.IsZero() {
			continue
		}
		following = append(following, fid)
	}
	if len(following) == 0 {
		return empty, nil
	}

	followed, err := s.users.FindPublicWithRatings(ctx, following)
	if err != nil {
		return nil, err
	}

	// resolver todos los items referenciados de una sola vez
	itemsByID := make(map[string]models.ItemDoc)
	if itemIDs := distinctItemIDs(followed); len(itemIDs) > 0 {
		fetched, err := s.items.FindByIDs(ctx, itemIDs)
		if err != nil {
			return nil, err
		}
		for _, it := range fetched {
			itemsByID[it.ID.Hex()] = it
		}
	}

	entries := joinFeed(followed, itemsByID)
	sortFeedByRecency(entries)

	total := len(entries)
	skip := (page - 1) * limit
	if skip > total {
		skip = total
	}
	end := skip + limit
	if end > total {
		end = total
	}

	return &models.FeedPage{Items: entries[skip:end], Total: total, Page: page, Limit: limit}, nil
}

func distinctItemIDs(followed []models.UserDoc) []primitive.ObjectID {
	seen := make(map[string]struct{})
	out := make([]primitive.ObjectID, 0)
	for _, u := range followed {
		for _, r := range u.RatedItems {
			if r.ItemID.IsZero() {
				continue
			}
			key := r.ItemID.Hex()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, r.ItemID)
		}
	}
	return out
}

// joinFeed combina cada rating de los seguidos con la identidad pública del
// que puntuó y su item. Un rating cuyo item ya no existe se conserva con
// Item nil (left join): que borren un item no debe romper el feed.
func joinFeed(followed []models.UserDoc, itemsByID map[string]models.ItemDoc) []models.FeedEntry {
	entries := make([]models.FeedEntry, 0)
	for _, u := range followed {
		pu := models.PublicUser{
			ID:            u.ID,
			Name:          u.Name,
			Handle:        u.Handle,
			AvatarBgColor: u.AvatarBgColor,
		}
		for _, r := range u.RatedItems {
			e := models.FeedEntry{
				ItemID:       r.ItemID,
				ItemType:     r.ItemType,
				Score:        r.Score,
				Comment:      r.Comment,
				Status:       r.Status,
				LastModified: r.LastModified,
				User:         pu,
			}
			if it, ok := itemsByID[r.ItemID.Hex()]; ok {
				itCopy := it
				e.Item = &itCopy
			}
			entries = append(entries, e)
		}
	}
	return entries
}

func sortFeedByRecency(entries []models.FeedEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LastModified.After(entries[j].LastModified)
	})
}
