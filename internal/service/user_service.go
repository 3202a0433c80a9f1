package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"puntualo-api/internal/models"
	"puntualo-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	users *repository.UserRepository
	items *repository.ItemRepository
}

func NewUserService(users *repository.UserRepository, items *repository.ItemRepository) *UserService {
	return &UserService{users: users, items: items}
}

// ================== RATINGS ==================

type RatingInput struct {
	ItemID   string
	ItemType string
	Score    *float64
	Comment  string
	Status   string
}

// normalizeScore redondea a un decimal y recorta al rango [0, 10].
func normalizeScore(s float64) float64 {
	n := math.Round(s*10) / 10
	if n < 0 {
		n = 0
	}
	if n > 10 {
		n = 10
	}
	return n
}

// AddRating crea o actualiza el rating del usuario sobre un item. Si ya
// existía uno para ese itemId se pisa, nunca se duplica.
func (s *UserService) AddRating(ctx context.Context, userID string, in RatingInput) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("userId inválido")
	}
	itemID, err := primitive.ObjectIDFromHex(in.ItemID)
	if err != nil {
		return fmt.Errorf("itemId inválido")
	}

	var score *float64
	if in.Score != nil && !math.IsNaN(*in.Score) && !math.IsInf(*in.Score, 0) {
		n := normalizeScore(*in.Score)
		score = &n
	}

	status := in.Status
	if status != models.RatedStatusCompleted {
		status = models.RatedStatusWatching
	}
	itemType := in.ItemType
	if itemType != models.ItemTypeMovie && itemType != models.ItemTypeSeries {
		itemType = models.ItemTypeBook
	}

	rating := models.RatedItem{
		ItemID:       itemID,
		ItemType:     itemType,
		Score:        score,
		Comment:      in.Comment,
		Status:       status,
		LastModified: time.Now(),
	}

	if err := s.users.UpsertRating(ctx, uid, rating); err != nil {
		return err
	}
	return s.users.TouchUpdatedAt(ctx, uid)
}

// GetRatings devuelve los ratings de un usuario con su item resuelto.
// sortBy: date|score. order: desc|asc.
func (s *UserService) GetRatings(ctx context.Context, userID, sortBy, order string) ([]models.RatedItemView, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []models.RatedItemView{}, nil
	}

	user, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return []models.RatedItemView{}, nil
	}

	rated := make([]models.RatedItem, len(user.RatedItems))
	copy(rated, user.RatedItems)
	sortRatedItems(rated, sortBy, order)

	// resolver items en lote
	ids := make([]primitive.ObjectID, 0, len(rated))
	for _, r := range rated {
		if !r.ItemID.IsZero() {
			ids = append(ids, r.ItemID)
		}
	}
	byID := make(map[string]models.ItemDoc)
	if len(ids) > 0 {
		fetched, err := s.items.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, it := range fetched {
			byID[it.ID.Hex()] = it
		}
	}

	out := make([]models.RatedItemView, 0, len(rated))
	for _, r := range rated {
		view := models.RatedItemView{RatedItem: r}
		if it, ok := byID[r.ItemID.Hex()]; ok {
			itCopy := it
			view.Item = &itCopy
		}
		out = append(out, view)
	}
	return out, nil
}

// sortRatedItems ordena in-place por score o por fecha. Ratings sin score
// cuentan como 0 al ordenar por score.
func sortRatedItems(rated []models.RatedItem, sortBy, order string) {
	asc := order == "asc"
	if sortBy == "score" {
		sort.SliceStable(rated, func(i, j int) bool {
			si, sj := 0.0, 0.0
			if rated[i].Score != nil {
				si = *rated[i].Score
			}
			if rated[j].Score != nil {
				sj = *rated[j].Score
			}
			if asc {
				return si < sj
			}
			return si > sj
		})
		return
	}
	sort.SliceStable(rated, func(i, j int) bool {
		if asc {
			return rated[i].LastModified.Before(rated[j].LastModified)
		}
		return rated[i].LastModified.After(rated[j].LastModified)
	})
}

func (s *UserService) DeleteRating(ctx context.Context, userID, ratingID string) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("userId inválido")
	}
	rid, err := primitive.ObjectIDFromHex(ratingID)
	if err != nil {
		return fmt.Errorf("ratingId inválido")
	}
	if err := s.users.RemoveRating(ctx, uid, rid); err != nil {
		return err
	}
	return s.users.TouchUpdatedAt(ctx, uid)
}

// ================== PERFIL ==================

func (s *UserService) GetByID(ctx context.Context, userID string) (*models.UserDoc, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}
	return s.users.FindByID(ctx, uid)
}

type UpdateProfileData struct {
	Name            *string
	Handle          *string
	Description     *string
	IsPrivate       *bool
	AvatarBgColor   *string
	CurrentPassword *string
	NewPassword     *string
}

// UpdateProfile actualiza campos opcionales del perfil. El cambio de
// contraseña exige verificar la actual.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, data UpdateProfileData) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("userId inválido")
	}
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return err
	}
	if u == nil {
		return fmt.Errorf("usuario no encontrado")
	}

	update := bson.M{}

	if data.Handle != nil {
		handle := strings.ToLower(strings.TrimSpace(*data.Handle))
		if handle == "" {
			return fmt.Errorf("handle no puede estar vacío")
		}
		existing, err := s.users.FindByHandle(ctx, handle)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != uid {
			return fmt.Errorf("handle ya en uso por otro usuario")
		}
		update["handle"] = handle
	}

	if data.CurrentPassword != nil && data.NewPassword != nil {
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(*data.CurrentPassword)); err != nil {
			return fmt.Errorf("la contraseña actual no es correcta")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*data.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		update["passwordHash"] = string(hash)
	}

	if data.Name != nil {
		update["name"] = *data.Name
	}
	if data.Description != nil {
		update["description"] = *data.Description
	}
	if data.IsPrivate != nil {
		update["isPrivate"] = *data.IsPrivate
	}
	if data.AvatarBgColor != nil {
		update["avatarBgColor"] = *data.AvatarBgColor
	}

	if len(update) == 0 {
		return fmt.Errorf("no hay campos para actualizar")
	}

	update["updatedAt"] = time.Now().UTC().Format(time.RFC3339)
	return s.users.UpdateByID(ctx, uid, update)
}

func (s *UserService) Delete(ctx context.Context, userID string) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("userId inválido")
	}
	return s.users.Delete(ctx, uid)
}

// ================== FOLLOWS ==================

// Unfollow deshace el follow en ambos lados. Deshacer un follow que no
// existía no es un error.
func (s *UserService) Unfollow(ctx context.Context, followerID, targetID string) error {
	fid, err := primitive.ObjectIDFromHex(followerID)
	if err != nil {
		return fmt.Errorf("userId inválido")
	}
	tid, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return fmt.Errorf("userId inválido")
	}
	return s.users.RemoveFollow(ctx, fid, tid)
}

func (s *UserService) GetFollowers(ctx context.Context, userID string) ([]models.PublicUser, error) {
	return s.resolveFollowList(ctx, userID, false)
}

func (s *UserService) GetFollowing(ctx context.Context, userID string) ([]models.PublicUser, error) {
	return s.resolveFollowList(ctx, userID, true)
}

func (s *UserService) resolveFollowList(ctx context.Context, userID string, following bool) ([]models.PublicUser, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []models.PublicUser{}, nil
	}
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return []models.PublicUser{}, nil
	}

	ids := u.Followers
	if following {
		ids = u.Following
	}
	valid := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if !id.IsZero() {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return []models.PublicUser{}, nil
	}

	docs, err := s.users.FindPublicWithRatings(ctx, valid)
	if err != nil {
		return nil, err
	}

	out := make([]models.PublicUser, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.PublicUser{
			ID:            d.ID,
			Name:          d.Name,
			Handle:        d.Handle,
			AvatarBgColor: d.AvatarBgColor,
		})
	}
	return out, nil
}
