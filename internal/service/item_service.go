package service

import (
	"context"
	"fmt"

	"puntualo-api/internal/models"
	"puntualo-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ItemService struct {
	items *repository.ItemRepository
}

func NewItemService(items *repository.ItemRepository) *ItemService {
	return &ItemService{items: items}
}

type ItemCreateRequest struct {
	ItemType   string          `json:"itemType"`
	Title      string          `json:"title"` // obligatorio
	Data       models.ItemData `json:"data"`
	ExternalID string          `json:"externalId,omitempty"`
}

func (s *ItemService) Create(ctx context.Context, req *ItemCreateRequest) (*models.ItemDoc, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("title es requerido")
	}
	itemType := req.ItemType
	if itemType != models.ItemTypeMovie && itemType != models.ItemTypeSeries && itemType != models.ItemTypeBook {
		return nil, fmt.Errorf("itemType inválido (movie|series|book)")
	}

	it := &models.ItemDoc{
		ItemType:   itemType,
		Title:      req.Title,
		Data:       req.Data,
		ExternalID: req.ExternalID,
	}
	if err := s.items.Insert(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *ItemService) GetByID(ctx context.Context, id string) (*models.ItemDoc, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return s.items.FindByID(ctx, oid)
}

func (s *ItemService) Search(ctx context.Context, q, itemType string, limit, offset int) ([]models.ItemDoc, error) {
	if limit <= 0 {
		limit = DefaultLimit
	} else if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.items.Search(ctx, q, itemType, limit, offset)
}
