package models

// RecommendationPage es la página de recomendaciones que devuelve la API:
// items ya resueltos en orden de ranking, más el total de candidatos
// (pre-paginación).
type RecommendationPage struct {
	Items []ItemDoc `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}
