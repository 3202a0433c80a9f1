package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Stats son los conteos globales que muestra la portada.
type Stats struct {
	Users     int64  `json:"users"`
	Reviews   int    `json:"reviews"`
	Movies    int64  `json:"movies"`
	Series    int64  `json:"series"`
	Books     int64  `json:"books"`
	Source    string `json:"source"`
	CheckedAt string `json:"checkedAt"`
}

// TopRatedEntry es un item con su promedio y cantidad de reviews.
type TopRatedEntry struct {
	ItemID   primitive.ObjectID `json:"itemId"`
	AvgScore float64            `json:"avgScore"`
	Count    int                `json:"count"`
	Item     ItemDoc            `json:"item"`
}

// TopRated agrupa los mejores items por tipo.
type TopRated struct {
	Movies []TopRatedEntry `json:"movies"`
	Series []TopRatedEntry `json:"series"`
	Books  []TopRatedEntry `json:"books"`
}
