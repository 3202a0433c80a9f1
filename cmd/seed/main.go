package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"puntualo-api/internal/config"
	"puntualo-api/internal/db"
	"puntualo-api/internal/models"
	"puntualo-api/internal/repository"
	"puntualo-api/internal/service"
)

// Carga fixtures de items y ratings desde CSV para probar el recomendador
// en local. Formatos:
//
//	items.csv:   itemType,title,author,genres (genres separados por |)
//	ratings.csv: userEmail,itemTitle,score,status
//
// Los usuarios que no existan se crean con contraseña "seed1234".
func main() {
	itemsPath := "data/items.csv"
	ratingsPath := "data/ratings.csv"
	if len(os.Args) > 2 {
		itemsPath = os.Args[1]
		ratingsPath = os.Args[2]
	}

	cfg := config.Load()
	db.InitMongo(cfg)

	ctx := context.Background()

	userRepo := repository.NewUserRepository()
	itemRepo := repository.NewItemRepository()
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	userSvc := service.NewUserService(userRepo, itemRepo)

	itemsByTitle := loadItems(ctx, itemRepo, itemsPath)
	loadRatings(ctx, authSvc, userRepo, userSvc, itemsByTitle, ratingsPath)

	fmt.Println("Carga completada.")
}

func readCSV(path string) [][]string {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("Error abriendo %s: %v", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		log.Fatalf("Error leyendo %s: %v", path, err)
	}
	return rows
}

func loadItems(ctx context.Context, items *repository.ItemRepository, path string) map[string]string {
	rows := readCSV(path)
	byTitle := make(map[string]string)

	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue // header o fila incompleta
		}

		it := &models.ItemDoc{
			ItemType: row[0],
			Title:    row[1],
		}
		if len(row) > 2 {
			it.Data.Author = row[2]
		}
		if len(row) > 3 && row[3] != "" {
			it.Data.Genres = strings.Split(row[3], "|")
		}

		if err := items.Insert(ctx, it); err != nil {
			fmt.Println("Error insertando item:", err)
			continue
		}
		byTitle[it.Title] = it.ID.Hex()
	}

	fmt.Printf("Items cargados: %d\n", len(byTitle))
	return byTitle
}

func loadRatings(
	ctx context.Context,
	auth *service.AuthService,
	users *repository.UserRepository,
	userSvc *service.UserService,
	itemsByTitle map[string]string,
	path string,
) {
	rows := readCSV(path)
	count := 0

	for i, row := range rows {
		if i == 0 || len(row) < 3 {
			continue
		}

		email := strings.ToLower(strings.TrimSpace(row[0]))
		itemID, ok := itemsByTitle[row[1]]
		if !ok {
			fmt.Println("Item desconocido en ratings:", row[1])
			continue
		}

		userID, err := ensureUser(ctx, auth, users, email)
		if err != nil {
			fmt.Println("Error creando usuario:", err)
			continue
		}

		var score *float64
		if v, err := strconv.ParseFloat(row[2], 64); err == nil {
			score = &v
		}
		status := models.RatedStatusCompleted
		if len(row) > 3 && row[3] != "" {
			status = row[3]
		}

		err = userSvc.AddRating(ctx, userID, service.RatingInput{
			ItemID: itemID,
			Score:  score,
			Status: status,
		})
		if err != nil {
			fmt.Println("Error insertando rating:", err)
			continue
		}
		count++
	}

	fmt.Printf("Ratings cargados: %d\n", count)
}

func ensureUser(ctx context.Context, auth *service.AuthService, users *repository.UserRepository, email string) (string, error) {
	existing, err := users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID.Hex(), nil
	}

	handle := strings.SplitN(email, "@", 2)[0] + strconv.FormatInt(time.Now().UnixNano()%1000, 10)
	u, err := auth.Register(ctx, service.RegisterUserData{
		Handle:   handle,
		Name:     strings.SplitN(email, "@", 2)[0],
		Email:    email,
		Password: "seed1234",
	})
	if err != nil {
		return "", err
	}
	return u.ID.Hex(), nil
}
