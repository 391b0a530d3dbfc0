package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/ikkim/foodgram-backend/config"
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	"github.com/ikkim/foodgram-backend/internal/db"
	"github.com/ikkim/foodgram-backend/internal/storage"
	"github.com/xuri/excelize/v2"
)

// 1x1 PNG used as the picture of every demo recipe.
const demoImage = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg=="

const demoPassword = "foodgram-demo"

func main() {
	ingredientsFile := flag.String("ingredients", "", "XLSX file with name and measurement unit columns")
	users := flag.Int("users", 0, "number of demo users to create")
	recipes := flag.Int("recipes", 3, "recipes per demo user")
	seed := flag.Int64("seed", 1, "random seed for demo data")
	flag.Parse()

	if *ingredientsFile == "" && *users == 0 {
		log.Fatal("Usage: go run ./cmd/seed [-ingredients file.xlsx] [-users N -recipes M -seed S]")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	conn, err := db.Initialize(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close(conn)

	if err := db.Migrate(conn); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	if err := db.Seed(conn); err != nil {
		log.Fatal("Failed to seed catalogues:", err)
	}

	if *ingredientsFile != "" {
		fmt.Printf("Reading XLSX file: %s\n", *ingredientsFile)
		ingredients, err := readIngredientsFromXLSX(*ingredientsFile)
		if err != nil {
			log.Fatal("Failed to read XLSX:", err)
		}

		inserted, err := repository.NewIngredientRepository(conn).BulkCreate(ingredients, 500)
		if err != nil {
			log.Fatal("Failed to import ingredients:", err)
		}
		fmt.Printf("Ingredients in file: %d, newly imported: %d\n", len(ingredients), inserted)
	}

	if *users > 0 {
		userRepo := repository.NewUserRepository(conn)
		subRepo := repository.NewSubscriptionRepository(conn)
		images := storage.New(cfg)

		userService := service.NewUserService(userRepo, subRepo, images)
		recipeService := service.NewRecipeService(
			repository.NewRecipeRepository(conn),
			repository.NewTagRepository(conn),
			repository.NewIngredientRepository(conn),
			subRepo,
			images,
			service.RecipeServiceConfig{
				Limits: service.RecipeLimits{
					MaxCookingTime:      cfg.Limits.MaxCookingTime,
					MaxIngredientAmount: cfg.Limits.MaxIngredientAmount,
				},
				ShortLinkBase:   cfg.ShortLink.BaseURL,
				ShortLinkLength: cfg.ShortLink.TokenLength,
			},
		)

		g := &demoGenerator{
			faker:       gofakeit.New(*seed),
			users:       userService,
			recipes:     recipeService,
			tags:        repository.NewTagRepository(conn),
			ingredients: repository.NewIngredientRepository(conn),
		}
		created, err := g.run(context.Background(), *users, *recipes)
		if err != nil {
			log.Fatal("Failed to generate demo data:", err)
		}
		fmt.Printf("Demo users: %d, demo recipes: %d (password %q)\n", *users, created, demoPassword)
	}
}

// readIngredientsFromXLSX reads (name, measurement unit) pairs from the
// first sheet. A header row is skipped, as are blank and repeated pairs.
func readIngredientsFromXLSX(filePath string) ([]model.Ingredient, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var ingredients []model.Ingredient
	seen := make(map[string]bool)
	skipped := 0
	for i, row := range rows {
		if len(row) < 2 {
			skipped++
			continue
		}
		name := strings.ToLower(strings.TrimSpace(row[0]))
		unit := strings.TrimSpace(row[1])
		if i == 0 && name == "name" {
			continue
		}
		if name == "" || unit == "" || len(name) > 128 || len(unit) > 64 {
			skipped++
			continue
		}

		key := name + "|" + unit
		if seen[key] {
			skipped++
			continue
		}
		seen[key] = true
		ingredients = append(ingredients, model.Ingredient{Name: name, MeasurementUnit: unit})
	}

	fmt.Printf("Valid ingredients: %d, skipped rows: %d\n", len(ingredients), skipped)
	return ingredients, nil
}

var usernameJunk = regexp.MustCompile(`[^\w.@+-]`)

type demoGenerator struct {
	faker       *gofakeit.Faker
	users       service.UserService
	recipes     service.RecipeService
	tags        repository.TagRepository
	ingredients repository.IngredientRepository
}

// run creates demo accounts with perUser recipes each and returns the
// number of recipes created.
func (g *demoGenerator) run(ctx context.Context, users, perUser int) (int, error) {
	tags, err := g.tags.FindAll()
	if err != nil {
		return 0, err
	}
	catalogue, err := g.ingredients.Search("")
	if err != nil {
		return 0, err
	}
	if len(tags) == 0 || len(catalogue) == 0 {
		return 0, fmt.Errorf("tag and ingredient catalogues must not be empty")
	}

	created := 0
	for i := 0; i < users; i++ {
		user, err := g.users.Register(service.RegisterInput{
			Username:  fmt.Sprintf("%s%d", usernameJunk.ReplaceAllString(g.faker.Username(), ""), i),
			Email:     fmt.Sprintf("demo%d.%s", i, g.faker.Email()),
			FirstName: g.faker.FirstName(),
			LastName:  g.faker.LastName(),
			Password:  demoPassword,
		})
		if err != nil {
			fmt.Printf("Skipping demo user %d: %v\n", i, err)
			continue
		}

		author := service.Viewer{UserID: user.ID, Role: user.Role}
		for j := 0; j < perUser; j++ {
			if _, err := g.recipes.Create(ctx, author, g.recipe(tags, catalogue)); err != nil {
				fmt.Printf("Skipping recipe for %s: %v\n", user.Username, err)
				continue
			}
			created++
		}
	}
	return created, nil
}

func (g *demoGenerator) recipe(tags []model.Tag, catalogue []model.Ingredient) service.RecipeInput {
	names := []func() string{g.faker.Breakfast, g.faker.Lunch, g.faker.Dinner, g.faker.Dessert}

	input := service.RecipeInput{
		Name:        names[g.faker.Number(0, len(names)-1)](),
		Text:        g.faker.Paragraph(2, 3, 12, "\n\n"),
		Image:       demoImage,
		CookingTime: g.faker.Number(5, 180),
	}

	tagIdx := pick(g.faker, len(tags), g.faker.Number(1, min(3, len(tags))))
	for _, i := range tagIdx {
		input.TagIDs = append(input.TagIDs, tags[i].ID)
	}
	ingredientIdx := pick(g.faker, len(catalogue), g.faker.Number(1, min(6, len(catalogue))))
	for _, i := range ingredientIdx {
		input.Ingredients = append(input.Ingredients, service.IngredientAmount{
			ID:     catalogue[i].ID,
			Amount: g.faker.Number(1, 500),
		})
	}
	return input
}

// pick returns k distinct indexes below n.
func pick(f *gofakeit.Faker, n, k int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	f.ShuffleAnySlice(idx)
	return idx[:min(k, n)]
}
