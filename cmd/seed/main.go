package main

import (
	"context"
	"log"

	"github.com/tastytrove/backend/config"
	"github.com/tastytrove/backend/internal/database"
	"github.com/tastytrove/backend/internal/models"
	"github.com/tastytrove/backend/internal/service"
)

// Seeds a development database with a demo user and a few recipes. Refuses
// to run in production.
func main() {
	if config.IsProduction() {
		log.Fatalf("Refusing to seed a production database")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db.Gorm); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()

	user := models.User{
		ID:          "seed|demo-chef",
		DisplayName: "Demo Chef",
		Bio:         "Seeded development account",
		IsChef:      true,
	}
	if err := db.Gorm.WithContext(ctx).FirstOrCreate(&user, "id = ?", user.ID).Error; err != nil {
		log.Fatalf("Failed to seed user: %v", err)
	}

	recipes := service.NewRecipeService(db.Gorm)
	seedRecipes := []struct {
		recipe models.Recipe
		tags   []string
	}{
		{
			recipe: models.Recipe{
				UserID:      user.ID,
				Name:        "Weeknight Shakshuka",
				Author:      user.DisplayName,
				Description: "Eggs poached in a spiced tomato and pepper sauce.",
				Category:    models.CategoryBreakfast,
				Difficulty:  models.DifficultyEasy,
				PrepTime:    10,
				CookTime:    25,
				Servings:    2,
				Cuisine:     "middle eastern",
				Ingredients: models.Ingredients{
					{Ingredient: "eggs", Quantity: 4},
					{Ingredient: "crushed tomatoes", Quantity: 400, Units: "g"},
					{Ingredient: "red bell pepper", Quantity: 1},
					{Ingredient: "smoked paprika", Quantity: 1, Units: "tsp"},
				},
				Steps: models.Steps{
					"Soften the pepper and onion in olive oil.",
					"Add tomatoes and spices, simmer 10 minutes.",
					"Crack in the eggs and cover until just set.",
				},
			},
			tags: []string{"vegetarian", "one-pan", "quick"},
		},
		{
			recipe: models.Recipe{
				UserID:      user.ID,
				Name:        "Miso Butter Ramen",
				Author:      user.DisplayName,
				Description: "Quick ramen with a miso butter broth.",
				Category:    models.CategoryDinner,
				Difficulty:  models.DifficultyMedium,
				PrepTime:    15,
				CookTime:    20,
				Servings:    2,
				Cuisine:     "japanese",
				Ingredients: models.Ingredients{
					{Ingredient: "ramen noodles", Quantity: 2, Units: "portions"},
					{Ingredient: "white miso", Quantity: 2, Units: "tbsp"},
					{Ingredient: "butter", Quantity: 30, Units: "g"},
					{Ingredient: "scallions", Quantity: 2, Notes: "thinly sliced"},
				},
				Steps: models.Steps{
					"Whisk miso into simmering stock.",
					"Cook noodles separately and drain.",
					"Mount the broth with butter, assemble bowls.",
				},
			},
			tags: []string{"noodles", "comfort-food", "quick"},
		},
	}

	for _, seed := range seedRecipes {
		if _, err := recipes.Create(ctx, &seed.recipe, seed.tags); err != nil {
			// Conflicts mean the seed already ran; skip quietly.
			log.Printf("Skipping %q: %v", seed.recipe.Name, err)
			continue
		}
		log.Printf("Seeded recipe %q", seed.recipe.Name)
	}

	log.Printf("Seeding complete")
}
