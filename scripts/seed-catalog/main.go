// Seeds the catalog with a small demo dataset: two buildings, two
// activity trees and two organizations. Skips seeding when buildings
// already exist, so it is safe to run repeatedly.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/orgcatalog/orgcatalog/internal/model"
	"github.com/orgcatalog/orgcatalog/internal/repository"
)

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		migrate     = flag.Bool("migrate", true, "Apply the schema before seeding")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	if *migrate {
		if err := repo.Migrate(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "apply schema:", err)
			os.Exit(1)
		}
	}

	existing, err := repo.ListBuildings(ctx, 0, 1)
	if err != nil {
		fmt.Fprintln(os.Stderr, "check existing data:", err)
		os.Exit(1)
	}
	if len(existing) > 0 {
		fmt.Println("catalog already seeded, nothing to do")
		return
	}

	if err := seed(ctx, repo); err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}

	fmt.Println("catalog seeded")
}

func seed(ctx context.Context, repo *repository.Repository) error {
	now := time.Now().UTC()

	moscow := &model.Building{
		ID:        ulid.Make().String(),
		Address:   "Moscow, Lenina St. 1, office 3",
		Latitude:  55.7558,
		Longitude: 37.6176,
		CreatedAt: now,
		UpdatedAt: now,
	}
	spb := &model.Building{
		ID:        ulid.Make().String(),
		Address:   "St. Petersburg, Nevsky Ave. 28",
		Latitude:  59.9343,
		Longitude: 30.3351,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, b := range []*model.Building{moscow, spb} {
		if err := repo.CreateBuilding(ctx, b); err != nil {
			return err
		}
	}

	food := activity("Food", nil, 0, now)
	meat := activity("Meat Products", &food.ID, 1, now)
	dairy := activity("Dairy Products", &food.ID, 1, now)
	cars := activity("Cars", nil, 0, now)
	light := activity("Light Vehicles", &cars.ID, 1, now)
	parts := activity("Spare Parts", &light.ID, 2, now)
	for _, a := range []*model.Activity{food, meat, dairy, cars, light, parts} {
		if err := repo.CreateActivity(ctx, a); err != nil {
			return err
		}
	}

	orgs := []*model.Organization{
		{
			ID:         ulid.Make().String(),
			Name:       "Horns and Hooves LLC",
			BuildingID: moscow.ID,
			Phones: []model.Phone{
				{ID: ulid.Make().String(), Number: "2-222-222"},
				{ID: ulid.Make().String(), Number: "8-923-666-13-13"},
			},
			Activities: []*model.Activity{meat, dairy},
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		{
			ID:         ulid.Make().String(),
			Name:       "AutoParts Plus",
			BuildingID: spb.ID,
			Phones: []model.Phone{
				{ID: ulid.Make().String(), Number: "3-333-333"},
			},
			Activities: []*model.Activity{parts},
			CreatedAt:  now,
			UpdatedAt:  now,
		},
	}
	for _, org := range orgs {
		if err := repo.CreateOrganization(ctx, org); err != nil {
			return err
		}
	}

	return nil
}

func activity(name string, parentID *string, level int, now time.Time) *model.Activity {
	return &model.Activity{
		ID:        ulid.Make().String(),
		Name:      name,
		ParentID:  parentID,
		Level:     level,
		CreatedAt: now,
	}
}
