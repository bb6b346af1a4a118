package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"furniture-store/models"
	"furniture-store/store"
	"furniture-store/utils"
)

func ensureIndexes(ctx context.Context, _ *cli.Command) error {
	_, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer db.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx); err != nil {
		return err
	}
	logrus.Info("indexes created")
	return nil
}

func createAdmin(ctx context.Context, c *cli.Command) error {
	_, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer db.Disconnect(context.Background())

	email := strings.ToLower(strings.TrimSpace(c.String("email")))
	users := db.Users()
	user, err := users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		user.Role = models.RoleAdmin
		user.IsVerified = true
		if err := users.Update(ctx, user); err != nil {
			return err
		}
		logrus.WithField("email", email).Info("existing user promoted to admin")
		return nil
	case !errors.Is(err, store.ErrNotFound):
		return err
	}

	password := c.String("password")
	if len(password) < 6 {
		return fmt.Errorf("--password of at least 6 characters is required for a new account")
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	now := time.Now()
	user = &models.User{
		Name:       c.String("name"),
		Email:      email,
		Password:   hashed,
		Role:       models.RoleAdmin,
		IsVerified: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := users.Create(ctx, user); err != nil {
		return err
	}
	logrus.WithField("email", email).Info("admin created")
	return nil
}

var sampleProducts = []models.Product{
	{Name: "Oslo Three-Seater Sofa", Description: "Deep-seated sofa in oatmeal boucle with solid oak legs.", Price: 54999, Category: models.CategorySofas, Stock: 8, Material: "Boucle, oak", Color: "Oatmeal", Dimensions: "210 x 92 x 78 cm", Tag: models.TagNew},
	{Name: "Arc Lounge Chair", Description: "Curved plywood lounge chair with a woven seat.", Price: 18999, Category: models.CategoryChairs, Stock: 15, Material: "Plywood, cane", Color: "Natural"},
	{Name: "Teak Dining Table", Description: "Six-seater dining table in reclaimed teak.", Price: 42500, Category: models.CategoryTables, Stock: 4, Material: "Teak", Dimensions: "180 x 90 x 75 cm"},
	{Name: "Haven Queen Bed", Description: "Upholstered platform bed with storage drawers.", Price: 61000, Category: models.CategoryBeds, Stock: 3, Material: "Linen, pine", Color: "Slate", Tag: models.TagNew},
	{Name: "Modular Bookshelf", Description: "Stackable open shelving in powder-coated steel.", Price: 12999, Category: models.CategoryStorage, Stock: 20, Material: "Steel", Color: "Black"},
	{Name: "Terracotta Vase Set", Description: "Three hand-thrown vases.", Price: 2499, Category: models.CategoryDecor, Stock: 40, Material: "Terracotta"},
	{Name: "Globe Pendant Lamp", Description: "Opal glass pendant with brass fittings.", Price: 6999, Category: models.CategoryLighting, Stock: 12, Material: "Glass, brass"},
	{Name: "Acacia Patio Set", Description: "Weather-treated acacia table with four chairs.", Price: 38999, Category: models.CategoryOutdoor, Stock: 5, Material: "Acacia"},
}

func seed(ctx context.Context, _ *cli.Command) error {
	_, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer db.Disconnect(context.Background())

	products := db.Products()
	count, err := products.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logrus.WithField("products", count).Info("catalog is not empty; skipping seed")
		return nil
	}
	now := time.Now()
	for i := range sampleProducts {
		p := sampleProducts[i]
		p.IsActive = true
		p.CreatedAt = now
		p.UpdatedAt = now
		if err := products.Create(ctx, &p); err != nil {
			return err
		}
	}
	logrus.WithField("products", len(sampleProducts)).Info("catalog seeded")
	return nil
}
