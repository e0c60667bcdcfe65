// cmd/seed loads a demo branch: inventory, a menu, two bookings and a lead,
// then prints OWNER and STAFF tokens signed with JWT_SECRET.
// Usage: go run ./cmd/seed
package main

import (
	"fmt"
	"os"
	"time"

	"venueops/internal/config"
	"venueops/internal/infra"
	"venueops/internal/middleware"
	"venueops/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var demoBranch = uuid.MustParse("00000000-0000-4000-8000-000000000001")

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	if err := db.Transaction(seed); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().Str("branch_id", demoBranch.String()).Msg("demo data loaded")

	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET empty, skipping demo tokens")
		return
	}
	for _, role := range []string{middleware.RoleOwner, middleware.RoleStaff} {
		tok, err := token(cfg.JWTSecret, role)
		if err != nil {
			log.Fatal().Err(err).Msg("sign token")
		}
		fmt.Printf("%s token:\n%s\n\n", role, tok)
	}
}

func token(secret, role string) (string, error) {
	claims := middleware.JWTClaims{
		UserID:   uuid.NewString(),
		Role:     role,
		BranchID: demoBranch.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "demo-" + role,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seed(tx *gorm.DB) error {
	var n int64
	if err := tx.Model(&model.InventoryItem{}).Where("branch_id = ?", demoBranch).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		log.Info().Msg("demo branch already seeded")
		return nil
	}

	item := func(name, category, unit, stock, min, cost string, reusable bool) *model.InventoryItem {
		return &model.InventoryItem{
			BranchID:      demoBranch,
			Name:          name,
			Category:      category,
			Unit:          unit,
			CurrentStock:  d(stock),
			MinStockLevel: d(min),
			CostPerUnit:   d(cost),
			Reusable:      reusable,
			Active:        true,
		}
	}
	rice := item("Basmati Rice", model.CategoryIngredient, "kg", "120", "20", "95", false)
	chicken := item("Chicken", model.CategoryIngredient, "kg", "60", "15", "240", false)
	paneer := item("Paneer", model.CategoryIngredient, "kg", "18", "10", "320", false)
	oil := item("Cooking Oil", model.CategoryIngredient, "l", "40", "8", "150", false)
	items := []*model.InventoryItem{
		rice, chicken, paneer, oil,
		item("Waiters", model.CategoryStaff, "person", "25", "0", "800", true),
		item("Chairs", model.CategoryFurniture, "pc", "600", "0", "0", true),
		item("Tables", model.CategoryFurniture, "pc", "80", "0", "0", true),
	}
	for _, it := range items {
		if err := tx.Create(it).Error; err != nil {
			return err
		}
	}

	biryani := model.MenuItem{BranchID: demoBranch, Name: "Chicken Biryani", Ingredients: []model.MenuItemIngredient{
		{InventoryItemID: rice.ID, QuantityPerGuest: d("0.15")},
		{InventoryItemID: chicken.ID, QuantityPerGuest: d("0.12")},
		{InventoryItemID: oil.ID, QuantityPerGuest: d("0.02")},
	}}
	tikka := model.MenuItem{BranchID: demoBranch, Name: "Paneer Tikka", Ingredients: []model.MenuItemIngredient{
		{InventoryItemID: paneer.ID, QuantityPerGuest: d("0.08")},
		{InventoryItemID: oil.ID, QuantityPerGuest: d("0.01")},
	}}
	for _, m := range []*model.MenuItem{&biryani, &tikka} {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
	}

	lead := model.Lead{BranchID: demoBranch, CustomerName: "Sharma Wedding", Activities: []model.LeadActivity{
		{Action: "Site visit done"},
		{Action: "Follow up on menu tasting"},
	}}
	if err := tx.Create(&lead).Error; err != nil {
		return err
	}

	start := time.Now().AddDate(0, 0, 21).Truncate(24 * time.Hour)
	wedding := model.Booking{
		BookingNumber: "BK-DEMO-0001",
		BranchID:      demoBranch,
		LeadID:        &lead.ID,
		GuestCount:    250,
		TotalAmount:   d("450000"),
		AdvanceAmount: d("150000"),
		StartDate:     start,
		EndDate:       start.AddDate(0, 0, 1),
		Status:        model.StatusTentative,
		Event: &model.Event{
			GuestCount:     240,
			VendorBookings: []model.VendorBooking{{VendorName: "Bloom Decor", Service: "decoration"}},
		},
	}
	if err := tx.Create(&wedding).Error; err != nil {
		return err
	}
	for _, m := range []model.MenuItem{biryani, tikka} {
		if err := tx.Create(&model.MenuSelection{EventID: wedding.Event.ID, MenuItemID: m.ID, Quantity: 1}).Error; err != nil {
			return err
		}
	}

	corporate := model.Booking{
		BookingNumber: "BK-DEMO-0002",
		BranchID:      demoBranch,
		GuestCount:    80,
		TotalAmount:   d("120000"),
		StartDate:     start.AddDate(0, 1, 0),
		EndDate:       start.AddDate(0, 1, 0),
		Status:        model.StatusTentative,
	}
	return tx.Create(&corporate).Error
}
