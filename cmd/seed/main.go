package main

import (
	"context"
	"log"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/travelmate/admin-console/internal/config"
	"github.com/travelmate/admin-console/internal/domain"
	"github.com/travelmate/admin-console/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// seed fills a development database with a small, self-consistent data set
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		log.Fatalf("Failed to connect to Mongo: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB.Database)
	now := time.Now().UTC()

	packages := repository.NewMongoPackageRepository(db)
	if n, err := packages.Count(ctx, nil); err == nil && n > 0 {
		log.Printf("Database already has %d packages, skipping seed", n)
		return
	}

	var packageIDs []string
	for _, draft := range seedPackages() {
		pkg, err := packages.Create(ctx, &draft)
		if err != nil {
			log.Fatalf("Failed to create package %q: %v", draft.Title, err)
		}
		packageIDs = append(packageIDs, pkg.ID)
		log.Printf("✓ Package %s (%s)", pkg.Title, pkg.ID)
	}

	names := []string{"Asha Menon", "Ravi Kumar", "Priya Nair", ""}
	var userIDs []string
	var profiles []interface{}
	for i, name := range names {
		id := ulid.Make().String()
		userIDs = append(userIDs, id)
		profile := bson.M{
			"_id":        id,
			"created_at": now.AddDate(0, -i, -i),
			"updated_at": now,
		}
		if name != "" {
			profile["full_name"] = name
		}
		profiles = append(profiles, profile)
	}
	insertMany(ctx, db, "profiles", profiles)

	statuses := []string{domain.BookingStatusPending, domain.BookingStatusConfirmed, domain.BookingStatusCancelled}
	var bookings []interface{}
	for i := 0; i < 6; i++ {
		created := now.AddDate(0, 0, -i*9)
		start := created.AddDate(0, 1, 0)
		bookings = append(bookings, bson.M{
			"_id":        ulid.Make().String(),
			"user_id":    userIDs[i%len(userIDs)],
			"package_id": packageIDs[i%len(packageIDs)],
			"start_date": start,
			"end_date":   start.AddDate(0, 0, 5),
			"status":     statuses[i%len(statuses)],
			"created_at": created,
			"updated_at": created,
		})
	}
	insertMany(ctx, db, "bookings", bookings)

	orderStatuses := []string{domain.OrderStatusCompleted, domain.OrderStatusCompleted, domain.OrderStatusPending, domain.OrderStatusCanceled}
	var orders []interface{}
	for i, status := range orderStatuses {
		amount := int64(2500000 + i*1000000)
		orders = append(orders, bson.M{
			"_id":                 ulid.Make().String(),
			"checkout_session_id": "cs_seed_" + ulid.Make().String(),
			"customer_id":         userIDs[i%len(userIDs)],
			"amount_subtotal":     amount,
			"amount_total":        amount,
			"currency":            "inr",
			"payment_status":      map[bool]string{true: "paid", false: "unpaid"}[status == domain.OrderStatusCompleted],
			"status":              status,
			"created_at":          now.AddDate(0, 0, -i),
		})
	}
	insertMany(ctx, db, "orders", orders)

	tickets := []interface{}{
		bson.M{"_id": ulid.Make().String(), "user_id": userIDs[0], "subject": "Refund for cancelled trip",
			"message": "My Goa trip was cancelled, when will I get the refund?", "status": domain.TicketStatusOpen,
			"created_at": now.Add(-72 * time.Hour), "updated_at": now.Add(-72 * time.Hour)},
		bson.M{"_id": ulid.Make().String(), "user_id": userIDs[1], "subject": "Change travel dates",
			"message": "Can I move my Kerala booking by a week?", "status": domain.TicketStatusInProgress,
			"created_at": now.Add(-30 * time.Hour), "updated_at": now.Add(-2 * time.Hour)},
		bson.M{"_id": ulid.Make().String(), "user_id": userIDs[2], "subject": "Invoice copy",
			"message": "Please send the invoice again.", "status": domain.TicketStatusResolved,
			"created_at": now.Add(-5 * time.Hour), "updated_at": now.Add(-1 * time.Hour)},
	}
	insertMany(ctx, db, "help_requests", tickets)

	log.Println("✓ Seed complete")
}

func insertMany(ctx context.Context, db *mongo.Database, collection string, docs []interface{}) {
	if _, err := db.Collection(collection).InsertMany(ctx, docs); err != nil {
		log.Fatalf("Failed to seed %s: %v", collection, err)
	}
	log.Printf("✓ %d %s", len(docs), collection)
}

func seedPackages() []domain.PackageDraft {
	return []domain.PackageDraft{
		{
			Title:            "Goa Beach Escape",
			Price:            18999,
			ShortDescription: "Five days of beaches, forts and sunset cruises",
			Destination:      "Goa",
			Status:           domain.PackageStatusActive,
			Images:           []string{"goa/1.jpg", "goa/2.jpg", "goa/3.jpg"},
			Itinerary: []domain.ItineraryDay{
				{Day: 1, Title: "Arrival", Description: "Check in and evening at Baga beach", Activities: []string{"Beach walk"}},
				{Day: 2, Title: "North Goa", Description: "Fort Aguada and Anjuna market", Activities: []string{"Fort tour", "Flea market"}},
				{Day: 3, Title: "River cruise", Description: "Mandovi sunset cruise"},
			},
			Inclusions: []string{"Hotel stay", "Breakfast", "Airport transfers"},
			Exclusions: []string{"Flights", "Lunch and dinner", "Travel insurance"},
		},
		{
			Title:            "Kerala Backwaters",
			Price:            24500,
			ShortDescription: "Houseboats, tea gardens and Kathakali",
			Destination:      "Kerala",
			Status:           domain.PackageStatusActive,
			Images:           []string{"kerala/1.jpg", "kerala/2.jpg", "kerala/3.jpg"},
			Itinerary: []domain.ItineraryDay{
				{Day: 1, Title: "Kochi", Description: "Fort Kochi heritage walk"},
				{Day: 2, Title: "Munnar", Description: "Tea estates and Eravikulam park"},
				{Day: 3, Title: "Alleppey", Description: "Overnight houseboat stay"},
			},
			Inclusions: []string{"Houseboat", "All meals on houseboat", "Private cab"},
			Exclusions: []string{"Flights", "Entry tickets", "Personal expenses"},
		},
		{
			Title:            "Kashmir Valley Retreat",
			Price:            32000,
			ShortDescription: "Shikara rides, Gulmarg gondola and Pahalgam meadows",
			Destination:      "Kashmir",
			Status:           domain.PackageStatusInactive,
			Images:           []string{"kashmir/1.jpg", "kashmir/2.jpg", "kashmir/3.jpg"},
			Itinerary: []domain.ItineraryDay{
				{Day: 1, Title: "Srinagar", Description: "Dal Lake shikara ride"},
				{Day: 2, Title: "Gulmarg", Description: "Gondola to Kongdori"},
			},
			Inclusions: []string{"Hotel and houseboat", "Breakfast and dinner", "Transfers"},
			Exclusions: []string{"Flights", "Gondola tickets", "Pony rides"},
		},
	}
}
