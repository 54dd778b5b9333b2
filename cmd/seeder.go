package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	identityDatamodel "github.com/tinkrentals/rent-ledger/internal/core/datamodel/identity"
	"github.com/tinkrentals/rent-ledger/internal/core/events"
	identityPostgres "github.com/tinkrentals/rent-ledger/internal/identity/postgres"
	"github.com/tinkrentals/rent-ledger/internal/ledger"
	ledgerPostgres "github.com/tinkrentals/rent-ledger/internal/ledger/postgres"
	"github.com/tinkrentals/rent-ledger/pkg/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with a demo landlord, lease, and a batch of payment attempts for development and testing.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB.DB}), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		if err != nil {
			log.Fatalf("failed to open gorm connection: %v", err)
		}

		if clearData {
			for _, table := range []string{"payments", "leases", "properties", "tenants", "landlords"} {
				if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		landlord := &identityDatamodel.Landlord{
			OrgName:      "Golden Gate Properties",
			ContactEmail: "owner@goldengate.example",
		}
		if err := db.Where(identityDatamodel.Landlord{ContactEmail: landlord.ContactEmail}).FirstOrCreate(landlord).Error; err != nil {
			log.Fatalf("failed to seed landlord: %v", err)
		}

		tenant := &identityDatamodel.Tenant{
			FullName: "Sam Renter",
			Email:    "sam.renter@example.com",
		}
		if err := db.Where(identityDatamodel.Tenant{Email: tenant.Email}).FirstOrCreate(tenant).Error; err != nil {
			log.Fatalf("failed to seed tenant: %v", err)
		}

		property := &identityDatamodel.Property{
			LandlordID: landlord.ID,
			Name:       "Sunset Terrace",
			Address:    "1820 Sunset Blvd",
		}
		if err := db.Where(identityDatamodel.Property{LandlordID: landlord.ID, Name: property.Name}).FirstOrCreate(property).Error; err != nil {
			log.Fatalf("failed to seed property: %v", err)
		}

		today := time.Now()
		lease := &identityDatamodel.Lease{
			LandlordID:       landlord.ID,
			TenantID:         tenant.ID,
			PropertyID:       property.ID,
			MonthlyRentCents: 125000,
			StartDate:        today.AddDate(0, -6, 0),
			EndDate:          today.AddDate(0, 6, 0),
			IsActive:         true,
		}
		if err := db.Where(identityDatamodel.Lease{LandlordID: landlord.ID, TenantID: tenant.ID, PropertyID: property.ID}).FirstOrCreate(lease).Error; err != nil {
			log.Fatalf("failed to seed lease: %v", err)
		}

		lg := logger.LoggerWrapper()
		repo := ledgerPostgres.NewPaymentRepository(db)
		resolver := identityPostgres.NewResolver(db)
		service := ledger.NewService(repo, resolver, events.NewEventBus(lg), lg)

		ctx := context.Background()
		batch := uuid.NewString()[:8]

		// Three settled months of rent, stepping up like a renewal.
		created := 0
		for i := 0; i < 3; i++ {
			monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
			dto := &ledger.RecordAttemptDTO{
				ExternalReference: fmt.Sprintf("pi_seed_%s_%d", batch, i),
				LandlordID:        landlord.ID,
				TenantID:          tenant.ID,
				LeaseID:           lease.ID,
				PropertyID:        property.ID,
				AmountCents:       125000 + int64(i)*5000,
				Status:            ledger.StatusSucceeded,
				RentPeriodStart:   ledger.Date{Time: monthStart},
				RentPeriodEnd:     ledger.Date{Time: monthStart.AddDate(0, 1, -1)},
				DueDate:           ledger.Date{Time: monthStart},
				Description:       fmt.Sprintf("Rent %s", monthStart.Format("January 2006")),
			}
			p, err := service.RecordAttempt(ctx, dto)
			if err != nil {
				log.Fatalf("failed to seed payment %d: %v", i, err)
			}
			created++
			fmt.Printf("Seeded payment %d: %d cents, net %d cents\n", p.ID, p.AmountCents, p.NetAmountCents)
		}

		// One attempt still waiting on the processor, one bounced.
		currentMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		for _, seed := range []struct {
			status ledger.Status
			suffix string
		}{
			{ledger.StatusPending, "pending"},
			{ledger.StatusFailed, "failed"},
		} {
			dto := &ledger.RecordAttemptDTO{
				ExternalReference: fmt.Sprintf("pi_seed_%s_%s", batch, seed.suffix),
				LandlordID:        landlord.ID,
				TenantID:          tenant.ID,
				LeaseID:           lease.ID,
				PropertyID:        property.ID,
				AmountCents:       75000,
				Status:            seed.status,
				RentPeriodStart:   ledger.Date{Time: currentMonth},
				RentPeriodEnd:     ledger.Date{Time: currentMonth.AddDate(0, 1, -1)},
				DueDate:           ledger.Date{Time: currentMonth},
				Description:       "Partial rent",
			}
			if _, err := service.RecordAttempt(ctx, dto); err != nil {
				log.Fatalf("failed to seed %s payment: %v", seed.suffix, err)
			}
			created++
		}

		fmt.Printf("Seeded landlord %d with %d payment attempts\n", landlord.ID, created)
	},
}
