package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"medichat/config"
	"medichat/extractors"
	"medichat/models"
	"medichat/services"
	"medichat/storage"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Einmaliger Crawl-Lauf, z. B. für Container-Jobs oder manuelle Importe.
// Als Argumente übergebene URLs überschreiben die konfigurierten Quellen.
func main() {
	log.Println("Starte Knowledge-Base-Crawl...")

	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	db.AutoMigrate(
		&models.Disease{}, &models.Symptom{}, &models.DiseaseSymptom{},
		&models.Complication{}, &models.Prevention{}, &models.Vaccine{},
		&models.URLSource{},
	)

	var s3Client *s3.Client
	if cfg.SnapshotsEnabled() {
		s3Client, err = storage.NewS3Client(cfg)
		if err != nil {
			logging.Fatal("S3 client creation failed", zap.Error(err))
		}
	}

	store := storage.NewGormStore(db)
	normalizer := services.NewTextNormalizer()
	index := services.NewSimilarityIndex(normalizer, logging)
	dispatcher := extractors.NewDispatcher(logging)
	fetcher := services.NewPageFetcher(cfg)
	updater := services.NewKnowledgeUpdater(cfg, store, fetcher, dispatcher, index, s3Client, logging)

	count := updater.Refresh(context.Background(), os.Args[1:])
	log.Printf("Crawl abgeschlossen, %d Krankheitsdatensätze importiert", count)
}
