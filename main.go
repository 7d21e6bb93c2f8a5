package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"medichat/config"
	"medichat/extractors"
	"medichat/models"
	"medichat/services"
	"medichat/storage"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var diseasesImportedCounter prometheus.Counter

func init() {
	diseasesImportedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "diseases_imported_total",
			Help: "Total number of disease records imported into the knowledge base.",
		},
	)
	prometheus.MustRegister(diseasesImportedCounter)
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Database Connection
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to knowledge base database.")

	// Auto-Migration
	logging.Info("Running database auto-migration...")
	db.AutoMigrate(
		&models.Disease{}, &models.Symptom{}, &models.DiseaseSymptom{},
		&models.Complication{}, &models.Prevention{}, &models.Vaccine{},
		&models.URLSource{}, &models.ChatSession{}, &models.ChatMessage{},
	)

	// Seeding
	seedDefaultSources(db, cfg, logging)

	// Setup Services
	store := storage.NewGormStore(db)
	normalizer := services.NewTextNormalizer()
	index := services.NewSimilarityIndex(normalizer, logging)
	dispatcher := extractors.NewDispatcher(logging)
	fetcher := services.NewPageFetcher(cfg)

	var s3Client *s3.Client
	if cfg.SnapshotsEnabled() {
		s3Client, err = storage.NewS3Client(cfg)
		if err != nil {
			logging.Fatal("S3 client creation failed", zap.Error(err))
		}
		logging.Info("Snapshot archive enabled", zap.String("bucket", cfg.SnapshotS3Bucket))
	}
	updater := services.NewKnowledgeUpdater(cfg, store, fetcher, dispatcher, index, s3Client, logging)
	responder := services.NewQueryResponder(store, index, logging)

	// Index beim Start aus dem vorhandenen Datenbestand aufbauen
	updater.RebuildIndex()

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup Routes
	setupChatRoutes(router, db, responder, logging)
	setupKnowledgeRoutes(router, updater, logging)
	setupDiseaseRoutes(router, db, logging)
	setupSymptomRoutes(router, db, logging)
	setupSourceRoutes(router, db, logging)

	// Setup Cron
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.CronSchedule, func() {
		logging.Info("Running scheduled knowledge base refresh...")
		count := updater.Refresh(context.Background(), nil)
		logging.Info("Cron job completed", zap.Int("diseases_imported", count))
		diseasesImportedCounter.Add(float64(count))
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func setupChatRoutes(router *gin.Engine, db *gorm.DB, responder *services.QueryResponder, log *zap.Logger) {
	rg := router.Group("/chat")

	// POST - Nachricht verarbeiten und Antwort samt Session-ID zurückgeben
	rg.POST("/message", func(c *gin.Context) {
		var req struct {
			SessionID string `json:"session_id"`
			Message   string `json:"message" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'message' field is required."})
			return
		}

		session, err := ensureSession(db, req.SessionID)
		if err != nil {
			log.Error("Failed to resolve chat session", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		answer := responder.Respond(req.Message)

		// Verlauf speichern; Fehler hier verhindern die Antwort nicht
		userMsg := models.ChatMessage{SessionID: session.ID, Sender: "user", Message: req.Message}
		botMsg := models.ChatMessage{SessionID: session.ID, Sender: "bot", Message: answer}
		if err := db.Create(&userMsg).Error; err != nil {
			log.Warn("Failed to persist user message", zap.Error(err))
		}
		if err := db.Create(&botMsg).Error; err != nil {
			log.Warn("Failed to persist bot message", zap.Error(err))
		}

		c.JSON(http.StatusOK, gin.H{
			"session_id": session.SessionID,
			"response":   answer,
		})
	})

	// GET - Gesprächsverlauf einer Session
	rg.GET("/history/:session_id", func(c *gin.Context) {
		sessionID := c.Param("session_id")
		var session models.ChatSession
		if err := db.Where("session_id = ?", sessionID).First(&session).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
				return
			}
			log.Error("Database error while fetching chat session", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		var messages []models.ChatMessage
		if err := db.Where("session_id = ?", session.ID).Order("created_at").Find(&messages).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"session_id": session.SessionID, "messages": messages})
	})
}

// ensureSession lädt die Session zur gegebenen ID oder legt eine neue mit
// frischer UUID an.
func ensureSession(db *gorm.DB, sessionID string) (*models.ChatSession, error) {
	if sessionID != "" {
		var session models.ChatSession
		err := db.Where("session_id = ?", sessionID).First(&session).Error
		if err == nil {
			return &session, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	session := models.ChatSession{SessionID: uuid.NewString()}
	if err := db.Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func setupKnowledgeRoutes(router *gin.Engine, updater *services.KnowledgeUpdater, log *zap.Logger) {
	rg := router.Group("/knowledge")

	// POST - Crawl ausführen; ohne URLs werden die Standard-Quellen genutzt.
	// Parallele Aufrufe serialisiert der Updater selbst.
	rg.POST("/update", func(c *gin.Context) {
		var req struct {
			URLs []string `json:"urls"`
		}
		// Leerer Body ist erlaubt und bedeutet: Standard-Quellen verwenden
		if err := c.ShouldBindJSON(&req); err != nil {
			req.URLs = nil
		}

		count := updater.Refresh(c.Request.Context(), req.URLs)
		diseasesImportedCounter.Add(float64(count))
		log.Info("Knowledge base refresh completed", zap.Int("diseases_imported", count))

		c.JSON(http.StatusOK, gin.H{"diseases_imported": count})
	})
}

func setupDiseaseRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger) {
	rg := router.Group("/diseases")

	rg.GET("/", func(c *gin.Context) {
		query := db.
			Preload("Symptoms").
			Preload("Complications").
			Preload("Preventions").
			Preload("Vaccines")
		if name := c.Query("name"); name != "" {
			query = query.Where("name ILIKE ?", "%"+name+"%")
		}
		var diseases []models.Disease
		if err := query.Find(&diseases).Error; err != nil {
			log.Error("Database query for diseases failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, diseases)
	})

	rg.GET("/:id", func(c *gin.Context) {
		id := c.Param("id")
		var disease models.Disease
		if err := db.
			Preload("Symptoms").
			Preload("Complications").
			Preload("Preventions").
			Preload("Vaccines").
			First(&disease, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "disease not found"})
				return
			}
			log.Error("Database error while fetching disease", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, disease)
	})
}

func setupSymptomRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger) {
	rg := router.Group("/symptoms")

	rg.GET("/", func(c *gin.Context) {
		query := db.Model(&models.Symptom{})
		if name := c.Query("name"); name != "" {
			query = query.Where("name ILIKE ?", "%"+name+"%")
		}
		var symptoms []models.Symptom
		if err := query.Find(&symptoms).Error; err != nil {
			log.Error("Database query for symptoms failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, symptoms)
	})
}

func setupSourceRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger) {
	rg := router.Group("/sources")

	rg.GET("/", func(c *gin.Context) {
		var sources []models.URLSource
		if err := db.Find(&sources).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, sources)
	})

	rg.POST("/", func(c *gin.Context) {
		var src models.URLSource
		if err := c.ShouldBindJSON(&src); err != nil || src.URL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request, 'url' is required"})
			return
		}
		if err := db.Create(&src).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create source"})
			return
		}
		c.JSON(http.StatusCreated, src)
	})

	// POST - Quelle deaktivieren statt löschen, damit die Buchhaltung erhalten bleibt
	rg.POST("/delete", func(c *gin.Context) {
		var req struct {
			URL string `json:"url" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request, 'url' is required"})
			return
		}
		res := db.Model(&models.URLSource{}).Where("url = ?", req.URL).Update("active", false)
		if res.Error != nil {
			log.Error("Failed to deactivate source", zap.String("url", req.URL), zap.Error(res.Error))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "source not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "source deactivated"})
	})
}

func seedDefaultSources(db *gorm.DB, cfg *config.Config, logger *zap.Logger) {
	var count int64
	db.Model(&models.URLSource{}).Count(&count)
	if count > 0 {
		return
	}
	var sources []models.URLSource
	for _, u := range cfg.DefaultSourceURLs() {
		sources = append(sources, models.URLSource{URL: u, Active: true})
	}
	if len(sources) == 0 {
		return
	}
	if err := db.Create(&sources).Error; err != nil {
		logger.Warn("Failed to seed default sources", zap.Error(err))
	} else {
		logger.Info("Default sources seeded.")
	}
}
