package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aayanrashid995/tripsync/internal/ai"
	"github.com/aayanrashid995/tripsync/internal/auth"
	"github.com/aayanrashid995/tripsync/internal/chat"
	"github.com/aayanrashid995/tripsync/internal/config"
	"github.com/aayanrashid995/tripsync/internal/expense"
	"github.com/aayanrashid995/tripsync/internal/hotels"
	"github.com/aayanrashid995/tripsync/internal/itinerary"
	"github.com/aayanrashid995/tripsync/internal/storage"
	"github.com/aayanrashid995/tripsync/internal/stream"
	"github.com/aayanrashid995/tripsync/internal/trip"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Collections streamed to websocket subscribers, each as a full snapshot.
var streamCollections = []string{"expenses", "itinerary", "messages", "members"}

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	aiClient := ai.NewClient(s.Cfg.GeminiAPIKey)

	tripSvc := trip.NewService(s.DB, s.Stream)
	expenseSvc := expense.NewService(s.DB, s.Stream)
	itinerarySvc := itinerary.NewService(s.DB, s.Stream, aiClient)
	chatSvc := chat.NewService(s.DB, s.Stream, aiClient)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	trip.RegisterRoutes(s.App.Group("/trips"), tripSvc, jwtMiddleware)
	expense.RegisterRoutes(s.App.Group("/trips"), expenseSvc, jwtMiddleware)
	itinerary.RegisterRoutes(s.App.Group("/trips"), itinerarySvc, jwtMiddleware)
	chat.RegisterRoutes(s.App.Group("/trips"), chatSvc, jwtMiddleware)
	hotels.RegisterRoutes(s.App.Group("/hotels"), hotels.NewClient(s.Cfg.RapidAPIKey), jwtMiddleware)
	storage.RegisterRoutes(s.App.Group("/storage"), storage.NewService(s.DB, s.Cfg.StorageBaseURL), jwtMiddleware)

	// Without Redis the hub cannot fan out across instances, so subscribers
	// fall back to polling the database for changes.
	pollInterval := s.Cfg.PollInterval
	if s.Redis != nil {
		pollInterval = 0
	}
	source := snapshotSource(tripSvc, expenseSvc, itinerarySvc, chatSvc)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream, streamCollections, source, pollInterval)
}

func snapshotSource(trips *trip.Service, expenses *expense.Service, activities *itinerary.Service, messages *chat.Service) stream.SnapshotSource {
	return func(ctx context.Context, tripID, collection string) (json.RawMessage, error) {
		var items any
		var err error
		switch collection {
		case "expenses":
			items, err = expenses.Expenses(ctx, tripID)
		case "itinerary":
			items, err = activities.Activities(ctx, tripID)
		case "messages":
			items, err = messages.Messages(ctx, tripID)
		case "members":
			items, err = trips.Members(ctx, tripID)
		default:
			return nil, fmt.Errorf("unknown collection %q", collection)
		}
		if err != nil {
			return nil, err
		}
		return json.Marshal(items)
	}
}
