package router

import (
	"net/http"
	"sync"
	"time"

	catsvc "villfinder-backend/internal/application/categories"
	favsvc "villfinder-backend/internal/application/favorites"
	healthsvc "villfinder-backend/internal/application/health"
	listsvc "villfinder-backend/internal/application/listings"
	profilesvc "villfinder-backend/internal/application/profiles"
	reviewsvc "villfinder-backend/internal/application/reviews"
	searchsvc "villfinder-backend/internal/application/search"
	uploadsvc "villfinder-backend/internal/application/uploads"
	"villfinder-backend/internal/config"
	"villfinder-backend/internal/infrastructure/cache"
	"villfinder-backend/internal/infrastructure/database"
	cathandler "villfinder-backend/internal/interfaces/handlers/categories"
	favhandler "villfinder-backend/internal/interfaces/handlers/favorites"
	healthhandler "villfinder-backend/internal/interfaces/handlers/health"
	listhandler "villfinder-backend/internal/interfaces/handlers/listings"
	profilehandler "villfinder-backend/internal/interfaces/handlers/profiles"
	reviewhandler "villfinder-backend/internal/interfaces/handlers/reviews"
	searchhandler "villfinder-backend/internal/interfaces/handlers/search"
	uploadhandler "villfinder-backend/internal/interfaces/handlers/uploads"
	"villfinder-backend/internal/middleware"
	"villfinder-backend/internal/pkg/response"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// The collectors register on the default prometheus registry, which allows one instance per process.
var httpMetrics = sync.OnceValue(func() *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New("villfinder")
})

// CreateApp opens the database and redis named by cfg and builds the app on top of them.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Open(cfg.DatabaseURL, cfg.SlowQueryThreshold)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opt)
	}
	return New(cfg, db, rdb), db, rdb, nil
}

// New wires every service and route. API routes are only mounted when db is set.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler(rdb),
		EnableTrustedProxyCheck: true,
		JSONEncoder:             json.Marshal,
		JSONDecoder:             json.Unmarshal,
	})

	app.Use(recover.New())
	app.Use(compress.New())
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix:  cfg.FrontendURLEndsWith,
		DevPassword:    cfg.DevPassword,
		AllowLocalhost: !cfg.IsProduction(),
	}))
	app.Use(middleware.Tracing())
	app.Use(middleware.Session(rdb))
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.RouteLogger())

	prom := httpMetrics()
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	checker := &healthsvc.Checker{
		Rdb:     rdb,
		Probes:  []healthsvc.Probe{{Name: "storage", URL: cfg.StorageURL}},
		Timeout: 3 * time.Second,
	}
	if db != nil {
		checker.DB = &database.Pinger{DB: db}
	}
	hh := &healthhandler.Handlers{Checker: checker, HealthAdminKey: cfg.HealthAdminKey}
	app.Get("/", hh.Dashboard)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	if db != nil {
		mountAPI(app, cfg, db, rdb)
	}

	app.Use(func(c *fiber.Ctx) error {
		return response.Error(c, "Resource not found", fiber.StatusNotFound, fiber.Map{"url": c.OriginalURL()})
	})
	return app
}

func mountAPI(app *fiber.App, cfg *config.Config, db *gorm.DB, rdb *redis.Client) {
	ls := &listsvc.Service{DB: db}
	cs := &catsvc.Service{DB: db, Cache: cache.NewLocal[*catsvc.Forest](cfg.CategoryCacheTTL)}
	rs := &reviewsvc.Service{
		DB:               db,
		Listings:         ls,
		Scorer:           reviewsvc.NewVaderScorer(),
		Counts:           &cache.Redis{Client: rdb},
		CountTTL:         cfg.ReviewCountCacheTTL,
		PageSize:         cfg.Reviews.PageSize,
		CommentMaxLength: cfg.Reviews.CommentMaxLength,
	}
	ls.OnDelete = append(ls.OnDelete, rs.ForgetTarget)
	fs := &favsvc.Service{DB: db, Listings: ls}
	ss := &searchsvc.Service{
		DB:                  db,
		Categories:          cs,
		Reviews:             rs,
		Favorites:           fs,
		PageSize:            cfg.Search.PageSize,
		DefaultRadiusKm:     cfg.Search.DefaultRadiusKm,
		ListDefaultRadiusKm: cfg.Search.ListDefaultRadiusKm,
	}
	us := &uploadsvc.Service{
		Client:     &uploadsvc.HTTPClient{BaseURL: cfg.StorageURL, SecretKey: cfg.StorageSecretKey, SignPath: cfg.StorageSignPath},
		BaseURL:    cfg.StorageURL,
		Bucket:     cfg.PhotoBucket,
		PublicPath: cfg.StoragePublicPath,
	}

	api := app.Group("/api/v1", middleware.RequireAuth())

	ch := &cathandler.Handlers{Service: cs}
	api.Get("/categories", ch.List)
	api.Get("/categories/:id/closure", ch.Closure)

	sh := &searchhandler.Handlers{Service: ss}
	api.Get("/places/search", sh.Search)
	api.Get("/rentals/search", sh.SearchRentals)
	api.Get("/food-establishments/search", sh.SearchFoodEstablishments)

	lh := &listhandler.Handlers{Service: ls}
	uh := &uploadhandler.Handlers{Service: us, Listings: ls}
	api.Get("/places/:kind/:id", lh.Get)
	api.Delete("/places/:kind/:id", lh.Delete)
	api.Post("/places/:kind/:id/photos", lh.AddPhoto)
	api.Post("/places/:kind/:id/photos/upload-url", uh.PhotoUploadURL)

	rh := &reviewhandler.Handlers{Service: rs}
	api.Post("/reviews", rh.Upsert)
	api.Get("/reviews", rh.List)
	api.Get("/reviews/mine", rh.Mine)
	api.Get("/reviews/summary", rh.Summary)
	api.Delete("/reviews/:id", rh.Delete)

	fh := &favhandler.Handlers{Service: fs}
	api.Post("/favorites", fh.Toggle)
	api.Get("/favorites", fh.List)

	ph := &profilehandler.Handlers{Service: &profilesvc.Service{DB: db}}
	api.Get("/profiles/me", ph.Me)
	api.Get("/profiles/:id", ph.Get)
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
