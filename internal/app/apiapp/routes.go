package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fourpaws/backend/internal/config"
	authsvc "github.com/fourpaws/backend/internal/services/auth"
	mediasvc "github.com/fourpaws/backend/internal/services/media"
	memorialsvc "github.com/fourpaws/backend/internal/services/memorials"
	petssvc "github.com/fourpaws/backend/internal/services/pets"
	publicsvc "github.com/fourpaws/backend/internal/services/public"
	ratesvc "github.com/fourpaws/backend/internal/services/rate"
	themesvc "github.com/fourpaws/backend/internal/services/themes"
	"github.com/fourpaws/backend/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService      *authsvc.Service
	PetsService      *petssvc.Service
	MemorialsService *memorialsvc.Service
	MediaService     *mediasvc.Service
	ThemesService    *themesvc.Service
	PublicService    *publicsvc.Service
	LocalStorage     *mediasvc.LocalStorage
	RateLimiter      *ratesvc.Limiter
	Logger           *zap.Logger
	Config           config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	loginPolicy := ratesvc.Policy{
		Points: deps.Config.Rate.LoginPoints,
		Window: deps.Config.Rate.LoginWindow,
	}
	petCreatePolicy := ratesvc.Policy{
		Points: deps.Config.Rate.PetCreatePoints,
		Window: deps.Config.Rate.PetCreateWindow,
	}
	memorialCreatePolicy := ratesvc.Policy{
		Points: deps.Config.Rate.MemorialCreatePoints,
		Window: deps.Config.Rate.MemorialCreateWindow,
	}

	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService, deps.RateLimiter, loginPolicy)
	petsHandler := handlers.NewPetsHandler(deps.PetsService, deps.RateLimiter, petCreatePolicy)
	memorialsHandler := handlers.NewMemorialsHandler(deps.MemorialsService, deps.MediaService, deps.RateLimiter, memorialCreatePolicy)
	mediaHandler := handlers.NewMediaHandler(deps.MediaService)
	themesHandler := handlers.NewThemesHandler(deps.ThemesService)
	publicHandler := handlers.NewPublicHandler(deps.PublicService)
	storageHandler := handlers.NewStorageHandler(deps.LocalStorage, deps.Logger)

	requireAuth := AuthMiddleware(deps.AuthService, deps.Logger)

	r.Get("/healthz", healthHandler.Handle)

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", authHandler.Login)
			auth.Post("/logout", authHandler.Logout)
			auth.Post("/rotate", authHandler.Rotate)
		})

		api.Route("/public", func(public chi.Router) {
			public.Get("/memorials", publicHandler.List)
			public.Get("/memorials/{slug}", publicHandler.GetBySlug)
		})

		api.Group(func(authed chi.Router) {
			authed.Use(requireAuth)

			authed.Route("/pets", func(pets chi.Router) {
				pets.Get("/", petsHandler.List)
				pets.Post("/", petsHandler.Create)
				pets.Get("/{id}", petsHandler.Get)
				pets.Patch("/{id}", petsHandler.Update)
				pets.Delete("/{id}", petsHandler.Delete)
			})

			authed.Route("/memorials", func(memorials chi.Router) {
				memorials.Get("/", memorialsHandler.List)
				memorials.Post("/", memorialsHandler.Create)
				memorials.Get("/{id}", memorialsHandler.Get)
				memorials.Patch("/{id}", memorialsHandler.Update)
				memorials.Post("/{id}/publish", memorialsHandler.Publish)
				memorials.Post("/{id}/media", memorialsHandler.AddMedia)
				memorials.Patch("/{id}/media", memorialsHandler.ReorderMedia)
			})

			authed.Delete("/media/{id}", mediaHandler.Delete)

			authed.Route("/themes", func(themes chi.Router) {
				themes.Get("/", themesHandler.List)
				themes.Post("/", themesHandler.Create)
			})
		})
	})

	r.Get("/storage/*", storageHandler.Serve)
}
