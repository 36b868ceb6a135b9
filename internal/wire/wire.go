package wire

import (
	"net/http"

	"safari-booking/internal/adaptor"
	"safari-booking/internal/data/repository"
	"safari-booking/internal/usecase"
	"safari-booking/pkg/mailer"
	"safari-booking/pkg/middleware"
	"safari-booking/pkg/payment"
	"safari-booking/pkg/storage"
	"safari-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the assembled HTTP surface
type App struct {
	Router *chi.Mux
}

// Wiring assembles services, handlers, and routes
func Wiring(
	repo *repository.Repository,
	mail mailer.Mailer,
	store storage.Storage,
	gateway payment.Gateway,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, mail, store, gateway, config, logger)
	handler := adaptor.NewHandler(service, config, logger)

	router := setupRouter(handler, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(handler *adaptor.Handler, config *utils.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.ClientURL))

	// Apply routes
	wireAuth(r, handler.Auth, handler.OAuth, config, logger)
	wireUser(r, handler.User, config, logger)
	wireBooking(r, handler.Booking, config, logger)
	wireGuest(r, handler.Guest, config, logger)
	wirePayment(r, handler.Payment, config, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
