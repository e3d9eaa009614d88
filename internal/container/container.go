package container

import (
	"log/slog"

	"github.com/joshua-takyi/devevent/internal/config"
	"github.com/joshua-takyi/devevent/internal/models"
	"github.com/joshua-takyi/devevent/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Logger         *slog.Logger
	Config         *config.Config
	EventsService  *services.EventsService
	BookingService *services.BookingService
}

// NewContainer wires services on top of an already connected repository
// and image uploader. Connection lifecycles stay with the caller.
func NewContainer(
	logger *slog.Logger,
	cfg *config.Config,
	eventsRepo models.EventsRepo,
	uploader services.ImageUploader,
) *Container {
	eventsService := services.NewEventsService(eventsRepo, uploader, cfg.CloudinaryFolder, logger)
	bookingService := services.NewBookingService(eventsService, cfg.BookingDelay)

	return &Container{
		Logger:         logger,
		Config:         cfg,
		EventsService:  eventsService,
		BookingService: bookingService,
	}
}
