package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/joshua-takyi/devevent/internal/helpers"
	"github.com/joshua-takyi/devevent/internal/metrics"
	"github.com/joshua-takyi/devevent/internal/models"
)

// ImageUploader stores image bytes under folder and returns a durable URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, data []byte, folder string) (string, error)
}

type EventsService struct {
	eventsRepo  models.EventsRepo
	uploader    ImageUploader
	imageFolder string
	logger      *slog.Logger
}

func NewEventsService(eventsRepo models.EventsRepo, uploader ImageUploader, imageFolder string, logger *slog.Logger) *EventsService {
	if imageFolder == "" {
		imageFolder = helpers.EventsFolder
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EventsService{
		eventsRepo:  eventsRepo,
		uploader:    uploader,
		imageFolder: imageFolder,
		logger:      logger,
	}
}

// CreateEvent turns a multipart submission into a stored event. The image is
// uploaded before anything is written, so a stored event always points at a
// live image. A failed insert after a successful upload leaves the upload in
// place.
func (es *EventsService) CreateEvent(ctx context.Context, form *multipart.Form) (event *models.Event, err error) {
	defer func() {
		if err != nil {
			metrics.IngestFailures.WithLabelValues(string(models.KindOf(err))).Inc()
		}
	}()

	if form == nil {
		return nil, models.NewAppError(models.KindInvalidFormat, "invalid form data format", nil)
	}
	fields := flattenFields(form)

	image := imageHeader(form)
	if image == nil {
		return nil, models.NewAppError(models.KindMissingImage, "image file is required", nil)
	}

	tags, err := parseStringArray(fields, "tags")
	if err != nil {
		return nil, err
	}
	agenda, err := parseStringArray(fields, "agenda")
	if err != nil {
		return nil, err
	}

	event = models.EventFromFields(fields)
	if event.Slug == "" {
		if event.Title == "" {
			return nil, models.NewAppError(models.KindInvalidInput, "title is required", nil)
		}
		event.Slug = helpers.GenerateSlug(event.Title)
		if event.Slug == "" {
			return nil, models.NewAppError(models.KindInvalidInput, "could not derive a slug from title. Provide slug explicitly", nil)
		}
	}
	if !helpers.IsValidSlug(event.Slug) {
		return nil, models.NewAppError(models.KindInvalidInput, "invalid slug format. Must contain only lowercase letters, numbers, and hyphens", nil)
	}
	if err := models.Validate.Struct(event); err != nil {
		return nil, models.NewAppError(models.KindInvalidInput, "missing required event fields", err)
	}

	data, err := readImage(image)
	if err != nil {
		return nil, models.NewAppError(models.KindInvalidFormat, "could not read image file", err)
	}

	start := time.Now()
	url, err := es.uploader.UploadImage(ctx, data, es.imageFolder)
	metrics.ImageUploadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, models.NewAppError(models.KindUploadError, "image upload failed", err)
	}

	event.Image = url
	event.Tags = tags
	event.Agenda = agenda

	created, err := es.eventsRepo.CreateEvent(ctx, event)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateSlug) {
			return nil, models.NewAppError(models.KindPersistError, fmt.Sprintf("event with slug '%s' already exists", event.Slug), err)
		}
		return nil, models.NewAppError(models.KindPersistError, "event creation failed", err)
	}

	metrics.EventsCreated.Inc()
	es.logger.Info("event created", "slug", created.Slug, "id", created.ID.Hex())
	return created, nil
}

// GetEventBySlug is the strict lookup: the slug must be well formed and an
// absent event is an error.
func (es *EventsService) GetEventBySlug(ctx context.Context, slug string) (*models.Event, error) {
	if slug == "" {
		return nil, models.NewAppError(models.KindInvalidInput, "slug parameter is required", nil)
	}
	if !helpers.IsValidSlug(slug) {
		return nil, models.NewAppError(models.KindInvalidInput, "invalid slug format. Must contain only lowercase letters, numbers, and hyphens", nil)
	}

	event, err := es.eventsRepo.GetEventBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, models.ErrEventNotFound) {
			return nil, models.NewAppError(models.KindNotFound, fmt.Sprintf("event with slug '%s' not found", slug), err)
		}
		return nil, fmt.Errorf("failed to fetch event: %w", err)
	}
	return event, nil
}

// ListEvents returns every event, newest first. Store errors are logged and
// reported as an empty list.
func (es *EventsService) ListEvents(ctx context.Context) []*models.Event {
	events, err := es.eventsRepo.ListEvents(ctx)
	if err != nil {
		es.logger.Error("listing events failed", "error", err)
		metrics.DegradedReads.WithLabelValues("list").Inc()
		return []*models.Event{}
	}
	if events == nil {
		return []*models.Event{}
	}
	return events
}

// GetSimilarEvents returns other events sharing a tag with the event named by
// slug. The slug is not validated, and any failure yields no suggestions.
func (es *EventsService) GetSimilarEvents(ctx context.Context, slug string) []*models.Event {
	anchor, err := es.eventsRepo.GetEventBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, models.ErrEventNotFound) {
			es.logger.Warn("similar events: anchor lookup failed", "slug", slug, "error", err)
			metrics.DegradedReads.WithLabelValues("similar").Inc()
		}
		return []*models.Event{}
	}
	if len(anchor.Tags) == 0 {
		return []*models.Event{}
	}

	similar, err := es.eventsRepo.ListSimilarEvents(ctx, anchor.ID, anchor.Tags)
	if err != nil {
		es.logger.Warn("similar events: query failed", "slug", slug, "error", err)
		metrics.DegradedReads.WithLabelValues("similar").Inc()
		return []*models.Event{}
	}
	if similar == nil {
		return []*models.Event{}
	}
	return similar
}

func (es *EventsService) GetEventDetails(ctx context.Context, slug string) (*models.EventDetails, error) {
	event, err := es.GetEventBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	return &models.EventDetails{
		Event:         event,
		SimilarEvents: es.GetSimilarEvents(ctx, event.Slug),
		Bookings:      models.PlaceholderBookingCount,
	}, nil
}

func flattenFields(form *multipart.Form) map[string]string {
	fields := make(map[string]string, len(form.Value))
	for key, values := range form.Value {
		if len(values) > 0 {
			fields[key] = values[0]
		}
	}
	return fields
}

func imageHeader(form *multipart.Form) *multipart.FileHeader {
	files := form.File["image"]
	if len(files) == 0 || files[0] == nil || files[0].Size == 0 {
		return nil
	}
	return files[0]
}

func readImage(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// parseStringArray decodes a JSON-encoded array of strings held in a text
// field.
func parseStringArray(fields map[string]string, name string) ([]string, error) {
	raw, ok := fields[name]
	if !ok || raw == "" {
		return nil, models.NewAppError(models.KindMissingField, fmt.Sprintf("%s field is required", name), nil)
	}

	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, models.NewAppError(models.KindInvalidJSON, fmt.Sprintf("invalid JSON for %s", name), err)
	}

	items, ok := decoded.([]any)
	if !ok {
		return nil, models.NewAppError(models.KindTypeError, fmt.Sprintf("%s must be an array", name), nil)
	}

	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, models.NewAppError(models.KindTypeError, fmt.Sprintf("%s[%d] must be a string", name, i), nil)
		}
		out = append(out, s)
	}
	return out, nil
}
