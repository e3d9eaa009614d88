package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"sort"
	"testing"
	"time"

	"github.com/joshua-takyi/devevent/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeEventsRepo implements models.EventsRepo in memory.
type fakeEventsRepo struct {
	events      []*models.Event
	createErr   error
	getErr      error
	listErr     error
	similarErr  error
	createCalls int
	similarArgs []string
	clock       time.Time
}

func newFakeEventsRepo(events ...*models.Event) *fakeEventsRepo {
	return &fakeEventsRepo{
		events: events,
		clock:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeEventsRepo) CreateEvent(ctx context.Context, event *models.Event) (*models.Event, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, e := range f.events {
		if e.Slug == event.Slug {
			return nil, models.ErrDuplicateSlug
		}
	}
	f.clock = f.clock.Add(time.Minute)
	event.BeforeCreate(f.clock)
	f.events = append(f.events, event)
	return event, nil
}

func (f *fakeEventsRepo) GetEventBySlug(ctx context.Context, slug string) (*models.Event, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, e := range f.events {
		if e.Slug == slug {
			return e, nil
		}
	}
	return nil, models.ErrEventNotFound
}

func (f *fakeEventsRepo) ListEvents(ctx context.Context) ([]*models.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := append([]*models.Event(nil), f.events...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeEventsRepo) ListSimilarEvents(ctx context.Context, excludeID primitive.ObjectID, tags []string) ([]*models.Event, error) {
	f.similarArgs = tags
	if f.similarErr != nil {
		return nil, f.similarErr
	}
	var out []*models.Event
	for _, e := range f.events {
		if e.ID == excludeID {
			continue
		}
		if sharesTag(e.Tags, tags) {
			out = append(out, e)
		}
	}
	return out, nil
}

func sharesTag(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// fakeUploader implements ImageUploader.
type fakeUploader struct {
	url        string
	err        error
	calls      int
	lastData   []byte
	lastFolder string
}

func (f *fakeUploader) UploadImage(ctx context.Context, data []byte, folder string) (string, error) {
	f.calls++
	f.lastData = data
	f.lastFolder = folder
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func validFields() map[string]string {
	return map[string]string{
		"slug":        "react-summit-2025",
		"title":       "React Summit 2025",
		"description": "The biggest React conference",
		"overview":    "Two days of talks",
		"date":        "2025-11-07",
		"time":        "09:00",
		"location":    "Amsterdam, NL",
		"mode":        "hybrid",
		"audience":    "Frontend developers",
		"organizer":   "GitNation",
		"tags":        `["a","b"]`,
		"agenda":      `["item1","item2"]`,
	}
}

func buildForm(t *testing.T, fields map[string]string, image []byte) *multipart.Form {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if image != nil {
		fw, err := w.CreateFormFile("image", "banner.png")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form
}

func newTestService(repo *fakeEventsRepo, up *fakeUploader) *EventsService {
	return NewEventsService(repo, up, "DevEvent", discardLogger())
}

func TestEventsService_CreateEvent_Success(t *testing.T) {
	repo := newFakeEventsRepo()
	up := &fakeUploader{url: "https://res.cloudinary.com/demo/image/upload/DevEvent/banner.png"}
	svc := newTestService(repo, up)

	image := []byte("\x89PNG fake image bytes")
	ev, err := svc.CreateEvent(context.Background(), buildForm(t, validFields(), image))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, ev.Tags)
	assert.Equal(t, []string{"item1", "item2"}, ev.Agenda)
	assert.Equal(t, up.url, ev.Image)
	assert.Equal(t, "react-summit-2025", ev.Slug)
	assert.Equal(t, "GitNation", ev.Organizer)
	assert.False(t, ev.ID.IsZero())
	assert.False(t, ev.CreatedAt.IsZero())

	assert.Equal(t, 1, up.calls)
	assert.Equal(t, image, up.lastData)
	assert.Equal(t, "DevEvent", up.lastFolder)
	assert.Equal(t, 1, repo.createCalls)
}

func TestEventsService_CreateEvent_DerivesSlugFromTitle(t *testing.T) {
	repo := newFakeEventsRepo()
	svc := newTestService(repo, &fakeUploader{url: "https://img.example/x.png"})

	fields := validFields()
	delete(fields, "slug")

	ev, err := svc.CreateEvent(context.Background(), buildForm(t, fields, []byte("img")))
	require.NoError(t, err)
	assert.Equal(t, "react-summit-2025", ev.Slug)
}

func TestEventsService_CreateEvent_ValidationFailures(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(f map[string]string)
		noImage  bool
		wantKind models.ErrorKind
		wantMsg  string
	}{
		{name: "missing image", noImage: true, wantKind: models.KindMissingImage},
		{name: "missing tags", mutate: func(f map[string]string) { delete(f, "tags") }, wantKind: models.KindMissingField},
		{name: "empty tags", mutate: func(f map[string]string) { f["tags"] = "" }, wantKind: models.KindMissingField},
		{name: "malformed tags", mutate: func(f map[string]string) { f["tags"] = `["a",` }, wantKind: models.KindInvalidJSON},
		{name: "tags not an array", mutate: func(f map[string]string) { f["tags"] = `"not-an-array"` }, wantKind: models.KindTypeError},
		{name: "tags object", mutate: func(f map[string]string) { f["tags"] = `{"a":1}` }, wantKind: models.KindTypeError},
		{name: "tags null", mutate: func(f map[string]string) { f["tags"] = `null` }, wantKind: models.KindTypeError},
		{name: "tags with number", mutate: func(f map[string]string) { f["tags"] = `["a",1]` }, wantKind: models.KindTypeError},
		{name: "missing agenda", mutate: func(f map[string]string) { delete(f, "agenda") }, wantKind: models.KindMissingField},
		{name: "malformed agenda", mutate: func(f map[string]string) { f["agenda"] = `item1, item2` }, wantKind: models.KindInvalidJSON},
		{name: "agenda not an array", mutate: func(f map[string]string) { f["agenda"] = `42` }, wantKind: models.KindTypeError},
		{name: "bad slug", mutate: func(f map[string]string) { f["slug"] = "React_Summit" }, wantKind: models.KindInvalidInput},
		{name: "double hyphen slug", mutate: func(f map[string]string) { f["slug"] = "react--summit" }, wantKind: models.KindInvalidInput},
		{name: "missing title", mutate: func(f map[string]string) { delete(f, "title") }, wantKind: models.KindInvalidInput},
		{
			name:     "missing slug and title",
			mutate:   func(f map[string]string) { delete(f, "slug"); delete(f, "title") },
			wantKind: models.KindInvalidInput,
			wantMsg:  "title is required",
		},
		{
			name:     "title without ascii slug",
			mutate:   func(f map[string]string) { delete(f, "slug"); f["title"] = "東京 Go" },
			wantKind: models.KindInvalidInput,
			wantMsg:  "could not derive a slug from title. Provide slug explicitly",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeEventsRepo()
			up := &fakeUploader{url: "https://img.example/x.png"}
			svc := newTestService(repo, up)

			fields := validFields()
			if tt.mutate != nil {
				tt.mutate(fields)
			}
			var image []byte
			if !tt.noImage {
				image = []byte("img")
			}

			ev, err := svc.CreateEvent(context.Background(), buildForm(t, fields, image))
			require.Error(t, err)
			assert.Nil(t, ev)
			assert.Equal(t, tt.wantKind, models.KindOf(err))
			if tt.wantMsg != "" {
				var appErr *models.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, tt.wantMsg, appErr.Message)
			}
			assert.Zero(t, up.calls, "blob store must not be called")
			assert.Zero(t, repo.createCalls, "document store must not be called")
		})
	}
}

func TestEventsService_CreateEvent_EmptyImagePart(t *testing.T) {
	repo := newFakeEventsRepo()
	up := &fakeUploader{url: "https://img.example/x.png"}
	svc := newTestService(repo, up)

	_, err := svc.CreateEvent(context.Background(), buildForm(t, validFields(), []byte{}))
	assert.Equal(t, models.KindMissingImage, models.KindOf(err))
	assert.Zero(t, up.calls)
}

func TestEventsService_CreateEvent_NilForm(t *testing.T) {
	svc := newTestService(newFakeEventsRepo(), &fakeUploader{})
	_, err := svc.CreateEvent(context.Background(), nil)
	assert.Equal(t, models.KindInvalidFormat, models.KindOf(err))
}

func TestEventsService_CreateEvent_UploadFailureSkipsPersist(t *testing.T) {
	repo := newFakeEventsRepo()
	upErr := errors.New("cloudinary unavailable")
	up := &fakeUploader{err: upErr}
	svc := newTestService(repo, up)

	ev, err := svc.CreateEvent(context.Background(), buildForm(t, validFields(), []byte("img")))
	require.Error(t, err)
	assert.Nil(t, ev)
	assert.Equal(t, models.KindUploadError, models.KindOf(err))
	assert.ErrorIs(t, err, upErr)
	assert.Equal(t, 1, up.calls)
	assert.Zero(t, repo.createCalls)
}

func TestEventsService_CreateEvent_PersistFailures(t *testing.T) {
	t.Run("duplicate slug", func(t *testing.T) {
		repo := newFakeEventsRepo(&models.Event{ID: primitive.NewObjectID(), Slug: "react-summit-2025"})
		up := &fakeUploader{url: "https://img.example/x.png"}
		svc := newTestService(repo, up)

		_, err := svc.CreateEvent(context.Background(), buildForm(t, validFields(), []byte("img")))
		require.Error(t, err)
		assert.Equal(t, models.KindPersistError, models.KindOf(err))
		assert.ErrorIs(t, err, models.ErrDuplicateSlug)
		// upload already happened; the orphan is accepted
		assert.Equal(t, 1, up.calls)
	})

	t.Run("store down", func(t *testing.T) {
		repo := newFakeEventsRepo()
		repo.createErr = errors.New("connection reset")
		svc := newTestService(repo, &fakeUploader{url: "https://img.example/x.png"})

		_, err := svc.CreateEvent(context.Background(), buildForm(t, validFields(), []byte("img")))
		assert.Equal(t, models.KindPersistError, models.KindOf(err))
		assert.NotErrorIs(t, err, models.ErrDuplicateSlug)
	})
}

func TestEventsService_GetEventBySlug(t *testing.T) {
	stored := &models.Event{ID: primitive.NewObjectID(), Slug: "go-meetup", Title: "Go Meetup"}

	t.Run("found", func(t *testing.T) {
		svc := newTestService(newFakeEventsRepo(stored), &fakeUploader{})
		ev, err := svc.GetEventBySlug(context.Background(), "go-meetup")
		require.NoError(t, err)
		assert.Equal(t, stored, ev)
	})

	t.Run("not found on empty store", func(t *testing.T) {
		svc := newTestService(newFakeEventsRepo(), &fakeUploader{})
		_, err := svc.GetEventBySlug(context.Background(), "nonexistent")
		assert.Equal(t, models.KindNotFound, models.KindOf(err))
	})

	t.Run("empty slug", func(t *testing.T) {
		svc := newTestService(newFakeEventsRepo(stored), &fakeUploader{})
		_, err := svc.GetEventBySlug(context.Background(), "")
		assert.Equal(t, models.KindInvalidInput, models.KindOf(err))
	})

	t.Run("malformed slug is not normalised", func(t *testing.T) {
		svc := newTestService(newFakeEventsRepo(stored), &fakeUploader{})
		_, err := svc.GetEventBySlug(context.Background(), "Go-Meetup")
		assert.Equal(t, models.KindInvalidInput, models.KindOf(err))
	})

	t.Run("store error has no kind", func(t *testing.T) {
		repo := newFakeEventsRepo(stored)
		repo.getErr = errors.New("timeout")
		svc := newTestService(repo, &fakeUploader{})
		_, err := svc.GetEventBySlug(context.Background(), "go-meetup")
		require.Error(t, err)
		assert.Equal(t, models.ErrorKind(""), models.KindOf(err))
	})
}

func TestEventsService_ListEvents(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	oldest := &models.Event{Slug: "oldest", CreatedAt: base}
	middle := &models.Event{Slug: "middle", CreatedAt: base.Add(time.Hour)}
	newest := &models.Event{Slug: "newest", CreatedAt: base.Add(2 * time.Hour)}

	svc := newTestService(newFakeEventsRepo(middle, oldest, newest), &fakeUploader{})
	events := svc.ListEvents(context.Background())

	require.Len(t, events, 3)
	assert.Equal(t, "newest", events[0].Slug)
	assert.Equal(t, "middle", events[1].Slug)
	assert.Equal(t, "oldest", events[2].Slug)
}

func TestEventsService_ListEvents_DegradesOnError(t *testing.T) {
	repo := newFakeEventsRepo()
	repo.listErr = errors.New("boom")
	svc := newTestService(repo, &fakeUploader{})

	events := svc.ListEvents(context.Background())
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestEventsService_GetSimilarEvents(t *testing.T) {
	anchor := &models.Event{ID: primitive.NewObjectID(), Slug: "anchor", Tags: []string{"x", "y"}}
	sharesX := &models.Event{ID: primitive.NewObjectID(), Slug: "shares-x", Tags: []string{"x", "z"}}
	sharesY := &models.Event{ID: primitive.NewObjectID(), Slug: "shares-y", Tags: []string{"y"}}
	unrelated := &models.Event{ID: primitive.NewObjectID(), Slug: "unrelated", Tags: []string{"q"}}
	untagged := &models.Event{ID: primitive.NewObjectID(), Slug: "untagged"}

	repo := newFakeEventsRepo(anchor, sharesX, sharesY, unrelated, untagged)
	svc := newTestService(repo, &fakeUploader{})

	similar := svc.GetSimilarEvents(context.Background(), "anchor")

	var slugs []string
	for _, e := range similar {
		slugs = append(slugs, e.Slug)
	}
	assert.ElementsMatch(t, []string{"shares-x", "shares-y"}, slugs)
	assert.Equal(t, []string{"x", "y"}, repo.similarArgs)
}

func TestEventsService_GetSimilarEvents_NeverErrors(t *testing.T) {
	t.Run("missing anchor", func(t *testing.T) {
		svc := newTestService(newFakeEventsRepo(), &fakeUploader{})
		similar := svc.GetSimilarEvents(context.Background(), "does-not-exist")
		assert.NotNil(t, similar)
		assert.Empty(t, similar)
	})

	t.Run("malformed slug goes straight to the store", func(t *testing.T) {
		weird := &models.Event{ID: primitive.NewObjectID(), Slug: "Legacy_Slug", Tags: []string{"x"}}
		other := &models.Event{ID: primitive.NewObjectID(), Slug: "other", Tags: []string{"x"}}
		svc := newTestService(newFakeEventsRepo(weird, other), &fakeUploader{})

		similar := svc.GetSimilarEvents(context.Background(), "Legacy_Slug")
		require.Len(t, similar, 1)
		assert.Equal(t, "other", similar[0].Slug)
	})

	t.Run("anchor lookup error", func(t *testing.T) {
		repo := newFakeEventsRepo()
		repo.getErr = errors.New("boom")
		svc := newTestService(repo, &fakeUploader{})
		assert.Empty(t, svc.GetSimilarEvents(context.Background(), "anchor"))
	})

	t.Run("similar query error", func(t *testing.T) {
		repo := newFakeEventsRepo(&models.Event{ID: primitive.NewObjectID(), Slug: "anchor", Tags: []string{"x"}})
		repo.similarErr = errors.New("boom")
		svc := newTestService(repo, &fakeUploader{})
		assert.Empty(t, svc.GetSimilarEvents(context.Background(), "anchor"))
	})

	t.Run("anchor without tags skips the query", func(t *testing.T) {
		repo := newFakeEventsRepo(&models.Event{ID: primitive.NewObjectID(), Slug: "anchor"})
		svc := newTestService(repo, &fakeUploader{})
		assert.Empty(t, svc.GetSimilarEvents(context.Background(), "anchor"))
		assert.Nil(t, repo.similarArgs)
	})
}

func TestEventsService_GetEventDetails(t *testing.T) {
	anchor := &models.Event{ID: primitive.NewObjectID(), Slug: "anchor", Tags: []string{"x"}}
	other := &models.Event{ID: primitive.NewObjectID(), Slug: "other", Tags: []string{"x"}}
	svc := newTestService(newFakeEventsRepo(anchor, other), &fakeUploader{})

	details, err := svc.GetEventDetails(context.Background(), "anchor")
	require.NoError(t, err)
	assert.Equal(t, anchor, details.Event)
	require.Len(t, details.SimilarEvents, 1)
	assert.Equal(t, "other", details.SimilarEvents[0].Slug)
	assert.Equal(t, models.PlaceholderBookingCount, details.Bookings)

	_, err = svc.GetEventDetails(context.Background(), "missing")
	assert.Equal(t, models.KindNotFound, models.KindOf(err))
}
