package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/devevent/internal/metrics"
	"github.com/joshua-takyi/devevent/internal/models"
	"github.com/joshua-takyi/devevent/internal/services"
)

func CreateEvent(e *services.EventsService, maxUploadBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxUploadBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
		}

		var form *multipart.Form
		parsed, err := c.MultipartForm()
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				metrics.IngestFailures.WithLabelValues(string(models.KindInvalidFormat)).Inc()
				c.JSON(http.StatusRequestEntityTooLarge, models.KindErrorResponse(models.KindInvalidFormat, "submission is too large"))
				return
			}
			// leave form nil; the service reports it as InvalidFormat
		} else {
			form = parsed
		}

		createdEvent, err := e.CreateEvent(c.Request.Context(), form)
		if err != nil {
			respondError(c, err, "event creation failed")
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(createdEvent, "Event created successfully"))
	}
}

func ListEvents(e *services.EventsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		events := e.ListEvents(c.Request.Context())
		c.JSON(http.StatusOK, models.ListResponse(events, len(events), "Events fetched successfully"))
	}
}

func GetEventBySlug(e *services.EventsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := e.GetEventBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respondError(c, err, "failed to fetch event")
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(event, "Event fetched successfully"))
	}
}

func GetSimilarEvents(e *services.EventsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		similar := e.GetSimilarEvents(c.Request.Context(), c.Param("slug"))
		c.JSON(http.StatusOK, models.ListResponse(similar, len(similar), ""))
	}
}

func GetEventDetails(e *services.EventsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		details, err := e.GetEventDetails(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respondError(c, err, "failed to fetch event")
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(details, ""))
	}
}
