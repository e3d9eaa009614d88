package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/devevent/internal/models"
	"github.com/joshua-takyi/devevent/internal/services"
)

func BookEvent(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.BookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.KindErrorResponse(models.KindInvalidFormat, "invalid request payload"))
			return
		}

		booking, err := b.BookEvent(c.Request.Context(), c.Param("slug"), req.Email)
		if err != nil {
			respondError(c, err, "booking failed")
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(booking, "Thank you for signing up!"))
	}
}
