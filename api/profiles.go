package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Domenick1991/bustrip/internal/domain"
	"github.com/Domenick1991/bustrip/internal/service/traveler"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	service traveler.TravelerUseCase
}

func NewProfileHandler(service traveler.TravelerUseCase) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Register(router *gin.RouterGroup) {
	router.POST("/profiles", h.register)
	router.GET("/profiles/:id", h.get)
	router.GET("/profiles/:id/bookings", h.bookings)
	router.GET("/profiles/:id/rides", h.rides)
	router.GET("/profiles/:id/bookings/:bookingID/ticket", h.ticket)
}

func (h *ProfileHandler) register(c *gin.Context) {
	var req traveler.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snap)
}

func (h *ProfileHandler) get(c *gin.Context) {
	snap, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// bookings accepts ?status=confirmed,cancelled or repeated status params.
func (h *ProfileHandler) bookings(c *gin.Context) {
	var statuses []domain.BookingStatus
	for _, raw := range c.QueryArray("status") {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				statuses = append(statuses, domain.BookingStatus(s))
			}
		}
	}

	bookings, err := h.service.Bookings(c.Request.Context(), c.Param("id"), statuses...)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *ProfileHandler) rides(c *gin.Context) {
	rides, err := h.service.Rides(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rides)
}

func (h *ProfileHandler) ticket(c *gin.Context) {
	t, err := h.service.Ticket(c.Request.Context(), c.Param("id"), c.Param("bookingID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", t.Filename))
	c.Data(http.StatusOK, "application/pdf", t.PDF)
}
