package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/bustrip/internal/domain"
	"github.com/Domenick1991/bustrip/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	Offer      domain.BusOffer `json:"offer"`
	TravelDate string          `json:"travel_date"`
}

type payRequest struct {
	Method domain.PaymentMethod `json:"method"`
	UPIID  string               `json:"upi_id"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/profiles/:id/bookings", h.create)
	router.DELETE("/profiles/:id/bookings/:bookingID", h.cancel)
	router.POST("/profiles/:id/bookings/:bookingID/complete", h.complete)

	router.GET("/bookings/:id", h.get)
	router.POST("/bookings/:id/payments", h.pay)
	router.GET("/bookings/:id/payment", h.paymentStatus)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.Parse(domain.DateLayout, req.TravelDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "travel_date must be YYYY-MM-DD"})
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		ProfileID:  c.Param("id"),
		Offer:      req.Offer,
		TravelDate: date,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *BookingHandler) get(c *gin.Context) {
	b, err := h.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) pay(c *gin.Context) {
	var req payRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.service.Pay(c.Request.Context(), booking.PayInput{
		BookingID: c.Param("id"),
		Method:    req.Method,
		UPIID:     req.UPIID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *BookingHandler) paymentStatus(c *gin.Context) {
	attempt, err := h.service.PaymentStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, attempt)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	res, err := h.service.CancelBooking(c.Request.Context(), c.Param("id"), c.Param("bookingID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *BookingHandler) complete(c *gin.Context) {
	ride, err := h.service.CompleteBooking(c.Request.Context(), c.Param("id"), c.Param("bookingID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ride)
}
