package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/Domenick1991/bustrip/internal/domain"
	"github.com/Domenick1991/bustrip/internal/service/search"
	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	service search.SearchUseCase
}

type searchResponse struct {
	Performed bool              `json:"performed"`
	Offers    []domain.BusOffer `json:"offers"`
}

func NewSearchHandler(service search.SearchUseCase) *SearchHandler {
	return &SearchHandler{service: service}
}

func (h *SearchHandler) Register(router *gin.RouterGroup) {
	router.GET("/search", h.search)
}

func (h *SearchHandler) search(c *gin.Context) {
	query := search.SearchQuery{
		From: c.Query("from"),
		To:   c.Query("to"),
	}
	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse(domain.DateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		query.Date = date
	}

	offers, err := h.service.Search(c.Request.Context(), query)
	if errors.Is(err, domain.ErrInvalidQuery) {
		c.JSON(http.StatusOK, searchResponse{Performed: false, Offers: []domain.BusOffer{}})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, searchResponse{Performed: true, Offers: offers})
}
