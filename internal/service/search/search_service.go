package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/bustrip/internal/domain"
	"github.com/sirupsen/logrus"
)

type SearchUseCase interface {
	Search(ctx context.Context, query SearchQuery) ([]domain.BusOffer, error)
}

type SearchQuery struct {
	From string
	To   string
	Date time.Time
}

// Normalize trims the route and reports whether the query can be searched.
func (q SearchQuery) Normalize() (SearchQuery, bool) {
	q.From = strings.TrimSpace(q.From)
	q.To = strings.TrimSpace(q.To)
	if q.From == "" || q.To == "" || strings.EqualFold(q.From, q.To) || q.Date.IsZero() {
		return q, false
	}
	return q, true
}

// SearchService returns synthetic offers after a simulated network delay.
type SearchService struct {
	catalog []domain.BusOffer
	delay   time.Duration
	log     logrus.FieldLogger
}

type Option func(*SearchService)

func WithCatalog(catalog []domain.BusOffer) Option {
	return func(s *SearchService) {
		s.catalog = catalog
	}
}

func NewSearchService(delay time.Duration, log logrus.FieldLogger, opts ...Option) *SearchService {
	s := &SearchService{
		catalog: DefaultCatalog(),
		delay:   delay,
		log:     log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search never touches traveler state. An invalid query returns
// domain.ErrInvalidQuery right away and no offers.
func (s *SearchService) Search(ctx context.Context, query SearchQuery) ([]domain.BusOffer, error) {
	q, ok := query.Normalize()
	if !ok {
		s.log.WithFields(logrus.Fields{"from": q.From, "to": q.To}).Debug("search skipped")
		return nil, domain.ErrInvalidQuery
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	date := q.Date.Format(domain.DateLayout)
	offers := make([]domain.BusOffer, 0, len(s.catalog))
	for _, o := range s.catalog {
		o.From = q.From
		o.To = q.To
		o.Date = date
		o.Amenities = append([]string(nil), o.Amenities...)
		o.Stops = append([]string(nil), o.Stops...)
		offers = append(offers, o)
	}

	s.log.WithFields(logrus.Fields{
		"from":   q.From,
		"to":     q.To,
		"date":   date,
		"offers": len(offers),
	}).Info("bus search completed")
	return offers, nil
}

// Offer returns the catalog bus with offerID. Route and date are left empty.
func (s *SearchService) Offer(_ context.Context, offerID string) (domain.BusOffer, error) {
	for _, o := range s.catalog {
		if o.ID == offerID {
			o.Amenities = append([]string(nil), o.Amenities...)
			o.Stops = append([]string(nil), o.Stops...)
			return o, nil
		}
	}
	return domain.BusOffer{}, fmt.Errorf("%w: %s", domain.ErrOfferNotFound, offerID)
}

// DefaultCatalog is the fixed set of buses every route search returns.
func DefaultCatalog() []domain.BusOffer {
	return []domain.BusOffer{
		{
			ID:             "GOV001",
			Number:         "MH12AB1234",
			Type:           domain.BusTypeGovernment,
			Operator:       "MSRTC",
			DepartureTime:  "08:30 AM",
			ArrivalTime:    "10:15 AM",
			Duration:       "1h 45m",
			Fare:           45,
			AvailableSeats: 28,
			TotalSeats:     40,
			Amenities:      []string{"AC", "WiFi", "Charging Port"},
			Rating:         4.2,
			Stops:          []string{"Central Station", "Mall Junction", "Tech Park"},
			DistanceKm:     14,
		},
		{
			ID:             "PVT001",
			Number:         "KA05MN7890",
			Type:           domain.BusTypePrivate,
			Operator:       "RedBus Express",
			DepartureTime:  "09:00 AM",
			ArrivalTime:    "10:30 AM",
			Duration:       "1h 30m",
			Fare:           85,
			AvailableSeats: 15,
			TotalSeats:     35,
			Amenities:      []string{"AC", "WiFi", "Snacks"},
			Rating:         4.7,
			Stops:          []string{"Central Station", "Business District", "Tech Park"},
			DistanceKm:     14,
		},
	}
}

var _ SearchUseCase = (*SearchService)(nil)
