package booking

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/bustrip/internal/domain"
	"github.com/Domenick1991/bustrip/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error)
	Pay(ctx context.Context, input PayInput) (*PaymentResult, error)
	PaymentStatus(ctx context.Context, bookingID string) (*domain.PaymentAttempt, error)
	CancelBooking(ctx context.Context, profileID, bookingID string) (*RefundResult, error)
	CompleteBooking(ctx context.Context, profileID, bookingID string) (*domain.Ride, error)
	ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error)
}

// SeatStore tracks which seats of a trip are taken and by which booking.
// ReleaseSeat must leave a seat alone unless holder owns it.
type SeatStore interface {
	AcquireSeat(ctx context.Context, tripKey string, seat int, holder string) (bool, error)
	ReleaseSeat(ctx context.Context, tripKey string, seat int, holder string) (bool, error)
}

// OfferCatalog resolves an offer id to the bus it names.
type OfferCatalog interface {
	Offer(ctx context.Context, offerID string) (domain.BusOffer, error)
}

// Settler completes a payment. A nil error means the money was taken.
type Settler interface {
	Settle(ctx context.Context, booking domain.Booking, method domain.PaymentMethod) error
}

type EventSink interface {
	Emit(ctx context.Context, event domain.Event)
}

type CreateBookingInput struct {
	ProfileID  string          `json:"profile_id"`
	Offer      domain.BusOffer `json:"offer"`
	TravelDate time.Time       `json:"travel_date"`
}

// draft is a booking the factory created that is not yet paid, plus its payment state.
// Drafts stay after success so the payment outcome can still be read.
type draft struct {
	profileID string
	identity  domain.Identity
	booking   domain.Booking
	seat      int
	payment   domain.PaymentAttempt
}

type BookingService struct {
	profiles repository.ProfileRepository
	seats    SeatStore
	offers   OfferCatalog
	settler  Settler
	events   EventSink
	log      logrus.FieldLogger
	holdTTL  time.Duration

	now       func() time.Time
	newID     func() string
	seatOrder func(n int) []int

	mu     sync.Mutex
	drafts map[string]*draft
}

type BookingServiceOption func(*BookingService)

// WithSeatStore enables occupancy tracking so two bookings never share a seat.
// Without it seats are drawn at random and may collide.
func WithSeatStore(seats SeatStore) BookingServiceOption {
	return func(s *BookingService) {
		s.seats = seats
	}
}

// WithOfferCatalog makes CreateBooking take the bus, fare and seat count from
// the catalog instead of trusting the offer it is handed.
func WithOfferCatalog(offers OfferCatalog) BookingServiceOption {
	return func(s *BookingService) {
		s.offers = offers
	}
}

func WithEvents(events EventSink) BookingServiceOption {
	return func(s *BookingService) {
		s.events = events
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) BookingServiceOption {
	return func(s *BookingService) {
		s.newID = newID
	}
}

// WithSeatOrder sets the order seats are tried in. f returns a permutation of [0, n).
func WithSeatOrder(f func(n int) []int) BookingServiceOption {
	return func(s *BookingService) {
		s.seatOrder = f
	}
}

func NewBookingService(
	profiles repository.ProfileRepository,
	settler Settler,
	log logrus.FieldLogger,
	holdTTL time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		profiles:  profiles,
		settler:   settler,
		log:       log,
		holdTTL:   holdTTL,
		now:       time.Now,
		newID:     uuid.NewString,
		seatOrder: rand.Perm,
		drafts:    make(map[string]*draft),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking turns an offer into a pending booking with a seat. The booking
// joins the traveler's profile only once payment succeeds.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	offer, err := s.resolveOffer(ctx, input.Offer)
	if err != nil {
		return nil, err
	}
	if err := validateOffer(offer); err != nil {
		return nil, err
	}
	if input.TravelDate.IsZero() {
		return nil, domain.ValidationError{Field: "travel_date", Msg: "is required"}
	}

	p, err := s.profiles.Get(ctx, input.ProfileID)
	if err != nil {
		return nil, err
	}

	id := s.newID()
	date := input.TravelDate.Format(domain.DateLayout)
	tripKey := domain.TripKey(offer.ID, date)

	seat, err := s.assignSeat(ctx, tripKey, offer.TotalSeats, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	b := domain.Booking{
		ID:          id,
		OfferID:     offer.ID,
		BusType:     offer.Type,
		BusNumber:   offer.Number,
		Operator:    offer.Operator,
		From:        offer.From,
		To:          offer.To,
		Date:        date,
		Time:        offer.DepartureTime,
		Fare:        offer.Fare,
		DistanceKm:  offer.DistanceKm,
		Status:      domain.BookingStatusPending,
		SeatNumber:  domain.SeatCode(seat),
		BookingDate: now,
		ExpiresAt:   now.Add(s.holdTTL),
	}

	d := &draft{
		profileID: p.ID(),
		identity:  p.Identity(),
		booking:   b,
		payment: domain.PaymentAttempt{
			BookingID: id,
			State:     domain.PaymentStatePending,
			UpdatedAt: now,
		},
	}
	if s.seats != nil {
		d.seat = seat
	}

	s.mu.Lock()
	if _, exists := s.drafts[id]; exists {
		s.mu.Unlock()
		s.releaseSeat(ctx, tripKey, d.seat, id)
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateBooking, id)
	}
	s.drafts[id] = d
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"booking_id": id,
		"profile_id": p.ID(),
		"offer_id":   b.OfferID,
		"seat":       b.SeatNumber,
		"fare":       b.Fare,
		"expires_at": b.ExpiresAt,
	}).Info("booking created")
	s.emit(ctx, domain.EventBookingCreated, d.identity, b, nil)

	return &b, nil
}

// GetBooking returns a booking created through this service in its current state.
func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	s.mu.Lock()
	d, ok := s.drafts[bookingID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", domain.ErrBookingNotFound, bookingID)
	}
	b := d.booking
	profileID := d.profileID
	paid := d.payment.State == domain.PaymentStateSuccess
	s.mu.Unlock()

	if !paid {
		return &b, nil
	}

	p, err := s.profiles.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	current, ok := p.Booking(bookingID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrBookingNotFound, bookingID)
	}
	return &current, nil
}

// ExpirePendingBookings drops unpaid drafts past their hold and frees their seats.
// Drafts with a payment in flight are left alone.
func (s *BookingService) ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error) {
	now := s.now()

	s.mu.Lock()
	var expired []*draft
	for id, d := range s.drafts {
		switch d.payment.State {
		case domain.PaymentStatePending, domain.PaymentStateFailed:
		default:
			continue
		}
		if now.Before(d.booking.ExpiresAt) {
			continue
		}
		delete(s.drafts, id)
		expired = append(expired, d)
	}
	s.mu.Unlock()

	sort.Slice(expired, func(i, j int) bool {
		return expired[i].booking.BookingDate.Before(expired[j].booking.BookingDate)
	})

	out := make([]domain.Booking, 0, len(expired))
	for _, d := range expired {
		s.releaseSeat(ctx, d.booking.TripKey(), d.seat, d.booking.ID)
		s.emit(ctx, domain.EventBookingExpired, d.identity, d.booking, nil)
		out = append(out, d.booking)
	}
	if len(out) > 0 {
		s.log.WithField("count", len(out)).Info("expired unpaid bookings")
	}
	return out, nil
}

// RunExpirySweeper calls ExpirePendingBookings every interval until ctx ends.
func (s *BookingService) RunExpirySweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.WithField("interval", interval).Info("booking expiry sweeper started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info("booking expiry sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.ExpirePendingBookings(ctx); err != nil {
				s.log.WithError(err).Error("expire bookings failed")
			}
		}
	}
}

func (s *BookingService) assignSeat(ctx context.Context, tripKey string, totalSeats int, holder string) (int, error) {
	if s.seats == nil {
		return rand.IntN(totalSeats) + 1, nil
	}

	for _, i := range s.seatOrder(totalSeats) {
		seat := i + 1
		ok, err := s.seats.AcquireSeat(ctx, tripKey, seat, holder)
		if err != nil {
			return 0, fmt.Errorf("acquire seat %d: %w", seat, err)
		}
		if ok {
			return seat, nil
		}
	}
	return 0, fmt.Errorf("%w: trip %s", domain.ErrNoSeatsAvailable, tripKey)
}

// releaseSeat frees the seat if holder still owns it. Bookings restored from
// history never took a lock, so their seat may belong to someone else now.
func (s *BookingService) releaseSeat(ctx context.Context, tripKey string, seat int, holder string) {
	if s.seats == nil || seat <= 0 {
		return
	}
	fields := logrus.Fields{"trip": tripKey, "seat": seat, "booking_id": holder}
	released, err := s.seats.ReleaseSeat(ctx, tripKey, seat, holder)
	if err != nil {
		s.log.WithFields(fields).WithError(err).Warn("failed to release seat")
		return
	}
	if !released {
		s.log.WithFields(fields).Debug("seat not held by booking, left as is")
	}
}

// resolveOffer swaps a client supplied offer for the catalog entry with the
// same id. The route and date stay as searched.
func (s *BookingService) resolveOffer(ctx context.Context, requested domain.BusOffer) (domain.BusOffer, error) {
	if s.offers == nil || strings.TrimSpace(requested.ID) == "" {
		return requested, nil
	}
	offer, err := s.offers.Offer(ctx, requested.ID)
	if err != nil {
		return domain.BusOffer{}, err
	}
	offer.From = requested.From
	offer.To = requested.To
	offer.Date = requested.Date
	return offer, nil
}

func (s *BookingService) emit(ctx context.Context, t domain.EventType, who domain.Identity, b domain.Booking, decorate func(*domain.Event)) {
	if s.events == nil {
		return
	}
	event := domain.NewEvent(t, who.ID, b, s.now())
	event.Phone = who.Phone
	if decorate != nil {
		decorate(&event)
	}
	s.events.Emit(ctx, event)
}

func validateOffer(o domain.BusOffer) error {
	switch {
	case strings.TrimSpace(o.ID) == "":
		return domain.ValidationError{Field: "offer.id", Msg: "is required"}
	case strings.TrimSpace(o.Number) == "":
		return domain.ValidationError{Field: "offer.number", Msg: "is required"}
	case !o.Type.Valid():
		return domain.ValidationError{Field: "offer.type", Msg: fmt.Sprintf("unknown bus type %q", o.Type)}
	case strings.TrimSpace(o.From) == "" || strings.TrimSpace(o.To) == "":
		return domain.ValidationError{Field: "offer.route", Msg: "from and to are required"}
	case o.Fare < 0:
		return domain.ValidationError{Field: "offer.fare", Msg: "must not be negative"}
	case o.TotalSeats <= 0:
		return domain.ValidationError{Field: "offer.total_seats", Msg: "must be positive"}
	}
	return nil
}

// seatIndex parses a seat code such as "A12".
func seatIndex(code string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(code, "A"))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

var _ BookingUseCase = (*BookingService)(nil)
