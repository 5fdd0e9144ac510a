package traveler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/Domenick1991/bustrip/internal/domain"
	"github.com/Domenick1991/bustrip/internal/profile"
	"github.com/Domenick1991/bustrip/internal/repository"
	"github.com/Domenick1991/bustrip/internal/ticket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type TravelerUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*domain.ProfileSnapshot, error)
	Get(ctx context.Context, profileID string) (*domain.ProfileSnapshot, error)
	Bookings(ctx context.Context, profileID string, statuses ...domain.BookingStatus) ([]domain.Booking, error)
	Rides(ctx context.Context, profileID string) ([]domain.Ride, error)
	Ticket(ctx context.Context, profileID, bookingID string) (*Ticket, error)
}

type Ticket struct {
	Filename string
	PDF      []byte
}

// RegisterInput is the identity handed over after phone verification.
type RegisterInput struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Photo       string `json:"photo,omitempty"`
	DemoHistory bool   `json:"demo_history,omitempty"`
}

type TravelerService struct {
	profiles repository.ProfileRepository
	log      logrus.FieldLogger
	newID    func() string
}

type Option func(*TravelerService)

func WithIDGenerator(newID func() string) Option {
	return func(s *TravelerService) {
		s.newID = newID
	}
}

func NewTravelerService(profiles repository.ProfileRepository, log logrus.FieldLogger, opts ...Option) *TravelerService {
	s := &TravelerService{
		profiles: profiles,
		log:      log,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates the profile for a verified identity. Signing in again with
// a phone that already has a profile returns that profile unchanged.
func (s *TravelerService) Register(ctx context.Context, input RegisterInput) (*domain.ProfileSnapshot, error) {
	identity, err := s.identity(input)
	if err != nil {
		return nil, err
	}

	if existing, err := s.profiles.GetByPhone(ctx, identity.Phone); err == nil {
		snap := existing.Snapshot()
		return &snap, nil
	} else if !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, err
	}

	var p *profile.Profile
	if input.DemoHistory {
		p, err = profile.Restore(identity, profile.DemoSeed())
		if err != nil {
			return nil, err
		}
	} else {
		p = profile.New(identity)
	}

	if err := s.profiles.Add(ctx, p); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"profile_id":   identity.ID,
		"demo_history": input.DemoHistory,
	}).Info("traveler registered")

	snap := p.Snapshot()
	return &snap, nil
}

func (s *TravelerService) Get(ctx context.Context, profileID string) (*domain.ProfileSnapshot, error) {
	p, err := s.profiles.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	snap := p.Snapshot()
	return &snap, nil
}

// Bookings lists committed bookings, optionally only those in statuses.
func (s *TravelerService) Bookings(ctx context.Context, profileID string, statuses ...domain.BookingStatus) ([]domain.Booking, error) {
	for _, st := range statuses {
		if !st.Valid() {
			return nil, domain.ValidationError{Field: "status", Msg: "unknown booking status " + string(st)}
		}
	}
	p, err := s.profiles.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return p.Bookings(statuses...), nil
}

func (s *TravelerService) Rides(ctx context.Context, profileID string) ([]domain.Ride, error) {
	p, err := s.profiles.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return p.Rides(), nil
}

// Ticket renders the e-ticket of a confirmed or completed booking.
func (s *TravelerService) Ticket(ctx context.Context, profileID, bookingID string) (*Ticket, error) {
	p, err := s.profiles.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	b, ok := p.Booking(bookingID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrBookingNotFound, bookingID)
	}
	data, filename, err := ticket.Render(p.Identity(), b)
	if err != nil {
		return nil, err
	}
	return &Ticket{Filename: filename, PDF: data}, nil
}

func (s *TravelerService) identity(input RegisterInput) (domain.Identity, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Identity{}, domain.ValidationError{Field: "name", Msg: "is required"}
	}
	phone := strings.TrimSpace(input.Phone)
	if len(phone) < 10 || strings.IndexFunc(phone, func(r rune) bool { return !unicode.IsDigit(r) }) >= 0 {
		return domain.Identity{}, domain.ValidationError{Field: "phone", Msg: "must be at least 10 digits"}
	}

	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = s.newID()
	}
	photo := input.Photo
	if photo == "" {
		photo = profile.DemoPhoto
	}
	return domain.Identity{ID: id, Name: name, Phone: phone, Photo: photo}, nil
}

var _ TravelerUseCase = (*TravelerService)(nil)
