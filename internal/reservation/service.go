// Package reservation implements the seat reservation core: the seat map,
// the hold lifecycle, lazy expiry, and the booking transaction.
package reservation

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huyng/cinema-reservation/internal/clock"
	"github.com/huyng/cinema-reservation/internal/domain"
	"github.com/huyng/cinema-reservation/internal/queue"
	"github.com/shopspring/decimal"
)

// DefaultHoldTTL is how long a seat hold lasts before any request may
// reclaim it.
const DefaultHoldTTL = 5 * time.Minute

var ErrNoSeatsRequested = errors.New("no seats requested")

type Service struct {
	seats     domain.SeatRepository
	bookings  domain.BookingRepository
	showtimes domain.ShowtimeRepository
	users     domain.UserRepository
	publisher queue.Publisher
	clock     clock.Clock
	holdTTL   time.Duration
	logger    *slog.Logger
}

type Option func(*Service)

// WithHoldTTL overrides the default hold duration.
func WithHoldTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.holdTTL = ttl
	}
}

func NewService(
	seats domain.SeatRepository,
	bookings domain.BookingRepository,
	showtimes domain.ShowtimeRepository,
	users domain.UserRepository,
	publisher queue.Publisher,
	clk clock.Clock,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		seats:     seats,
		bookings:  bookings,
		showtimes: showtimes,
		users:     users,
		publisher: publisher,
		clock:     clk,
		holdTTL:   DefaultHoldTTL,
		logger:    logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SeatView is one seat as presented to a particular user: the hold owner is
// never exposed, only whether the viewer is that owner.
type SeatView struct {
	ID       int
	Label    string
	Status   domain.SeatStatus
	HeldByMe bool
}

type SeatMap struct {
	Showtime domain.Showtime
	Seats    []SeatView
}

// SeatMap returns the current seat layout for a showtime from the viewer's
// perspective. Expired holds and lapsed bookings are swept first so the map
// never shows a hold or booking that is past its lifetime.
func (s *Service) SeatMap(ctx context.Context, showtimeID, userID int) (*SeatMap, error) {
	showtime, err := s.showtimes.GetById(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	s.sweepHolds(ctx, showtimeID)
	s.sweepBookings(ctx)

	seats, err := s.seats.GetByShowtime(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	views := make([]SeatView, 0, len(seats))
	for _, seat := range seats {
		views = append(views, SeatView{
			ID:       seat.ID,
			Label:    seat.Label,
			Status:   seat.Status,
			HeldByMe: seat.HeldByUser(userID),
		})
	}

	return &SeatMap{Showtime: *showtime, Seats: views}, nil
}

// Hold places or refreshes a temporary claim on a seat. Holding a seat the
// user already holds extends the expiry to a full TTL from now. Returns the
// instant the hold lapses.
func (s *Service) Hold(ctx context.Context, showtimeID, seatID, userID int) (time.Time, error) {
	showtime, err := s.showtimes.GetById(ctx, showtimeID)
	if err != nil {
		return time.Time{}, err
	}

	now := s.clock.Now()
	if showtime.Started(now) {
		return time.Time{}, domain.ErrShowtimeExpired
	}

	s.sweepHolds(ctx, showtimeID)

	until := now.Add(s.holdTTL)
	if err := s.seats.Hold(ctx, showtimeID, seatID, userID, until); err != nil {
		return time.Time{}, err
	}

	return until, nil
}

// Release drops the user's hold on a seat. Releasing a seat the user does
// not hold, or one that does not exist, succeeds without effect: the guarded
// update simply matches nothing.
func (s *Service) Release(ctx context.Context, showtimeID, seatID, userID int) error {
	return s.seats.Release(ctx, showtimeID, seatID, userID)
}

// BookResult reports the per-seat outcome of a booking request. The request
// as a whole does not fail when individual seats are contested; callers
// inspect Bookings against Requested to distinguish full, partial, and zero
// success.
type BookResult struct {
	Bookings  []domain.Booking
	Requested int
	Total     decimal.Decimal
}

func (r BookResult) AllBooked() bool {
	return len(r.Bookings) == r.Requested
}

func (r BookResult) NoneBooked() bool {
	return len(r.Bookings) == 0
}

// Book attempts to purchase each requested seat. Each seat is processed
// independently and atomically: a contested or missing seat is skipped while
// the rest proceed. Every booking in one request shares a reference and
// captures the showtime price in force at booking time.
func (s *Service) Book(ctx context.Context, showtimeID, userID int, seatIDs []int) (*BookResult, error) {
	if len(seatIDs) == 0 {
		return nil, ErrNoSeatsRequested
	}

	showtime, err := s.showtimes.GetById(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if showtime.Started(now) {
		return nil, domain.ErrShowtimeExpired
	}

	s.sweepHolds(ctx, showtimeID)
	s.sweepBookings(ctx)

	reference := newReference()
	result := &BookResult{Requested: len(seatIDs)}

	for _, seatID := range seatIDs {
		booking, err := s.bookings.Create(ctx, showtimeID, seatID, userID, showtime.Price, reference)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrSeatConflict), errors.Is(err, domain.ErrRecordNotFound):
				s.logger.Info("seat skipped during booking", "showtime_id", showtimeID, "seat_id", seatID, "error", err)
			default:
				s.logger.Error("booking seat failed", "showtime_id", showtimeID, "seat_id", seatID, "error", err)
			}
			continue
		}

		result.Bookings = append(result.Bookings, *booking)
		result.Total = result.Total.Add(booking.Price)
	}

	if !result.NoneBooked() {
		s.publishConfirmed(ctx, showtime, userID, result)
	}

	return result, nil
}

// Cancel voids a booking and returns its seat to the pool. Only the booking
// owner or an admin may cancel; cancelling an already-cancelled booking is a
// no-op.
func (s *Service) Cancel(ctx context.Context, bookingID, actorID int) error {
	booking, err := s.bookings.GetById(ctx, bookingID)
	if err != nil {
		return err
	}

	if err := s.authorize(ctx, booking, actorID); err != nil {
		return err
	}

	if booking.Status == domain.BookingCancelled {
		return nil
	}

	return s.bookings.Cancel(ctx, bookingID)
}

// MarkPaid settles a confirmed booking. Only the owner may pay.
func (s *Service) MarkPaid(ctx context.Context, bookingID, actorID int) error {
	booking, err := s.bookings.GetById(ctx, bookingID)
	if err != nil {
		return err
	}

	if booking.UserID != actorID {
		return domain.ErrForbidden
	}

	return s.bookings.MarkPaid(ctx, bookingID)
}

// BookingHistory lists the user's bookings, newest first. Lapsed bookings
// are expired first so history never shows a stale confirmed entry for a
// showtime that already started.
func (s *Service) BookingHistory(ctx context.Context, userID int, pagination domain.Pagination) ([]domain.BookingDetail, *domain.Metadata, error) {
	s.sweepBookings(ctx)

	return s.bookings.GetByUser(ctx, userID, pagination)
}

// Ticket returns the printable detail for an active booking. Only the owner
// or an admin may fetch it; a cancelled or expired booking yields
// ErrEditConflict.
func (s *Service) Ticket(ctx context.Context, bookingID, actorID int) (*domain.BookingDetail, error) {
	detail, err := s.bookings.GetDetailById(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, &detail.Booking, actorID); err != nil {
		return nil, err
	}

	if !detail.Status.Active() {
		return nil, domain.ErrEditConflict
	}

	return detail, nil
}

func (s *Service) authorize(ctx context.Context, booking *domain.Booking, actorID int) error {
	if booking.UserID == actorID {
		return nil
	}

	actor, err := s.users.GetById(ctx, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.ErrForbidden
		}
		return err
	}

	if !actor.IsAdmin {
		return domain.ErrForbidden
	}

	return nil
}

// sweepHolds reclaims expired holds for one showtime. Sweep failures are
// logged, not propagated: a broken sweep must not block the request that
// triggered it, and the guarded updates stay correct either way.
func (s *Service) sweepHolds(ctx context.Context, showtimeID int) {
	released, err := s.seats.ReleaseExpiredHolds(ctx, showtimeID, s.clock.Now())
	if err != nil {
		s.logger.Error("failed to release expired holds", "showtime_id", showtimeID, "error", err)
		return
	}

	if released > 0 {
		s.logger.Info("released expired holds", "showtime_id", showtimeID, "count", released)
	}
}

func (s *Service) sweepBookings(ctx context.Context) {
	expired, err := s.bookings.ExpireLapsedBookings(ctx, s.clock.Now())
	if err != nil {
		s.logger.Error("failed to expire lapsed bookings", "error", err)
		return
	}

	if expired > 0 {
		s.logger.Info("expired lapsed bookings", "count", expired)
	}
}

func (s *Service) publishConfirmed(ctx context.Context, showtime *domain.Showtime, userID int, result *BookResult) {
	event := queue.BookingConfirmedEvent{
		UserID:      userID,
		ShowtimeID:  showtime.ID,
		Theater:     showtime.Theater,
		StartsAt:    showtime.StartsAt.Format(time.RFC3339),
		TotalAmount: result.Total.InexactFloat64(),
		ConfirmedAt: s.clock.Now().Format(time.RFC3339),
	}

	for _, b := range result.Bookings {
		event.BookingIDs = append(event.BookingIDs, b.ID)
		event.SeatLabels = append(event.SeatLabels, b.SeatLabel)
	}

	if err := s.publisher.PublishBookingConfirmed(ctx, event); err != nil {
		s.logger.Error("failed to publish booking confirmation", "user_id", userID, "showtime_id", showtime.ID, "error", err)
	}
}

// newReference produces the short ticket code shared by every booking in one
// request.
func newReference() string {
	id := uuid.New().String()
	return "TKT-" + strings.ToUpper(id[:8])
}
