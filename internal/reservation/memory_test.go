package reservation

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/huyng/cinema-reservation/internal/domain"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory implementation of the domain repositories used to
// test the reservation core. A single mutex stands in for the row-level
// serialization the database provides: every guarded transition runs under
// it, so racing callers observe the same one-winner outcomes.
type memStore struct {
	mu sync.Mutex

	movies    map[int]*domain.Movie
	users     map[int]*domain.User
	showtimes map[int]*domain.Showtime
	seats     map[int]*domain.Seat
	bookings  map[int]*domain.Booking

	nextShowtimeID int
	nextSeatID     int
	nextBookingID  int
}

func newMemStore() *memStore {
	return &memStore{
		movies:         map[int]*domain.Movie{},
		users:          map[int]*domain.User{},
		showtimes:      map[int]*domain.Showtime{},
		seats:          map[int]*domain.Seat{},
		bookings:       map[int]*domain.Booking{},
		nextShowtimeID: 1,
		nextSeatID:     1,
		nextBookingID:  1,
	}
}

func (m *memStore) addMovie(movie domain.Movie) *domain.Movie {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.movies[movie.ID] = &movie
	return &movie
}

func (m *memStore) addUser(user domain.User) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users[user.ID] = &user
	return &user
}

func (m *memStore) seatByLabel(showtimeID int, label string) *domain.Seat {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, seat := range m.seats {
		if seat.ShowtimeID == showtimeID && seat.Label == label {
			copied := *seat
			return &copied
		}
	}
	return nil
}

// --- SeatRepository ---

func (m *memStore) GetByShowtime(ctx context.Context, showtimeID int) ([]domain.Seat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var seats []domain.Seat
	for _, seat := range m.seats {
		if seat.ShowtimeID == showtimeID {
			seats = append(seats, *seat)
		}
	}

	sort.Slice(seats, func(i, j int) bool { return seats[i].ID < seats[j].ID })
	return seats, nil
}

func (m *memStore) Hold(ctx context.Context, showtimeID, seatID, userID int, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	seat, ok := m.seats[seatID]
	if !ok || seat.ShowtimeID != showtimeID {
		return domain.ErrRecordNotFound
	}

	if !m.claimable(seat, userID) {
		return domain.ErrSeatConflict
	}

	u := until
	seat.Status = domain.SeatHeld
	seat.HeldBy = &userID
	seat.HeldUntil = &u
	return nil
}

func (m *memStore) Release(ctx context.Context, showtimeID, seatID, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	seat, ok := m.seats[seatID]
	if !ok || seat.ShowtimeID != showtimeID {
		return nil
	}

	if seat.Status == domain.SeatHeld && seat.HeldBy != nil && *seat.HeldBy == userID {
		m.freeSeat(seat)
	}
	return nil
}

func (m *memStore) ReleaseExpiredHolds(ctx context.Context, showtimeID int, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	released := 0
	for _, seat := range m.seats {
		if seat.ShowtimeID != showtimeID || seat.Status != domain.SeatHeld {
			continue
		}
		if seat.HeldUntil != nil && !seat.HeldUntil.After(now) {
			m.freeSeat(seat)
			released++
		}
	}
	return released, nil
}

func (m *memStore) claimable(seat *domain.Seat, userID int) bool {
	if seat.Status == domain.SeatAvailable {
		return true
	}
	return seat.Status == domain.SeatHeld && seat.HeldBy != nil && *seat.HeldBy == userID
}

func (m *memStore) freeSeat(seat *domain.Seat) {
	seat.Status = domain.SeatAvailable
	seat.HeldBy = nil
	seat.HeldUntil = nil
}

// --- BookingRepository ---

func (m *memStore) Create(ctx context.Context, showtimeID, seatID, userID int, price decimal.Decimal, reference string) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seat, ok := m.seats[seatID]
	if !ok || seat.ShowtimeID != showtimeID {
		return nil, domain.ErrRecordNotFound
	}

	if !m.claimable(seat, userID) {
		return nil, domain.ErrSeatConflict
	}

	seat.Status = domain.SeatBooked
	seat.HeldBy = nil
	seat.HeldUntil = nil

	booking := &domain.Booking{
		ID:         m.nextBookingID,
		UserID:     userID,
		ShowtimeID: showtimeID,
		SeatID:     seatID,
		SeatLabel:  seat.Label,
		Price:      price,
		Status:     domain.BookingConfirmed,
		Reference:  reference,
	}
	m.nextBookingID++
	m.bookings[booking.ID] = booking

	copied := *booking
	return &copied, nil
}

func (m *memStore) GetById(ctx context.Context, id int) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	booking, ok := m.bookings[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	copied := *booking
	return &copied, nil
}

func (m *memStore) GetDetailById(ctx context.Context, id int) (*domain.BookingDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	booking, ok := m.bookings[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return m.detail(booking), nil
}

func (m *memStore) GetByUser(ctx context.Context, userID int, pagination domain.Pagination) ([]domain.BookingDetail, *domain.Metadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var all []*domain.Booking
	for _, booking := range m.bookings {
		if booking.UserID == userID {
			all = append(all, booking)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	total := len(all)
	start := pagination.Offset()
	if start > total {
		start = total
	}
	end := start + pagination.Limit()
	if end > total {
		end = total
	}

	details := make([]domain.BookingDetail, 0, end-start)
	for _, booking := range all[start:end] {
		details = append(details, *m.detail(booking))
	}

	return details, domain.NewMetadata(total, pagination.Page, pagination.PageSize), nil
}

func (m *memStore) Cancel(ctx context.Context, bookingID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	booking, ok := m.bookings[bookingID]
	if !ok {
		return domain.ErrRecordNotFound
	}

	if booking.Status == domain.BookingCancelled {
		return nil
	}

	booking.Status = domain.BookingCancelled
	if seat, ok := m.seats[booking.SeatID]; ok && seat.Status == domain.SeatBooked {
		m.freeSeat(seat)
	}
	return nil
}

func (m *memStore) MarkPaid(ctx context.Context, bookingID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	booking, ok := m.bookings[bookingID]
	if !ok {
		return domain.ErrRecordNotFound
	}

	if booking.Status != domain.BookingConfirmed {
		return domain.ErrEditConflict
	}

	booking.Status = domain.BookingPaid
	return nil
}

func (m *memStore) ExpireLapsedBookings(ctx context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	expired := 0
	for _, booking := range m.bookings {
		if booking.Status != domain.BookingConfirmed {
			continue
		}

		showtime, ok := m.showtimes[booking.ShowtimeID]
		if !ok || now.Before(showtime.StartsAt) {
			continue
		}

		booking.Status = domain.BookingExpired
		if seat, ok := m.seats[booking.SeatID]; ok && seat.Status == domain.SeatBooked {
			m.freeSeat(seat)
		}
		expired++
	}
	return expired, nil
}

func (m *memStore) detail(booking *domain.Booking) *domain.BookingDetail {
	detail := &domain.BookingDetail{Booking: *booking}

	if showtime, ok := m.showtimes[booking.ShowtimeID]; ok {
		detail.Theater = showtime.Theater
		detail.ShowtimeDate = showtime.StartsAt
		if movie, ok := m.movies[showtime.MovieID]; ok {
			detail.MovieTitle = movie.Title
		}
	}
	if user, ok := m.users[booking.UserID]; ok {
		detail.CustomerName = user.FullName
	}
	return detail
}

// --- ShowtimeRepository ---

func (m *memStore) GetAll(ctx context.Context) ([]domain.Showtime, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var showtimes []domain.Showtime
	for _, showtime := range m.showtimes {
		showtimes = append(showtimes, *showtime)
	}
	sort.Slice(showtimes, func(i, j int) bool { return showtimes[i].ID < showtimes[j].ID })
	return showtimes, nil
}

func (m *memStore) GetByMovie(ctx context.Context, movieID int) ([]domain.Showtime, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var showtimes []domain.Showtime
	for _, showtime := range m.showtimes {
		if showtime.MovieID == movieID {
			showtimes = append(showtimes, *showtime)
		}
	}
	sort.Slice(showtimes, func(i, j int) bool { return showtimes[i].ID < showtimes[j].ID })
	return showtimes, nil
}

func (m *memStore) getShowtimeById(id int) (*domain.Showtime, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	showtime, ok := m.showtimes[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	copied := *showtime
	return &copied, nil
}

func (m *memStore) CreateShowtime(ctx context.Context, showtime *domain.Showtime, grid domain.SeatGrid) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	showtime.ID = m.nextShowtimeID
	m.nextShowtimeID++
	copied := *showtime
	m.showtimes[showtime.ID] = &copied

	for row := 0; row < grid.Rows; row++ {
		for n := 1; n <= grid.SeatsPerRow; n++ {
			seat := &domain.Seat{
				ID:         m.nextSeatID,
				ShowtimeID: showtime.ID,
				Label:      fmt.Sprintf("%c%d", 'A'+row, n),
				Status:     domain.SeatAvailable,
			}
			m.nextSeatID++
			m.seats[seat.ID] = seat
		}
	}
	return nil
}

func (m *memStore) Delete(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.showtimes[id]; !ok {
		return domain.ErrRecordNotFound
	}

	delete(m.showtimes, id)
	for seatID, seat := range m.seats {
		if seat.ShowtimeID == id {
			delete(m.seats, seatID)
		}
	}
	return nil
}

func (m *memStore) UpdatePrice(ctx context.Context, id int, price decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	showtime, ok := m.showtimes[id]
	if !ok {
		return domain.ErrRecordNotFound
	}

	showtime.Price = price
	return nil
}

// showtimeRepo adapts memStore to domain.ShowtimeRepository; the method set
// clashes with BookingRepository (GetById, Create), so the showtime side gets
// a thin wrapper.
type showtimeRepo struct {
	store *memStore
}

func (r showtimeRepo) GetById(ctx context.Context, id int) (*domain.Showtime, error) {
	return r.store.getShowtimeById(id)
}

func (r showtimeRepo) GetByMovie(ctx context.Context, movieID int) ([]domain.Showtime, error) {
	return r.store.GetByMovie(ctx, movieID)
}

func (r showtimeRepo) GetAll(ctx context.Context) ([]domain.Showtime, error) {
	return r.store.GetAll(ctx)
}

func (r showtimeRepo) Create(ctx context.Context, showtime *domain.Showtime, grid domain.SeatGrid) error {
	return r.store.CreateShowtime(ctx, showtime, grid)
}

func (r showtimeRepo) Delete(ctx context.Context, id int) error {
	return r.store.Delete(ctx, id)
}

func (r showtimeRepo) UpdatePrice(ctx context.Context, id int, price decimal.Decimal) error {
	return r.store.UpdatePrice(ctx, id, price)
}

// userRepo adapts memStore to domain.UserRepository.
type userRepo struct {
	store *memStore
}

func (r userRepo) GetById(ctx context.Context, id int) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	copied := *user
	return &copied, nil
}
