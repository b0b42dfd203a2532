// Package api holds the request and response types of the HTTP surface.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"request_id,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validation_errors"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"system_info"`
}

type Metadata struct {
	CurrentPage  int `json:"current_page"`
	FirstPage    int `json:"first_page"`
	LastPage     int `json:"last_page"`
	PageSize     int `json:"page_size"`
	TotalRecords int `json:"total_records"`
}

type MovieResponse struct {
	Id          int    `json:"id"`
	Title       string `json:"title"`
	Genre       string `json:"genre"`
	DurationMin int    `json:"duration_min"`
	PosterUrl   string `json:"poster_url,omitempty"`
	TrailerUrl  string `json:"trailer_url,omitempty"`
	Description string `json:"description,omitempty"`
	Director    string `json:"director,omitempty"`
	CastMembers string `json:"cast_members,omitempty"`
}

type MovieListResponse struct {
	Movies []MovieResponse `json:"movies"`
}

type ShowtimeResponse struct {
	Id       int             `json:"id"`
	MovieId  int             `json:"movie_id"`
	Theater  string          `json:"theater"`
	StartsAt time.Time       `json:"starts_at"`
	Price    decimal.Decimal `json:"price"`
}

type ShowtimeListResponse struct {
	Showtimes []ShowtimeResponse `json:"showtimes"`
}

type CreateShowtimeRequest struct {
	MovieId     int       `json:"movie_id" validate:"required,gt=0"`
	Theater     string    `json:"theater" validate:"required,max=100"`
	StartsAt    time.Time `json:"starts_at" validate:"required,future"`
	Price       float64   `json:"price" validate:"required,gt=0"`
	Rows        int       `json:"rows" validate:"omitempty,gt=0,max=26"`
	SeatsPerRow int       `json:"seats_per_row" validate:"omitempty,gt=0,max=50"`
}

type UpdateShowtimePriceRequest struct {
	Price float64 `json:"price" validate:"required,gt=0"`
}

type SeatResponse struct {
	Id       int    `json:"id"`
	Label    string `json:"label"`
	Status   string `json:"status"`
	HeldByMe bool   `json:"held_by_me"`
}

type SeatMapResponse struct {
	ShowtimeId int             `json:"showtime_id"`
	Theater    string          `json:"theater"`
	StartsAt   time.Time       `json:"starts_at"`
	Price      decimal.Decimal `json:"price"`
	Seats      []SeatResponse  `json:"seats"`
}

type HoldResponse struct {
	ShowtimeId int       `json:"showtime_id"`
	SeatId     int       `json:"seat_id"`
	HeldUntil  time.Time `json:"held_until"`
}

type CreateBookingRequest struct {
	SeatIds []int `json:"seat_ids" validate:"required,min=1,max=10,dive,gt=0"`
}

type BookingResponse struct {
	Id         int             `json:"id"`
	ShowtimeId int             `json:"showtime_id"`
	SeatId     int             `json:"seat_id"`
	SeatLabel  string          `json:"seat_label"`
	Price      decimal.Decimal `json:"price"`
	Status     string          `json:"status"`
	Reference  string          `json:"reference"`
	CreatedAt  time.Time       `json:"created_at"`
}

type CreateBookingResponse struct {
	Requested  int               `json:"requested"`
	Booked     int               `json:"booked"`
	TotalPrice decimal.Decimal   `json:"total_price"`
	Bookings   []BookingResponse `json:"bookings"`
}

type BookingDetailResponse struct {
	BookingResponse
	MovieTitle string    `json:"movie_title"`
	Theater    string    `json:"theater"`
	StartsAt   time.Time `json:"starts_at"`
}

type BookingListResponse struct {
	Bookings []BookingDetailResponse `json:"bookings"`
	Metadata *Metadata               `json:"metadata,omitempty"`
}
