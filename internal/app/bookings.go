package app

import (
	"fmt"
	"net/http"

	"github.com/huyng/cinema-reservation/api"
	"github.com/huyng/cinema-reservation/internal/domain"
	"github.com/huyng/cinema-reservation/internal/reservation"
	"github.com/huyng/cinema-reservation/internal/ticket"
)

// CreateBookings books the requested seats. Contested seats do not fail the
// request: full success returns 201, a partial result 200, and zero booked
// seats 409, each with the same per-seat breakdown in the body.
func (app *Application) CreateBookings(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := app.readIDParam(r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var req api.CreateBookingRequest

	if err := app.readJSON(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.validator.Struct(req); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	result, err := app.reservations.Book(r.Context(), showtimeID, app.contextUserID(r), req.SeatIds)
	if err != nil {
		app.reservationError(w, r, err)
		return
	}

	status := http.StatusOK
	switch {
	case result.AllBooked():
		status = http.StatusCreated
	case result.NoneBooked():
		status = http.StatusConflict
	}

	if err := app.writeJSON(w, status, toCreateBookingResponse(result), nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	pagination := app.readPagination(r)

	details, metadata, err := app.reservations.BookingHistory(r.Context(), app.contextUserID(r), pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.BookingListResponse{
		Bookings: make([]api.BookingDetailResponse, 0, len(details)),
		Metadata: toMetadata(metadata),
	}

	for _, detail := range details {
		resp.Bookings = append(resp.Bookings, toBookingDetailResponse(detail))
	}

	if err := app.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := app.readIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.reservations.Cancel(r.Context(), bookingID, app.contextUserID(r)); err != nil {
		app.reservationError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) PayBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := app.readIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.reservations.MarkPaid(r.Context(), bookingID, app.contextUserID(r)); err != nil {
		app.reservationError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetTicket streams the booking's e-ticket as a PDF.
func (app *Application) GetTicket(w http.ResponseWriter, r *http.Request) {
	bookingID, err := app.readIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	detail, err := app.reservations.Ticket(r.Context(), bookingID, app.contextUserID(r))
	if err != nil {
		app.reservationError(w, r, err)
		return
	}

	pdf, err := ticket.Render(detail)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("ticket-%s.pdf", detail.Reference)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

func toBookingResponse(booking domain.Booking) api.BookingResponse {
	return api.BookingResponse{
		Id:         booking.ID,
		ShowtimeId: booking.ShowtimeID,
		SeatId:     booking.SeatID,
		SeatLabel:  booking.SeatLabel,
		Price:      booking.Price,
		Status:     string(booking.Status),
		Reference:  booking.Reference,
		CreatedAt:  booking.CreatedAt,
	}
}

func toBookingDetailResponse(detail domain.BookingDetail) api.BookingDetailResponse {
	return api.BookingDetailResponse{
		BookingResponse: toBookingResponse(detail.Booking),
		MovieTitle:      detail.MovieTitle,
		Theater:         detail.Theater,
		StartsAt:        detail.ShowtimeDate,
	}
}

func toCreateBookingResponse(result *reservation.BookResult) api.CreateBookingResponse {
	resp := api.CreateBookingResponse{
		Requested:  result.Requested,
		Booked:     len(result.Bookings),
		TotalPrice: result.Total,
		Bookings:   make([]api.BookingResponse, 0, len(result.Bookings)),
	}

	for _, booking := range result.Bookings {
		resp.Bookings = append(resp.Bookings, toBookingResponse(booking))
	}

	return resp
}

func toMetadata(metadata *domain.Metadata) *api.Metadata {
	if metadata == nil || metadata.TotalRecords == 0 {
		return nil
	}

	return &api.Metadata{
		CurrentPage:  metadata.CurrentPage,
		FirstPage:    metadata.FirstPage,
		LastPage:     metadata.LastPage,
		PageSize:     metadata.PageSize,
		TotalRecords: metadata.TotalRecords,
	}
}
