package app

import (
	"net/http"

	"github.com/huyng/cinema-reservation/api"
	"github.com/huyng/cinema-reservation/internal/reservation"
)

// GetSeatMap is public: anonymous callers see plain availability, identified
// callers additionally see which holds are their own.
func (app *Application) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := app.readIDParam(r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	seatMap, err := app.reservations.SeatMap(r.Context(), showtimeID, app.maybeUserID(r))
	if err != nil {
		app.reservationError(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, toSeatMapResponse(seatMap), nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toSeatMapResponse(seatMap *reservation.SeatMap) api.SeatMapResponse {
	resp := api.SeatMapResponse{
		ShowtimeId: seatMap.Showtime.ID,
		Theater:    seatMap.Showtime.Theater,
		StartsAt:   seatMap.Showtime.StartsAt,
		Price:      seatMap.Showtime.Price,
		Seats:      make([]api.SeatResponse, 0, len(seatMap.Seats)),
	}

	for _, seat := range seatMap.Seats {
		resp.Seats = append(resp.Seats, api.SeatResponse{
			Id:       seat.ID,
			Label:    seat.Label,
			Status:   string(seat.Status),
			HeldByMe: seat.HeldByMe,
		})
	}

	return resp
}
