package app

import (
	"net/http"

	"github.com/huyng/cinema-reservation/api"
)

func (app *Application) HoldSeat(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := app.readIDParam(r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	seatID, err := app.readIDParam(r, "seatId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	heldUntil, err := app.reservations.Hold(r.Context(), showtimeID, seatID, app.contextUserID(r))
	if err != nil {
		app.reservationError(w, r, err)
		return
	}

	resp := api.HoldResponse{
		ShowtimeId: showtimeID,
		SeatId:     seatID,
		HeldUntil:  heldUntil,
	}

	if err := app.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ReleaseSeat(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := app.readIDParam(r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	seatID, err := app.readIDParam(r, "seatId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.reservations.Release(r.Context(), showtimeID, seatID, app.contextUserID(r)); err != nil {
		app.reservationError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
