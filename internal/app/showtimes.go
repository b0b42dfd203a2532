package app

import (
	"errors"
	"net/http"

	"github.com/huyng/cinema-reservation/api"
	"github.com/huyng/cinema-reservation/internal/domain"
	"github.com/shopspring/decimal"
)

func (app *Application) GetShowtimes(w http.ResponseWriter, r *http.Request) {
	showtimes, err := app.showtimeRepo.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, toShowtimeListResponse(showtimes), nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateShowtime(w http.ResponseWriter, r *http.Request) {
	var req api.CreateShowtimeRequest

	if err := app.readJSON(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.validator.Struct(req); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	if _, err := app.movieRepo.GetById(r.Context(), req.MovieId); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	grid := domain.DefaultSeatGrid
	if req.Rows > 0 && req.SeatsPerRow > 0 {
		grid = domain.SeatGrid{Rows: req.Rows, SeatsPerRow: req.SeatsPerRow}
	}

	showtime := domain.Showtime{
		MovieID:  req.MovieId,
		Theater:  req.Theater,
		StartsAt: req.StartsAt,
		Price:    decimal.NewFromFloat(req.Price),
	}

	if err := app.showtimeRepo.Create(r.Context(), &showtime, grid); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.logger.Info("showtime created", "showtime_id", showtime.ID, "movie_id", showtime.MovieID, "seats", grid.Rows*grid.SeatsPerRow)

	if err := app.writeJSON(w, http.StatusCreated, toShowtimeResponse(showtime), nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteShowtime(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := app.readIDParam(r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.showtimeRepo.Delete(r.Context(), showtimeID); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) UpdateShowtimePrice(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := app.readIDParam(r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var req api.UpdateShowtimePriceRequest

	if err := app.readJSON(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.validator.Struct(req); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	if err := app.showtimeRepo.UpdatePrice(r.Context(), showtimeID, decimal.NewFromFloat(req.Price)); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	showtime, err := app.showtimeRepo.GetById(r.Context(), showtimeID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, toShowtimeResponse(*showtime), nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toShowtimeResponse(showtime domain.Showtime) api.ShowtimeResponse {
	return api.ShowtimeResponse{
		Id:       showtime.ID,
		MovieId:  showtime.MovieID,
		Theater:  showtime.Theater,
		StartsAt: showtime.StartsAt,
		Price:    showtime.Price,
	}
}

func toShowtimeListResponse(showtimes []domain.Showtime) api.ShowtimeListResponse {
	resp := api.ShowtimeListResponse{Showtimes: make([]api.ShowtimeResponse, 0, len(showtimes))}
	for _, showtime := range showtimes {
		resp.Showtimes = append(resp.Showtimes, toShowtimeResponse(showtime))
	}

	return resp
}
