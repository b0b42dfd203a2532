package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
)

func (app *Application) routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)
	r.MethodNotAllowed(app.methodNotAllowedResponse)

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(app.recoverPanic)
	r.Use(otelchi.Middleware("cinema-reservation-api", otelchi.WithChiRoutes(r)))
	r.Use(app.rateLimit)

	r.Get("/health", app.GetHealth)

	r.Get("/movies", app.GetMovies)
	r.Get("/movies/{movieId}", app.GetMovie)
	r.Get("/movies/{movieId}/showtimes", app.GetMovieShowtimes)

	r.Get("/showtimes", app.GetShowtimes)
	r.Get("/showtimes/{showtimeId}/seats", app.GetSeatMap)

	r.Group(func(r chi.Router) {
		r.Use(app.requireUser)

		r.Post("/showtimes/{showtimeId}/seats/{seatId}/hold", app.HoldSeat)
		r.Delete("/showtimes/{showtimeId}/seats/{seatId}/hold", app.ReleaseSeat)

		r.Post("/showtimes/{showtimeId}/bookings", app.CreateBookings)
		r.Get("/bookings", app.GetUserBookings)
		r.Delete("/bookings/{bookingId}", app.CancelBooking)
		r.Post("/bookings/{bookingId}/payment", app.PayBooking)
		r.Get("/bookings/{bookingId}/ticket", app.GetTicket)
	})

	r.Group(func(r chi.Router) {
		r.Use(app.requireUser)
		r.Use(app.requireAdmin)

		r.Post("/showtimes", app.CreateShowtime)
		r.Delete("/showtimes/{showtimeId}", app.DeleteShowtime)
		r.Patch("/showtimes/{showtimeId}/price", app.UpdateShowtimePrice)
	})

	return r
}
