package domain

import "context"

type Movie struct {
	ID          int
	Title       string
	Genre       string
	DurationMin int
	PosterUrl   string
	TrailerUrl  string
	Description string
	Director    string
	CastMembers string
}

type MovieRepository interface {
	GetAll(ctx context.Context) ([]Movie, error)
	GetById(ctx context.Context, id int) (*Movie, error)
}
