package domain

// Movie represents a row of the movie table together with the names of its
// genre and director.
type Movie struct {
	ID           int64
	Title        *string
	Description  *string
	Trailer      *string
	Year         *int
	Rating       *float64
	GenreID      *int64
	DirectorID   *int64
	GenreName    *string
	DirectorName *string
}

// MovieFields is the set of client-writable movie attributes.
type MovieFields struct {
	Title       Field[string]  `json:"title"`
	Description Field[string]  `json:"description"`
	Trailer     Field[string]  `json:"trailer"`
	Year        Field[int]     `json:"year"`
	Rating      Field[float64] `json:"rating"`
	GenreID     Field[int64]   `json:"genre_id"`
	DirectorID  Field[int64]   `json:"director_id"`
}

// Assigned returns the present fields in column order.
func (f MovieFields) Assigned() []Assignment {
	out := make([]Assignment, 0, 7)
	out = appendField(out, "title", f.Title)
	out = appendField(out, "description", f.Description)
	out = appendField(out, "trailer", f.Trailer)
	out = appendField(out, "year", f.Year)
	out = appendField(out, "rating", f.Rating)
	out = appendField(out, "genre_id", f.GenreID)
	out = appendField(out, "director_id", f.DirectorID)
	return out
}
