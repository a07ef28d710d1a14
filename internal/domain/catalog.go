package domain

// Director is a row of the director table.
type Director struct {
	ID   int64
	Name *string
}

// DirectorFields is the set of client-writable director attributes.
type DirectorFields struct {
	Name Field[string] `json:"name"`
}

// Assigned returns the present fields.
func (f DirectorFields) Assigned() []Assignment {
	return appendField(nil, "name", f.Name)
}

// Genre is a row of the genre table.
type Genre struct {
	ID   int64
	Name *string
}

// GenreFields is the set of client-writable genre attributes.
type GenreFields struct {
	Name Field[string] `json:"name"`
}

// Assigned returns the present fields.
func (f GenreFields) Assigned() []Assignment {
	return appendField(nil, "name", f.Name)
}
