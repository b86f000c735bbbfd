package core

import "errors"

// Error kinds. Callers wrap these with fmt.Errorf("%w: ...") and match with errors.Is.
var (
	// ErrConfiguration reports parameters the generator cannot honor
	ErrConfiguration = errors.New("configuration error")
	// ErrGeometry reports a mesh or ray the algorithms cannot work with
	ErrGeometry = errors.New("geometry error")
	// ErrNumericDegeneracy reports a zero-length normalization or empty average
	ErrNumericDegeneracy = errors.New("numeric degeneracy")
)
