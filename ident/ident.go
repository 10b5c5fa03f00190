package ident

import "github.com/gofrs/uuid"

// New mints a random 128-bit identifier in canonical UUID v4 form.
// Used for form keys, form version ids and submission ids.
func New() string {
	return uuid.Must(uuid.NewV4()).String()
}
