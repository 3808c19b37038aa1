package postgres

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates sortable ULID-based IDs.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate returns a new lower-case ULID.
func (g *ULIDGenerator) Generate() string {
	return strings.ToLower(ulid.Make().String())
}
