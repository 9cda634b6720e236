package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("product not found")

// Product is a catalog record as seen by the ledger. The ledger never writes
// through the catalog; stock is owned elsewhere.
type Product struct {
	ID        uuid.UUID
	Name      string
	Quantity  int64
	UnitValue decimal.Decimal
	Removed   bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}
