// Package broker carries "operation changed" notifications from the service
// that wrote to every hub that may be watching the operation.
package broker

import (
	"context"

	"github.com/google/uuid"
)

// Handler is invoked once per received notification.
type Handler func(ctx context.Context, operationID uuid.UUID)
