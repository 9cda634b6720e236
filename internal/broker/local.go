package broker

import (
	"context"

	"github.com/google/uuid"
)

const defaultBuffer = 64

// Local delivers notifications inside one process.
type Local struct {
	events chan uuid.UUID
}

func NewLocal(buffer int) *Local {
	if buffer <= 0 {
		buffer = defaultBuffer
	}

	return &Local{events: make(chan uuid.UUID, buffer)}
}

// Publish queues a notification. It blocks only while the buffer is full.
func (l *Local) Publish(ctx context.Context, operationID uuid.UUID) error {
	select {
	case l.events <- operationID:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Listen calls handle for every notification until ctx is done.
func (l *Local) Listen(ctx context.Context, handle Handler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case id := <-l.events:
			handle(ctx, id)
		}
	}
}
