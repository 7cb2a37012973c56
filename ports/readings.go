package ports

import (
	"context"
)

// PairedReadings are the standard/test balance readings in collection order.
type PairedReadings struct {
	Standard []float64
	Test     []float64
}

// ReadingsSource loads paired readings from an external file or feed
type ReadingsSource interface {
	LoadReadings(ctx context.Context) (*PairedReadings, error)
}
