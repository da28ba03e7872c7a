// Package location acquires the single position fix stamped on each punch.
package location

import (
	"context"
	"errors"
	"time"
)

// Reading is ephemeral: it is captured per punch and forwarded, never stored.
type Reading struct {
	Latitude  float64
	Longitude float64
	Accuracy  *float64
	Timestamp time.Time
}

//go:generate mockgen -source=location_provider.go -destination=mock/location_provider_mock.go -package=mock
type Provider interface {
	RequestPermission(ctx context.Context) (bool, error)
	CurrentPosition(ctx context.Context) (Reading, error)
}

// Acquire asks for permission, then takes one fix. A timeout <= 0 relies on
// the caller's context alone.
func Acquire(ctx context.Context, p Provider, timeout time.Duration) (Reading, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	granted, err := p.RequestPermission(ctx)
	if err != nil {
		return Reading{}, classify(err)
	}
	if !granted {
		return Reading{}, ErrPermissionDenied
	}

	reading, err := p.CurrentPosition(ctx)
	if err != nil {
		return Reading{}, classify(err)
	}
	return reading, nil
}

func classify(err error) error {
	if errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrUnavailable) {
		return err
	}
	return ErrUnavailable.WithCause(err)
}

// Static reports a fixed, configured position. Useful for kiosks bolted to a wall.
type Static struct {
	Consent   bool
	Latitude  *float64
	Longitude *float64
	Now       func() time.Time
}

func (s Static) RequestPermission(context.Context) (bool, error) {
	return s.Consent, nil
}

func (s Static) CurrentPosition(ctx context.Context) (Reading, error) {
	if err := ctx.Err(); err != nil {
		return Reading{}, err
	}
	if s.Latitude == nil || s.Longitude == nil {
		return Reading{}, ErrUnavailable.WithCause(errors.New("no coordinates configured"))
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return Reading{
		Latitude:  *s.Latitude,
		Longitude: *s.Longitude,
		Timestamp: now().UTC(),
	}, nil
}
