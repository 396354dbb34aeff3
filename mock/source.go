// Package mock provides hand-written mocks of the domain interfaces.
package mock

import (
	"context"

	"github.com/civicmeet/civicmeet"
)

var _ civicmeet.Source = (*Source)(nil)

// Source is a mock implementation of civicmeet.Source.
type Source struct {
	NameFn       func() string
	ListEventsFn func(ctx context.Context, window civicmeet.Window) ([]civicmeet.RawEvent, error)
}

func (s *Source) Name() string {
	if s.NameFn == nil {
		return "mock"
	}
	return s.NameFn()
}

func (s *Source) ListEvents(ctx context.Context, window civicmeet.Window) ([]civicmeet.RawEvent, error) {
	return s.ListEventsFn(ctx, window)
}
