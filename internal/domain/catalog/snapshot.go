package catalog

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"
)

// Snapshot is the catalog as loaded when a sale-creation session opens. It is
// never refreshed mid-session.
type Snapshot struct {
	Products []Product
	Services []Service
}

// Load fetches products and services concurrently. Either failure fails the
// whole load.
func Load(ctx context.Context, src Source) (*Snapshot, error) {
	var snap Snapshot

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := src.ListProducts(ctx)
		if err != nil {
			return errors.Wrap(err, "list products")
		}
		snap.Products = products
		return nil
	})
	g.Go(func() error {
		services, err := src.ListServices(ctx)
		if err != nil {
			return errors.Wrap(err, "list services")
		}
		snap.Services = services
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &snap, nil
}

// Resolve matches a typed token against the snapshot and returns the key of
// the matching item. An empty token, or a token that matches nothing, yields
// ok=false so the caller keeps whatever it had selected.
//
// Products match the trimmed token case-insensitively against their lookup
// code first, then the raw token exactly against the UUID. Services match the
// trimmed token against their numeric identifier.
func (s *Snapshot) Resolve(kind Kind, token string) (key string, ok bool) {
	if token == "" {
		return "", false
	}
	term := strings.ToLower(strings.TrimSpace(token))

	switch kind {
	case KindProduct:
		for _, p := range s.Products {
			if p.Code != "" && strings.ToLower(p.Code) == term {
				return p.ID, true
			}
		}
		for _, p := range s.Products {
			if p.ID != "" && p.ID == token {
				return p.ID, true
			}
		}
	case KindService:
		for _, svc := range s.Services {
			if strconv.FormatInt(svc.ID, 10) == term {
				return svc.Key(), true
			}
		}
	}

	return "", false
}

// Find returns the item of the given kind whose Key equals key.
func (s *Snapshot) Find(kind Kind, key string) (Item, bool) {
	if key == "" {
		return nil, false
	}
	switch kind {
	case KindProduct:
		for _, p := range s.Products {
			if p.ID == key {
				return p, true
			}
		}
	case KindService:
		for _, svc := range s.Services {
			if svc.Key() == key {
				return svc, true
			}
		}
	}
	return nil, false
}

// Options returns the selectable items of one kind in catalog order.
func (s *Snapshot) Options(kind Kind) []Item {
	var items []Item
	switch kind {
	case KindProduct:
		items = make([]Item, len(s.Products))
		for i, p := range s.Products {
			items[i] = p
		}
	case KindService:
		items = make([]Item, len(s.Services))
		for i, svc := range s.Services {
			items[i] = svc
		}
	}
	return items
}
