// Package admin serves the admin dashboard: the orders table, the category
// and product editors and the shipment list.
package admin

import (
	"context"
	"errors"
	"strings"
)

var ErrConfirmationRequired = errors.New("delete needs confirmation")

// Tab is the selected dashboard tab.
type Tab string

const (
	TabOrders     Tab = "orders"
	TabProducts   Tab = "products"
	TabCategories Tab = "categories"
	TabShipments  Tab = "shipments"
)

var Tabs = []Tab{TabOrders, TabProducts, TabCategories, TabShipments}

// ParseTab reads the tab query value. Anything unknown selects orders.
func ParseTab(raw string) Tab {
	t := Tab(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Tabs {
		if t == known {
			return t
		}
	}
	return TabOrders
}

// Store is a backend collection the dashboard edits.
type Store[T, F any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, form F) (T, error)
	Update(ctx context.Context, id int64, form F) (T, error)
	Delete(ctx context.Context, id int64) error
}

// Manager drives one editable list. Every successful mutation is followed by
// a full reload, so callers only ever see server-confirmed state.
type Manager[T, F any] struct {
	store Store[T, F]
}

func NewManager[T, F any](store Store[T, F]) *Manager[T, F] {
	return &Manager[T, F]{store: store}
}

func (m *Manager[T, F]) Load(ctx context.Context) ([]T, error) {
	items, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save creates when id is 0 and updates otherwise.
func (m *Manager[T, F]) Save(ctx context.Context, id int64, form F) ([]T, error) {
	var err error
	if id == 0 {
		_, err = m.store.Create(ctx, form)
	} else {
		_, err = m.store.Update(ctx, id, form)
	}
	if err != nil {
		return nil, err
	}
	return m.Load(ctx)
}

func (m *Manager[T, F]) Delete(ctx context.Context, id int64, confirmed bool) ([]T, error) {
	if !confirmed {
		return nil, ErrConfirmationRequired
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return nil, err
	}
	return m.Load(ctx)
}
