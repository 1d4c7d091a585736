// Package memstore is an in-process implementation of every store
// interface, used with STORE_DRIVER=memory and by tests.
//
// All access is serialized by one mutex. A transaction works on a copy of
// the state which replaces the live state only when it commits, so a
// failed transaction leaves nothing behind.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gosimple/slug"

	"github.com/01moynul/storefront-golang/internal/commerce"
	"github.com/01moynul/storefront-golang/internal/models"
)

type state struct {
	categories map[int64]models.Category
	products   map[int64]models.Product
	cartLines  map[int64]models.CartLine
	shipping   map[int64]models.ShippingProfile
	orders     map[string]models.Order
	orderLines map[string][]models.OrderLine
	orderSeq   []string
	sessions   map[string]string
	outbox     []models.OutboxMessage
	reviews    map[int64]models.Review
	ratings    map[int64]models.Rating
	favorites  map[int64]models.Favorite
	customers  map[int64]models.Customer
	nextID     int64
}

func newState() *state {
	return &state{
		categories: map[int64]models.Category{},
		products:   map[int64]models.Product{},
		cartLines:  map[int64]models.CartLine{},
		shipping:   map[int64]models.ShippingProfile{},
		orders:     map[string]models.Order{},
		orderLines: map[string][]models.OrderLine{},
		sessions:   map[string]string{},
		reviews:    map[int64]models.Review{},
		ratings:    map[int64]models.Rating{},
		favorites:  map[int64]models.Favorite{},
		customers:  map[int64]models.Customer{},
	}
}

func (st *state) id() int64 {
	st.nextID++
	return st.nextID
}

// clone copies the tables a transaction can write. Catalog tables are
// never written inside InTx and are shared.
func (st *state) clone() *state {
	c := *st
	c.products = copyMap(st.products)
	c.cartLines = copyMap(st.cartLines)
	c.orders = copyMap(st.orders)
	c.orderLines = copyMap(st.orderLines)
	c.orderSeq = append([]string(nil), st.orderSeq...)
	c.sessions = copyMap(st.sessions)
	c.outbox = append([]models.OutboxMessage(nil), st.outbox...)
	return &c
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

func New() *Store {
	return &Store{st: newState(), now: time.Now}
}

// AddCategory seeds a category. The slug is derived from the title.
func (s *Store) AddCategory(title string, parentID *int64) models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := models.Category{ID: s.st.id(), Title: title, Slug: slug.Make(title), ParentID: parentID}
	s.st.categories[c.ID] = c
	return c
}

// AddProduct seeds a product and returns it with its id and slug set.
func (s *Store) AddProduct(p models.Product) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.st.id()
	if p.Slug == "" {
		p.Slug = slug.Make(p.Title)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now().UTC()
	}
	s.st.products[p.ID] = p
	return p
}

// InTx runs fn on a private copy of the state and publishes the copy only
// when fn succeeds.
func (s *Store) InTx(ctx context.Context, fn func(tx commerce.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(&tx{st: work, now: s.now}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) CartLines(_ context.Context, userID int64) ([]models.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return userLines(s.st, userID), nil
}

func userLines(st *state, userID int64) []models.CartLine {
	var out []models.CartLine
	for _, l := range st.cartLines {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) ShippingProfile(_ context.Context, userID int64) (models.ShippingProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.st.shipping[userID]
	if !ok {
		return models.ShippingProfile{}, fmt.Errorf("%w: shipping profile", commerce.ErrNotFound)
	}
	return p, nil
}

func (s *Store) UpsertShippingProfile(_ context.Context, p models.ShippingProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.shipping[p.UserID] = p
	return nil
}

// Orders returns the user's orders, newest first.
func (s *Store) Orders(_ context.Context, userID int64) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for i := len(s.st.orderSeq) - 1; i >= 0; i-- {
		o := s.st.orders[s.st.orderSeq[i]]
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *Store) Order(_ context.Context, userID int64, orderID string) (models.Order, []models.OrderLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.st.orders[orderID]
	if !ok || o.UserID != userID {
		return models.Order{}, nil, fmt.Errorf("%w: order %s", commerce.ErrNotFound, orderID)
	}
	return o, append([]models.OrderLine(nil), s.st.orderLines[orderID]...), nil
}

// PendingOutbox returns up to limit unsent messages, oldest first.
func (s *Store) PendingOutbox(_ context.Context, limit int) ([]models.OutboxMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.st.outbox)
	if limit > 0 && n > limit {
		n = limit
	}
	return append([]models.OutboxMessage(nil), s.st.outbox[:n]...), nil
}

// MarkOutboxSent drops relayed messages.
func (s *Store) MarkOutboxSent(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sent := make(map[int64]bool, len(ids))
	for _, id := range ids {
		sent[id] = true
	}
	kept := s.st.outbox[:0:0]
	for _, m := range s.st.outbox {
		if !sent[m.ID] {
			kept = append(kept, m)
		}
	}
	s.st.outbox = kept
	return nil
}
