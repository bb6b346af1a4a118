package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"furniture-store/models"
	"furniture-store/store"
)

type fakeUsers struct {
	mu      sync.Mutex
	byID    map[primitive.ObjectID]models.User
	failing error
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[primitive.ObjectID]models.User{}} }

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing != nil {
		return f.failing
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return store.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUsers) find(match func(models.User) bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if match(u) {
			u := u
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return f.find(func(u models.User) bool { return u.Email == email })
}

func (f *fakeUsers) FindByVerificationToken(_ context.Context, token string) (*models.User, error) {
	return f.find(func(u models.User) bool { return token != "" && u.VerificationToken == token })
}

func (f *fakeUsers) FindByResetToken(_ context.Context, hash string, now time.Time) (*models.User, error) {
	return f.find(func(u models.User) bool {
		return hash != "" && u.ResetPasswordToken == hash && u.ResetPasswordExpire != nil && u.ResetPasswordExpire.After(now)
	})
}

func (f *fakeUsers) Update(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing != nil {
		return f.failing
	}
	if _, ok := f.byID[u.ID]; !ok {
		return store.ErrNotFound
	}
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUsers) List(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.User{}
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	all, _ := f.List(ctx)
	out := []models.User{}
	for _, u := range all {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUsers) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.byID)), nil
}

func (f *fakeUsers) add(u models.User) *models.User {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	f.byID[u.ID] = u
	return &u
}

type fakeProducts struct {
	mu       sync.Mutex
	byID     map[primitive.ObjectID]models.Product
	restocks int
	// failIncrement makes IncrementStock fail for the listed products.
	failIncrement map[primitive.ObjectID]bool
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{byID: map[primitive.ObjectID]models.Product{}, failIncrement: map[primitive.ObjectID]bool{}}
}

func (f *fakeProducts) add(p models.Product) models.Product {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	f.byID[p.ID] = p
	return p
}

func (f *fakeProducts) stock(id primitive.ObjectID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id].Stock
}

func (f *fakeProducts) Create(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = primitive.NewObjectID()
	f.byID[p.ID] = *p
	return nil
}

func (f *fakeProducts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProducts) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Product{}
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) Find(_ context.Context, q models.ProductQuery) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Product{}
	for _, p := range f.byID {
		if !q.IncludeInactive && !p.IsActive {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeProducts) Update(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[p.ID]; !ok {
		return store.ErrNotFound
	}
	f.byID[p.ID] = *p
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeProducts) DecrementStock(_ context.Context, id primitive.ObjectID, qty int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	f.byID[id] = p
	return true, nil
}

func (f *fakeProducts) IncrementStock(_ context.Context, id primitive.ObjectID, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIncrement[id] {
		return errors.New("write conflict")
	}
	p := f.byID[id]
	p.Stock += qty
	f.byID[id] = p
	f.restocks++
	return nil
}

func (f *fakeProducts) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.byID)), nil
}

func (f *fakeProducts) LowStock(_ context.Context, threshold int) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Product{}
	for _, p := range f.byID {
		if p.Stock <= threshold {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeCarts struct {
	mu     sync.Mutex
	byUser map[primitive.ObjectID]models.Cart
}

func newFakeCarts() *fakeCarts { return &fakeCarts{byUser: map[primitive.ObjectID]models.Cart{}} }

func (f *fakeCarts) FindByUser(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byUser[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	c.Items = append([]models.CartItem(nil), c.Items...)
	return &c, nil
}

func (f *fakeCarts) Save(_ context.Context, c *models.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	saved := *c
	saved.Items = append([]models.CartItem{}, c.Items...)
	f.byUser[c.UserID] = saved
	return nil
}

func (f *fakeCarts) Clear(_ context.Context, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.byUser[userID]; ok {
		c.Items = []models.CartItem{}
		f.byUser[userID] = c
	}
	return nil
}

func (f *fakeCarts) items(userID primitive.ObjectID) []models.CartItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byUser[userID].Items
}

type fakeWishlists struct {
	byUser map[primitive.ObjectID]*models.Wishlist
}

func newFakeWishlists() *fakeWishlists {
	return &fakeWishlists{byUser: map[primitive.ObjectID]*models.Wishlist{}}
}

func (f *fakeWishlists) FindByUser(_ context.Context, userID primitive.ObjectID) (*models.Wishlist, error) {
	wl, ok := f.byUser[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *wl
	return &cp, nil
}

func (f *fakeWishlists) AddProduct(_ context.Context, userID, productID primitive.ObjectID) error {
	wl, ok := f.byUser[userID]
	if !ok {
		wl = &models.Wishlist{ID: primitive.NewObjectID(), UserID: userID}
		f.byUser[userID] = wl
	}
	for _, id := range wl.Products {
		if id == productID {
			return nil
		}
	}
	wl.Products = append(wl.Products, productID)
	return nil
}

func (f *fakeWishlists) RemoveProduct(_ context.Context, userID, productID primitive.ObjectID) error {
	wl, ok := f.byUser[userID]
	if !ok {
		return nil
	}
	kept := wl.Products[:0]
	for _, id := range wl.Products {
		if id != productID {
			kept = append(kept, id)
		}
	}
	wl.Products = kept
	return nil
}

type fakeOrders struct {
	mu        sync.Mutex
	byID      map[primitive.ObjectID]models.Order
	createErr error
}

func newFakeOrders() *fakeOrders { return &fakeOrders{byID: map[primitive.ObjectID]models.Order{}} }

func (f *fakeOrders) Create(_ context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	o.ID = primitive.NewObjectID()
	f.byID[o.ID] = *o
	return nil
}

func (f *fakeOrders) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &o, nil
}

func (f *fakeOrders) all(keep func(models.Order) bool) []models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Order{}
	for _, o := range f.byID {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeOrders) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return f.all(func(o models.Order) bool { return o.UserID == userID }), nil
}

func (f *fakeOrders) List(_ context.Context) ([]models.Order, error) {
	return f.all(func(models.Order) bool { return true }), nil
}

func (f *fakeOrders) Recent(ctx context.Context, limit int64) ([]models.Order, error) {
	out, _ := f.List(ctx)
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus, deliveredAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	o.OrderStatus = status
	if deliveredAt != nil {
		o.DeliveredAt = deliveredAt
	}
	f.byID[id] = o
	return nil
}

func (f *fakeOrders) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.byID)), nil
}

func (f *fakeOrders) Revenue(_ context.Context) (float64, error) {
	total := 0.0
	for _, o := range f.all(func(o models.Order) bool { return o.OrderStatus != models.OrderStatusCancelled }) {
		total += o.TotalPrice
	}
	return total, nil
}

type fakeInvites struct {
	mu      sync.Mutex
	byToken map[string]models.AdminInvite
}

func newFakeInvites() *fakeInvites { return &fakeInvites{byToken: map[string]models.AdminInvite{}} }

func (f *fakeInvites) Create(_ context.Context, inv *models.AdminInvite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byToken[inv.Token]; ok {
		return store.ErrDuplicate
	}
	inv.ID = primitive.NewObjectID()
	f.byToken[inv.Token] = *inv
	return nil
}

func (f *fakeInvites) FindByToken(_ context.Context, token string) (*models.AdminInvite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.byToken[token]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &inv, nil
}

func (f *fakeInvites) Claim(_ context.Context, token string, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.byToken[token]
	if !ok || inv.Used || !inv.ExpiresAt.After(now) {
		return false, nil
	}
	inv.Used = true
	inv.UsedAt = &now
	f.byToken[token] = inv
	return true, nil
}

func (f *fakeInvites) Release(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv := f.byToken[token]
	inv.Used = false
	inv.UsedAt = nil
	f.byToken[token] = inv
	return nil
}

func (f *fakeInvites) List(_ context.Context) ([]models.AdminInvite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.AdminInvite{}
	for _, inv := range f.byToken {
		out = append(out, inv)
	}
	return out, nil
}

type fakeWorkshops struct {
	reqs []models.WorkshopRequest
}

func (f *fakeWorkshops) Create(_ context.Context, r *models.WorkshopRequest) error {
	r.ID = primitive.NewObjectID()
	f.reqs = append(f.reqs, *r)
	return nil
}

func (f *fakeWorkshops) List(_ context.Context) ([]models.WorkshopRequest, error) {
	return f.reqs, nil
}

// fakeNotifier records what would have been sent.
type fakeNotifier struct {
	mu    sync.Mutex
	sent  []string
	err   error
	reset string
	verif string
}

func (n *fakeNotifier) record(kind string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, kind)
	return n.err
}

func (n *fakeNotifier) SendVerificationEmail(_ context.Context, _, _, token string) error {
	n.verif = token
	return n.record("verify")
}

func (n *fakeNotifier) SendPasswordResetEmail(_ context.Context, _, _, token string) error {
	n.reset = token
	return n.record("reset")
}

func (n *fakeNotifier) SendOrderConfirmationEmail(context.Context, string, string, *models.Order) error {
	return n.record("order_confirmation")
}

func (n *fakeNotifier) SendOrderStatusEmail(context.Context, string, string, *models.Order) error {
	return n.record("order_status")
}

func (n *fakeNotifier) SendAdminInviteEmail(context.Context, string, string, time.Time) error {
	return n.record("admin_invite")
}

func (n *fakeNotifier) SendWorkshopRequestEmail(context.Context, string, *models.WorkshopRequest) error {
	return n.record("workshop_request")
}

// fakeGateway verifies signatures equal to "ok".
type fakeGateway struct {
	configured bool
	created    []float64
}

func (g *fakeGateway) Configured() bool { return g.configured }

func (g *fakeGateway) CreateOrder(_ context.Context, amount float64) (*models.PaymentOrder, error) {
	g.created = append(g.created, amount)
	return &models.PaymentOrder{ID: "order_test", Amount: int64(amount * 100), Currency: "INR", KeyID: "rzp_test"}, nil
}

func (g *fakeGateway) Verify(_, _, signature string) bool { return signature == "ok" }

type fakeImages struct {
	uploaded []string
	deleted  []string
	err      error
}

func (f *fakeImages) Upload(_ context.Context, filename string, _ []byte) (models.ProductImage, error) {
	if f.err != nil {
		return models.ProductImage{}, f.err
	}
	f.uploaded = append(f.uploaded, filename)
	return models.ProductImage{PublicID: "img/" + filename, URL: "https://cdn.test/" + filename}, nil
}

func (f *fakeImages) Delete(_ context.Context, publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return nil
}
