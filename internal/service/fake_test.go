package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/saod-ux/saas-project-sub000/internal/domain"
	"github.com/saod-ux/saas-project-sub000/internal/tenant"
)

// memState is one tenant's rows.
type memState struct {
	products    map[uuid.UUID]domain.Product
	categories  map[uuid.UUID]domain.Category
	orders      map[uuid.UUID]domain.Order
	carts       map[uuid.UUID]domain.Cart
	memberships map[uuid.UUID]domain.Membership
	orderSeq    int
}

func newMemState() *memState {
	return &memState{
		products:    make(map[uuid.UUID]domain.Product),
		categories:  make(map[uuid.UUID]domain.Category),
		orders:      make(map[uuid.UUID]domain.Order),
		carts:       make(map[uuid.UUID]domain.Cart),
		memberships: make(map[uuid.UUID]domain.Membership),
	}
}

func (s *memState) clone() *memState {
	return &memState{
		products:    maps.Clone(s.products),
		categories:  maps.Clone(s.categories),
		orders:      maps.Clone(s.orders),
		carts:       maps.Clone(s.carts),
		memberships: maps.Clone(s.memberships),
		orderSeq:    s.orderSeq,
	}
}

// memDB gives each transaction a private copy of the tenant's rows and
// publishes it only on success.
type memDB struct {
	mu      sync.Mutex
	tenants map[uuid.UUID]*memState
	failOn  string
	txCount int
	locks   []string
}

func newMemDB() *memDB {
	return &memDB{tenants: make(map[uuid.UUID]*memState)}
}

func (db *memDB) state(tenantID uuid.UUID) *memState {
	db.mu.Lock()
	defer db.mu.Unlock()
	s, ok := db.tenants[tenantID]
	if !ok {
		s = newMemState()
		db.tenants[tenantID] = s
	}
	return s
}

func (db *memDB) InTenant(ctx context.Context, tenantID uuid.UUID, fn func(tx Tx) error) error {
	db.mu.Lock()
	db.txCount++
	s, ok := db.tenants[tenantID]
	if !ok {
		s = newMemState()
		db.tenants[tenantID] = s
	}
	work := s.clone()
	db.mu.Unlock()

	tx := &memTx{db: db, state: work, tenantID: tenantID, failOn: db.failOn}
	if err := fn(tx); err != nil {
		return err
	}

	db.mu.Lock()
	db.tenants[tenantID] = work
	db.mu.Unlock()
	return nil
}

var errInjected = errors.New("injected store failure")

type memTx struct {
	db       *memDB
	state    *memState
	tenantID uuid.UUID
	failOn   string
}

// lock records the advisory lock key the transaction took.
func (tx *memTx) lock(key string) {
	tx.db.mu.Lock()
	defer tx.db.mu.Unlock()
	tx.db.locks = append(tx.db.locks, key)
}

func (db *memDB) takenLocks() []string {
	db.mu.Lock()
	defer db.mu.Unlock()
	return slices.Clone(db.locks)
}

func (tx *memTx) fail(op string) error {
	if tx.failOn == op {
		return errInjected
	}
	return nil
}

func (tx *memTx) CountProducts(ctx context.Context) (int, error) {
	if err := tx.fail("CountProducts"); err != nil {
		return 0, err
	}
	return len(tx.state.products), nil
}

func (tx *memTx) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := tx.state.products[id]
	if !ok {
		return nil, domain.NotFound("product.get", "product", id.String())
	}
	return &p, nil
}

func (tx *memTx) GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	for _, p := range tx.state.products {
		if p.SKU != nil && *p.SKU == sku {
			return &p, nil
		}
	}
	return nil, domain.NotFound("product.get_by_sku", "product", sku)
}

func (tx *memTx) GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	c, ok := tx.state.categories[id]
	if !ok {
		return nil, domain.NotFound("category.get", "category", id.String())
	}
	return &c, nil
}

func (tx *memTx) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	for _, c := range tx.state.categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, domain.NotFound("category.get_by_slug", "category", slug)
}

func (tx *memTx) CountChildCategories(ctx context.Context, id uuid.UUID) (int, error) {
	n := 0
	for _, c := range tx.state.categories {
		if c.ParentID != nil && *c.ParentID == id {
			n++
		}
	}
	return n, nil
}

func (tx *memTx) CountCategoryProducts(ctx context.Context, id uuid.UUID) (int, error) {
	n := 0
	for _, p := range tx.state.products {
		for _, cid := range p.CategoryIDs {
			if cid == id {
				n++
			}
		}
	}
	return n, nil
}

func (tx *memTx) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	o, ok := tx.state.orders[id]
	if !ok {
		return nil, domain.NotFound("order.get", "order", id.String())
	}
	return &o, nil
}

func (tx *memTx) LockCatalog(ctx context.Context) error { return nil }

func (tx *memTx) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error) {
	var out []domain.Product
	for _, p := range tx.state.products {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, len(out), nil
}

func (tx *memTx) LockProducts(ctx context.Context, ids []uuid.UUID) error {
	return tx.fail("LockProducts")
}

func (tx *memTx) CreateProduct(ctx context.Context, p *domain.Product) error {
	tx.state.products[p.ID] = *p
	return nil
}

func (tx *memTx) UpdateProduct(ctx context.Context, p *domain.Product) error {
	if _, ok := tx.state.products[p.ID]; !ok {
		return domain.NotFound("product.update", "product", p.ID.String())
	}
	tx.state.products[p.ID] = *p
	return nil
}

func (tx *memTx) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, ok := tx.state.products[id]; !ok {
		return domain.NotFound("product.delete", "product", id.String())
	}
	delete(tx.state.products, id)
	return nil
}

func (tx *memTx) DecrementInventory(ctx context.Context, id uuid.UUID, quantity int) error {
	if err := tx.fail("DecrementInventory"); err != nil {
		return err
	}
	p := tx.state.products[id]
	p.Inventory.Quantity -= quantity
	tx.state.products[id] = p
	return nil
}

func (tx *memTx) ListCategories(ctx context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(tx.state.categories))
	for _, c := range tx.state.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (tx *memTx) CreateCategory(ctx context.Context, c *domain.Category) error {
	tx.state.categories[c.ID] = *c
	return nil
}

func (tx *memTx) UpdateCategory(ctx context.Context, c *domain.Category) error {
	tx.state.categories[c.ID] = *c
	return nil
}

func (tx *memTx) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	delete(tx.state.categories, id)
	return nil
}

func (tx *memTx) CreateOrder(ctx context.Context, o *domain.Order) error {
	tx.state.orderSeq++
	o.Number = fmt.Sprintf("ORD-%06d", tx.state.orderSeq)
	tx.state.orders[o.ID] = *o
	return nil
}

func (tx *memTx) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int, error) {
	var out []domain.Order
	for _, o := range tx.state.orders {
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		out = append(out, o)
	}
	return out, len(out), nil
}

func (tx *memTx) LockOrder(ctx context.Context, id uuid.UUID) error { return nil }

func (tx *memTx) LockCart(ctx context.Context, id uuid.UUID) error {
	if err := tx.fail("LockCart"); err != nil {
		return err
	}
	tx.lock("cart:" + id.String())
	return nil
}

func (tx *memTx) LockMembers(ctx context.Context) error {
	if err := tx.fail("LockMembers"); err != nil {
		return err
	}
	tx.lock("members")
	return nil
}

func (tx *memTx) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	o := tx.state.orders[id]
	o.Status = status
	tx.state.orders[id] = o
	return nil
}

func (tx *memTx) GetCart(ctx context.Context, id uuid.UUID) (*domain.Cart, error) {
	c, ok := tx.state.carts[id]
	if !ok {
		return nil, domain.NotFound("cart.get", "cart", id.String())
	}
	c.Items = append([]domain.CartItem(nil), c.Items...)
	return &c, nil
}

func (tx *memTx) SaveCart(ctx context.Context, c *domain.Cart) error {
	stored := *c
	stored.Items = append([]domain.CartItem(nil), c.Items...)
	tx.state.carts[c.ID] = stored
	return nil
}

func (tx *memTx) GetMembership(ctx context.Context, userID uuid.UUID) (*domain.Membership, error) {
	m, ok := tx.state.memberships[userID]
	if !ok {
		return nil, domain.NotFound("membership.get", "membership", userID.String())
	}
	return &m, nil
}

func (tx *memTx) ListMemberships(ctx context.Context) ([]domain.Membership, error) {
	out := make([]domain.Membership, 0, len(tx.state.memberships))
	for _, m := range tx.state.memberships {
		out = append(out, m)
	}
	return out, nil
}

func (tx *memTx) SaveMembership(ctx context.Context, m *domain.Membership) error {
	tx.state.memberships[m.UserID] = *m
	return nil
}

// mockDirectory is a func-field mock of the platform directory.
type mockDirectory struct {
	getTenantBySlugFunc func(ctx context.Context, slug string) (*domain.Tenant, error)
	getTenantByIDFunc   func(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
	createTenantFunc    func(ctx context.Context, t *domain.Tenant, owner *domain.Membership) error
	updateTenantFunc    func(ctx context.Context, t *domain.Tenant) error
	purgeTenantFunc     func(ctx context.Context, id uuid.UUID) error
	getUserFunc         func(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

func (m *mockDirectory) GetTenantBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	if m.getTenantBySlugFunc != nil {
		return m.getTenantBySlugFunc(ctx, slug)
	}
	return nil, domain.NotFound("tenant.get", "tenant", slug)
}

func (m *mockDirectory) GetTenantByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	if m.getTenantByIDFunc != nil {
		return m.getTenantByIDFunc(ctx, id)
	}
	return nil, domain.NotFound("tenant.get", "tenant", id.String())
}

func (m *mockDirectory) CreateTenant(ctx context.Context, t *domain.Tenant, owner *domain.Membership) error {
	if m.createTenantFunc != nil {
		return m.createTenantFunc(ctx, t, owner)
	}
	return nil
}

func (m *mockDirectory) UpdateTenant(ctx context.Context, t *domain.Tenant) error {
	if m.updateTenantFunc != nil {
		return m.updateTenantFunc(ctx, t)
	}
	return nil
}

func (m *mockDirectory) PurgeTenant(ctx context.Context, id uuid.UUID) error {
	if m.purgeTenantFunc != nil {
		return m.purgeTenantFunc(ctx, id)
	}
	return nil
}

func (m *mockDirectory) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.getUserFunc != nil {
		return m.getUserFunc(ctx, id)
	}
	return &domain.User{ID: id, Email: "owner@acme.test"}, nil
}

type mockCustomers struct {
	findOrCreateGuestFunc func(ctx context.Context, tenantID uuid.UUID, email, name, phone string) (*domain.TenantUser, error)
	getFunc               func(ctx context.Context, tenantID, id uuid.UUID) (*domain.TenantUser, error)
	listFunc              func(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]domain.TenantUser, error)
	countFunc             func(ctx context.Context, tenantID uuid.UUID) (int, error)
	linkFunc              func(ctx context.Context, tenantID, id, userID uuid.UUID) (*domain.TenantUser, error)
}

func (m *mockCustomers) FindOrCreateGuest(ctx context.Context, tenantID uuid.UUID, email, name, phone string) (*domain.TenantUser, error) {
	if m.findOrCreateGuestFunc != nil {
		return m.findOrCreateGuestFunc(ctx, tenantID, email, name, phone)
	}
	return &domain.TenantUser{ID: uuid.New(), TenantID: tenantID, Email: email, Name: name, Guest: true}, nil
}

func (m *mockCustomers) Get(ctx context.Context, tenantID, id uuid.UUID) (*domain.TenantUser, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, tenantID, id)
	}
	return nil, domain.NotFound("customer.get", "customer", id.String())
}

func (m *mockCustomers) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]domain.TenantUser, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, tenantID, limit, offset)
	}
	return nil, nil
}

func (m *mockCustomers) Count(ctx context.Context, tenantID uuid.UUID) (int, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, tenantID)
	}
	return 0, nil
}

func (m *mockCustomers) Link(ctx context.Context, tenantID, id, userID uuid.UUID) (*domain.TenantUser, error) {
	if m.linkFunc != nil {
		return m.linkFunc(ctx, tenantID, id, userID)
	}
	return &domain.TenantUser{ID: id, TenantID: tenantID, UserID: &userID}, nil
}

type countingRecorder struct {
	violations []string
}

func (r *countingRecorder) RuleViolation(family, code string) {
	r.violations = append(r.violations, family+":"+code)
}

type recordingInvalidator struct {
	invalidated []string
}

func (r *recordingInvalidator) InvalidateTenant(t *domain.Tenant) {
	r.invalidated = append(r.invalidated, t.Slug)
}

type recordingPublisher struct {
	changes []tenant.Change
	err     error
}

func (p *recordingPublisher) Publish(ctx context.Context, ch tenant.Change) error {
	p.changes = append(p.changes, ch)
	return p.err
}

func tenantCtx(plan domain.Plan) (context.Context, *domain.Tenant) {
	t := &domain.Tenant{
		ID:     uuid.New(),
		Slug:   "acme",
		Name:   "Acme",
		Plan:   plan,
		Status: domain.TenantStatusActive,
	}
	return tenant.NewContext(context.Background(), t), t
}
