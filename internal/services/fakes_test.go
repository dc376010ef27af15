package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"erp-system/internal/entities"
	"erp-system/internal/repositories"
	"erp-system/pkg/constants"
	apperrors "erp-system/pkg/errors"
	"erp-system/pkg/eventbus"
	"erp-system/pkg/utils"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Fakes embed the repository interface so calls a test does not expect panic.

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

// sharedTx stands in for a live transaction so fakes can record which tx they ran on.
type sharedTx struct {
	pgx.Tx
}

type recordingTxManager struct {
	tx   *sharedTx
	runs int
}

func newRecordingTxManager() *recordingTxManager {
	return &recordingTxManager{tx: &sharedTx{}}
}

func (m *recordingTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	m.runs++
	return fn(m.tx)
}

type fakeUserRepo struct {
	repositories.UserRepositoryInterface
	users map[uint64]*entities.User
	roles map[string][]uint64
}

func newFakeUserRepo(users ...*entities.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[uint64]*entities.User{}, roles: map[string][]uint64{}}
	for _, u := range users {
		r.users[u.ID] = u
		r.roles[u.RoleName] = append(r.roles[u.RoleName], u.ID)
	}
	return r
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uint64) (*entities.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	stored := *user
	stored.ID = uint64(len(r.users) + 100)
	r.users[stored.ID] = &stored
	return &stored, nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uint64) error {
	if _, ok := r.users[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) FindIDsByRoleName(ctx context.Context, tx pgx.Tx, roleName string) ([]uint64, error) {
	return r.roles[roleName], nil
}

type fakeRoleRepo struct {
	repositories.RoleRepositoryInterface
	roles []entities.Role
}

func (r *fakeRoleRepo) FindByID(ctx context.Context, id uint64) (*entities.Role, error) {
	for i := range r.roles {
		if r.roles[i].ID == id {
			return &r.roles[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

type fakeCache struct {
	repositories.CacheRepositoryInterface
	mu     sync.Mutex
	values map[string]string
	ttls   map[string]time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value.(string)
	c.ttls[key] = expiration
	return nil
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
		delete(c.ttls, k)
	}
	return nil
}

func (c *fakeCache) Incr(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := decimal.NewFromString(c.values[key])
	n = n.Add(decimal.NewFromInt(1))
	c.values[key] = n.String()
	return n.IntPart(), nil
}

func (c *fakeCache) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttls[key] = expiration
	return true, nil
}

func (c *fakeCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok, nil
}

type fakeNotificationRepo struct {
	repositories.NotificationRepositoryInterface
	rows []entities.Notification
}

func (r *fakeNotificationRepo) Create(ctx context.Context, tx pgx.Tx, n *entities.Notification) (*entities.Notification, error) {
	saved := *n
	saved.ID = uint64(len(r.rows) + 1)
	r.rows = append(r.rows, saved)
	return &saved, nil
}

func (r *fakeNotificationRepo) FindByID(ctx context.Context, id uint64) (*entities.Notification, error) {
	for i := range r.rows {
		if r.rows[i].ID == id {
			return &r.rows[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id uint64) error {
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows[i].IsRead = true
			return nil
		}
	}
	return apperrors.ErrNotFound
}

type recordingPublisher struct {
	events []eventbus.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event eventbus.Event) {
	p.events = append(p.events, event)
}

type fakeMRFRepo struct {
	repositories.MRFRepositoryInterface
	forms   map[uint64]*entities.MaterialRequestForm
	decided []entities.MaterialRequestForm
	queries []repositories.MRFQuery
}

func newFakeMRFRepo() *fakeMRFRepo {
	return &fakeMRFRepo{forms: map[uint64]*entities.MaterialRequestForm{}}
}

func (r *fakeMRFRepo) NextNumber(ctx context.Context, tx pgx.Tx) (string, error) {
	return "MRF0001", nil
}

func (r *fakeMRFRepo) Create(ctx context.Context, tx pgx.Tx, mrf *entities.MaterialRequestForm) (uint64, error) {
	id := uint64(len(r.forms) + 1)
	stored := *mrf
	stored.ID = id
	r.forms[id] = &stored
	return id, nil
}

func (r *fakeMRFRepo) ReplaceItems(ctx context.Context, tx pgx.Tx, mrfID uint64, items []entities.MRFItem) error {
	r.forms[mrfID].Items = items
	return nil
}

func (r *fakeMRFRepo) UpdateHeader(ctx context.Context, tx pgx.Tx, mrf *entities.MaterialRequestForm) error {
	stored := *mrf
	r.forms[mrf.ID] = &stored
	return nil
}

func (r *fakeMRFRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaterialRequestForm, error) {
	mrf, ok := r.forms[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *mrf
	return &cp, nil
}

func (r *fakeMRFRepo) Decide(ctx context.Context, tx pgx.Tx, mrf *entities.MaterialRequestForm) error {
	stored := *mrf
	r.forms[mrf.ID] = &stored
	r.decided = append(r.decided, stored)
	return nil
}

func (r *fakeMRFRepo) List(ctx context.Context, q repositories.MRFQuery) ([]entities.MaterialRequestForm, error) {
	r.queries = append(r.queries, q)
	return nil, nil
}

func (r *fakeMRFRepo) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	delete(r.forms, id)
	return nil
}

type fakeProjectRepo struct {
	repositories.ProjectRepositoryInterface
	projects map[uint64]*entities.Project
	assigned map[uint64][]uint64
}

func (r *fakeProjectRepo) IsEmployeeAssigned(ctx context.Context, projectID, employeeID uint64) (bool, error) {
	for _, id := range r.assigned[projectID] {
		if id == employeeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeProjectRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return p, nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, tx pgx.Tx, project *entities.Project) error {
	stored := *project
	r.projects[project.ID] = &stored
	return nil
}

type fakeTimesheetRepo struct {
	repositories.TimesheetRepositoryInterface
	saved []entities.Timesheet
}

func (r *fakeTimesheetRepo) Upsert(ctx context.Context, ts *entities.Timesheet) (*entities.Timesheet, error) {
	stored := *ts
	stored.ID = uint64(len(r.saved) + 1)
	r.saved = append(r.saved, stored)
	return &stored, nil
}

type fakeInventoryRepo struct {
	repositories.InventoryRepositoryInterface
	items map[uint64]*entities.Inventory
	txs   []pgx.Tx
}

func (r *fakeInventoryRepo) FindByCode(ctx context.Context, tx pgx.Tx, code string) (*entities.Inventory, error) {
	r.txs = append(r.txs, tx)
	for _, inv := range r.items {
		if inv.InventoryID == code {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeInventoryRepo) NextCode(ctx context.Context, tx pgx.Tx) (string, error) {
	r.txs = append(r.txs, tx)
	return fmt.Sprintf("INV%04d", len(r.items)+1), nil
}

func (r *fakeInventoryRepo) Create(ctx context.Context, tx pgx.Tx, item *entities.Inventory) (*entities.Inventory, error) {
	r.txs = append(r.txs, tx)
	stored := *item
	stored.ID = uint64(len(r.items) + 1)
	r.items[stored.ID] = &stored
	return &stored, nil
}

func (r *fakeInventoryRepo) Update(ctx context.Context, tx pgx.Tx, item *entities.Inventory) error {
	r.txs = append(r.txs, tx)
	if _, ok := r.items[item.ID]; !ok {
		return apperrors.ErrNotFound
	}
	stored := *item
	r.items[item.ID] = &stored
	return nil
}

func (r *fakeInventoryRepo) DeleteByCode(ctx context.Context, tx pgx.Tx, code string) error {
	r.txs = append(r.txs, tx)
	for id, inv := range r.items {
		if inv.InventoryID == code {
			delete(r.items, id)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

type fakeInventoryRequestRepo struct {
	repositories.InventoryRequestRepositoryInterface
	requests map[uint64]*entities.InventoryRequest
	txs      []pgx.Tx
}

func (r *fakeInventoryRequestRepo) Create(ctx context.Context, req *entities.InventoryRequest) (*entities.InventoryRequest, error) {
	stored := *req
	stored.ID = uint64(len(r.requests) + 1)
	r.requests[stored.ID] = &stored
	cp := stored
	return &cp, nil
}

func (r *fakeInventoryRequestRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.InventoryRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *req
	return &cp, nil
}

func (r *fakeInventoryRequestRepo) Decide(ctx context.Context, tx pgx.Tx, req *entities.InventoryRequest) error {
	r.txs = append(r.txs, tx)
	stored := *req
	r.requests[req.ID] = &stored
	return nil
}

func (r *fakeInventoryRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Inventory, error) {
	inv, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return inv, nil
}

func (r *fakeInventoryRepo) AdjustQuantity(ctx context.Context, tx pgx.Tx, id uint64, delta int) error {
	inv, ok := r.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	inv.Quantity += delta
	inv.RecalculateTotal()
	return nil
}

type fakeProjectInventoryRepo struct {
	repositories.ProjectInventoryRepositoryInterface
	items map[uint64]*entities.ProjectInventoryItem
}

func (r *fakeProjectInventoryRepo) Create(ctx context.Context, tx pgx.Tx, item *entities.ProjectInventoryItem) (uint64, error) {
	id := uint64(len(r.items) + 1)
	stored := *item
	stored.ID = id
	r.items[id] = &stored
	return id, nil
}

func (r *fakeProjectInventoryRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.ProjectInventoryItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return item, nil
}

func (r *fakeProjectInventoryRepo) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	delete(r.items, id)
	return nil
}

func (r *fakeProjectInventoryRepo) MarkPOCreated(ctx context.Context, tx pgx.Tx, id uint64) error {
	item, ok := r.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	item.POCreated = true
	return nil
}

type fakePORepo struct {
	repositories.PurchaseOrderRepositoryInterface
	orders   map[uint64]*entities.PurchaseOrder
	items    map[uint64][]entities.PurchaseOrderItem
	requests map[uint64]*entities.PurchaseOrderRequest
}

func newFakePORepo() *fakePORepo {
	return &fakePORepo{
		orders:   map[uint64]*entities.PurchaseOrder{},
		items:    map[uint64][]entities.PurchaseOrderItem{},
		requests: map[uint64]*entities.PurchaseOrderRequest{},
	}
}

func (r *fakePORepo) Create(ctx context.Context, tx pgx.Tx, po *entities.PurchaseOrder) (uint64, error) {
	id := uint64(len(r.orders) + 1)
	stored := *po
	stored.ID = id
	stored.Items = nil
	r.orders[id] = &stored
	return id, nil
}

func (r *fakePORepo) CreateItems(ctx context.Context, tx pgx.Tx, poID uint64, items []entities.PurchaseOrderItem) error {
	r.items[poID] = append([]entities.PurchaseOrderItem(nil), items...)
	return nil
}

func (r *fakePORepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.PurchaseOrder, error) {
	po, ok := r.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *po
	return &cp, nil
}

func (r *fakePORepo) GetItems(ctx context.Context, poID uint64) ([]entities.PurchaseOrderItem, error) {
	return r.items[poID], nil
}

func (r *fakePORepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status constants.POStatus, actualDelivery *time.Time, notes *string) error {
	po, ok := r.orders[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	po.Status = status
	po.ActualDeliveryDate = actualDelivery
	return nil
}

func (r *fakePORepo) SetApproved(ctx context.Context, tx pgx.Tx, id uint64) error {
	r.orders[id].IsApproved = true
	return nil
}

func (r *fakePORepo) Delete(ctx context.Context, id uint64) error {
	delete(r.orders, id)
	delete(r.items, id)
	return nil
}

func (r *fakePORepo) SumApprovedByProject(ctx context.Context, tx pgx.Tx, projectID uint64) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, po := range r.orders {
		if po.ProjectID == projectID && po.IsApproved {
			sum = sum.Add(po.TotalAmount)
		}
	}
	return sum, nil
}

func (r *fakePORepo) CreateRequest(ctx context.Context, tx pgx.Tx, req *entities.PurchaseOrderRequest) (uint64, error) {
	id := uint64(len(r.requests) + 1)
	stored := *req
	stored.ID = id
	r.requests[id] = &stored
	return id, nil
}

func (r *fakePORepo) FindRequestByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.PurchaseOrderRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *req
	return &cp, nil
}

func (r *fakePORepo) DecideRequest(ctx context.Context, tx pgx.Tx, req *entities.PurchaseOrderRequest) error {
	stored := *req
	r.requests[req.ID] = &stored
	return nil
}

type fakeEmployeeRepo struct {
	repositories.EmployeeRepositoryInterface
	employees map[uint64]*entities.Employee
}

func (r *fakeEmployeeRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return e, nil
}

func (r *fakeEmployeeRepo) IdentityTaken(ctx context.Context, tx pgx.Tx, empID, passportID, emiratesID string) (bool, error) {
	for _, e := range r.employees {
		if e.EmpID == empID || e.PassportID == passportID || e.EmiratesID == emiratesID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEmployeeRepo) Create(ctx context.Context, tx pgx.Tx, employee *entities.Employee) (*entities.Employee, error) {
	stored := *employee
	stored.ID = uint64(len(r.employees) + 100)
	r.employees[stored.ID] = &stored
	return &stored, nil
}

type fakeEmployeeRequestRepo struct {
	repositories.EmployeeRequestRepositoryInterface
	requests map[uint64]*entities.EmployeeRequest
}

func (r *fakeEmployeeRequestRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.EmployeeRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *req
	return &cp, nil
}

func (r *fakeEmployeeRequestRepo) IdentityTaken(ctx context.Context, empID, passportID, emiratesID string) (bool, error) {
	for _, req := range r.requests {
		if req.Status == constants.StatusRejected {
			continue
		}
		if req.EmpID == empID || req.PassportID == passportID || req.EmiratesID == emiratesID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEmployeeRequestRepo) Create(ctx context.Context, tx pgx.Tx, req *entities.EmployeeRequest) (uint64, error) {
	id := uint64(len(r.requests) + 1)
	stored := *req
	stored.ID = id
	r.requests[id] = &stored
	return id, nil
}

func (r *fakeEmployeeRequestRepo) Decide(ctx context.Context, tx pgx.Tx, req *entities.EmployeeRequest) error {
	stored := *req
	r.requests[req.ID] = &stored
	return nil
}

// httpCode returns the status carried by err, or 0 when err is not an HttpError.
func httpCode(err error) int {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	return 0
}

// actorCtx returns a request context for user with the given grants.
func actorCtx(user *entities.User, permissions ...string) context.Context {
	perms := make(map[string]bool, len(permissions))
	for _, p := range permissions {
		perms[p] = true
	}
	return utils.WithActor(context.Background(), user.ID, user.RoleID, perms)
}
