package usecase

import (
	"context"
	"sync"
	"time"

	"shopline/internal/data/entity"
	"shopline/internal/data/repository"
	"shopline/internal/otp"
	"shopline/pkg/utils"

	"github.com/google/uuid"
)

// --- in-memory fakes for the repository layer ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByPhone(ctx context.Context, phone string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Phone == phone {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Verify(ctx context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.VerificationToken != nil && *u.VerificationToken == token {
			u.Verified = true
			u.VerificationToken = nil
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) EnableTwoFactor(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.TwoFactorEnabled = true
	}
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*entity.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*entity.Session)}
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.Token.String()] = session
	return nil
}

func (f *fakeSessionRepo) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[token]
	if !ok || s.ExpiresAt.Before(time.Now()) {
		return nil, nil
	}
	return s, nil
}

func (f *fakeSessionRepo) Revoke(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, token)
	return nil
}

func (f *fakeSessionRepo) RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for token, s := range f.sessions {
		if s.UserID == userID {
			delete(f.sessions, token)
		}
	}
	return nil
}

type fakeAddressRepo struct {
	mu        sync.Mutex
	addresses map[uuid.UUID]*entity.Address
}

func newFakeAddressRepo() *fakeAddressRepo {
	return &fakeAddressRepo{addresses: make(map[uuid.UUID]*entity.Address)}
}

func (f *fakeAddressRepo) Create(ctx context.Context, address *entity.Address) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addresses[address.ID] = address
	return nil
}

func (f *fakeAddressRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addresses[id], nil
}

func (f *fakeAddressRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Address
	for _, a := range f.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*entity.Product
	random   []*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
}

func (f *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id], nil
}

func (f *fakeProductRepo) FindAll(ctx context.Context, limit, offset int, search *string) ([]*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Product
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductRepo) CountAll(ctx context.Context, search *string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.products)), nil
}

func (f *fakeProductRepo) Search(ctx context.Context, query string) ([]*entity.Product, error) {
	return f.FindAll(ctx, 0, 0, nil)
}

func (f *fakeProductRepo) FindRandom(ctx context.Context, n int, exclude []uuid.UUID) ([]*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.random != nil {
		return f.random, nil
	}
	excluded := make(map[uuid.UUID]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}
	var out []*entity.Product
	for _, p := range f.products {
		if excluded[p.ID] {
			continue
		}
		if len(out) >= n {
			break
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[product.ID] = product
	return nil
}

type fakeCartRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]map[uuid.UUID]*entity.CartItem // user -> product -> line
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{items: make(map[uuid.UUID]map[uuid.UUID]*entity.CartItem)}
}

func (f *fakeCartRepo) AddItem(ctx context.Context, item *entity.CartItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.items[item.UserID] == nil {
		f.items[item.UserID] = make(map[uuid.UUID]*entity.CartItem)
	}
	if existing, ok := f.items[item.UserID][item.ProductID]; ok {
		existing.Quantity++
		return nil
	}
	f.items[item.UserID][item.ProductID] = item
	return nil
}

func (f *fakeCartRepo) Increase(ctx context.Context, userID, productID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if line, ok := f.items[userID][productID]; ok {
		line.Quantity++
	}
	return nil
}

func (f *fakeCartRepo) Decrease(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	line, ok := f.items[userID][productID]
	if !ok {
		return false, nil
	}
	if line.Quantity > 1 {
		line.Quantity--
		return false, nil
	}
	delete(f.items[userID], productID)
	return true, nil
}

func (f *fakeCartRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.CartItem
	for _, line := range f.items[userID] {
		out = append(out, line)
	}
	return out, nil
}

func (f *fakeCartRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.CartItem
	for _, lines := range f.items {
		for _, line := range lines {
			out = append(out, line)
		}
	}
	return out, nil
}

func (f *fakeCartRepo) CountAll(ctx context.Context) (int64, error) {
	items, _ := f.FindAll(ctx, 0, 0)
	return int64(len(items)), nil
}

// fakeOrderRepo is scripted rather than simulated: tests set the outcome of
// PlaceOrder and SetPaid directly.
type fakeOrderRepo struct {
	mu sync.Mutex

	placeErr    error
	placeItems  []*entity.OrderItem
	placeTotal  float64
	placedOrder *entity.Order

	orders map[string]*entity.Order // keyed by public order ID

	setPaidOK  bool
	setPaidErr error

	due          []*repository.DeliveryDueOrder
	deliveredIDs []uuid.UUID
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*entity.Order), setPaidOK: true}
}

func (f *fakeOrderRepo) PlaceOrder(ctx context.Context, order *entity.Order) ([]*entity.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.placeErr != nil {
		return nil, f.placeErr
	}
	order.TotalAmount = f.placeTotal
	f.placedOrder = order
	f.orders[order.OrderID] = order
	return f.placeItems, nil
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, nil
}

func (f *fakeOrderRepo) FindByOrderID(ctx context.Context, orderID string) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[orderID], nil
}

func (f *fakeOrderRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	orders, _ := f.FindByUserID(ctx, userID, 0, 0)
	return int64(len(orders)), nil
}

func (f *fakeOrderRepo) FindItems(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderItem, error) {
	return f.placeItems, nil
}

func (f *fakeOrderRepo) SetPaid(ctx context.Context, id uuid.UUID, method entity.PaymentMethod) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setPaidErr != nil {
		return false, f.setPaidErr
	}
	if f.setPaidOK {
		for _, o := range f.orders {
			if o.ID == id {
				o.Status = entity.OrderStatusPaid
				o.PaymentMethod = &method
			}
		}
	}
	return f.setPaidOK, nil
}

func (f *fakeOrderRepo) FindDeliveryDue(ctx context.Context) ([]*repository.DeliveryDueOrder, error) {
	return f.due, nil
}

func (f *fakeOrderRepo) MarkDelivered(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deliveredIDs = append(f.deliveredIDs, id)
	return true, nil
}

func (f *fakeOrderRepo) FindAll(ctx context.Context, limit, offset int, status *string, search *string) ([]*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Order
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrderRepo) CountAll(ctx context.Context, status *string, search *string) (int64, error) {
	orders, _ := f.FindAll(ctx, 0, 0, nil, nil)
	return int64(len(orders)), nil
}

type fakeReturnRepo struct {
	mu      sync.Mutex
	returns []*entity.ReturnRequest
}

func (f *fakeReturnRepo) Create(ctx context.Context, req *entity.ReturnRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.returns = append(f.returns, req)
	return nil
}

func (f *fakeReturnRepo) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*entity.ReturnRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.ReturnRequest
	for _, r := range f.returns {
		if r.OrderID == orderID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReturnRepo) FindAll(ctx context.Context, limit, offset int, status *string) ([]*entity.ReturnRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.returns, nil
}

func (f *fakeReturnRepo) CountAll(ctx context.Context, status *string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.returns)), nil
}

type fakeRatingRepo struct {
	mu      sync.Mutex
	ratings []*entity.Rating
}

func (f *fakeRatingRepo) Upsert(ctx context.Context, rating *entity.Rating) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.ratings {
		if r.UserID == rating.UserID && r.ProductID == rating.ProductID {
			f.ratings[i] = rating
			return nil
		}
	}
	f.ratings = append(f.ratings, rating)
	return nil
}

func (f *fakeRatingRepo) FindAll(ctx context.Context) ([]*entity.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ratings, nil
}

func (f *fakeRatingRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Rating
	for _, r := range f.ratings {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

// --- fakes for the OTP store and the event producer ---

type fakeOTPStore struct {
	mu      sync.Mutex
	pending map[uuid.UUID]otp.PendingLogin
	setup   map[uuid.UUID]string
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{
		pending: make(map[uuid.UUID]otp.PendingLogin),
		setup:   make(map[uuid.UUID]string),
	}
}

func (f *fakeOTPStore) SetPendingLogin(ctx context.Context, loginID uuid.UUID, pending otp.PendingLogin, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending[loginID] = pending
	return nil
}

func (f *fakeOTPStore) GetPendingLogin(ctx context.Context, loginID uuid.UUID) (*otp.PendingLogin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pending[loginID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeOTPStore) InvalidatePendingLogin(ctx context.Context, loginID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.pending, loginID)
	return nil
}

func (f *fakeOTPStore) SetSetupCode(ctx context.Context, userID uuid.UUID, code string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setup[userID] = code
	return nil
}

func (f *fakeOTPStore) GetSetupCode(ctx context.Context, userID uuid.UUID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.setup[userID], nil
}

func (f *fakeOTPStore) InvalidateSetupCode(ctx context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.setup, userID)
	return nil
}

type publishedEvent struct {
	eventType string
	key       string
	payload   any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (f *fakePublisher) Publish(eventType string, key string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{eventType: eventType, key: key, payload: payload})
}

func (f *fakePublisher) byType(eventType string) []publishedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []publishedEvent
	for _, e := range f.events {
		if e.eventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

type fakeRecommender struct {
	products []*entity.Product
	source   string
	err      error
}

func (f *fakeRecommender) RecommendForUser(ctx context.Context, userID uuid.UUID, exclude []uuid.UUID) ([]*entity.Product, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return f.products, f.source, nil
}

// --- shared test wiring ---

func newTestRepository() *repository.Repository {
	return &repository.Repository{
		User:    newFakeUserRepo(),
		Session: newFakeSessionRepo(),
		Address: newFakeAddressRepo(),
		Product: newFakeProductRepo(),
		Cart:    newFakeCartRepo(),
		Order:   newFakeOrderRepo(),
		Return:  &fakeReturnRepo{},
		Rating:  &fakeRatingRepo{},
	}
}

func newTestConfig() *utils.Config {
	return &utils.Config{
		App: utils.AppConfig{
			Name:          "shopline-test",
			BaseURL:       "http://localhost:8080",
			DefaultRegion: "IN",
		},
		OTP: utils.OTPConfig{ExpiryMinutes: 10, Length: 6},
		Delivery: utils.DeliveryConfig{
			Timezone:       "UTC",
			MinLeadMinutes: 1,
		},
		Recommender: utils.RecommenderConfig{Neighbors: 20, TopN: 4},
	}
}
