package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"catalog-api/internal/event"
	"catalog-api/internal/model"
)

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newFakeUsers(seed ...model.User) *fakeUsers {
	f := &fakeUsers{users: map[string]model.User{}}
	for _, u := range seed {
		f.users[u.ID] = u
	}
	return f
}

func public(u model.User) model.User {
	u.PasswordHash = ""
	u.ResetPasswordToken = nil
	u.ResetPasswordExpire = nil
	return u
}

func (f *fakeUsers) byEmail(email string) (model.User, bool) {
	for _, u := range f.users {
		if u.Email == normalizeEmail(email) {
			return u, true
		}
	}
	return model.User{}, false
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return public(u), nil
}

func (f *fakeUsers) FindByEmailWithPassword(_ context.Context, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail(email)
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	u.ResetPasswordToken = nil
	u.ResetPasswordExpire = nil
	return u, nil
}

func (f *fakeUsers) FindIDByEmail(_ context.Context, email string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail(email)
	if !ok {
		return "", model.ErrNotFound
	}
	return u.ID, nil
}

func (f *fakeUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byEmail(email)
	return ok, nil
}

func (f *fakeUsers) List(context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, public(u))
	}
	return out, nil
}

func (f *fakeUsers) Create(_ context.Context, u model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail(u.Email); ok {
		return &pgconn.PgError{Code: "23505", Detail: "Key (email)=(" + u.Email + ") already exists."}
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUsers) Update(_ context.Context, id string, upd model.UserUpdate) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	f.users[id] = u
	return public(u), nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return model.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUsers) SetResetToken(_ context.Context, userID string, tokenHash string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return model.ErrNotFound
	}
	u.ResetPasswordToken = &tokenHash
	u.ResetPasswordExpire = &expiresAt
	f.users[userID] = u
	return nil
}

func (f *fakeUsers) FindByResetToken(_ context.Context, tokenHash string, now time.Time) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ResetPasswordToken != nil && *u.ResetPasswordToken == tokenHash &&
			u.ResetPasswordExpire != nil && u.ResetPasswordExpire.After(now) {
			return public(u), nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (f *fakeUsers) ResetPassword(_ context.Context, userID string, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return model.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetPasswordToken = nil
	u.ResetPasswordExpire = nil
	f.users[userID] = u
	return nil
}

func (f *fakeUsers) raw(id string) model.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id]
}

type fakeTokens struct {
	issued []string
}

func (f *fakeTokens) Issue(userID string) (string, time.Time, error) {
	f.issued = append(f.issued, userID)
	return "token-for-" + userID, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), nil
}

type fakeProducts struct {
	mu       sync.Mutex
	products map[string]model.Product
}

func newFakeProducts(seed ...model.Product) *fakeProducts {
	f := &fakeProducts{products: map[string]model.Product{}}
	for _, p := range seed {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProducts) FindByID(_ context.Context, id string) (model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return model.Product{}, model.ErrNotFound
	}
	return p, nil
}

func (f *fakeProducts) Exists(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.products[id]
	return ok, nil
}

func (f *fakeProducts) List(context.Context) ([]model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProducts) Create(_ context.Context, id string, np model.NewProduct, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[id] = model.Product{
		ID:          id,
		Name:        np.Name,
		Description: np.Description,
		Price:       np.Price,
		Image:       np.Image,
		Images:      []string{},
		Quantity:    np.Quantity,
		Category:    model.Ref{ID: np.CategoryID},
		CreatedBy:   model.Ref{ID: np.CreatedBy},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return nil
}

func (f *fakeProducts) Update(_ context.Context, id string, upd model.ProductUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return model.ErrNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.Image != nil {
		p.Image = *upd.Image
	}
	if upd.Images != nil {
		p.Images = slices.Clone(*upd.Images)
	}
	if upd.Quantity != nil {
		p.Quantity = *upd.Quantity
	}
	f.products[id] = p
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return model.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

// fakeCarts enforces the same stock guard as the SQL upsert.
type fakeCarts struct {
	mu       sync.Mutex
	products *fakeProducts
	carts    map[string]*model.Cart
}

func newFakeCarts(products *fakeProducts) *fakeCarts {
	return &fakeCarts{products: products, carts: map[string]*model.Cart{}}
}

func (f *fakeCarts) GetOrCreate(_ context.Context, userID string) (model.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.carts[userID]
	if !ok {
		c = &model.Cart{ID: "cart-" + userID, UserID: userID, Items: []model.CartItem{}}
		f.carts[userID] = c
	}
	out := *c
	out.Items = slices.Clone(c.Items)
	return out, nil
}

func (f *fakeCarts) cartByID(cartID string) *model.Cart {
	for _, c := range f.carts {
		if c.ID == cartID {
			return c
		}
	}
	return nil
}

func (f *fakeCarts) stock(productID string) int {
	p, err := f.products.FindByID(context.Background(), productID)
	if err != nil {
		return 0
	}
	return p.Quantity
}

func (f *fakeCarts) AddItem(_ context.Context, cartID string, productID string, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.cartByID(cartID)
	stock := f.stock(productID)
	for i, it := range c.Items {
		if it.ProductID == productID {
			if it.Quantity+qty > stock {
				return model.ErrInsufficientStock
			}
			c.Items[i].Quantity += qty
			return nil
		}
	}
	if qty > stock {
		return model.ErrInsufficientStock
	}
	c.Items = append(c.Items, model.CartItem{ProductID: productID, Quantity: qty, Stock: stock})
	return nil
}

func (f *fakeCarts) SetItemQuantity(_ context.Context, cartID string, productID string, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.cartByID(cartID)
	for i, it := range c.Items {
		if it.ProductID == productID {
			if qty > f.stock(productID) {
				return model.ErrInsufficientStock
			}
			c.Items[i].Quantity = qty
			return nil
		}
	}
	return model.ErrNotFound
}

func (f *fakeCarts) RemoveItem(_ context.Context, cartID string, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.cartByID(cartID)
	for i, it := range c.Items {
		if it.ProductID == productID {
			c.Items = slices.Delete(c.Items, i, i+1)
			return nil
		}
	}
	return model.ErrNotFound
}

func (f *fakeCarts) Clear(_ context.Context, cartID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cartByID(cartID).Items = []model.CartItem{}
	return nil
}

type fakeTaxonomies struct {
	items map[string]model.Taxonomy
}

func newFakeTaxonomies() *fakeTaxonomies {
	return &fakeTaxonomies{items: map[string]model.Taxonomy{}}
}

func (f *fakeTaxonomies) List(context.Context) ([]model.Taxonomy, error) {
	out := make([]model.Taxonomy, 0, len(f.items))
	for _, t := range f.items {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTaxonomies) FindByID(_ context.Context, id string) (model.Taxonomy, error) {
	t, ok := f.items[id]
	if !ok {
		return model.Taxonomy{}, model.ErrNotFound
	}
	return t, nil
}

func (f *fakeTaxonomies) Exists(_ context.Context, id string) (bool, error) {
	_, ok := f.items[id]
	return ok, nil
}

func (f *fakeTaxonomies) Create(_ context.Context, t model.Taxonomy) error {
	for _, existing := range f.items {
		if existing.Name == t.Name {
			return &pgconn.PgError{Code: "23505", Detail: "Key (name)=(" + t.Name + ") already exists."}
		}
	}
	f.items[t.ID] = t
	return nil
}

func (f *fakeTaxonomies) Update(_ context.Context, id string, upd model.TaxonomyUpdate) (model.Taxonomy, error) {
	t, ok := f.items[id]
	if !ok {
		return model.Taxonomy{}, model.ErrNotFound
	}
	if upd.Name != nil {
		t.Name = *upd.Name
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	f.items[id] = t
	return t, nil
}

func (f *fakeTaxonomies) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return model.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeTaxonomies) ProductSummaries(context.Context, string) ([]model.ProductSummary, error) {
	return []model.ProductSummary{}, nil
}

type fakeDiscarder struct {
	discarded []string
}

func (f *fakeDiscarder) Discard(url string) {
	if url != "" {
		f.discarded = append(f.discarded, url)
	}
}

type fakeConversations struct {
	items    map[string]model.Conversation
	messages []model.Message
}

func newFakeConversations() *fakeConversations {
	return &fakeConversations{items: map[string]model.Conversation{}}
}

func (f *fakeConversations) ListForUser(_ context.Context, userID string) ([]model.Conversation, error) {
	out := []model.Conversation{}
	for _, c := range f.items {
		if c.HasMember(userID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeConversations) FindByID(_ context.Context, id string) (model.Conversation, error) {
	c, ok := f.items[id]
	if !ok {
		return model.Conversation{}, model.ErrNotFound
	}
	return c, nil
}

func (f *fakeConversations) FindDirect(_ context.Context, a string, b string) (model.Conversation, error) {
	for _, c := range f.items {
		if !c.IsGroup && len(c.Users) == 2 && c.HasMember(a) && c.HasMember(b) {
			return c, nil
		}
	}
	return model.Conversation{}, model.ErrNotFound
}

func (f *fakeConversations) Create(_ context.Context, c model.Conversation) error {
	f.items[c.ID] = c
	return nil
}

func (f *fakeConversations) Update(_ context.Context, id string, upd model.ConversationUpdate) (model.Conversation, error) {
	c, ok := f.items[id]
	if !ok {
		return model.Conversation{}, model.ErrNotFound
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Picture != nil {
		c.Picture = *upd.Picture
	}
	if upd.Users != nil {
		c.Users = *upd.Users
	}
	f.items[id] = c
	return c, nil
}

func (f *fakeConversations) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return model.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeConversations) AddMessage(_ context.Context, m model.Message) error {
	c, ok := f.items[m.ConversationID]
	if !ok {
		return model.ErrNotFound
	}
	id := m.ID
	c.LatestMessageID = &id
	f.items[c.ID] = c
	f.messages = append(f.messages, m)
	return nil
}

func (f *fakeConversations) ListMessages(_ context.Context, conversationID string) ([]model.Message, error) {
	out := []model.Message{}
	for _, m := range f.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}

type recordingPublisher struct {
	events []event.Event
}

func (p *recordingPublisher) Publish(e event.Event) {
	p.events = append(p.events, e)
}

type fakeMovies struct {
	items map[string]model.Movie
}

func (f *fakeMovies) List(_ context.Context, trendingOnly bool) ([]model.Movie, error) {
	out := []model.Movie{}
	for _, m := range f.items {
		if !trendingOnly || m.Trending {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMovies) FindByID(_ context.Context, id string) (model.Movie, error) {
	m, ok := f.items[id]
	if !ok {
		return model.Movie{}, model.ErrNotFound
	}
	return m, nil
}

func (f *fakeMovies) Create(_ context.Context, m model.Movie) error {
	f.items[m.ID] = m
	return nil
}

func (f *fakeMovies) Update(_ context.Context, id string, upd model.MovieUpdate) (model.Movie, error) {
	m, ok := f.items[id]
	if !ok {
		return model.Movie{}, model.ErrNotFound
	}
	if upd.Title != nil {
		m.Title = *upd.Title
	}
	if upd.Trending != nil {
		m.Trending = *upd.Trending
	}
	f.items[id] = m
	return m, nil
}

func (f *fakeMovies) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return model.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeFavorites struct {
	items map[string]model.FavoriteMovie
}

func (f *fakeFavorites) Create(_ context.Context, fav model.FavoriteMovie) error {
	for _, existing := range f.items {
		if existing.UserID == fav.UserID && existing.MovieID == fav.MovieID {
			return &pgconn.PgError{Code: "23505", ConstraintName: "favorite_movies_user_id_movie_id_key"}
		}
	}
	f.items[fav.ID] = fav
	return nil
}

func (f *fakeFavorites) ListByUser(_ context.Context, userID string) ([]model.FavoriteMovie, error) {
	out := []model.FavoriteMovie{}
	for _, fav := range f.items {
		if fav.UserID == userID {
			out = append(out, fav)
		}
	}
	return out, nil
}

func (f *fakeFavorites) FindByID(_ context.Context, id string) (model.FavoriteMovie, error) {
	fav, ok := f.items[id]
	if !ok {
		return model.FavoriteMovie{}, model.ErrNotFound
	}
	return fav, nil
}

func (f *fakeFavorites) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return model.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeExpenses struct {
	items []model.Expense
}

func (f *fakeExpenses) Create(_ context.Context, e model.Expense) error {
	f.items = append(f.items, e)
	return nil
}

func (f *fakeExpenses) ListByUser(_ context.Context, userID string) ([]model.Expense, error) {
	out := []model.Expense{}
	for _, e := range f.items {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeExpenses) FindForUser(_ context.Context, id string, userID string) (model.Expense, error) {
	for _, e := range f.items {
		if e.ID == id && e.UserID == userID {
			return e, nil
		}
	}
	return model.Expense{}, model.ErrNotFound
}

func (f *fakeExpenses) DeleteForUser(_ context.Context, id string, userID string) error {
	for i, e := range f.items {
		if e.ID == id && e.UserID == userID {
			f.items = slices.Delete(f.items, i, i+1)
			return nil
		}
	}
	return model.ErrNotFound
}
