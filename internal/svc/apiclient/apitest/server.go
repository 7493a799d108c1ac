// Package apitest provides an in-memory fake of the remote storefront API for tests.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mkrupp/storefront/internal/domain"
	http_ "github.com/mkrupp/storefront/internal/infra/transport/http"
)

var signingKey = []byte("apitest")

type account struct {
	profile  domain.UserProfile
	password string
}

type forcedFailure struct {
	status  int
	message string
	body    any // written as is when set
}

// Server fakes the remote API: accounts, catalog, carts, wishlists, addresses and orders.
// Every request is counted by "METHOD /path" so tests can assert on network traffic.
type Server struct {
	*httptest.Server

	TokenTTL time.Duration

	accounts  map[string]*account // by email
	tokens    map[string]string   // token -> user id
	products  map[string]domain.Product
	carts     map[string]*domain.RemoteCart // by user id
	wishlists map[string][]string
	addresses map[string][]domain.Address
	orders    map[string][]domain.Order
	failures  map[string]forcedFailure
	hits      map[string]int
	seq       int
	m         sync.Mutex
}

// NewServer starts a fake API that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		TokenTTL:  time.Hour,
		accounts:  make(map[string]*account),
		tokens:    make(map[string]string),
		products:  make(map[string]domain.Product),
		carts:     make(map[string]*domain.RemoteCart),
		wishlists: make(map[string][]string),
		addresses: make(map[string][]domain.Address),
		orders:    make(map[string][]domain.Order),
		failures:  make(map[string]forcedFailure),
		hits:      make(map[string]int),
	}

	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)

	return s
}

// Config returns a transport config pointing at the fake.
func (s *Server) Config() http_.HTTPTransportConfig {
	return http_.HTTPTransportConfig{
		BaseURL:     s.URL,
		Timeout:     5 * time.Second,
		TokenHeader: "token",
		UserAgent:   "apitest",
	}
}

// AddProduct adds a product to the catalog and returns it with its assigned id.
func (s *Server) AddProduct(product domain.Product) domain.Product {
	s.m.Lock()
	defer s.m.Unlock()

	if product.ID == "" {
		product.ID = s.nextID()
	}

	s.products[product.ID] = product

	return product
}

// AddUser registers an account directly.
func (s *Server) AddUser(name, email, password string) domain.UserProfile {
	s.m.Lock()
	defer s.m.Unlock()

	return s.addUser(name, email, password, "")
}

// IssueToken returns a token for the user that the fake accepts, expiring after ttl.
// A negative ttl yields an already expired token.
func (s *Server) IssueToken(userID string, ttl time.Duration) string {
	s.m.Lock()
	defer s.m.Unlock()

	return s.issueToken(userID, ttl)
}

// RevokeTokens makes every issued token fail with 401 from now on.
func (s *Server) RevokeTokens() {
	s.m.Lock()
	defer s.m.Unlock()

	clear(s.tokens)
}

// FailNext makes the next request to "METHOD /path" answer with status and message.
func (s *Server) FailNext(method, path string, status int, message string) {
	s.m.Lock()
	defer s.m.Unlock()

	s.failures[method+" "+path] = forcedFailure{status: status, message: message}
}

// RespondNext makes the next request to "METHOD /path" answer with status and body
// without touching the fake's state.
func (s *Server) RespondNext(method, path string, status int, body any) {
	s.m.Lock()
	defer s.m.Unlock()

	s.failures[method+" "+path] = forcedFailure{status: status, body: body}
}

// Hits returns how many requests were made to "METHOD /path".
func (s *Server) Hits(method, path string) int {
	s.m.Lock()
	defer s.m.Unlock()

	return s.hits[method+" "+path]
}

// TotalHits returns the number of requests served.
func (s *Server) TotalHits() int {
	s.m.Lock()
	defer s.m.Unlock()

	total := 0
	for _, n := range s.hits {
		total += n
	}

	return total
}

// RemoteCart returns a copy of the user's cart as the fake stores it.
func (s *Server) RemoteCart(userID string) (domain.RemoteCart, bool) {
	s.m.Lock()
	defer s.m.Unlock()

	cart, ok := s.carts[userID]
	if !ok {
		return domain.RemoteCart{}, false
	}

	clone := *cart
	clone.Products = append([]domain.RemoteCartLine(nil), cart.Products...)

	return clone, true
}

func (s *Server) nextID() string {
	s.seq++

	return fmt.Sprintf("%024x", s.seq)
}

func (s *Server) addUser(name, email, password, phone string) domain.UserProfile {
	profile := domain.UserProfile{ID: s.nextID(), Name: name, Email: email, Phone: phone, Role: "user"}
	s.accounts[email] = &account{profile: profile, password: password}

	return profile
}

func (s *Server) issueToken(userID string, ttl time.Duration) string {
	var name string

	for _, acc := range s.accounts {
		if acc.profile.ID == userID {
			name = acc.profile.Name
		}
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   userID,
		"name": name,
		"role": "user",
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
		"jti":  s.nextID(),
	})

	signed, err := token.SignedString(signingKey)
	if err != nil {
		panic(err)
	}

	s.tokens[signed] = userID

	return signed
}

func (s *Server) profileByID(userID string) (domain.UserProfile, *account) {
	for _, acc := range s.accounts {
		if acc.profile.ID == userID {
			return acc.profile, acc
		}
	}

	return domain.UserProfile{}, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeFail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"statusMsg": "fail", "message": message})
}

func readJSON(r *http.Request, into any) error {
	defer r.Body.Close()

	return json.NewDecoder(r.Body).Decode(into)
}

type handler func(w http.ResponseWriter, r *http.Request, userID string)

// route registers a handler, counting hits and applying forced failures.
// Authenticated routes resolve the user from the token header or answer 401.
func (s *Server) route(mux *http.ServeMux, pattern string, auth bool, h handler) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		s.m.Lock()
		defer s.m.Unlock()

		key := r.Method + " " + r.URL.Path
		s.hits[key]++

		if failure, ok := s.failures[key]; ok {
			delete(s.failures, key)

			if failure.body != nil {
				writeJSON(w, failure.status, failure.body)
			} else {
				writeFail(w, failure.status, failure.message)
			}

			return
		}

		var userID string

		if auth {
			var ok bool

			userID, ok = s.tokens[r.Header.Get("token")]
			if !ok {
				writeFail(w, http.StatusUnauthorized, "Invalid Token. please login again")

				return
			}
		}

		h(w, r, userID)
	})
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	s.route(mux, "POST /api/v1/auth/signin", false, s.handleSignin)
	s.route(mux, "POST /api/v1/auth/signup", false, s.handleSignup)
	s.route(mux, "POST /api/v1/auth/forgotPasswords", false, s.handleForgotPassword)
	s.route(mux, "POST /api/v1/auth/verifyResetCode", false, s.handleVerifyResetCode)
	s.route(mux, "PUT /api/v1/auth/resetPassword", false, s.handleResetPassword)
	s.route(mux, "GET /api/v1/auth/verifyToken", true, s.handleVerifyToken)
	s.route(mux, "PUT /api/v1/users/updateMe/", true, s.handleUpdateMe)
	s.route(mux, "PUT /api/v1/users/changeMyPassword", true, s.handleChangePassword)

	s.route(mux, "GET /api/v1/products", false, s.handleProducts)
	s.route(mux, "GET /api/v1/products/{id}", false, s.handleProduct)
	s.route(mux, "GET /api/v1/categories", false, s.handleCategories)
	s.route(mux, "GET /api/v1/categories/{id}", false, s.handleCategory)
	s.route(mux, "GET /api/v1/categories/{id}/subcategories", false, s.handleSubCategories)
	s.route(mux, "GET /api/v1/subcategories", false, s.handleSubCategories)
	s.route(mux, "GET /api/v1/subcategories/{id}", false, s.handleSubCategory)
	s.route(mux, "GET /api/v1/brands", false, s.handleBrands)
	s.route(mux, "GET /api/v1/brands/{id}", false, s.handleBrand)

	s.route(mux, "GET /api/v1/cart", true, s.handleGetCart)
	s.route(mux, "POST /api/v1/cart", true, s.handleAddToCart)
	s.route(mux, "PUT /api/v1/cart/{productId}", true, s.handleUpdateCart)
	s.route(mux, "DELETE /api/v1/cart/{productId}", true, s.handleRemoveFromCart)
	s.route(mux, "DELETE /api/v1/cart", true, s.handleClearCart)

	s.route(mux, "GET /api/v1/wishlist", true, s.handleGetWishlist)
	s.route(mux, "POST /api/v1/wishlist", true, s.handleAddToWishlist)
	s.route(mux, "DELETE /api/v1/wishlist/{productId}", true, s.handleRemoveFromWishlist)

	s.route(mux, "GET /api/v1/addresses", true, s.handleGetAddresses)
	s.route(mux, "POST /api/v1/addresses", true, s.handleAddAddress)
	s.route(mux, "GET /api/v1/addresses/{id}", true, s.handleGetAddress)
	s.route(mux, "DELETE /api/v1/addresses/{id}", true, s.handleRemoveAddress)

	s.route(mux, "GET /api/v1/orders/", true, s.handleAllOrders)
	s.route(mux, "GET /api/v1/orders/user/{userId}", true, s.handleUserOrders)
	s.route(mux, "POST /api/v1/orders/{cartId}", true, s.handleCashOrder)
	s.route(mux, "POST /api/v1/orders/checkout-session/{cartId}", true, s.handleCheckoutSession)

	return mux
}

func (s *Server) handleSignin(w http.ResponseWriter, r *http.Request, _ string) {
	var creds domain.Credentials
	if err := readJSON(r, &creds); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid body")

		return
	}

	acc, ok := s.accounts[creds.Email]
	if !ok || acc.password != creds.Password {
		writeFail(w, http.StatusUnauthorized, "Incorrect email or password")

		return
	}

	writeJSON(w, http.StatusOK, domain.AuthResponse{
		Message: "success",
		User:    domain.UserProfile{Name: acc.profile.Name, Email: acc.profile.Email, Role: acc.profile.Role},
		Token:   s.issueToken(acc.profile.ID, s.TokenTTL),
	})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request, _ string) {
	var data domain.SignupData
	if err := readJSON(r, &data); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid body")

		return
	}

	if _, exists := s.accounts[data.Email]; exists {
		writeFail(w, http.StatusConflict, "Account Already Exists")

		return
	}

	if data.Password != data.RePassword {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": "fail",
			"errors":  map[string]string{"msg": "Password confirmation is incorrect", "param": "rePassword"},
		})

		return
	}

	profile := s.addUser(data.Name, data.Email, data.Password, data.Phone)

	writeJSON(w, http.StatusCreated, domain.AuthResponse{
		Message: "success",
		User:    domain.UserProfile{Name: profile.Name, Email: profile.Email, Role: profile.Role},
		Token:   s.issueToken(profile.ID, s.TokenTTL),
	})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request, _ string) {
	var body struct {
		Email string `json:"email"`
	}
	if err := readJSON(r, &body); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid body")

		return
	}

	if _, ok := s.accounts[body.Email]; !ok {
		writeFail(w, http.StatusNotFound, "There is no user registered with this email address "+body.Email)

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"statusMsg": "success", "message": "Reset code sent to your email"})
}

func (s *Server) handleVerifyResetCode(w http.ResponseWriter, r *http.Request, _ string) {
	var body struct {
		ResetCode string `json:"resetCode"`
	}
	if err := readJSON(r, &body); err != nil || body.ResetCode != "123456" {
		writeFail(w, http.StatusBadRequest, "Reset code is invalid or has expired")

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "Success"})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request, _ string) {
	var body struct {
		Email       string `json:"email"`
		NewPassword string `json:"newPassword"`
	}
	if err := readJSON(r, &body); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid body")

		return
	}

	acc, ok := s.accounts[body.Email]
	if !ok {
		writeFail(w, http.StatusNotFound, "There is no user with email "+body.Email)

		return
	}

	acc.password = body.NewPassword

	writeJSON(w, http.StatusOK, map[string]string{"token": s.issueToken(acc.profile.ID, s.TokenTTL)})
}

func (s *Server) handleVerifyToken(w http.ResponseWriter, _ *http.Request, userID string) {
	profile, _ := s.profileByID(userID)

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "verified",
		"decoded": map[string]any{"id": userID, "name": profile.Name, "role": profile.Role},
	})
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request, userID string) {
	var update domain.ProfileUpdate
	if err := readJSON(r, &update); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid body")

		return
	}

	_, acc := s.profileByID(userID)
	if acc == nil {
		writeFail(w, http.StatusNotFound, "user not found")

		return
	}

	delete(s.accounts, acc.profile.Email)
	acc.profile = update.Apply(acc.profile)
	s.accounts[acc.profile.Email] = acc

	writeJSON(w, http.StatusOK, domain.ProfileResponse{
		Message: "success",
		User:    domain.UserProfile{Name: acc.profile.Name, Email: acc.profile.Email, Role: acc.profile.Role},
	})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request, userID string) {
	var body struct {
		CurrentPassword string `json:"currentPassword"`
		Password        string `json:"password"`
		RePassword      string `json:"rePassword"`
	}
	if err := readJSON(r, &body); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid body")

		return
	}

	_, acc := s.profileByID(userID)
	if acc == nil || acc.password != body.CurrentPassword {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": "fail",
			"errors":  map[string]string{"msg": "Incorrect current password", "param": "currentPassword"},
		})

		return
	}

	acc.password = body.Password

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "success",
		"token":   s.issueToken(userID, s.TokenTTL),
	})
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request, _ string) {
	products := make([]domain.Product, 0, len(s.products))
	keyword := strings.ToLower(r.URL.Query().Get("keyword"))

	for _, p := range s.products {
		if keyword == "" || strings.Contains(strings.ToLower(p.Title), keyword) {
			products = append(products, p)
		}
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit > 0 && limit < len(products) {
		products = products[:limit]
	}

	writeJSON(w, http.StatusOK, domain.ListResponse[domain.Product]{
		Results:  len(products),
		Metadata: domain.ListMetadata{CurrentPage: 1, NumberOfPages: 1, Limit: max(limit, len(products))},
		Data:     products,
	})
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request, _ string) {
	product, ok := s.products[r.PathValue("id")]
	if !ok {
		writeFail(w, http.StatusNotFound, "No product for this id "+r.PathValue("id"))

		return
	}

	writeJSON(w, http.StatusOK, domain.ItemResponse[domain.Product]{Data: product})
}

//nolint:gochecknoglobals
var (
	seedCategories = []domain.Category{
		{ID: "cat-1", Name: "Electronics", Slug: "electronics"},
		{ID: "cat-2", Name: "Women's Fashion", Slug: "women's-fashion"},
	}
	seedSubCategories = []domain.SubCategory{
		{ID: "sub-1", Name: "Laptops", Slug: "laptops", Category: "cat-1"},
		{ID: "sub-2", Name: "Phones", Slug: "phones", Category: "cat-1"},
		{ID: "sub-3", Name: "Bags", Slug: "bags", Category: "cat-2"},
	}
	seedBrands = []domain.Brand{
		{ID: "brand-1", Name: "Sony", Slug: "sony"},
		{ID: "brand-2", Name: "Puma", Slug: "puma"},
	}
)

func writeList[T any](w http.ResponseWriter, r *http.Request, items []T) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}

	writeJSON(w, http.StatusOK, domain.ListResponse[T]{
		Results:  len(items),
		Metadata: domain.ListMetadata{CurrentPage: 1, NumberOfPages: 1, Limit: max(limit, 40)},
		Data:     items,
	})
}

func writeItem[T any](w http.ResponseWriter, items []T, id func(T) string, want string) {
	for _, item := range items {
		if id(item) == want {
			writeJSON(w, http.StatusOK, domain.ItemResponse[T]{Data: item})

			return
		}
	}

	writeFail(w, http.StatusNotFound, "No document for this id "+want)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request, _ string) {
	writeList(w, r, seedCategories)
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request, _ string) {
	writeItem(w, seedCategories, func(c domain.Category) string { return c.ID }, r.PathValue("id"))
}

func (s *Server) handleSubCategories(w http.ResponseWriter, r *http.Request, _ string) {
	categoryID := r.PathValue("id")
	if categoryID == "" {
		writeList(w, r, seedSubCategories)

		return
	}

	subs := []domain.SubCategory{}

	for _, sub := range seedSubCategories {
		if sub.Category == categoryID {
			subs = append(subs, sub)
		}
	}

	writeList(w, r, subs)
}

func (s *Server) handleSubCategory(w http.ResponseWriter, r *http.Request, _ string) {
	writeItem(w, seedSubCategories, func(c domain.SubCategory) string { return c.ID }, r.PathValue("id"))
}

func (s *Server) handleBrands(w http.ResponseWriter, r *http.Request, _ string) {
	writeList(w, r, seedBrands)
}

func (s *Server) handleBrand(w http.ResponseWriter, r *http.Request, _ string) {
	writeItem(w, seedBrands, func(b domain.Brand) string { return b.ID }, r.PathValue("id"))
}

func (s *Server) cartResponse(w http.ResponseWriter, status int, cart *domain.RemoteCart, message string) {
	cart.TotalCartPrice = 0

	for _, line := range cart.Products {
		cart.TotalCartPrice += line.Price * float64(line.Count)
	}

	writeJSON(w, status, domain.CartResponse{
		Status:         "success",
		Message:        message,
		NumOfCartItems: len(cart.Products),
		CartID:         cart.ID,
		Data:           *cart,
	})
}

func (s *Server) handleGetCart(w http.ResponseWriter, _ *http.Request, userID string) {
	cart, ok := s.carts[userID]
	if !ok {
		writeFail(w, http.StatusNotFound, "No cart exist for this user: "+userID)

		return
	}

	s.cartResponse(w, http.StatusOK, cart, "")
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request, userID string) {
	var body struct {
		ProductID string `json:"productId"`
	}
	if err := readJSON(r, &body); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid body")

		return
	}

	product, ok := s.products[body.ProductID]
	if !ok {
		writeFail(w, http.StatusNotFound, "No product for this id "+body.ProductID)

		return
	}

	cart, ok := s.carts[userID]
	if !ok {
		cart = &domain.RemoteCart{ID: s.nextID(), CartOwner: userID}
		s.carts[userID] = cart
	}

	for i := range cart.Products {
		if cart.Products[i].Product.ID == product.ID {
			cart.Products[i].Count++
			s.cartResponse(w, http.StatusOK, cart, "Product added successfully to your cart")

			return
		}
	}

	cart.Products = append(cart.Products, domain.RemoteCartLine{
		ID:      s.nextID(),
		Count:   1,
		Price:   product.Price,
		Product: product,
	})

	s.cartResponse(w, http.StatusOK, cart, "Product added successfully to your cart")
}

func (s *Server) handleUpdateCart(w http.ResponseWriter, r *http.Request, userID string) {
	var body struct {
		Count string `json:"count"`
	}
	if err := readJSON(r, &body); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid body")

		return
	}

	count, err := strconv.Atoi(body.Count)
	if err != nil {
		writeFail(w, http.StatusBadRequest, "count must be a number string")

		return
	}

	cart, ok := s.carts[userID]
	if !ok {
		writeFail(w, http.StatusNotFound, "No cart exist for this user: "+userID)

		return
	}

	for i := range cart.Products {
		if cart.Products[i].Product.ID == r.PathValue("productId") {
			cart.Products[i].Count = count
			s.cartResponse(w, http.StatusOK, cart, "")

			return
		}
	}

	writeFail(w, http.StatusNotFound, "No product in cart with id "+r.PathValue("productId"))
}

func (s *Server) handleRemoveFromCart(w http.ResponseWriter, r *http.Request, userID string) {
	cart, ok := s.carts[userID]
	if !ok {
		writeFail(w, http.StatusNotFound, "No cart exist for this user: "+userID)

		return
	}

	kept := cart.Products[:0]

	for _, line := range cart.Products {
		if line.Product.ID != r.PathValue("productId") {
			kept = append(kept, line)
		}
	}

	cart.Products = kept

	s.cartResponse(w, http.StatusOK, cart, "")
}

func (s *Server) handleClearCart(w http.ResponseWriter, _ *http.Request, userID string) {
	delete(s.carts, userID)

	writeJSON(w, http.StatusOK, map[string]string{"message": "success"})
}

func (s *Server) handleGetWishlist(w http.ResponseWriter, _ *http.Request, userID string) {
	products := make([]domain.Product, 0, len(s.wishlists[userID]))

	for _, id := range s.wishlists[userID] {
		products = append(products, s.products[id])
	}

	writeJSON(w, http.StatusOK, domain.WishlistResponse{Status: "success", Count: len(products), Data: products})
}

func (s *Server) handleAddToWishlist(w http.ResponseWriter, r *http.Request, userID string) {
	var body struct {
		ProductID string `json:"productId"`
	}
	if err := readJSON(r, &body); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid body")

		return
	}

	if _, ok := s.products[body.ProductID]; !ok {
		writeFail(w, http.StatusNotFound, "No product for this id "+body.ProductID)

		return
	}

	ids := s.wishlists[userID]
	for _, id := range ids {
		if id == body.ProductID {
			s.wishlistMutation(w, userID, "Product already in your wishlist")

			return
		}
	}

	s.wishlists[userID] = append(ids, body.ProductID)
	s.wishlistMutation(w, userID, "Product added successfully to your wishlist")
}

func (s *Server) handleRemoveFromWishlist(w http.ResponseWriter, r *http.Request, userID string) {
	ids := s.wishlists[userID]
	kept := make([]string, 0, len(ids))

	for _, id := range ids {
		if id != r.PathValue("productId") {
			kept = append(kept, id)
		}
	}

	s.wishlists[userID] = kept
	s.wishlistMutation(w, userID, "Product removed successfully from your wishlist")
}

func (s *Server) wishlistMutation(w http.ResponseWriter, userID, message string) {
	writeJSON(w, http.StatusOK, domain.WishlistMutationResponse{
		Status:  "success",
		Message: message,
		Data:    append([]string{}, s.wishlists[userID]...),
	})
}

func (s *Server) addressesResponse(w http.ResponseWriter, userID, message string) {
	addresses := append([]domain.Address{}, s.addresses[userID]...)

	writeJSON(w, http.StatusOK, domain.AddressesResponse{
		Status:  "success",
		Message: message,
		Results: len(addresses),
		Data:    addresses,
	})
}

func (s *Server) handleGetAddresses(w http.ResponseWriter, _ *http.Request, userID string) {
	s.addressesResponse(w, userID, "")
}

func (s *Server) handleAddAddress(w http.ResponseWriter, r *http.Request, userID string) {
	var address domain.Address
	if err := readJSON(r, &address); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid body")

		return
	}

	address.ID = s.nextID()
	s.addresses[userID] = append(s.addresses[userID], address)

	s.addressesResponse(w, userID, "Address added successfully")
}

func (s *Server) handleGetAddress(w http.ResponseWriter, r *http.Request, userID string) {
	for _, address := range s.addresses[userID] {
		if address.ID == r.PathValue("id") {
			writeJSON(w, http.StatusOK, domain.AddressResponse{Status: "success", Data: address})

			return
		}
	}

	writeFail(w, http.StatusNotFound, "No address for this id "+r.PathValue("id"))
}

func (s *Server) handleRemoveAddress(w http.ResponseWriter, r *http.Request, userID string) {
	addresses := s.addresses[userID]
	kept := make([]domain.Address, 0, len(addresses))

	for _, address := range addresses {
		if address.ID != r.PathValue("id") {
			kept = append(kept, address)
		}
	}

	s.addresses[userID] = kept

	s.addressesResponse(w, userID, "Address removed successfully")
}

func (s *Server) handleAllOrders(w http.ResponseWriter, _ *http.Request, _ string) {
	var orders []domain.Order

	for _, userOrders := range s.orders {
		orders = append(orders, userOrders...)
	}

	writeJSON(w, http.StatusOK, domain.ListResponse[domain.Order]{
		Results:  len(orders),
		Metadata: domain.ListMetadata{CurrentPage: 1, NumberOfPages: 1, Limit: 50},
		Data:     orders,
	})
}

func (s *Server) handleUserOrders(w http.ResponseWriter, r *http.Request, _ string) {
	orders := append([]domain.Order{}, s.orders[r.PathValue("userId")]...)

	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) placeOrder(userID, cartID string, address domain.ShippingAddress, method string) (domain.Order, bool) {
	cart, ok := s.carts[userID]
	if !ok || cart.ID != cartID {
		return domain.Order{}, false
	}

	profile, _ := s.profileByID(userID)
	items := make([]domain.OrderItem, 0, len(cart.Products))
	total := 0.0

	for _, line := range cart.Products {
		items = append(items, domain.OrderItem{ID: line.ID, Count: line.Count, Price: line.Price, Product: line.Product})
		total += line.Price * float64(line.Count)
	}

	now := time.Now().UTC().Truncate(time.Second)
	order := domain.Order{
		ID:                s.nextID(),
		Number:            s.seq,
		ShippingAddress:   &address,
		TotalOrderPrice:   total,
		PaymentMethodType: method,
		User:              domain.OrderUser{ID: userID, Name: profile.Name, Email: profile.Email, Phone: profile.Phone},
		CartItems:         items,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	return order, true
}

func (s *Server) handleCashOrder(w http.ResponseWriter, r *http.Request, userID string) {
	var body struct {
		ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
	}
	if err := readJSON(r, &body); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid body")

		return
	}

	order, ok := s.placeOrder(userID, r.PathValue("cartId"), body.ShippingAddress, domain.PaymentMethodCash)
	if !ok {
		writeFail(w, http.StatusNotFound, "There is no such a cart with id "+r.PathValue("cartId"))

		return
	}

	s.orders[userID] = append(s.orders[userID], order)
	delete(s.carts, userID)

	writeJSON(w, http.StatusCreated, domain.OrderResponse{Status: "success", Data: order})
}

func (s *Server) handleCheckoutSession(w http.ResponseWriter, r *http.Request, userID string) {
	cart, ok := s.carts[userID]
	if !ok || cart.ID != r.PathValue("cartId") {
		writeFail(w, http.StatusNotFound, "There is no such a cart with id "+r.PathValue("cartId"))

		return
	}

	returnURL := r.URL.Query().Get("url")

	writeJSON(w, http.StatusOK, domain.CheckoutSessionResponse{
		Status: "success",
		Session: domain.CheckoutSession{
			URL:        "https://checkout.example.test/pay/cs_" + cart.ID,
			SuccessURL: returnURL + "/allorders",
			CancelURL:  returnURL + "/cart",
		},
	})
}
