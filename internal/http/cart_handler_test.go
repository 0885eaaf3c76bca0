package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddharth-200231/ADProject/internal/catalog"
	"github.com/siddharth-200231/ADProject/internal/domain"
	"github.com/siddharth-200231/ADProject/internal/service"
)

func TestCreateSession(t *testing.T) {
	stub := &stubCartService{sessionID: "sess-123"}
	router := newTestRouter(stub, nil, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/cart/session", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Equal(t, "sess-123", body["sessionId"])
}

func TestGetCart_SessionOwner(t *testing.T) {
	owner := domain.SessionOwner("tok-1")
	cart := domain.NewCart(owner)
	cart.ID = "cart-1"
	stub := &stubCartService{cart: cart}
	router := newTestRouter(stub, nil, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/cart/tok-1", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, owner, stub.gotOwner)

	var got domain.Cart
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&got))
	assert.Equal(t, "cart-1", got.ID)
}

func TestGetCart_UserOwnerFlag(t *testing.T) {
	owner := domain.AccountOwner(7)
	stub := &stubCartService{cart: domain.NewCart(owner)}
	router := newTestRouter(stub, nil, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/cart/7?isUserCart=true", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, owner, stub.gotOwner)
}

func TestGetCart_NonNumericUserOwner(t *testing.T) {
	stub := &stubCartService{}
	router := newTestRouter(stub, nil, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/cart/abc?isUserCart=true", nil))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestAddItem_DefaultsQuantityToOne(t *testing.T) {
	stub := &stubCartService{item: &domain.CartItem{ID: "item-1", ProductID: 42, Quantity: 1}}
	router := newTestRouter(stub, nil, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/cart/tok-1/add/42", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, int64(42), stub.gotProduct)
	assert.Equal(t, 1, stub.gotQuantity)
}

func TestAddItem_ExplicitQuantity(t *testing.T) {
	stub := &stubCartService{item: &domain.CartItem{ID: "item-1", ProductID: 42, Quantity: 3}}
	router := newTestRouter(stub, nil, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/cart/tok-1/add/42?quantity=3", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 3, stub.gotQuantity)

	var item domain.CartItem
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&item))
	assert.Equal(t, 3, item.Quantity)
}

func TestAddItem_UnknownProductIs404(t *testing.T) {
	stub := &stubCartService{err: catalog.ErrProductNotFound}
	router := newTestRouter(stub, nil, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/cart/tok-1/add/999", nil))

	assert.Equal(t, http.StatusNotFound, recorder.Code)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Equal(t, "product_not_found", body.Code)
}

func TestAddItem_InvalidQuantityIs400(t *testing.T) {
	stub := &stubCartService{err: service.ErrInvalidQuantity}
	router := newTestRouter(stub, nil, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/cart/tok-1/add/42?quantity=0", nil))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestAddItem_MalformedProductID(t *testing.T) {
	stub := &stubCartService{}
	router := newTestRouter(stub, nil, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/cart/tok-1/add/banana", nil))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestUpdateItemQuantity(t *testing.T) {
	stub := &stubCartService{item: &domain.CartItem{ID: "item-1", ProductID: 42, Quantity: 5}}
	router := newTestRouter(stub, nil, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("PUT", "/cart/item/item-1?quantity=5", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "item-1", stub.gotItemID)
	assert.Equal(t, 5, stub.gotQuantity)
}

func TestUpdateItemQuantity_RemovalReturnsNullBody(t *testing.T) {
	// Service returns a nil item when a non-positive quantity removed it.
	stub := &stubCartService{item: nil}
	router := newTestRouter(stub, nil, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("PUT", "/cart/item/item-1?quantity=0", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, "null", recorder.Body.String())
}

func TestUpdateItemQuantity_MissingQuantity(t *testing.T) {
	stub := &stubCartService{}
	router := newTestRouter(stub, nil, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("PUT", "/cart/item/item-1", nil))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRemoveItem(t *testing.T) {
	stub := &stubCartService{}
	router := newTestRouter(stub, nil, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("DELETE", "/cart/item/item-1", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "item-1", stub.gotItemID)
}

func TestRemoveItem_UnknownIs404(t *testing.T) {
	stub := &stubCartService{err: service.ErrItemNotFound}
	router := newTestRouter(stub, nil, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("DELETE", "/cart/item/gone", nil))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestClearCart(t *testing.T) {
	stub := &stubCartService{}
	router := newTestRouter(stub, nil, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("DELETE", "/cart/tok-1", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, domain.SessionOwner("tok-1"), stub.gotOwner)
}

func TestMerge(t *testing.T) {
	stub := &stubCartService{}
	router := newTestRouter(stub, nil, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/cart/merge?sessionId=tok-1&userId=7", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "tok-1", stub.gotSession)
	assert.Equal(t, int64(7), stub.gotUserID)
}

func TestMerge_MissingParams(t *testing.T) {
	stub := &stubCartService{}
	router := newTestRouter(stub, nil, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/cart/merge?userId=7", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/cart/merge?sessionId=tok-1", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestContentionMapsToConflict(t *testing.T) {
	stub := &stubCartService{err: service.ErrTooMuchContention}
	router := newTestRouter(stub, nil, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/cart/tok-1/add/42", nil))

	assert.Equal(t, http.StatusConflict, recorder.Code)
}
