package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddharth-200231/ADProject/internal/domain"
)

func TestListProducts(t *testing.T) {
	store := &stubCatalogStore{products: []*domain.Product{
		{ID: 1, Name: "Laptop"},
		{ID: 2, Name: "Mug"},
	}}
	router := newTestRouter(&stubCartService{}, store, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/products", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)

	var products []domain.Product
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&products))
	require.Len(t, products, 2)
	assert.Equal(t, "Laptop", products[0].Name)
}

func TestListProducts_EmptyIsArrayNotNull(t *testing.T) {
	router := newTestRouter(&stubCartService{}, &stubCatalogStore{}, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/products", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, "[]", recorder.Body.String())
}

func TestGetProduct(t *testing.T) {
	store := &stubCatalogStore{products: []*domain.Product{{ID: 5, Name: "Laptop"}}}
	router := newTestRouter(&stubCartService{}, store, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/product/5", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)

	var product domain.Product
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&product))
	assert.Equal(t, "Laptop", product.Name)
}

func TestGetProduct_Unknown(t *testing.T) {
	router := newTestRouter(&stubCartService{}, &stubCatalogStore{}, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/product/999", nil))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestGetProduct_MalformedID(t *testing.T) {
	router := newTestRouter(&stubCartService{}, &stubCatalogStore{}, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/product/banana", nil))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCreateProduct(t *testing.T) {
	store := &stubCatalogStore{}
	router := newTestRouter(&stubCartService{}, store, nil)

	body := `{"name":"Laptop","category":"electronics","price":999.5,"available":true,"stockQuantity":3}`
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/product", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, recorder.Code)

	var product domain.Product
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&product))
	assert.NotZero(t, product.ID)
	assert.Equal(t, "Laptop", product.Name)
}

func TestCreateProduct_Validation(t *testing.T) {
	router := newTestRouter(&stubCartService{}, &stubCatalogStore{}, nil)

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"price":10}`},
		{"negative price", `{"name":"Laptop","price":-1}`},
		{"malformed json", `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest("POST", "/product", strings.NewReader(tc.body)))
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}

func TestListCategories(t *testing.T) {
	store := &stubCatalogStore{categories: []string{"electronics", "kitchen"}}
	router := newTestRouter(&stubCartService{}, store, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/categories", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `["electronics","kitchen"]`, recorder.Body.String())
}
