package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rogerio-castellano/storefront-crm/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listBody = `{"products":[
	{"id":1,"title":"Essence Mascara","description":"Volume","category":"beauty","price":9.99,
	 "discountPercentage":10,"rating":4.9,"stock":5,"brand":"Essence","thumbnail":"t1.png",
	 "images":["i1.png"],"reviews":[{"rating":5},{"rating":4}]},
	{"id":2,"title":"Apple","description":"Fruit","category":"groceries","price":1.99,
	 "rating":4.2,"stock":0,"thumbnail":"t2.png"}
],"total":2}`

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return b, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func TestClient_ListMapsAndCaches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "30", r.URL.Query().Get("limit"))
		w.Write([]byte(listBody))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second, &memCache{data: map[string][]byte{}}, time.Minute)

	products, err := c.List(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, products, 2)

	p := products[0]
	assert.Equal(t, "Essence Mascara", p.Name)
	assert.Equal(t, "i1.png", p.Image)
	assert.Equal(t, 2, p.ReviewCount)
	require.NotNil(t, p.OriginalPrice)
	assert.Equal(t, 11.1, *p.OriginalPrice)
	assert.Nil(t, products[1].OriginalPrice)
	assert.False(t, products[1].InStock())

	_, err = c.List(context.Background(), 30)
	require.NoError(t, err)
	assert.EqualValues(t, 1, hits.Load())
}

func TestClient_SearchEscapesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/search", r.URL.Path)
		assert.Equal(t, "red shoes&x", r.URL.Query().Get("q"))
		w.Write([]byte(`{"products":[],"total":0}`))
	}))
	defer srv.Close()

	products, err := NewClient(srv.URL, time.Second, nil, 0).Search(context.Background(), "red shoes&x")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, nil, 0).List(context.Background(), 5)
	assert.ErrorContains(t, err, "catalog responded 502")
}

func TestSeed_UpsertsWithUpstreamIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listBody))
	}))
	defer srv.Close()

	products := repo.NewInMemoryProductRepository()
	n, err := Seed(context.Background(), NewClient(srv.URL, time.Second, nil, 0), products, 30)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = Seed(context.Background(), NewClient(srv.URL, time.Second, nil, 0), products, 30)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, _ := products.GetAll()
	assert.Len(t, all, 2)
	p, err := products.GetByID(2)
	require.NoError(t, err)
	assert.Equal(t, "Apple", p.Name)
}
