package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/princinho/storefront/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var png = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type memImages struct {
	mu      sync.Mutex
	objects map[string]string
}

func (m *memImages) Put(_ context.Context, name, contentType string, body io.Reader) (string, error) {
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[name] = contentType
	return "https://cdn.test/" + name, nil
}

func (m *memImages) Close() error { return nil }

func TestMirror(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/a.png", "/b.png":
			_, _ = w.Write(png)
		case "/doc.pdf":
			_, _ = w.Write([]byte("%PDF-1.7\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	images := &memImages{objects: map[string]string{}}
	m := newMirror(images, srv.Client(), 2)

	products := []models.Product{
		{Id: "001", Title: "Red Lipstick", Images: []string{srv.URL + "/a.png", srv.URL + "/b.png"}},
	}
	require.NoError(t, m.Run(context.Background(), products))
	assert.Equal(t, []string{
		"https://cdn.test/products/red-lipstick/0.png",
		"https://cdn.test/products/red-lipstick/1.png",
	}, products[0].Images)
	assert.Equal(t, "image/png", images.objects["products/red-lipstick/0.png"])

	bad := []models.Product{{Id: "002", Title: "Doc", Images: []string{srv.URL + "/doc.pdf"}}}
	assert.Error(t, m.Run(context.Background(), bad))

	missing := []models.Product{{Id: "003", Title: "Gone", Images: []string{srv.URL + "/gone.png"}}}
	assert.ErrorContains(t, m.Run(context.Background(), missing), "status 404")
}
