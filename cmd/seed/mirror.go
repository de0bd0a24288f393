package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/princinho/storefront/logger"
	"github.com/princinho/storefront/models"
	"github.com/princinho/storefront/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const maxImageMB = 5

// mirror copies every product image into an ImageStore and rewrites the
// product's image URLs to the stored copies.
type mirror struct {
	store     utils.ImageStore
	client    *http.Client
	validator *utils.ImageValidator
	workers   int
}

func newMirror(store utils.ImageStore, client *http.Client, workers int) *mirror {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if workers < 1 {
		workers = 1
	}
	return &mirror{
		store:     store,
		client:    client,
		validator: utils.NewImageValidator(maxImageMB),
		workers:   workers,
	}
}

func (m *mirror) Run(ctx context.Context, products []models.Product) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)

	for i := range products {
		p := &products[i]
		slug := utils.GenerateSlug(p.Title)
		if slug == "" {
			slug = p.Id
		}
		for j := range p.Images {
			src := p.Images[j]
			g.Go(func() error {
				url, err := m.copy(ctx, slug, j, src)
				if err != nil {
					return fmt.Errorf("product %s image %d: %w", p.Id, j, err)
				}
				// each goroutine owns a distinct slot
				p.Images[j] = url
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("images mirrored", zap.Int("products", len(products)))
	return nil
}

func (m *mirror) copy(ctx context.Context, slug string, index int, src string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return "", err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download: status %d", resp.StatusCode)
	}

	data, err := utils.ReadLimited(resp.Body, maxImageMB<<20)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	contentType, ext, err := m.validator.Validate(data)
	if err != nil {
		return "", err
	}
	return m.store.Put(ctx, utils.ImageObjectName(slug, index, ext), contentType, bytes.NewReader(data))
}
