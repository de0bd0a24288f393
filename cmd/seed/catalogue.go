package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/princinho/storefront/logger"
	"github.com/princinho/storefront/models"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

type catalogue struct {
	Products   []models.Product
	Categories []string
	Reviews    []models.Review
}

type sourceReview struct {
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
	Date          string `json:"date"`
	ReviewerName  string `json:"reviewerName"`
	ReviewerEmail string `json:"reviewerEmail"`
}

// parseCatalogue accepts either {"products": [...]} or a bare array.
// Numeric ids become zero padded strings ("1" -> "001") and embedded reviews
// are split out into their own documents with ids of the form
// "<productId>-<index>", so loading the same file twice replaces them.
func parseCatalogue(r io.Reader) (*catalogue, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalogue: %w", err)
	}

	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil {
		var wrapped struct {
			Products []map[string]any `json:"products"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, fmt.Errorf("decode catalogue: %w", err)
		}
		items = wrapped.Products
	}

	out := &catalogue{}
	seenCategory := map[string]bool{}
	seenID := map[string]bool{}
	for i, item := range items {
		id, err := productID(item["id"])
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
		if seenID[id] {
			return nil, fmt.Errorf("product %d: duplicate id %s", i, id)
		}
		seenID[id] = true
		item["id"] = id

		if title, ok := item["title"].(string); ok {
			item["title"] = norm.NFC.String(title)
		}

		embedded := item["reviews"]
		delete(item, "reviews")

		b, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		var p models.Product
		if err := json.Unmarshal(b, &p); err != nil {
			return nil, fmt.Errorf("product %s: %w", id, err)
		}
		if p.Title == "" || p.Category == "" {
			return nil, fmt.Errorf("product %s: title and category are required", id)
		}
		out.Products = append(out.Products, p)

		if !seenCategory[p.Category] {
			seenCategory[p.Category] = true
			out.Categories = append(out.Categories, p.Category)
		}

		reviews, err := productReviews(id, embedded)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", id, err)
		}
		out.Reviews = append(out.Reviews, reviews...)
	}
	return out, nil
}

func productID(v any) (string, error) {
	switch id := v.(type) {
	case float64:
		if id < 0 || id != float64(int64(id)) {
			return "", fmt.Errorf("invalid id %v", id)
		}
		return fmt.Sprintf("%03d", int64(id)), nil
	case string:
		id = strings.TrimSpace(id)
		if id == "" {
			return "", fmt.Errorf("empty id")
		}
		if n, err := strconv.ParseInt(id, 10, 64); err == nil && n >= 0 {
			return fmt.Sprintf("%03d", n), nil
		}
		return id, nil
	default:
		return "", fmt.Errorf("missing id")
	}
}

func productReviews(productID string, v any) ([]models.Review, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var src []sourceReview
	if err := json.Unmarshal(b, &src); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}

	out := make([]models.Review, 0, len(src))
	for i, r := range src {
		date, err := time.Parse(time.RFC3339, r.Date)
		if err != nil {
			date = time.Now().UTC()
		}
		out = append(out, models.Review{
			Id:            fmt.Sprintf("%s-%d", productID, i),
			ProductId:     productID,
			Comment:       r.Comment,
			Rating:        r.Rating,
			ReviewerName:  r.ReviewerName,
			ReviewerEmail: r.ReviewerEmail,
			Date:          date.UTC(),
		})
	}
	return out, nil
}

type seedStore interface {
	UpsertProduct(ctx context.Context, p models.Product) error
	PutCategories(ctx context.Context, categories []string) error
	UpsertReview(ctx context.Context, r models.Review) error
}

func load(ctx context.Context, store seedStore, cat *catalogue) error {
	for _, p := range cat.Products {
		if err := store.UpsertProduct(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Id, err)
		}
	}
	if err := store.PutCategories(ctx, cat.Categories); err != nil {
		return fmt.Errorf("write categories: %w", err)
	}
	for _, r := range cat.Reviews {
		if err := store.UpsertReview(ctx, r); err != nil {
			return fmt.Errorf("upsert review for %s: %w", r.ProductId, err)
		}
	}
	logger.Info("catalogue loaded",
		zap.Int("products", len(cat.Products)),
		zap.Int("reviews", len(cat.Reviews)),
	)
	return nil
}
