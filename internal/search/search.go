package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/models"
)

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return client, nil
}

// Index keeps a searchable copy of the catalog. Hits are returned as ids so
// callers read price and stock from the database.
type Index struct {
	Client *elasticsearch.Client
	Name   string
}

type document struct {
	ID            string   `json:"id"`
	NameSR        string   `json:"name_sr"`
	NameEN        string   `json:"name_en"`
	DescriptionSR string   `json:"description_sr"`
	DescriptionEN string   `json:"description_en"`
	CategorySR    string   `json:"category_sr"`
	CategoryEN    string   `json:"category_en"`
	Price         int64    `json:"price"`
	Images        []string `json:"images"`
}

func toDocument(p *models.Product) document {
	return document{
		ID:            p.ID.String(),
		NameSR:        p.NameSR,
		NameEN:        p.NameEN,
		DescriptionSR: p.DescriptionSR,
		DescriptionEN: p.DescriptionEN,
		CategorySR:    p.CategorySR,
		CategoryEN:    p.CategoryEN,
		Price:         p.Price,
		Images:        p.Images,
	}
}

func (i *Index) IndexProduct(ctx context.Context, p *models.Product) error {
	body, err := json.Marshal(toDocument(p))
	if err != nil {
		return fmt.Errorf("index product: %w", err)
	}
	res, err := i.Client.Index(i.Name, bytes.NewReader(body),
		i.Client.Index.WithContext(ctx),
		i.Client.Index.WithDocumentID(p.ID.String()),
	)
	if err != nil {
		return fmt.Errorf("index product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index product: %s", responseError(res.StatusCode, res.Body))
	}
	return nil
}

func (i *Index) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res, err := i.Client.Delete(i.Name, id.String(), i.Client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete product: %s", responseError(res.StatusCode, res.Body))
	}
	return nil
}

func (i *Index) Search(ctx context.Context, query string, from, size int) (int64, []uuid.UUID, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name_sr^2", "name_en^2", "description_sr", "description_en", "category_sr", "category_en"},
				"fuzziness": "AUTO",
			},
		},
		"_source": []string{"id"},
		"from":    from,
		"size":    size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}

	res, err := i.Client.Search(
		i.Client.Search.WithContext(ctx),
		i.Client.Search.WithIndex(i.Name),
		i.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", responseError(res.StatusCode, res.Body))
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("search: decode: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		id, err := uuid.Parse(h.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return r.Hits.Total.Value, ids, nil
}

func responseError(status int, body io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(body, 512))
	return fmt.Sprintf("status %d: %s", status, bytes.TrimSpace(b))
}
