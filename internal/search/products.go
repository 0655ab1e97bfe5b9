package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"
	"github.com/google/uuid"

	"github.com/Skotchmaster/marketplace/internal/models"
)

const productMapping = `{
  "mappings": {
    "properties": {
      "id":           {"type": "keyword"},
      "title":        {"type": "text"},
      "description":  {"type": "text"},
      "price":        {"type": "scaled_float", "scaling_factor": 100},
      "availability": {"type": "boolean"},
      "categoryId":   {"type": "keyword"}
    }
  }
}`

type ProductIndex struct {
	ES    *elasticsearch.Client
	Index string
}

type productDoc struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Price        string `json:"price"`
	Availability bool   `json:"availability"`
	CategoryID   string `json:"categoryId"`
}

func responseError(op string, res *esapi.Response) error {
	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("elasticsearch %s: %s: %s", op, res.Status(), bytes.TrimSpace(body))
}

// EnsureIndex creates the product index when it is missing.
func (p *ProductIndex) EnsureIndex(ctx context.Context) error {
	res, err := p.ES.Indices.Exists([]string{p.Index}, p.ES.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch exists: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = p.ES.Indices.Create(p.Index,
		p.ES.Indices.Create.WithContext(ctx),
		p.ES.Indices.Create.WithBody(bytes.NewReader([]byte(productMapping))),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch create index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("create index", res)
	}
	return nil
}

func (p *ProductIndex) IndexProduct(ctx context.Context, prod *models.Product) error {
	doc := productDoc{
		ID:           prod.ID.String(),
		Title:        prod.Title,
		Description:  prod.Description,
		Price:        prod.Price.StringFixed(2),
		Availability: prod.Availability,
		CategoryID:   prod.CategoryID.String(),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	res, err := p.ES.Index(p.Index, bytes.NewReader(data),
		p.ES.Index.WithContext(ctx),
		p.ES.Index.WithDocumentID(doc.ID),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index", res)
	}
	return nil
}

// SearchProducts returns the total hit count and the ids of the requested page.
func (p *ProductIndex) SearchProducts(ctx context.Context, query string, from, size int) (int64, []uuid.UUID, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"_source": []string{"id"},
		"from":    from,
		"size":    size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := p.ES.Search(
		p.ES.Search.WithContext(ctx),
		p.ES.Search.WithIndex(p.Index),
		p.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("elasticsearch search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, responseError("search", res)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source productDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("elasticsearch search decode: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		id, err := uuid.Parse(hit.Source.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return r.Hits.Total.Value, ids, nil
}
