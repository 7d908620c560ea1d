package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/roamstay/marketplace/services/stays/internal/models"
)

// Index is the Elasticsearch-backed listing index. Writes are best-effort
// from the service's point of view; the database stays the source of truth.
type Index struct {
	es   *elasticsearch.Client
	name string
}

func NewIndex(addr, user, password, name string) (*Index, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{addr},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch: %s: %s", res.Status(), body)
	}

	return &Index{es: client, name: name}, nil
}

func (i *Index) IndexStay(ctx context.Context, stay *models.Stay) error {
	doc, err := json.Marshal(stay)
	if err != nil {
		return err
	}

	res, err := i.es.Index(
		i.name,
		bytes.NewReader(doc),
		i.es.Index.WithContext(ctx),
		i.es.Index.WithDocumentID(stay.ID.String()),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index stay: %s", res.Status())
	}
	return nil
}

func (i *Index) DeleteStay(ctx context.Context, id uuid.UUID) error {
	res, err := i.es.Delete(i.name, id.String(), i.es.Delete.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete stay: %s", res.Status())
	}
	return nil
}

func (i *Index) Search(ctx context.Context, query string, from, size int) (int64, []models.Stay, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "description", "city"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := i.es.Search(
		i.es.Search.WithContext(ctx),
		i.es.Search.WithIndex(i.name),
		i.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Stay `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	stays := make([]models.Stay, len(r.Hits.Hits))
	for n, hit := range r.Hits.Hits {
		stays[n] = hit.Source
	}
	return r.Hits.Total.Value, stays, nil
}
