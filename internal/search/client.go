package search

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/pkg/errors"
)

// Document is what gets stored for every product.
type Document struct {
	ID          uint   `json:"id"`
	CategoryID  uint   `json:"category_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Size        string `json:"size"`
	Price       int64  `json:"price"`
	Discount    int    `json:"discount"`
}

// Index is the product index the catalog keeps in sync.
type Index interface {
	Put(ctx context.Context, doc Document) error
	Remove(ctx context.Context, id uint) error
	Query(ctx context.Context, q string, offset, limit int) (ids []uint, total int64, err error)
}

type ESIndex struct {
	client *elasticsearch.Client
	index  string
}

type Config struct {
	URL      string
	User     string
	Password string
	Index    string
}

func NewClient(cfg Config, log *slog.Logger) (*ESIndex, error) {
	log.Info("connecting to elasticsearch", "url", cfg.URL, "index", cfg.Index)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, errors.Wrap(err, "elasticsearch: new client")
	}

	res, err := client.Info()
	if err != nil {
		return nil, errors.Wrap(err, "elasticsearch: info")
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("info", res)
	}

	log.Info("connected to elasticsearch")
	return &ESIndex{client: client, index: cfg.Index}, nil
}

func (s *ESIndex) Put(ctx context.Context, doc Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "elasticsearch: marshal document")
	}
	res, err := s.client.Index(s.index, bytes.NewReader(body),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(docID(doc.ID)),
	)
	if err != nil {
		return errors.Wrap(err, "elasticsearch: index")
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index", res)
	}
	return nil
}

func (s *ESIndex) Remove(ctx context.Context, id uint) error {
	res, err := s.client.Delete(s.index, docID(id), s.client.Delete.WithContext(ctx))
	if err != nil {
		return errors.Wrap(err, "elasticsearch: delete")
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return responseError("delete", res)
	}
	return nil
}

func (s *ESIndex) Query(ctx context.Context, q string, offset, limit int) ([]uint, int64, error) {
	body, err := json.Marshal(buildQuery(q, offset, limit))
	if err != nil {
		return nil, 0, errors.Wrap(err, "elasticsearch: marshal query")
	}
	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(body)),
		s.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, 0, errors.Wrap(err, "elasticsearch: search")
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, 0, responseError("search", res)
	}
	return decodeHits(res.Body)
}

func buildQuery(q string, offset, limit int) map[string]any {
	return map[string]any{
		"from":    offset,
		"size":    limit,
		"_source": false,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"title^2", "description", "size"},
				"fuzziness": "AUTO",
			},
		},
	}
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

func decodeHits(r io.Reader) ([]uint, int64, error) {
	var sr searchResponse
	if err := json.NewDecoder(r).Decode(&sr); err != nil {
		return nil, 0, errors.Wrap(err, "elasticsearch: decode response")
	}
	ids := make([]uint, 0, len(sr.Hits.Hits))
	for _, h := range sr.Hits.Hits {
		n, err := strconv.ParseUint(h.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(n))
	}
	return ids, sr.Hits.Total.Value, nil
}

func docID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func responseError(op string, res *esapi.Response) error {
	b, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	return errors.Errorf("elasticsearch: %s failed: %s: %s", op, res.Status(), string(b))
}
