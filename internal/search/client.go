// Package search executes typed engine requests and decodes typed responses.
package search

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"searchbridge/internal/config"
	"searchbridge/internal/model"
)

// Client wraps the official engine client. Every method takes a typed
// request and returns a typed response.
type Client struct {
	es      *elasticsearch.Client
	logger  *zap.Logger
	metrics *Metrics
}

type options struct {
	transport http.RoundTripper
	logger    *zap.Logger
	metrics   *Metrics
}

// Option configures a Client.
type Option func(*options)

// WithTransport replaces the base HTTP transport. It is still wrapped for tracing.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithLogger sets the logger used for per-call debug entries.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics records call latency on m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// NewClient builds a client from cfg. Basic auth is used when Username is
// set, API key auth when APIKey is set.
func NewClient(cfg config.ElasticsearchConfig, opts ...Option) (*Client, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	base := o.transport
	if base == nil {
		t, err := newTransport(cfg)
		if err != nil {
			return nil, err
		}
		base = t
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     cfg.URLs,
		Username:      cfg.Username,
		Password:      cfg.Password,
		APIKey:        cfg.APIKey,
		Transport:     otelhttp.NewTransport(base),
		MaxRetries:    cfg.MaxRetries,
		DisableRetry:  cfg.MaxRetries <= 0,
		RetryOnStatus: []int{http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("create search client: %w", err)
	}
	return &Client{es: es, logger: o.logger, metrics: o.metrics}, nil
}

func newTransport(cfg config.ElasticsearchConfig) (*http.Transport, error) {
	t := http.DefaultTransport.(*http.Transport).Clone()
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if cfg.CACertPath != "" {
		pem, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("read CA certificate: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", cfg.CACertPath)
		}
		tlsCfg.RootCAs = pool
	}
	if cfg.SkipTLSVerify {
		tlsCfg.InsecureSkipVerify = true // dev only
	}
	t.TLSClientConfig = tlsCfg
	return t, nil
}

// perform runs req and records its latency. The caller closes the body.
func (c *Client) perform(ctx context.Context, op string, req esapi.Request) (*esapi.Response, error) {
	start := time.Now()
	res, err := req.Do(ctx, c.es)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.observe(op, 0, elapsed)
		c.logger.Warn("search_request_failed", zap.String("operation", op), zap.Duration("duration", elapsed), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.metrics.observe(op, res.StatusCode, elapsed)
	c.logger.Debug("search_request",
		zap.String("operation", op),
		zap.Int("status", res.StatusCode),
		zap.Duration("duration", elapsed),
	)
	return res, nil
}

// call performs req and decodes a 2xx body into out.
func (c *Client) call(ctx context.Context, op string, req esapi.Request, out any) error {
	res, err := c.perform(ctx, op, req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusMultipleChoices {
		return responseError(res)
	}
	return decodeBody(op, res.Body, out)
}

// exists performs a HEAD style request; 404 is a negative answer, not an error.
func (c *Client) exists(ctx context.Context, op string, req esapi.Request) (bool, error) {
	res, err := c.perform(ctx, op, req)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)
	switch {
	case res.StatusCode == http.StatusNotFound:
		return false, nil
	case res.StatusCode >= http.StatusMultipleChoices:
		return false, &ResponseError{StatusCode: res.StatusCode}
	}
	return true, nil
}

func decodeBody(op string, body io.Reader, out any) error {
	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func responseError(res *esapi.Response) error {
	re := &ResponseError{StatusCode: res.StatusCode}
	raw, err := io.ReadAll(res.Body)
	if err != nil || len(raw) == 0 {
		return re
	}
	if err := json.Unmarshal(raw, &re.Body); err != nil {
		re.Body.Error.Reason = string(raw)
	}
	if re.Body.Status == 0 {
		re.Body.Status = res.StatusCode
	}
	return re
}

// Ping checks that the cluster answers.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.perform(ctx, "ping", esapi.PingRequest{})
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return &ResponseError{StatusCode: res.StatusCode}
	}
	return nil
}

// Index stores a document.
func (c *Client) Index(ctx context.Context, req *esapi.IndexRequest) (*model.WriteResponse, error) {
	var out model.WriteResponse
	if err := c.call(ctx, "index", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get looks up a document. A missing document is reported through Found,
// a missing index as a ResponseError.
func (c *Client) Get(ctx context.Context, req *esapi.GetRequest) (*model.GetResponse, error) {
	res, err := c.perform(ctx, "get", req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		raw, err := io.ReadAll(res.Body)
		if err != nil {
			return nil, fmt.Errorf("get: read response: %w", err)
		}
		var out model.GetResponse
		if err := json.Unmarshal(raw, &out); err == nil && out.Error == nil {
			out.Found = false
			return &out, nil
		}
		re := &ResponseError{StatusCode: res.StatusCode}
		if err := json.Unmarshal(raw, &re.Body); err != nil {
			re.Body.Error.Reason = string(raw)
		}
		return nil, re
	}
	if res.StatusCode >= http.StatusMultipleChoices {
		return nil, responseError(res)
	}

	var out model.GetResponse
	if err := decodeBody("get", res.Body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Exists reports whether a document exists.
func (c *Client) Exists(ctx context.Context, req *esapi.ExistsRequest) (bool, error) {
	return c.exists(ctx, "exists", req)
}

// Delete removes a document.
func (c *Client) Delete(ctx context.Context, req *esapi.DeleteRequest) (*model.WriteResponse, error) {
	var out model.WriteResponse
	if err := c.call(ctx, "delete", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update applies a partial update or script.
func (c *Client) Update(ctx context.Context, req *esapi.UpdateRequest) (*model.WriteResponse, error) {
	var out model.WriteResponse
	if err := c.call(ctx, "update", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MultiGet looks up several documents at once.
func (c *Client) MultiGet(ctx context.Context, req *esapi.MgetRequest) (*model.MultiGetResponse, error) {
	var out model.MultiGetResponse
	if err := c.call(ctx, "mget", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search runs a query.
func (c *Client) Search(ctx context.Context, req *esapi.SearchRequest) (*model.SearchResponse, error) {
	var out model.SearchResponse
	if err := c.call(ctx, "search", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Scroll fetches the next page of a scroll.
func (c *Client) Scroll(ctx context.Context, req *esapi.ScrollRequest) (*model.SearchResponse, error) {
	var out model.SearchResponse
	if err := c.call(ctx, "scroll", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearScroll releases scroll contexts. Contexts that already expired make
// the engine answer 404 with a regular body; that is not an error.
func (c *Client) ClearScroll(ctx context.Context, req *esapi.ClearScrollRequest) (*model.ClearScrollResponse, error) {
	res, err := c.perform(ctx, "clear_scroll", req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusMultipleChoices && res.StatusCode != http.StatusNotFound {
		return nil, responseError(res)
	}
	var out model.ClearScrollResponse
	if err := decodeBody("clear_scroll", res.Body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Count counts matching documents.
func (c *Client) Count(ctx context.Context, req *esapi.CountRequest) (*model.CountResponse, error) {
	var out model.CountResponse
	if err := c.call(ctx, "count", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteByQuery deletes matching documents.
func (c *Client) DeleteByQuery(ctx context.Context, req *esapi.DeleteByQueryRequest) (*model.DeleteByQueryResponse, error) {
	var out model.DeleteByQueryResponse
	if err := c.call(ctx, "delete_by_query", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Bulk submits a batch. Per-item failures are reported in the response, not as an error.
func (c *Client) Bulk(ctx context.Context, req *esapi.BulkRequest) (*model.BulkResponse, error) {
	var out model.BulkResponse
	if err := c.call(ctx, "bulk", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) acknowledged(ctx context.Context, op string, req esapi.Request) (*model.AcknowledgedResponse, error) {
	var out model.AcknowledgedResponse
	if err := c.call(ctx, op, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) broadcast(ctx context.Context, op string, req esapi.Request) (*model.BroadcastResponse, error) {
	var out model.BroadcastResponse
	if err := c.call(ctx, op, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) indexStates(ctx context.Context, op string, req esapi.Request) (map[string]model.IndexState, error) {
	out := map[string]model.IndexState{}
	if err := c.call(ctx, op, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateIndex creates an index.
func (c *Client) CreateIndex(ctx context.Context, req *esapi.IndicesCreateRequest) (*model.AcknowledgedResponse, error) {
	return c.acknowledged(ctx, "create_index", req)
}

// DeleteIndex deletes indices.
func (c *Client) DeleteIndex(ctx context.Context, req *esapi.IndicesDeleteRequest) (*model.AcknowledgedResponse, error) {
	return c.acknowledged(ctx, "delete_index", req)
}

// IndexExists reports whether all given indices exist.
func (c *Client) IndexExists(ctx context.Context, req *esapi.IndicesExistsRequest) (bool, error) {
	return c.exists(ctx, "index_exists", req)
}

// PutMapping updates index mappings.
func (c *Client) PutMapping(ctx context.Context, req *esapi.IndicesPutMappingRequest) (*model.AcknowledgedResponse, error) {
	return c.acknowledged(ctx, "put_mapping", req)
}

// GetMapping returns mappings keyed by index name.
func (c *Client) GetMapping(ctx context.Context, req *esapi.IndicesGetMappingRequest) (map[string]model.IndexState, error) {
	return c.indexStates(ctx, "get_mapping", req)
}

// PutSettings updates dynamic index settings.
func (c *Client) PutSettings(ctx context.Context, req *esapi.IndicesPutSettingsRequest) (*model.AcknowledgedResponse, error) {
	return c.acknowledged(ctx, "put_settings", req)
}

// GetSettings returns settings keyed by index name.
func (c *Client) GetSettings(ctx context.Context, req *esapi.IndicesGetSettingsRequest) (map[string]model.IndexState, error) {
	return c.indexStates(ctx, "get_settings", req)
}

// OpenIndex opens closed indices.
func (c *Client) OpenIndex(ctx context.Context, req *esapi.IndicesOpenRequest) (*model.AcknowledgedResponse, error) {
	return c.acknowledged(ctx, "open_index", req)
}

// CloseIndex closes indices.
func (c *Client) CloseIndex(ctx context.Context, req *esapi.IndicesCloseRequest) (*model.AcknowledgedResponse, error) {
	return c.acknowledged(ctx, "close_index", req)
}

// Refresh makes recent writes searchable.
func (c *Client) Refresh(ctx context.Context, req *esapi.IndicesRefreshRequest) (*model.BroadcastResponse, error) {
	return c.broadcast(ctx, "refresh", req)
}

// Flush persists index segments.
func (c *Client) Flush(ctx context.Context, req *esapi.IndicesFlushRequest) (*model.BroadcastResponse, error) {
	return c.broadcast(ctx, "flush", req)
}

// ForceMerge merges index segments.
func (c *Client) ForceMerge(ctx context.Context, req *esapi.IndicesForcemergeRequest) (*model.BroadcastResponse, error) {
	return c.broadcast(ctx, "forcemerge", req)
}

// UpdateAliases applies alias actions atomically.
func (c *Client) UpdateAliases(ctx context.Context, req *esapi.IndicesUpdateAliasesRequest) (*model.AcknowledgedResponse, error) {
	return c.acknowledged(ctx, "update_aliases", req)
}

// PutIndexTemplate stores a composable index template.
func (c *Client) PutIndexTemplate(ctx context.Context, req *esapi.IndicesPutIndexTemplateRequest) (*model.AcknowledgedResponse, error) {
	return c.acknowledged(ctx, "put_index_template", req)
}

// ClusterHealth returns the cluster health summary.
func (c *Client) ClusterHealth(ctx context.Context, req *esapi.ClusterHealthRequest) (*model.ClusterHealthResponse, error) {
	var out model.ClusterHealthResponse
	if err := c.call(ctx, "cluster_health", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

var _ Searcher = (*Client)(nil)
