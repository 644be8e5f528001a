package worker

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"searchbridge/internal/config"
	"searchbridge/internal/model"
	searchMocks "searchbridge/internal/search/mocks"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeReader struct {
	msgs chan kafka.Message

	mu        sync.Mutex
	fetched   int
	committed []int64
}

func newFakeReader() *fakeReader {
	return &fakeReader{msgs: make(chan kafka.Message, 16)}
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	case m := <-r.msgs:
		r.mu.Lock()
		r.fetched++
		r.mu.Unlock()
		return m, nil
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) send(offset int64, value string) {
	r.msgs <- kafka.Message{Topic: "documents", Offset: offset, Value: []byte(value)}
}

func (r *fakeReader) Committed() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

func (r *fakeReader) Fetched() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fetched
}

// bulkRecorder captures the NDJSON bodies submitted to the engine.
type bulkRecorder struct {
	mu     sync.Mutex
	bodies []string
}

func (b *bulkRecorder) record(args mock.Arguments) {
	req := args.Get(1).(*esapi.BulkRequest)
	raw, _ := io.ReadAll(req.Body)
	b.mu.Lock()
	b.bodies = append(b.bodies, string(raw))
	b.mu.Unlock()
}

func (b *bulkRecorder) Bodies() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.bodies...)
}

func run(t *testing.T, w *Indexer) func() error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	return func() error {
		cancel()
		return <-done
	}
}

func TestIndexer_FlushesFullBatch(t *testing.T) {
	r := newFakeReader()
	engine := new(searchMocks.MockSearcher)
	rec := &bulkRecorder{}
	engine.On("Bulk", mock.Anything, mock.Anything).Run(rec.record).
		Return(&model.BulkResponse{Took: 4}, nil)

	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)

	w := New(r, engine, config.KafkaConfig{BatchSize: 2, FlushInterval: time.Hour}, nil, WithMetrics(metrics))
	stop := run(t, w)

	r.send(10, `{"op":"index","index":"books","id":"1","doc":{"title":"Dune"}}`)
	r.send(11, `{"op":"delete","index":"books","id":"2"}`)

	assert.Eventually(t, func() bool { return len(r.Committed()) == 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, stop())

	bodies := rec.Bodies()
	require.Len(t, bodies, 1)
	lines := strings.Split(strings.TrimSpace(bodies[0]), "\n")
	assert.Equal(t, []string{
		`{"index":{"_index":"books","_id":"1"}}`,
		`{"title":"Dune"}`,
		`{"delete":{"_index":"books","_id":"2"}}`,
	}, lines)
	assert.Equal(t, []int64{10, 11}, r.Committed())
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.events.WithLabelValues("indexed")))
}

func TestIndexer_SkipsMalformedEvents(t *testing.T) {
	r := newFakeReader()
	engine := new(searchMocks.MockSearcher)
	rec := &bulkRecorder{}
	engine.On("Bulk", mock.Anything, mock.Anything).Run(rec.record).Return(&model.BulkResponse{}, nil)

	core, logs := observer.New(zap.WarnLevel)
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)

	w := New(r, engine, config.KafkaConfig{BatchSize: 3, FlushInterval: time.Hour}, zap.New(core), WithMetrics(metrics))
	stop := run(t, w)

	r.send(1, `not json`)
	r.send(2, `{"op":"upsert","index":"books","id":"1"}`)
	r.send(3, `{"op":"update","index":"books","id":"1","doc":{"year":1965},"doc_as_upsert":true}`)

	assert.Eventually(t, func() bool { return len(r.Committed()) == 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, stop())

	require.Len(t, rec.Bodies(), 1)
	assert.Equal(t,
		"{\"update\":{\"_index\":\"books\",\"_id\":\"1\"}}\n{\"doc\":{\"year\":1965},\"doc_as_upsert\":true}\n",
		rec.Bodies()[0])
	assert.Equal(t, 2, logs.FilterMessage("worker_event_skipped").Len())
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.events.WithLabelValues("skipped")))
}

func TestIndexer_OnlyMalformedSkipsBulk(t *testing.T) {
	r := newFakeReader()
	engine := new(searchMocks.MockSearcher)

	w := New(r, engine, config.KafkaConfig{BatchSize: 1, FlushInterval: time.Hour}, nil)
	stop := run(t, w)

	r.send(7, `{"op":"index"}`)

	assert.Eventually(t, func() bool { return len(r.Committed()) == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, stop())
	engine.AssertNotCalled(t, "Bulk", mock.Anything, mock.Anything)
}

func TestIndexer_FlushesOnInterval(t *testing.T) {
	r := newFakeReader()
	engine := new(searchMocks.MockSearcher)
	engine.On("Bulk", mock.Anything, mock.Anything).Return(&model.BulkResponse{}, nil)

	w := New(r, engine, config.KafkaConfig{BatchSize: 100, FlushInterval: 10 * time.Millisecond}, nil)
	stop := run(t, w)

	r.send(5, `{"op":"create","index":"books","doc":{"title":"Emma"}}`)

	assert.Eventually(t, func() bool { return len(r.Committed()) == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, stop())
}

func TestIndexer_FlushesPendingOnShutdown(t *testing.T) {
	r := newFakeReader()
	engine := new(searchMocks.MockSearcher)
	engine.On("Bulk", mock.Anything, mock.Anything).Return(&model.BulkResponse{}, nil)

	w := New(r, engine, config.KafkaConfig{BatchSize: 100, FlushInterval: time.Hour}, nil)
	stop := run(t, w)

	r.send(42, `{"op":"index","index":"books","id":"9","doc":{}}`)
	assert.Eventually(t, func() bool { return r.Fetched() == 1 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, r.Committed())

	require.NoError(t, stop())
	assert.Equal(t, []int64{42}, r.Committed())
	engine.AssertNumberOfCalls(t, "Bulk", 1)
}

func TestIndexer_RetriesFailedBulk(t *testing.T) {
	r := newFakeReader()
	engine := new(searchMocks.MockSearcher)
	engine.On("Bulk", mock.Anything, mock.Anything).Return(nil, errors.New("engine unavailable")).Once()
	engine.On("Bulk", mock.Anything, mock.Anything).Return(&model.BulkResponse{}, nil).Once()

	w := New(r, engine, config.KafkaConfig{BatchSize: 1}, nil, WithRetryDelay(time.Millisecond))
	stop := run(t, w)

	r.send(1, `{"op":"delete","index":"books","id":"1"}`)

	assert.Eventually(t, func() bool { return len(r.Committed()) == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, stop())
	engine.AssertNumberOfCalls(t, "Bulk", 2)
}

func TestIndexer_LogsItemFailures(t *testing.T) {
	r := newFakeReader()
	engine := new(searchMocks.MockSearcher)
	engine.On("Bulk", mock.Anything, mock.Anything).Return(&model.BulkResponse{
		Errors: true,
		Items: []map[string]model.BulkItem{
			{"index": {Index: "books", ID: "1", Status: 201}},
			{"update": {Index: "books", ID: "2", Status: 404, Error: &model.ErrorCause{
				Type:   "document_missing_exception",
				Reason: "[2]: document missing",
			}}},
		},
	}, nil)

	core, logs := observer.New(zap.InfoLevel)
	w := New(r, engine, config.KafkaConfig{BatchSize: 2}, zap.New(core))
	stop := run(t, w)

	r.send(1, `{"op":"index","index":"books","id":"1","doc":{}}`)
	r.send(2, `{"op":"update","index":"books","id":"2","doc":{"a":1}}`)

	assert.Eventually(t, func() bool { return len(r.Committed()) == 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, stop())

	failed := logs.FilterMessage("worker_item_failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "document_missing_exception", failed[0].ContextMap()["error_type"])
	assert.Equal(t, int64(404), failed[0].ContextMap()["status"])
}

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr string
	}{
		{"index", `{"op":"index","index":"i","doc":{}}`, ""},
		{"create without id", `{"op":"create","index":"i","doc":{"a":1}}`, ""},
		{"delete", `{"op":"delete","index":"i","id":"1"}`, ""},
		{"missing index", `{"op":"delete","id":"1"}`, "index is required"},
		{"index without doc", `{"op":"index","index":"i"}`, "index requires doc"},
		{"update without id", `{"op":"update","index":"i","doc":{}}`, "update requires id and doc"},
		{"delete without id", `{"op":"delete","index":"i"}`, "delete requires id"},
		{"unknown op", `{"op":"merge","index":"i"}`, `unknown op "merge"`},
		{"not json", `{`, "malformed event"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEvent([]byte(tt.value))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, errMalformed)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestEvent_Operation(t *testing.T) {
	ev := Event{Op: "index", Index: "books", ID: "1", Routing: "u1", Doc: map[string]any{"a": 1}}
	assert.Equal(t, map[string]any{
		"index": map[string]any{"_index": "books", "_id": "1", "routing": "u1"},
		"doc":   map[string]any{"a": 1},
	}, ev.Operation())

	del := Event{Op: "delete", Index: "books", ID: "1", Doc: map[string]any{"ignored": true}}
	assert.Equal(t, map[string]any{"delete": map[string]any{"_index": "books", "_id": "1"}}, del.Operation())
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)
	_, err = NewMetrics(reg)
	assert.Error(t, err)

	var nilMetrics *Metrics
	nilMetrics.count("indexed", 1)
	nilMetrics.batch(1)
}
