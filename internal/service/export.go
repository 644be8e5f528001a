package service

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"searchbridge/internal/convert"
	"searchbridge/internal/model"
	"searchbridge/internal/search"
	"searchbridge/internal/storage"
)

const (
	defaultExportPageSize  = 1000
	defaultExportKeepAlive = "1m"
)

// ErrExportNotFound is returned for an export id with no stored object.
var ErrExportNotFound = errors.New("export not found")

// ExportService writes every hit of a search to object storage.
type ExportService interface {
	// Export scrolls through req on index and stores each hit's _source as
	// one NDJSON line. The returned URL is a presigned download link.
	Export(ctx context.Context, index string, req map[string]any) (*model.Export, error)
	// Open streams a stored export. The caller closes the reader.
	Open(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error)
	// Delete removes a stored export. Deleting an unknown id succeeds.
	Delete(ctx context.Context, id string) error
}

type exportService struct {
	engine        search.Searcher
	store         storage.Storage
	presignExpiry time.Duration
	logger        *zap.Logger
}

// NewExportService constructs a new ExportService.
func NewExportService(engine search.Searcher, store storage.Storage, presignExpiry time.Duration, logger *zap.Logger) ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &exportService{engine: engine, store: store, presignExpiry: presignExpiry, logger: logger}
}

func (s *exportService) Export(ctx context.Context, index string, req map[string]any) (*model.Export, error) {
	if index == "" {
		return nil, ErrIndexRequired
	}
	defaults := map[string]any{"scroll": defaultExportKeepAlive}
	if _, ok := req["size"]; !ok {
		defaults["size"] = defaultExportPageSize
	}
	body := convert.MergeBody(defaults, req)
	keepAlive := body["scroll"]

	sreq, err := convert.SearchRequest([]string{index}, body)
	if err != nil {
		return nil, invalid(err)
	}

	id := uuid.New().String()
	key := storage.ExportKey(id)
	pr, pw := io.Pipe()
	g, gctx := errgroup.WithContext(ctx)

	var (
		count    int64
		scrollID string
		info     storage.ObjectInfo
	)
	g.Go(func() error {
		var err error
		count, scrollID, err = s.writeHits(gctx, sreq, keepAlive, pw)
		pw.CloseWithError(err)
		return err
	})
	g.Go(func() error {
		var err error
		info, err = s.store.Put(gctx, key, pr, storage.PutObjectOptions{
			Size:        -1,
			ContentType: storage.NDJSONContentType,
			Metadata:    map[string]string{"index": index},
		})
		pr.CloseWithError(err)
		return err
	})
	err = g.Wait()

	if scrollID != "" {
		s.clearScroll(context.WithoutCancel(ctx), scrollID)
	}
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", index, err)
	}

	url, err := s.store.PresignGet(ctx, key, s.presignExpiry)
	if err != nil {
		err = fmt.Errorf("presign export: %w", err)
		if derr := s.store.Delete(context.WithoutCancel(ctx), key); derr != nil {
			err = errors.Join(err, derr)
		}
		return nil, err
	}

	s.logger.Info("export_complete",
		zap.String("index", index),
		zap.String("key", key),
		zap.Int64("count", count),
		zap.Int64("size", info.Size),
	)
	return &model.Export{ID: id, Key: key, Count: count, Size: info.Size, URL: url}, nil
}

func (s *exportService) Open(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error) {
	key, err := exportKey(id)
	if err != nil {
		return nil, storage.ObjectInfo{}, err
	}
	rc, info, err := s.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, storage.ObjectInfo{}, ErrExportNotFound
	}
	if err != nil {
		return nil, storage.ObjectInfo{}, fmt.Errorf("open export: %w", err)
	}
	return rc, info, nil
}

func (s *exportService) Delete(ctx context.Context, id string) error {
	key, err := exportKey(id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete export: %w", err)
	}
	s.logger.Info("export_deleted", zap.String("key", key))
	return nil
}

// exportKey maps an export id to its object key. Ids are the UUIDs Export
// hands out, so anything else cannot name an export.
func exportKey(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", invalid(fmt.Errorf("export id %q: %w", id, err))
	}
	return storage.ExportKey(u.String()), nil
}

// writeHits pages through the scroll writing one line per hit. It returns
// the last scroll id seen so the caller can release the context.
func (s *exportService) writeHits(ctx context.Context, first *esapi.SearchRequest, keepAlive any, w io.Writer) (int64, string, error) {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)

	var (
		count    int64
		scrollID string
	)
	res, err := s.engine.Search(ctx, first)
	for {
		if err != nil {
			return count, scrollID, err
		}
		if res.ScrollID != "" {
			scrollID = res.ScrollID
		}
		if len(res.Hits.Hits) == 0 {
			break
		}
		for i := range res.Hits.Hits {
			src := res.Hits.Hits[i].Source
			if src == nil {
				src = map[string]any{}
			}
			if err := enc.Encode(src); err != nil {
				return count, scrollID, err
			}
			count++
		}
		if scrollID == "" {
			return count, "", errors.New("search response carried no scroll id")
		}
		next, cerr := convert.ScrollRequest(scrollID, keepAlive)
		if cerr != nil {
			return count, scrollID, cerr
		}
		res, err = s.engine.Scroll(ctx, next)
	}
	return count, scrollID, bw.Flush()
}

func (s *exportService) clearScroll(ctx context.Context, scrollID string) {
	req, err := convert.ClearScrollRequest(scrollID)
	if err == nil {
		_, err = s.engine.ClearScroll(ctx, req)
	}
	if err != nil {
		s.logger.Warn("export_clear_scroll_failed", zap.Error(err))
	}
}
