package search

import (
	"context"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"searchbridge/internal/model"
)

// Searcher abstracts the engine so services can be tested without a cluster.
type Searcher interface {
	Ping(ctx context.Context) error

	Index(ctx context.Context, req *esapi.IndexRequest) (*model.WriteResponse, error)
	Get(ctx context.Context, req *esapi.GetRequest) (*model.GetResponse, error)
	Exists(ctx context.Context, req *esapi.ExistsRequest) (bool, error)
	Delete(ctx context.Context, req *esapi.DeleteRequest) (*model.WriteResponse, error)
	Update(ctx context.Context, req *esapi.UpdateRequest) (*model.WriteResponse, error)
	MultiGet(ctx context.Context, req *esapi.MgetRequest) (*model.MultiGetResponse, error)

	Search(ctx context.Context, req *esapi.SearchRequest) (*model.SearchResponse, error)
	Scroll(ctx context.Context, req *esapi.ScrollRequest) (*model.SearchResponse, error)
	ClearScroll(ctx context.Context, req *esapi.ClearScrollRequest) (*model.ClearScrollResponse, error)
	Count(ctx context.Context, req *esapi.CountRequest) (*model.CountResponse, error)
	DeleteByQuery(ctx context.Context, req *esapi.DeleteByQueryRequest) (*model.DeleteByQueryResponse, error)
	Bulk(ctx context.Context, req *esapi.BulkRequest) (*model.BulkResponse, error)

	CreateIndex(ctx context.Context, req *esapi.IndicesCreateRequest) (*model.AcknowledgedResponse, error)
	DeleteIndex(ctx context.Context, req *esapi.IndicesDeleteRequest) (*model.AcknowledgedResponse, error)
	IndexExists(ctx context.Context, req *esapi.IndicesExistsRequest) (bool, error)
	PutMapping(ctx context.Context, req *esapi.IndicesPutMappingRequest) (*model.AcknowledgedResponse, error)
	GetMapping(ctx context.Context, req *esapi.IndicesGetMappingRequest) (map[string]model.IndexState, error)
	PutSettings(ctx context.Context, req *esapi.IndicesPutSettingsRequest) (*model.AcknowledgedResponse, error)
	GetSettings(ctx context.Context, req *esapi.IndicesGetSettingsRequest) (map[string]model.IndexState, error)
	OpenIndex(ctx context.Context, req *esapi.IndicesOpenRequest) (*model.AcknowledgedResponse, error)
	CloseIndex(ctx context.Context, req *esapi.IndicesCloseRequest) (*model.AcknowledgedResponse, error)
	Refresh(ctx context.Context, req *esapi.IndicesRefreshRequest) (*model.BroadcastResponse, error)
	Flush(ctx context.Context, req *esapi.IndicesFlushRequest) (*model.BroadcastResponse, error)
	ForceMerge(ctx context.Context, req *esapi.IndicesForcemergeRequest) (*model.BroadcastResponse, error)
	UpdateAliases(ctx context.Context, req *esapi.IndicesUpdateAliasesRequest) (*model.AcknowledgedResponse, error)
	PutIndexTemplate(ctx context.Context, req *esapi.IndicesPutIndexTemplateRequest) (*model.AcknowledgedResponse, error)

	ClusterHealth(ctx context.Context, req *esapi.ClusterHealthRequest) (*model.ClusterHealthResponse, error)
}
