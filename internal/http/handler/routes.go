package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	_ "searchbridge/docs"
	"searchbridge/internal/service"
)

// Dependencies carries what RegisterRoutes mounts. Queries and Exports are
// optional; their routes are only registered when set.
type Dependencies struct {
	Search  service.SearchService
	Queries service.SavedQueryService
	Exports service.ExportService
	Health  map[string]Pinger
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app fiber.Router, deps Dependencies) {
	app.Get("/health", HealthCheck(deps.Health))
	app.Get("/healthz", LivenessProbe())
	// doc.json carries no host, so the UI resolves it against the URL
	// it was served from.
	app.Get("/swagger/*", swagger.HandlerDefault)

	svc := deps.Search

	idx := app.Group("/indices/:index")
	idx.Put("/", CreateIndex(svc))
	idx.Delete("/", DeleteIndex(svc))
	idx.Head("/", IndexExists(svc))
	idx.Put("/mapping", PutMapping(svc))
	idx.Get("/mapping", GetMapping(svc))
	idx.Put("/settings", PutSettings(svc))
	idx.Get("/settings", GetSettings(svc))
	idx.Post("/open", OpenIndex(svc))
	idx.Post("/close", CloseIndex(svc))
	idx.Post("/refresh", Refresh(svc))
	idx.Post("/flush", Flush(svc))
	idx.Post("/forcemerge", ForceMerge(svc))

	idx.Post("/documents", IndexDocument(svc))
	idx.Put("/documents/:id", PutDocument(svc))
	// HEAD first: Get also registers a HEAD route for the same path.
	idx.Head("/documents/:id", DocumentExists(svc))
	idx.Get("/documents/:id", GetDocument(svc))
	idx.Delete("/documents/:id", DeleteDocument(svc))
	idx.Post("/documents/:id/update", UpdateDocument(svc))
	idx.Post("/mget", MultiGet(svc))

	idx.Post("/search", Search(svc))
	idx.Post("/count", Count(svc))
	idx.Post("/delete_by_query", DeleteByQuery(svc))

	app.Post("/aliases", UpdateAliases(svc))
	app.Put("/templates/:name", PutIndexTemplate(svc))
	app.Post("/scroll", Scroll(svc))
	app.Delete("/scroll", ClearScroll(svc))
	app.Post("/bulk", Bulk(svc))
	app.Get("/cluster/health", ClusterHealth(svc))

	if deps.Queries != nil {
		q := app.Group("/queries")
		q.Post("/", SaveQuery(deps.Queries))
		q.Get("/", ListQueries(deps.Queries))
		q.Get("/:name", GetQuery(deps.Queries))
		q.Delete("/:name", DeleteQuery(deps.Queries))
		q.Post("/:name/run", RunQuery(deps.Queries))
	}

	if deps.Exports != nil {
		idx.Post("/exports", ExportSearch(deps.Exports))
		app.Get("/exports/:id", DownloadExport(deps.Exports))
		app.Delete("/exports/:id", DeleteExport(deps.Exports))
	}
}
