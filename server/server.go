// Package server exposes the merged version file over a fiber HTTP API,
// including a GraphQL endpoint.
package server

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/graphql-go/graphql"
	"go.uber.org/zap"

	gqlschema "github.com/modpublish/versiondb/graphql"
	"github.com/modpublish/versiondb/merge"
	"github.com/modpublish/versiondb/model"
)

// VersionResponse is a merged record plus derived fields for detail views
type VersionResponse struct {
	model.MergedRecord
	Matched    bool   `json:"matched"`
	CurseForge bool   `json:"curseforge"`
	Purl       string `json:"purl"`
}

// ListResponse wraps a filtered version list
type ListResponse struct {
	Success  bool                 `json:"success"`
	Count    int                  `json:"count"`
	Versions []model.MergedRecord `json:"versions"`
}

// ErrorResponse is returned for failed requests
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Config holds the server options
type Config struct {
	AccessLog bool // enable the fiber request logger
}

// New builds the fiber app over repo
func New(repo gqlschema.Repository, log *zap.Logger, cfg Config) (*fiber.App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	schema, err := gqlschema.CreateSchema(repo)
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:               "versiondb API v1.0",
		ReadTimeout:           time.Second * 30,
		DisableStartupMessage: true,
	})

	// Middleware
	app.Use(fiberrecover.New())
	if cfg.AccessLog {
		app.Use(logger.New())
	}
	app.Use(cors.New())

	// Health check endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
		})
	})

	h := &handlers{repo: repo, log: log}

	api := app.Group("/api/v1")
	api.Get("/versions", h.listVersions)
	api.Get("/versions/:id", h.getVersion)
	api.Get("/stats", h.getStats)
	api.Post("/graphql", GraphQLHandler(schema, log))

	return app, nil
}

type handlers struct {
	repo gqlschema.Repository
	log  *zap.Logger
}

func (h *handlers) unavailable(c *fiber.Ctx, err error) error {
	h.log.Error("Failed to load versions", zap.Error(err))
	return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
		Success: false,
		Message: "Version data is not available",
	})
}

// listVersions handles GET /versions?type=release,snapshot&matched=true&curseforge=true
func (h *handlers) listVersions(c *fiber.Ctx) error {
	records, err := h.repo.Versions()
	if err != nil {
		return h.unavailable(c, err)
	}

	filter := merge.Filter{
		MatchedOnly:    c.QueryBool("matched", false),
		CurseForgeOnly: c.QueryBool("curseforge", false),
	}
	if types := c.Query("type"); types != "" {
		for _, t := range strings.Split(types, ",") {
			if t = strings.TrimSpace(t); t != "" {
				filter.Kinds = append(filter.Kinds, model.Kind(t))
			}
		}
	}

	versions := filter.Apply(records)
	return c.JSON(ListResponse{
		Success:  true,
		Count:    len(versions),
		Versions: versions,
	})
}

// getVersion handles GET /versions/:id
func (h *handlers) getVersion(c *fiber.Ctx) error {
	records, err := h.repo.Versions()
	if err != nil {
		return h.unavailable(c, err)
	}

	id := c.Params("id")
	record, ok := merge.Find(records, id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Success: false,
			Message: "Version not found: " + id,
		})
	}

	return c.JSON(VersionResponse{
		MergedRecord: record,
		Matched:      record.Matched(),
		CurseForge:   record.CanReleaseToCurseForge(),
		Purl:         record.PackageURL(),
	})
}

// getStats handles GET /stats
func (h *handlers) getStats(c *fiber.Ctx) error {
	records, err := h.repo.Versions()
	if err != nil {
		return h.unavailable(c, err)
	}
	return c.JSON(merge.ComputeStats(records))
}

// GraphQLHandler handles GraphQL requests
func GraphQLHandler(schema graphql.Schema, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var params struct {
			Query         string                 `json:"query"`
			OperationName string                 `json:"operationName"`
			Variables     map[string]interface{} `json:"variables"`
		}

		if err := c.BodyParser(&params); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"errors": []map[string]interface{}{
					{
						"message": "Invalid request body",
					},
				},
			})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  params.Query,
			VariableValues: params.Variables,
			OperationName:  params.OperationName,
			Context:        c.UserContext(),
		})

		if len(result.Errors) > 0 {
			log.Warn("GraphQL errors", zap.Any("errors", result.Errors))
		}

		return c.JSON(result)
	}
}
