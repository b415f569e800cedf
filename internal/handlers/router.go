package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lehigh-university-libraries/homelibrary/internal/docs"
	"github.com/lehigh-university-libraries/homelibrary/internal/storage"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterDeps carries what the API routes are built from.
type RouterDeps struct {
	Store          *storage.Store
	Importer       ImageImporter
	URLs           URLAdder
	MaxUploadBytes int64
	StartTime      time.Time
	Version        string
}

// NewRouter registers the health checks, the /api routes and the swagger UI
// on a new engine. Callers set the gin mode first.
func NewRouter(d RouterDeps) *gin.Engine {
	e := gin.Default()

	e.SetTrustedProxies([]string{
		"127.0.0.1",
		"::1",
	})

	e.MaxMultipartMemory = d.MaxUploadBytes

	docs.SwaggerInfo.BasePath = "/api"

	NewHealthHandler(d.Store.DB(), d.StartTime, d.Version).RegisterRoutes(e)

	api := e.Group("/api")
	{
		NewRoomHandler(d.Store).RegisterRoutes(api)
		NewLayoutHandler(d.Store).RegisterRoutes(api)
		NewBookshelfHandler(d.Store, d.Importer, d.MaxUploadBytes).RegisterRoutes(api)
		NewBookHandler(d.Store, d.URLs).RegisterRoutes(api)
	}

	e.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return e
}
