package router

import (
	"context"
	"net/http"
	"time"

	"rental_agreement_backend/internal/adapters/storage"
	apphttp "rental_agreement_backend/internal/http"
	"rental_agreement_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	uploadRatePerMinute = 30
	uploadBurst         = 10
)

// New builds the gin engine with shared middleware, artifact serving and
// every module's routes.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     app.Config.GetCORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", httpkit.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Disposition", httpkit.HeaderRequestID},
		AllowCredentials: app.Config.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}))

	engine.GET("/api/health", func(c *gin.Context) {
		if app.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := app.Health.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if app.Artifacts != nil {
		engine.GET("/uploads/:file", serveArtifact(app.Artifacts, storage.RootUploads))
		engine.GET("/backups/:file", serveArtifact(app.Artifacts, storage.RootBackups))
	}

	limiter := httpkit.NewIPRateLimiter(rate.Limit(float64(uploadRatePerMinute)/60), uploadBurst, app.Logger)
	rc := &apphttp.RouterContext{
		Engine:          engine,
		V1:              engine.Group("/api/v1"),
		Config:          app.Config,
		UploadRateLimit: limiter.RateLimit(),
	}

	for _, m := range app.Modules {
		m.RegisterRoutes(rc)
		app.Logger.Info("registered module routes", "module", m.Name())
	}

	return engine
}

func serveArtifact(store storage.ArtifactStore, root storage.Root) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := storage.Reference(root, c.Param("file"))
		data, err := store.Read(c.Request.Context(), ref)
		if httpkit.HandleError(c, err) {
			return
		}
		c.Header("Cache-Control", "private, max-age=3600")
		c.Data(http.StatusOK, storage.ContentTypeForName(c.Param("file")), data)
	}
}
