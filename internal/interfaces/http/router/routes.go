package router

import (
	"github.com/gin-gonic/gin"

	"github.com/zakatledger/backend/internal/interfaces/http/handler"
)

// Handlers bundles the API handlers the route table composes.
type Handlers struct {
	Zakat       *handler.ZakatHandler
	Methodology *handler.MethodologyHandler
	System      *handler.SystemHandler
}

// SetupAPIRoutes registers the full /api/v1 surface on the engine. Any
// apiMiddleware runs on every versioned route, after the engine-level chain.
func SetupAPIRoutes(engine *gin.Engine, h Handlers, apiMiddleware ...gin.HandlerFunc) {
	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Use(apiMiddleware...)

	system := NewDomainGroup("system", "")
	system.GET("/health", h.System.Health)
	system.GET("/system/info", h.System.GetSystemInfo)
	r.Register(system)

	methodologies := NewDomainGroup("methodologies", "/methodologies")
	methodologies.GET("", h.Methodology.List)
	methodologies.GET("/:id", h.Methodology.Get)
	r.Register(methodologies)

	zakat := NewDomainGroup("zakat", "/zakat")
	zakat.POST("/evaluate", h.Zakat.Evaluate)
	zakat.POST("/cycles", h.Zakat.StartCycle)
	zakat.GET("/threshold", h.Zakat.PreviewThreshold)

	records := zakat.Group("records", "/records")
	records.GET("", h.Zakat.ListRecords)
	records.GET("/current", h.Zakat.GetCurrent)
	records.POST("/current/recalculate", h.Zakat.Recalculate)
	records.GET("/:id", h.Zakat.GetRecord)
	records.PUT("/:id", h.Zakat.UpdateUnlocked)
	records.DELETE("/:id", h.Zakat.DeleteRecord)
	records.POST("/:id/confirm", h.Zakat.Confirm)
	records.POST("/:id/finalize", h.Zakat.Finalize)
	records.POST("/:id/unlock", h.Zakat.Unlock)
	records.POST("/:id/refinalize", h.Zakat.Refinalize)
	r.Register(zakat)

	r.Setup()
}
