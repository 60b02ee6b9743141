// Package api exposes the three foreign entry points from internal/cruler
// as HTTP routes, plus operator-facing health and run-history endpoints.
// Grounded on the teacher's gin-based internal/api/routes.go (gin.New +
// gin.Logger/Recovery, route grouping under "/api", JSON success/error
// envelope from handlers.go) and its gopsutil disk-usage pattern from
// settings.go, stripped of the embedded Svelte UI serving this module has
// no use for.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/disk"
	"github.com/shirou/gopsutil/mem"

	"github.com/cruler-project/cruler/internal/cruler"
	"github.com/cruler-project/cruler/internal/store"
)

// Deps are the dependencies routes need beyond the request body itself.
type Deps struct {
	// RootPath is the directory POST /api/extract/default operates against
	// (passed to cruler.ExtractAllFromRoot); empty means
	// cruler.ExtractAllWithDefaultConfig.
	RootPath string
	// Store backs GET /runs. Nil disables that route (404).
	Store *store.Store
}

// corsMiddleware allows any origin to call the trigger surface, adapted
// from the teacher's net/http CORSMiddleware into gin's handler shape.
func corsMiddleware(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusOK)
		return
	}
	c.Next()
}

func errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

func successResponse(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// SetupRouter builds the gin engine for deps.
func SetupRouter(deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), corsMiddleware)

	r.GET("/healthz", healthzHandler)

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/extract/default", extractDefaultHandler(deps))
		apiGroup.POST("/extract/raw", extractRawHandler)
		apiGroup.POST("/extract/root", extractRootHandler)
		apiGroup.GET("/runs", listRunsHandler(deps))
	}

	return r
}

func extractDefaultHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var err error
		if deps.RootPath != "" {
			err = cruler.ExtractAllFromRoot(deps.RootPath)
		} else {
			err = cruler.ExtractAllWithDefaultConfig()
		}
		if err != nil {
			errorResponse(c, http.StatusInternalServerError, err.Error())
			return
		}
		successResponse(c, http.StatusOK, gin.H{"status": "completed"})
	}
}

type rawExtractRequest struct {
	ExtractionRules string `json:"extraction_rules" binding:"required"`
	Configure       string `json:"configure"`
}

func extractRawHandler(c *gin.Context) {
	var req rawExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := cruler.ExtractAllFromRaw(req.ExtractionRules, req.Configure); err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	successResponse(c, http.StatusOK, gin.H{"status": "completed"})
}

type rootExtractRequest struct {
	RootPath string `json:"root_path" binding:"required"`
}

func extractRootHandler(c *gin.Context) {
	var req rootExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := cruler.ExtractAllFromRoot(req.RootPath); err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	successResponse(c, http.StatusOK, gin.H{"status": "completed"})
}

func listRunsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Store == nil {
			errorResponse(c, http.StatusNotFound, "run ledger unavailable")
			return
		}
		runs, err := deps.Store.RecentRuns(50)
		if err != nil {
			errorResponse(c, http.StatusInternalServerError, err.Error())
			return
		}
		successResponse(c, http.StatusOK, runs)
	}
}

// healthzHandler reports advisory process/host resource stats, matching
// §6's "Configure recognizes... advisory" tone — nothing here gates
// readiness, it's operator visibility only.
func healthzHandler(c *gin.Context) {
	stats := gin.H{"status": "ok"}

	if vm, err := mem.VirtualMemory(); err == nil {
		stats["memory_used_percent"] = vm.UsedPercent
	}
	if du, err := disk.Usage("."); err == nil {
		stats["disk_used_percent"] = du.UsedPercent
	}

	c.JSON(http.StatusOK, stats)
}
