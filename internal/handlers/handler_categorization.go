package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/statement-sync/statement_sync_app/internal/apperrors"
	portssvc "github.com/statement-sync/statement_sync_app/internal/core/ports/services"
	"github.com/statement-sync/statement_sync_app/internal/dto"
	"github.com/statement-sync/statement_sync_app/internal/jobs"
	"github.com/statement-sync/statement_sync_app/internal/middleware"
)

// categorizationHandler handles manual categorization runs and job status.
type categorizationHandler struct {
	categorizationService portssvc.CategorizationSvc
	jobStore              jobs.JobStore
}

// newCategorizationHandler creates a new categorizationHandler.
func newCategorizationHandler(cs portssvc.CategorizationSvc, jobStore jobs.JobStore) *categorizationHandler {
	return &categorizationHandler{
		categorizationService: cs,
		jobStore:              jobStore,
	}
}

// registerCategorizationRoutes registers categorization routes.
func registerCategorizationRoutes(rg *gin.RouterGroup, categorizationService portssvc.CategorizationSvc, jobStore jobs.JobStore) {
	h := newCategorizationHandler(categorizationService, jobStore)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("/categorize", h.categorizeTransactions)
	}
	jobsGroup := rg.Group("/jobs")
	{
		jobsGroup.GET("/:jobID", h.getJobStatus)
	}
}

// categorizeTransactions godoc
// @Summary Run categorization over the caller's transactions
// @Description Runs the multi-pass categorization engine inline over the given transaction IDs, or over uncategorized transactions when none are given
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   request body dto.CategorizeRequest true "Categorization target"
// @Success 200 {object} dto.CategorizationSummary
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Categorization failed"
// @Security BearerAuth
// @Router /transactions/categorize [post]
func (h *categorizationHandler) categorizeTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CategorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CategorizeTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	callerUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Caller user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if req.UserID != "" && req.UserID != callerUserID {
		logger.Warn("Categorization target user differs from caller", slog.String("target_user_id", req.UserID))
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot categorize transactions for another user"})
		return
	}

	logger.Info("Received categorization request", slog.Int("transaction_ids", len(req.TransactionIDs)))

	summary, err := h.categorizationService.CategorizeTransactions(c.Request.Context(), callerUserID, req.TransactionIDs, req.BatchSize)
	if err != nil {
		logger.Error("Categorization failed in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to categorize transactions"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// getJobStatus godoc
// @Summary Get the status of a background categorization job
// @Tags jobs
// @Produce  json
// @Param   jobID path string true "Job ID"
// @Success 200 {object} jobs.CategorizeTransactionsJob
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Job not found"
// @Security BearerAuth
// @Router /jobs/{jobID} [get]
func (h *categorizationHandler) getJobStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	jobID := c.Param("jobID")

	callerUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Caller user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	job, err := h.jobStore.GetJob(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
			return
		}
		logger.Error("Failed to fetch job", slog.String("job_id", jobID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve job"})
		return
	}
	if job.UserID != callerUserID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	c.JSON(http.StatusOK, job)
}
