package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/statement-sync/statement_sync_app/internal/core/ports/services"
	"github.com/statement-sync/statement_sync_app/internal/dto"
	"github.com/statement-sync/statement_sync_app/internal/middleware"
)

// importHandler handles HTTP requests for statement imports.
type importHandler struct {
	importService portssvc.ImportSvc
}

// newImportHandler creates a new importHandler.
func newImportHandler(is portssvc.ImportSvc) *importHandler {
	return &importHandler{
		importService: is,
	}
}

// registerImportRoutes registers routes related to statement imports.
func registerImportRoutes(rg *gin.RouterGroup, importService portssvc.ImportSvc, rateLimit gin.HandlerFunc) {
	h := newImportHandler(importService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("/import", rateLimit, h.importTransactions)
	}
}

// importTransactions godoc
// @Summary Import a batch of bank statement records
// @Description Normalizes, deduplicates and persists raw statement rows, then triggers categorization
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   import body dto.ImportRequest true "Import payload"
// @Success 200 {object} dto.ImportResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Import failed"
// @Security BearerAuth
// @Router /transactions/import [post]
func (h *importHandler) importTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ImportTransactions", slog.String("error", err.Error()))
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
		logger.Warn("Import target user differs from caller", slog.String("target_user_id", req.UserID))
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot import transactions for another user"})
		return
	}

	logger.Info("Received import request", slog.Int("records", len(req.Records)))

	resp, err := h.importService.ImportTransactions(c.Request.Context(), callerUserID, req)
	if err != nil {
		logger.Error("Import failed in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import transactions"})
		return
	}

	logger.Info("Import request completed",
		slog.Int("inserted", resp.Inserted),
		slog.Int("duplicates", resp.Duplicates),
		slog.Int("skipped", resp.Skipped))
	c.JSON(http.StatusOK, resp)
}
