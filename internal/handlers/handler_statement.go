package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/statement-sync/statement_sync_app/internal/core/ports/services"
	"github.com/statement-sync/statement_sync_app/internal/middleware"
)

// statementHandler handles HTTP requests for account statements.
type statementHandler struct {
	statementService portssvc.StatementReaderSvc
}

// newStatementHandler creates a new statementHandler.
func newStatementHandler(ss portssvc.StatementReaderSvc) *statementHandler {
	return &statementHandler{
		statementService: ss,
	}
}

// registerStatementRoutes registers routes related to account statements.
func registerStatementRoutes(rg *gin.RouterGroup, statementService portssvc.StatementReaderSvc) {
	h := newStatementHandler(statementService)

	statements := rg.Group("/statements")
	{
		statements.GET("", h.listStatements)
	}
}

// listStatements godoc
// @Summary List the caller's imported account statements
// @Tags statements
// @Produce  json
// @Param   limit query int false "Maximum number of statements to return"
// @Success 200 {array} dto.AccountStatementResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list statements"
// @Security BearerAuth
// @Router /statements [get]
func (h *statementHandler) listStatements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	callerUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Caller user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	statements, err := h.statementService.ListStatements(c.Request.Context(), callerUserID, limit)
	if err != nil {
		logger.Error("Failed to list statements from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list statements"})
		return
	}

	c.JSON(http.StatusOK, statements)
}
