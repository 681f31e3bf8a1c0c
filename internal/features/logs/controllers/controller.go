package logs_controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	logs_data "servicelogs/internal/features/logs/data"
	logs_models "servicelogs/internal/features/logs/models"
	logs_services "servicelogs/internal/features/logs/services"
	"servicelogs/internal/storage"
	time_parser "servicelogs/internal/util/time"

	"github.com/gin-gonic/gin"
)

type LogController struct {
	logService   *logs_services.LogService
	searchGuards []gin.HandlerFunc
}

func (c *LogController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/data-sources", c.GetDataSources)

	logRoutes := router.Group("/logs")

	logRoutes.GET("/headers", c.GetHeaders)
	logRoutes.POST("/headers", c.CreateHeader)
	logRoutes.GET("/headers/failed", c.GetFailedHeaders)
	logRoutes.GET("/headers/:id", c.GetHeader)
	logRoutes.GET("/headers/:id/details", c.GetHeaderWithDetails)
	logRoutes.PUT("/headers/:id", c.UpdateHeader)
	logRoutes.DELETE("/headers/:id", c.DeleteHeader)

	logRoutes.POST("/headers/:id/microservices", c.AddMicroserviceLog)
	logRoutes.GET("/microservices/search", c.withSearchGuards(c.SearchMicroserviceLogs)...)

	logRoutes.POST("/headers/:id/contents", c.AddContent)
	logRoutes.GET("/contents/search", c.withSearchGuards(c.SearchContents)...)

	logRoutes.GET("/historical/headers", c.GetHistoricalHeaders)
	logRoutes.GET("/historical/headers/:id/details", c.GetHistoricalWithDetails)
}

func (c *LogController) withSearchGuards(handler gin.HandlerFunc) []gin.HandlerFunc {
	handlers := make([]gin.HandlerFunc, 0, len(c.searchGuards)+1)
	handlers = append(handlers, c.searchGuards...)

	return append(handlers, handler)
}

// GetDataSources
// @Summary List configured data sources
// @Tags data-sources
// @Produce json
// @Success 200 {object} DataSourcesResponse
// @Router /data-sources [get]
func (c *LogController) GetDataSources(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, DataSourcesResponse{
		DataSources: c.logService.GetAvailableDataSources(),
		Default:     c.logService.GetDefaultDataSource(),
	})
}

// GetHeaders
// @Summary Get a page of log headers
// @Tags logs
// @Produce json
// @Param dataSource query string false "PostgreSQL or SqlServer"
// @Param startDate query string false "Inclusive lower bound of dateEntry"
// @Param endDate query string false "Inclusive upper bound of dateEntry"
// @Param state query string false "Log state name or number"
// @Param microserviceName query string false "Substring match"
// @Param userId query string false "Substring match"
// @Param transactionId query string false "Substring match"
// @Param pageNumber query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Router /logs/headers [get]
func (c *LogController) GetHeaders(ctx *gin.Context) {
	dataSource, ok := parseDataSource(ctx)
	if !ok {
		return
	}

	query := &GetHeadersQuery{}
	if err := ctx.ShouldBindQuery(query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	filter, err := query.ToFilter()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := c.logService.GetHeadersPaged(ctx.Request.Context(), dataSource, filter, query.Pagination())
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, page)
}

func (c *LogController) GetHeader(ctx *gin.Context) {
	dataSource, ok := parseDataSource(ctx)
	if !ok {
		return
	}

	id, ok := parseID(ctx)
	if !ok {
		return
	}

	header, err := c.logService.GetHeader(ctx.Request.Context(), dataSource, id)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, header)
}

func (c *LogController) GetHeaderWithDetails(ctx *gin.Context) {
	dataSource, ok := parseDataSource(ctx)
	if !ok {
		return
	}

	id, ok := parseID(ctx)
	if !ok {
		return
	}

	header, err := c.logService.GetHeaderWithDetails(ctx.Request.Context(), dataSource, id)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, header)
}

// CreateHeader
// @Summary Create a log header
// @Description Child entries included in the body are inserted with the header
// @Tags logs
// @Accept json
// @Produce json
// @Param dataSource query string false "PostgreSQL or SqlServer"
// @Param request body logs_models.LogServicesHeader true "Header"
// @Success 201 {object} logs_models.LogServicesHeader
// @Failure 400 {object} map[string]string
// @Router /logs/headers [post]
func (c *LogController) CreateHeader(ctx *gin.Context) {
	dataSource, ok := parseDataSource(ctx)
	if !ok {
		return
	}

	header := &logs_models.LogServicesHeader{}
	if err := ctx.ShouldBindJSON(header); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	created, err := c.logService.CreateHeader(ctx.Request.Context(), dataSource, header)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

func (c *LogController) UpdateHeader(ctx *gin.Context) {
	dataSource, ok := parseDataSource(ctx)
	if !ok {
		return
	}

	id, ok := parseID(ctx)
	if !ok {
		return
	}

	header := &logs_models.LogServicesHeader{}
	if err := ctx.ShouldBindJSON(header); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	header.LogID = id

	updated, err := c.logService.UpdateHeader(ctx.Request.Context(), dataSource, header)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// DeleteHeader
// @Summary Delete a log header with its children
// @Tags logs
// @Produce json
// @Param id path int true "Log ID"
// @Success 200 {object} DeleteHeaderResponse
// @Failure 404 {object} map[string]string
// @Router /logs/headers/{id} [delete]
func (c *LogController) DeleteHeader(ctx *gin.Context) {
	dataSource, ok := parseDataSource(ctx)
	if !ok {
		return
	}

	id, ok := parseID(ctx)
	if !ok {
		return
	}

	deleted, err := c.logService.DeleteHeader(ctx.Request.Context(), dataSource, id)
	if err != nil {
		handleError(ctx, err)
		return
	}

	if !deleted {
		ctx.JSON(http.StatusNotFound, gin.H{"error": logs_services.ErrLogHeaderNotFound.Error()})
		return
	}

	ctx.JSON(http.StatusOK, DeleteHeaderResponse{Deleted: true})
}

func (c *LogController) GetFailedHeaders(ctx *gin.Context) {
	dataSource, ok := parseDataSource(ctx)
	if !ok {
		return
	}

	from, err := time_parser.ParseOptionalTimestamp(ctx.Query("from"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid from: " + err.Error()})
		return
	}

	headers, err := c.logService.GetFailedHeaders(ctx.Request.Context(), dataSource, from)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, headers)
}

func (c *LogController) AddMicroserviceLog(ctx *gin.Context) {
	dataSource, ok := parseDataSource(ctx)
	if !ok {
		return
	}

	id, ok := parseID(ctx)
	if !ok {
		return
	}

	entry := &logs_models.LogMicroservice{}
	if err := ctx.ShouldBindJSON(entry); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	created, err := c.logService.AddMicroserviceLog(ctx.Request.Context(), dataSource, id, entry)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

func (c *LogController) SearchMicroserviceLogs(ctx *gin.Context) {
	dataSource, ok := parseDataSource(ctx)
	if !ok {
		return
	}

	query := &SearchQuery{}
	if err := ctx.ShouldBindQuery(query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "term is required"})
		return
	}

	entries, err := c.logService.SearchMicroserviceLogs(ctx.Request.Context(), dataSource, query.Term)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, entries)
}

func (c *LogController) AddContent(ctx *gin.Context) {
	dataSource, ok := parseDataSource(ctx)
	if !ok {
		return
	}

	id, ok := parseID(ctx)
	if !ok {
		return
	}

	content := &logs_models.LogServicesContent{}
	if err := ctx.ShouldBindJSON(content); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	created, err := c.logService.AddContent(ctx.Request.Context(), dataSource, id, content)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

func (c *LogController) SearchContents(ctx *gin.Context) {
	dataSource, ok := parseDataSource(ctx)
	if !ok {
		return
	}

	query := &SearchQuery{}
	if err := ctx.ShouldBindQuery(query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "term is required"})
		return
	}

	contents, err := c.logService.SearchContents(ctx.Request.Context(), dataSource, query.Term)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, contents)
}

func (c *LogController) GetHistoricalHeaders(ctx *gin.Context) {
	dataSource, ok := parseDataSource(ctx)
	if !ok {
		return
	}

	query := &GetHeadersQuery{}
	if err := ctx.ShouldBindQuery(query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	filter, err := query.ToFilter()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := c.logService.GetHistoricalPaged(ctx.Request.Context(), dataSource, filter, query.Pagination())
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, page)
}

func (c *LogController) GetHistoricalWithDetails(ctx *gin.Context) {
	dataSource, ok := parseDataSource(ctx)
	if !ok {
		return
	}

	id, ok := parseID(ctx)
	if !ok {
		return
	}

	header, err := c.logService.GetHistoricalWithDetails(ctx.Request.Context(), dataSource, id)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, header)
}

func parseDataSource(ctx *gin.Context) (*storage.DataSourceType, bool) {
	raw := strings.TrimSpace(ctx.Query("dataSource"))
	if raw == "" {
		return nil, true
	}

	dataSource, err := storage.ParseDataSourceType(raw)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	return &dataSource, true
}

func parseID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid log ID"})
		return 0, false
	}

	return id, true
}

func handleError(ctx *gin.Context, err error) {
	var persistenceErr *logs_data.PersistenceError

	switch {
	case errors.Is(err, storage.ErrDataSourceUnavailable):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, logs_services.ErrLogHeaderNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, logs_services.ErrInvalidRequest),
		errors.Is(err, logs_data.ErrInvalidOperation):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &persistenceErr):
		switch persistenceErr.Kind {
		case logs_data.PersistenceErrorConstraint:
			ctx.JSON(http.StatusConflict, gin.H{"error": "Request violates a data constraint"})
		case logs_data.PersistenceErrorTimeout:
			ctx.JSON(http.StatusGatewayTimeout, gin.H{"error": "Data source timed out"})
		case logs_data.PersistenceErrorConnectivity:
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data source is unreachable"})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to access log data"})
		}
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
