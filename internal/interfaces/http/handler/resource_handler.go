package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/YouSangSon/admin-backoffice/internal/application/dto"
	"github.com/YouSangSon/admin-backoffice/internal/domain/entity"
	"github.com/YouSangSon/admin-backoffice/internal/export"
	"github.com/YouSangSon/admin-backoffice/internal/interfaces/http/middleware"
	"github.com/YouSangSon/admin-backoffice/internal/interfaces/http/render"
	"github.com/YouSangSon/admin-backoffice/internal/pkg/logger"
)

// ResourceService는 핸들러가 의존하는 리소스 유즈케이스 계약입니다
type ResourceService interface {
	Resource(name string) (*entity.Resource, error)
	ResourceNames() []string
	List(ctx context.Context, resourceName string, req dto.ListRequest) (*dto.ListResult, error)
	Get(ctx context.Context, resourceName, rawID string) (entity.Row, error)
	Create(ctx context.Context, resourceName string, data map[string]interface{}, actor string) (entity.Row, error)
	Update(ctx context.Context, resourceName, rawID string, patch map[string]interface{}, actor string) (entity.Row, error)
	Delete(ctx context.Context, resourceName, rawID, actor string) error
	BulkAction(ctx context.Context, resourceName string, req dto.BulkActionRequest, actor string) (*dto.BulkActionResult, error)
	Stats(ctx context.Context, resourceName string) (entity.ResourceStats, error)
}

// ResourceHandler는 레지스트리에 등록된 모든 리소스의 HTTP 핸들러입니다
type ResourceHandler struct {
	service ResourceService
}

// NewResourceHandler는 새로운 ResourceHandler를 생성합니다
func NewResourceHandler(service ResourceService) *ResourceHandler {
	return &ResourceHandler{service: service}
}

// reservedParams는 필터로 해석하지 않는 쿼리 파라미터입니다
var reservedParams = map[string]bool{
	"search": true,
	"page":   true,
	"limit":  true,
}

// List godoc
// @Summary      List resource rows
// @Description  Paginated, filtered listing rendered as JSON or an HTML fragment
// @Tags         resources
// @Produce      json,html
// @Param        resource  path   string  true   "Resource name"
// @Param        search    query  string  false  "Search term"
// @Param        page      query  int     false  "Page number (default 1)"
// @Param        limit     query  int     false  "Page size (default 10)"
// @Success      200
// @Failure      404
// @Router       /api/{resource} [get]
func (h *ResourceHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	resourceName := c.Param("resource")

	res, err := h.service.Resource(resourceName)
	if err != nil {
		render.Error(c, http.StatusNotFound, err)
		return
	}

	req := dto.ListRequest{
		Search:  c.Query("search"),
		Filters: make(map[string]string),
	}
	req.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	req.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))

	for key, values := range c.Request.URL.Query() {
		if reservedParams[key] || len(values) == 0 {
			continue
		}
		req.Filters[key] = values[0]
	}

	result, err := h.service.List(ctx, resourceName, req)
	if err != nil {
		logger.Error(ctx, "list request failed",
			logger.ResourceName(resourceName),
			zap.Error(err),
		)
		render.Error(c, statusFor(err), err)
		return
	}

	render.List(c, res, result)
}

// Get godoc
// @Summary      Get a row by id
// @Tags         resources
// @Produce      json,html
// @Param        resource  path  string  true  "Resource name"
// @Param        id        path  string  true  "Row id"
// @Success      200
// @Failure      404
// @Router       /api/{resource}/{id} [get]
func (h *ResourceHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	resourceName := c.Param("resource")

	res, err := h.service.Resource(resourceName)
	if err != nil {
		render.Error(c, http.StatusNotFound, err)
		return
	}

	row, err := h.service.Get(ctx, resourceName, c.Param("id"))
	if err != nil {
		render.Error(c, statusFor(err), err)
		return
	}

	render.Item(c, http.StatusOK, res, row)
}

// Create godoc
// @Summary      Create a row
// @Tags         resources
// @Accept       json
// @Produce      json,html
// @Param        resource  path  string  true  "Resource name"
// @Success      201
// @Failure      400
// @Router       /api/{resource} [post]
func (h *ResourceHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	resourceName := c.Param("resource")

	res, err := h.service.Resource(resourceName)
	if err != nil {
		render.Error(c, http.StatusNotFound, err)
		return
	}

	var data map[string]interface{}
	if err := c.ShouldBindJSON(&data); err != nil {
		render.Error(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	row, err := h.service.Create(ctx, resourceName, data, middleware.GetActor(c))
	if err != nil {
		render.Error(c, statusFor(err), err)
		return
	}

	render.Item(c, http.StatusCreated, res, row)
}

// Update godoc
// @Summary      Apply a partial update to a row
// @Tags         resources
// @Accept       json
// @Produce      json,html
// @Param        resource  path  string  true  "Resource name"
// @Param        id        path  string  true  "Row id"
// @Success      200
// @Failure      400
// @Failure      404
// @Router       /api/{resource}/{id} [put]
func (h *ResourceHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	resourceName := c.Param("resource")

	res, err := h.service.Resource(resourceName)
	if err != nil {
		render.Error(c, http.StatusNotFound, err)
		return
	}

	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		render.Error(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	row, err := h.service.Update(ctx, resourceName, c.Param("id"), patch, middleware.GetActor(c))
	if err != nil {
		render.Error(c, statusFor(err), err)
		return
	}

	render.Item(c, http.StatusOK, res, row)
}

// Delete godoc
// @Summary      Delete a row
// @Tags         resources
// @Produce      json,html
// @Param        resource  path  string  true  "Resource name"
// @Param        id        path  string  true  "Row id"
// @Success      200
// @Failure      404
// @Router       /api/{resource}/{id} [delete]
func (h *ResourceHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	resourceName := c.Param("resource")

	if _, err := h.service.Resource(resourceName); err != nil {
		render.Error(c, http.StatusNotFound, err)
		return
	}

	if err := h.service.Delete(ctx, resourceName, c.Param("id"), middleware.GetActor(c)); err != nil {
		render.Error(c, statusFor(err), err)
		return
	}

	if render.FromContext(c) == render.ModeFragment {
		// 프래그먼트 클라이언트는 빈 본문으로 해당 행을 DOM에서 제거합니다
		c.Data(http.StatusOK, "text/html; charset=utf-8", nil)
		return
	}
	render.JSON(c, http.StatusOK, gin.H{"deleted": true})
}

// BulkAction godoc
// @Summary      Apply delete or a flag toggle to a set of rows
// @Tags         resources
// @Accept       json
// @Produce      json
// @Param        resource  path  string  true  "Resource name"
// @Success      200
// @Failure      400
// @Router       /api/{resource}/bulk-action [post]
func (h *ResourceHandler) BulkAction(c *gin.Context) {
	ctx := c.Request.Context()
	resourceName := c.Param("resource")

	if _, err := h.service.Resource(resourceName); err != nil {
		render.Error(c, http.StatusNotFound, err)
		return
	}

	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		render.Error(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	req, err := parseBulkActionBody(body)
	if err != nil {
		render.Error(c, http.StatusBadRequest, err)
		return
	}

	result, err := h.service.BulkAction(ctx, resourceName, req, middleware.GetActor(c))
	if err != nil {
		render.Error(c, statusFor(err), err)
		return
	}

	render.JSON(c, http.StatusOK, result)
}

// Stats godoc
// @Summary      Resource aggregate stats
// @Tags         resources
// @Produce      json
// @Param        resource  path  string  true  "Resource name"
// @Success      200
// @Failure      404
// @Router       /api/{resource}/stats [get]
func (h *ResourceHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()
	resourceName := c.Param("resource")

	stats, err := h.service.Stats(ctx, resourceName)
	if err != nil {
		render.Error(c, statusFor(err), err)
		return
	}

	render.JSON(c, http.StatusOK, stats)
}

// exportLimit은 엑셀 내보내기 한 번에 싣는 최대 행 수입니다
const exportLimit = 10000

// Export godoc
// @Summary      Export filtered rows as an Excel workbook
// @Tags         resources
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        resource  path  string  true  "Resource name"
// @Success      200
// @Failure      404
// @Router       /api/{resource}/export [get]
func (h *ResourceHandler) Export(c *gin.Context) {
	ctx := c.Request.Context()
	resourceName := c.Param("resource")

	res, err := h.service.Resource(resourceName)
	if err != nil {
		render.Error(c, http.StatusNotFound, err)
		return
	}

	req := dto.ListRequest{
		Search:  c.Query("search"),
		Filters: make(map[string]string),
		Page:    1,
		Limit:   exportLimit,
	}
	for key, values := range c.Request.URL.Query() {
		if reservedParams[key] || len(values) == 0 {
			continue
		}
		req.Filters[key] = values[0]
	}

	result, err := h.service.List(ctx, resourceName, req)
	if err != nil {
		render.Error(c, statusFor(err), err)
		return
	}

	workbook, err := export.Workbook(res, result.Rows)
	if err != nil {
		logger.Error(ctx, "failed to build workbook",
			logger.ResourceName(resourceName),
			zap.Error(err),
		)
		render.Error(c, http.StatusInternalServerError, err)
		return
	}
	defer workbook.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", resourceName))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := workbook.Write(c.Writer); err != nil {
		logger.Error(ctx, "failed to write workbook",
			logger.ResourceName(resourceName),
			zap.Error(err),
		)
	}
}

// parseBulkActionBody는 {"action":..., "ids":[...], "<flag>":bool} 형태의
// 바디를 요청으로 해석합니다. bool 값은 전부 플래그 후보로 수집됩니다
func parseBulkActionBody(body map[string]interface{}) (dto.BulkActionRequest, error) {
	req := dto.BulkActionRequest{FlagValues: make(map[string]bool)}

	action, ok := body["action"].(string)
	if !ok || action == "" {
		return req, fmt.Errorf("%w: missing action", entity.ErrInvalidBulkAction)
	}
	req.Action = action

	rawIDs, ok := body["ids"].([]interface{})
	if !ok || len(rawIDs) == 0 {
		return req, fmt.Errorf("%w: missing ids", entity.ErrInvalidBulkAction)
	}
	for _, raw := range rawIDs {
		switch v := raw.(type) {
		case string:
			req.IDs = append(req.IDs, v)
		case float64:
			req.IDs = append(req.IDs, strconv.FormatInt(int64(v), 10))
		default:
			return req, fmt.Errorf("%w: unsupported id type %T", entity.ErrInvalidID, raw)
		}
	}

	for key, value := range body {
		if key == "action" || key == "ids" {
			continue
		}
		if b, ok := value.(bool); ok {
			req.FlagValues[key] = b
		}
	}
	return req, nil
}

// statusFor는 도메인 에러를 HTTP 상태 코드로 번역합니다
func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrUnknownResource),
		errors.Is(err, entity.ErrRowNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrUnknownField),
		errors.Is(err, entity.ErrInvalidFieldValue),
		errors.Is(err, entity.ErrMissingRequiredField),
		errors.Is(err, entity.ErrInvalidID),
		errors.Is(err, entity.ErrInvalidBulkAction),
		errors.Is(err, entity.ErrMissingToggleValue),
		errors.Is(err, entity.ErrEmptyPatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
