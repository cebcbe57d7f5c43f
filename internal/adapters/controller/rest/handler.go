package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/Badsnus/qrlabels/internal/domain/common/errorz"
	"github.com/Badsnus/qrlabels/internal/domain/entity"
	"github.com/Badsnus/qrlabels/internal/domain/labels"
	"github.com/Badsnus/qrlabels/internal/domain/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderTotalPages    = "X-Total-Pages"
	HeaderLabelsPerPage = "X-Labels-Per-Page"
	HeaderTemplate      = "X-Template"
	HeaderLabelSize     = "X-Label-Size"
	HeaderPageSize      = "X-Page-Size"
	HeaderJobID         = "X-Job-ID"
	HeaderPlaceholders  = "X-Placeholders"
)

var exposedHeaders = []string{
	"Content-Length", "Content-Disposition",
	HeaderTotalPages, HeaderLabelsPerPage, HeaderTemplate,
	HeaderLabelSize, HeaderPageSize, HeaderJobID, HeaderPlaceholders,
}

type SheetService interface {
	Templates() []labels.Template
	Render(ctx context.Context, req service.SheetRequest, w io.Writer) (*labels.Result, error)
	Preview(ctx context.Context, req service.SheetRequest, page int) ([]byte, *labels.Result, error)
	Layout(ctx context.Context, req service.SheetRequest) (*service.SheetLayout, error)
	Job(ctx context.Context, id string) (*entity.RenderJob, error)
	Jobs(ctx context.Context, limit int) (*service.JobList, error)
}

type QrService interface {
	Regenerate(ctx context.Context, content string) (service.QRFile, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	sheets SheetService
	qrs    QrService
}

type regenerateRequest struct {
	Content string `json:"content" binding:"required"`
}

func RegisterRoutes(r gin.IRoutes, sheets SheetService, qrs QrService) {
	h := &Handler{sheets: sheets, qrs: qrs}

	r.GET("/templates", h.ListTemplates)

	r.POST("/sheets", h.RenderSheet)
	r.POST("/sheets/layout", h.SheetLayout)
	r.POST("/sheets/preview", h.PreviewSheet)

	r.POST("/qr", h.RegenerateQR)
	r.DELETE("/qr/:id", h.DeleteQR)

	r.GET("/jobs", h.ListJobs)
	r.GET("/jobs/:id", h.GetJob)
}

// ---------- handlers ----------

func (h *Handler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": h.sheets.Templates()})
}

// POST /sheets
func (h *Handler) RenderSheet(c *gin.Context) {
	var req service.SheetRequest
	if !bindSheet(c, &req) {
		return
	}

	var buf bytes.Buffer
	res, err := h.sheets.Render(c.Request.Context(), req, &buf)
	if err != nil {
		abortWithError(c, err)
		return
	}

	setResultHeaders(c, res)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="labels-%s.pdf"`, res.Template))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// POST /sheets/layout
func (h *Handler) SheetLayout(c *gin.Context) {
	var req service.SheetRequest
	if !bindSheet(c, &req) {
		return
	}
	res, err := h.sheets.Layout(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /sheets/preview?page=N
func (h *Handler) PreviewSheet(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "page must be an integer"))
		return
	}
	var req service.SheetRequest
	if !bindSheet(c, &req) {
		return
	}

	png, res, err := h.sheets.Preview(c.Request.Context(), req, page)
	if err != nil {
		abortWithError(c, err)
		return
	}
	setResultHeaders(c, res)
	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handler) RegenerateQR(c *gin.Context) {
	var req regenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid json or missing content"))
		return
	}
	res, err := h.qrs.Regenerate(c.Request.Context(), req.Content)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) DeleteQR(c *gin.Context) {
	if err := h.qrs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListJobs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := h.sheets.Jobs(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetJob(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "job id must be a uuid"))
		return
	}
	job, err := h.sheets.Job(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// ---------- helpers ----------

func bindSheet(c *gin.Context, req *service.SheetRequest) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		abortWithError(c, fmt.Errorf("%w: %v", errorz.ErrInvalidRequest, err))
		return false
	}
	return true
}

func abortWithError(c *gin.Context, err error) {
	status, code := toHTTPStatus(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, errorBody(code, err.Error()))
}

func setResultHeaders(c *gin.Context, res *labels.Result) {
	c.Header(HeaderTotalPages, strconv.Itoa(res.TotalPages))
	c.Header(HeaderLabelsPerPage, strconv.Itoa(res.LabelsPerPage))
	c.Header(HeaderTemplate, res.Template)
	c.Header(HeaderLabelSize, res.LabelSize)
	c.Header(HeaderPageSize, res.PageSize)
	c.Header(HeaderJobID, res.JobID.String())
	c.Header(HeaderPlaceholders, strconv.Itoa(len(res.Placeholders)))
}
