package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"faturas/internal/core/apperror"
	"faturas/internal/core/id"
	"faturas/internal/domain"
	"faturas/internal/domain/documents/invoice"
	"faturas/internal/infrastructure/http/v1/dto"
)

// InvoiceHandler handles HTTP requests for invoice documents. An
// invoice is posted in one shot; there is no draft state to update.
type InvoiceHandler struct {
	*BaseHandler
	service *invoice.Service
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(base *BaseHandler, service *invoice.Service) *InvoiceHandler {
	return &InvoiceHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Post handles POST /documents/invoices - validate, compute taxes,
// reconcile the total and persist header, lines and installments
// atomically.
func (h *InvoiceHandler) Post(c *gin.Context) {
	var req invoice.PostInput
	if !h.BindJSON(c, &req) {
		return
	}

	inv, err := h.service.Post(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, inv)
}

// Get handles GET /documents/invoices/:id - header with lines.
func (h *InvoiceHandler) Get(c *gin.Context) {
	documentID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	inv, err := h.service.Get(c.Request.Context(), documentID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, inv)
}

// GetByKey handles GET /documents/invoices/by-key - lookup by the
// natural key (model, series, number, direction).
func (h *InvoiceHandler) GetByKey(c *gin.Context) {
	key := invoice.Key{
		Model:     c.Query("model"),
		Series:    c.Query("series"),
		Number:    c.Query("number"),
		Direction: invoice.Direction(c.Query("direction")),
	}
	if key.Model == "" || key.Series == "" || key.Number == "" || key.Direction == "" {
		h.Error(c, apperror.NewValidation("model, series, number and direction are required"))
		return
	}

	inv, err := h.service.GetByKey(c.Request.Context(), key)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, inv)
}

// List handles GET /documents/invoices.
func (h *InvoiceHandler) List(c *gin.Context) {
	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "-date")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      result.Items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Delete handles DELETE /documents/invoices/:id - removes the document
// with its lines and open installments. Blocked once any installment
// is paid.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	documentID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), documentID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
