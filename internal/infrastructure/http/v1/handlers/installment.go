package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"faturas/internal/core/apperror"
	"faturas/internal/core/id"
	"faturas/internal/domain/payables"
	"faturas/internal/infrastructure/http/v1/dto"
)

// InstallmentHandler handles HTTP requests for payable installments.
type InstallmentHandler struct {
	*BaseHandler
	service *payables.Service
}

// NewInstallmentHandler creates a new installment handler.
func NewInstallmentHandler(base *BaseHandler, service *payables.Service) *InstallmentHandler {
	return &InstallmentHandler{
		BaseHandler: base,
		service:     service,
	}
}

// ListByDocument handles GET /documents/invoices/:id/installments.
func (h *InstallmentHandler) ListByDocument(c *gin.Context) {
	documentID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	installments, err := h.service.ListByDocument(c.Request.Context(), documentID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      installments,
		TotalCount: int64(len(installments)),
		Limit:      len(installments),
		Offset:     0,
	})
}

// Get handles GET /installments/:id.
func (h *InstallmentHandler) Get(c *gin.Context) {
	installmentID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	installment, err := h.service.GetInstallment(c.Request.Context(), installmentID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, installment)
}

// RegisterPayment handles POST /documents/invoices/:id/installments/:parcel/pay.
// The OPEN -> PAID transition is one-way; paying a settled parcel is a
// conflict.
func (h *InstallmentHandler) RegisterPayment(c *gin.Context) {
	documentID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	parcel, err := parseParcel(c.Param("parcel"))
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.RegisterPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput(documentID, parcel)
	if err != nil {
		h.Error(c, err)
		return
	}

	installment, err := h.service.RegisterPayment(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, installment)
}

func parseParcel(raw string) (int, error) {
	parcel, err := strconv.Atoi(raw)
	if err != nil || parcel < 1 {
		return 0, apperror.NewValidation("invalid parcel number").
			WithDetail("parcel", raw)
	}
	return parcel, nil
}
