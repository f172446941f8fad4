package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"faturas/internal/core/apperror"
	"faturas/internal/core/id"
	"faturas/internal/domain"
	"faturas/internal/domain/catalogs/roles"
	"faturas/internal/infrastructure/http/v1/dto"
)

// RolesHandler handles HTTP requests for client, supplier and carrier
// role records. Registration is upsert-shaped: repeating a tax id
// refreshes the existing record instead of duplicating it.
type RolesHandler struct {
	*BaseHandler
	service *roles.Service
}

// NewRolesHandler creates a new roles handler.
func NewRolesHandler(base *BaseHandler, service *roles.Service) *RolesHandler {
	return &RolesHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RegisterClient handles POST /catalogs/clients.
func (h *RolesHandler) RegisterClient(c *gin.Context) {
	var req dto.RegisterClientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	client, err := h.service.RegisterClient(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, client)
}

// RegisterSupplier handles POST /catalogs/suppliers.
func (h *RolesHandler) RegisterSupplier(c *gin.Context) {
	var req dto.RegisterSupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	supplier, err := h.service.RegisterSupplier(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, supplier)
}

// RegisterCarrier handles POST /catalogs/carriers.
func (h *RolesHandler) RegisterCarrier(c *gin.Context) {
	var req dto.RegisterCarrierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	carrier, err := h.service.RegisterCarrier(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, carrier)
}

// GetClient handles GET /catalogs/clients/:id.
func (h *RolesHandler) GetClient(c *gin.Context) {
	roleID, ok := h.roleID(c)
	if !ok {
		return
	}

	client, err := h.service.GetClient(c.Request.Context(), roleID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, client)
}

// GetSupplier handles GET /catalogs/suppliers/:id.
func (h *RolesHandler) GetSupplier(c *gin.Context) {
	roleID, ok := h.roleID(c)
	if !ok {
		return
	}

	supplier, err := h.service.GetSupplier(c.Request.Context(), roleID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, supplier)
}

// GetCarrier handles GET /catalogs/carriers/:id.
func (h *RolesHandler) GetCarrier(c *gin.Context) {
	roleID, ok := h.roleID(c)
	if !ok {
		return
	}

	carrier, err := h.service.GetCarrier(c.Request.Context(), roleID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, carrier)
}

// ListClients handles GET /catalogs/clients.
func (h *RolesHandler) ListClients(c *gin.Context) {
	result, err := h.service.ListClients(c.Request.Context(), h.listFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.listResponse(c, result.Items, result.TotalCount, result.Limit, result.Offset)
}

// ListSuppliers handles GET /catalogs/suppliers.
func (h *RolesHandler) ListSuppliers(c *gin.Context) {
	result, err := h.service.ListSuppliers(c.Request.Context(), h.listFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.listResponse(c, result.Items, result.TotalCount, result.Limit, result.Offset)
}

// ListCarriers handles GET /catalogs/carriers.
func (h *RolesHandler) ListCarriers(c *gin.Context) {
	result, err := h.service.ListCarriers(c.Request.Context(), h.listFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.listResponse(c, result.Items, result.TotalCount, result.Limit, result.Offset)
}

// DeleteClient handles DELETE /catalogs/clients/:id. Fails with an
// integrity error while invoices still reference the record.
func (h *RolesHandler) DeleteClient(c *gin.Context) {
	h.delete(c, h.service.DeleteClient)
}

// DeleteSupplier handles DELETE /catalogs/suppliers/:id.
func (h *RolesHandler) DeleteSupplier(c *gin.Context) {
	h.delete(c, h.service.DeleteSupplier)
}

// DeleteCarrier handles DELETE /catalogs/carriers/:id.
func (h *RolesHandler) DeleteCarrier(c *gin.Context) {
	h.delete(c, h.service.DeleteCarrier)
}

func (h *RolesHandler) delete(c *gin.Context, op func(ctx context.Context, roleID id.ID) error) {
	roleID, ok := h.roleID(c)
	if !ok {
		return
	}

	if err := op(c.Request.Context(), roleID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// DeactivateClient handles POST /catalogs/clients/:id/deactivate.
func (h *RolesHandler) DeactivateClient(c *gin.Context) {
	h.activation(c, h.service.DeactivateClient, "client deactivated")
}

// ReactivateClient handles POST /catalogs/clients/:id/reactivate.
func (h *RolesHandler) ReactivateClient(c *gin.Context) {
	h.activation(c, h.service.ReactivateClient, "client reactivated")
}

// DeactivateSupplier handles POST /catalogs/suppliers/:id/deactivate.
func (h *RolesHandler) DeactivateSupplier(c *gin.Context) {
	h.activation(c, h.service.DeactivateSupplier, "supplier deactivated")
}

// ReactivateSupplier handles POST /catalogs/suppliers/:id/reactivate.
func (h *RolesHandler) ReactivateSupplier(c *gin.Context) {
	h.activation(c, h.service.ReactivateSupplier, "supplier reactivated")
}

// DeactivateCarrier handles POST /catalogs/carriers/:id/deactivate.
func (h *RolesHandler) DeactivateCarrier(c *gin.Context) {
	h.activation(c, h.service.DeactivateCarrier, "carrier deactivated")
}

// ReactivateCarrier handles POST /catalogs/carriers/:id/reactivate.
func (h *RolesHandler) ReactivateCarrier(c *gin.Context) {
	h.activation(c, h.service.ReactivateCarrier, "carrier reactivated")
}

func (h *RolesHandler) roleID(c *gin.Context) (id.ID, bool) {
	roleID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return id.Nil(), false
	}
	return roleID, true
}

func (h *RolesHandler) activation(c *gin.Context, op func(ctx context.Context, roleID id.ID) error, message string) {
	roleID, ok := h.roleID(c)
	if !ok {
		return
	}

	if err := op(c.Request.Context(), roleID); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, message)
}

func (h *RolesHandler) listFilter(c *gin.Context) domain.ListFilter {
	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "name")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"
	return filter
}

func (h *RolesHandler) listResponse(c *gin.Context, items any, total int64, limit, offset int) {
	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: total,
		Limit:      limit,
		Offset:     offset,
	})
}
