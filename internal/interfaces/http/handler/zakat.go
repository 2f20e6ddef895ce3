package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appzakat "github.com/zakatledger/backend/internal/application/zakat"
	"github.com/zakatledger/backend/internal/domain/shared"
	"github.com/zakatledger/backend/internal/interfaces/http/middleware"
)

// ZakatHandler handles zakat obligation API endpoints. Every operation is
// scoped to the authenticated owner.
type ZakatHandler struct {
	BaseHandler
	service *appzakat.Service
}

// NewZakatHandler creates a new ZakatHandler
func NewZakatHandler(service *appzakat.Service) *ZakatHandler {
	return &ZakatHandler{service: service}
}

// Evaluate runs a live evaluation of the owner's wealth against the nisab
// threshold. Crossing the threshold with no open cycle starts a draft one.
// POST /api/v1/zakat/evaluate
func (h *ZakatHandler) Evaluate(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid or missing owner identity")
		return
	}

	var req appzakat.EvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.EvaluateOwner(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// StartCycle explicitly opens a Hawl cycle for the owner.
// POST /api/v1/zakat/cycles
func (h *ZakatHandler) StartCycle(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid or missing owner identity")
		return
	}

	var req appzakat.EvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	record, err := h.service.StartCycle(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, record)
}

// Recalculate refreshes the open record's obligation figures from current
// asset data without touching the locked threshold.
// POST /api/v1/zakat/records/current/recalculate
func (h *ZakatHandler) Recalculate(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid or missing owner identity")
		return
	}

	var req appzakat.RecalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	record, err := h.service.RecalculateLive(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// GetCurrent returns the owner's open record (DRAFT or ACTIVE).
// GET /api/v1/zakat/records/current
func (h *ZakatHandler) GetCurrent(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid or missing owner identity")
		return
	}

	record, err := h.service.GetCurrent(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// GetRecord returns one record by ID.
// GET /api/v1/zakat/records/:id
func (h *ZakatHandler) GetRecord(c *gin.Context) {
	ownerID, recordID, ok := h.ownerAndRecordID(c)
	if !ok {
		return
	}

	record, err := h.service.GetByID(c.Request.Context(), ownerID, recordID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// ListRecords returns the owner's record history, newest first.
// GET /api/v1/zakat/records
func (h *ZakatHandler) ListRecords(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid or missing owner identity")
		return
	}

	var listReq struct {
		Page     int `form:"page" binding:"omitempty,min=1"`
		PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
	}
	if err := c.ShouldBindQuery(&listReq); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := shared.Filter{Page: listReq.Page, PageSize: listReq.PageSize}
	page, err := h.service.ListHistory(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Confirm moves a DRAFT record to ACTIVE.
// POST /api/v1/zakat/records/:id/confirm
func (h *ZakatHandler) Confirm(c *gin.Context) {
	ownerID, recordID, ok := h.ownerAndRecordID(c)
	if !ok {
		return
	}

	record, err := h.service.Confirm(c.Request.Context(), ownerID, recordID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// Finalize closes a completed Hawl and freezes the record. An optional
// body carries methodology parameters for the closing valuation.
// POST /api/v1/zakat/records/:id/finalize
func (h *ZakatHandler) Finalize(c *gin.Context) {
	ownerID, recordID, ok := h.ownerAndRecordID(c)
	if !ok {
		return
	}

	var req appzakat.FinalizeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
	}

	record, err := h.service.Finalize(c.Request.Context(), ownerID, recordID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// Unlock reopens a finalized record for correction. The reason is
// mandatory and lands in the audit trail.
// POST /api/v1/zakat/records/:id/unlock
func (h *ZakatHandler) Unlock(c *gin.Context) {
	ownerID, recordID, ok := h.ownerAndRecordID(c)
	if !ok {
		return
	}

	var req appzakat.UnlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	record, err := h.service.Unlock(c.Request.Context(), ownerID, recordID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// UpdateUnlocked adjusts the figures of an unlocked record.
// PUT /api/v1/zakat/records/:id
func (h *ZakatHandler) UpdateUnlocked(c *gin.Context) {
	ownerID, recordID, ok := h.ownerAndRecordID(c)
	if !ok {
		return
	}

	var req appzakat.UpdateUnlockedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	record, err := h.service.UpdateUnlocked(c.Request.Context(), ownerID, recordID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// Refinalize freezes an unlocked record again.
// POST /api/v1/zakat/records/:id/refinalize
func (h *ZakatHandler) Refinalize(c *gin.Context) {
	ownerID, recordID, ok := h.ownerAndRecordID(c)
	if !ok {
		return
	}

	record, err := h.service.Refinalize(c.Request.Context(), ownerID, recordID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// DeleteRecord removes a draft record.
// DELETE /api/v1/zakat/records/:id
func (h *ZakatHandler) DeleteRecord(c *gin.Context) {
	ownerID, recordID, ok := h.ownerAndRecordID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), ownerID, recordID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// PreviewThreshold computes the current nisab threshold for a methodology
// without touching any record.
// GET /api/v1/zakat/threshold
func (h *ZakatHandler) PreviewThreshold(c *gin.Context) {
	var req struct {
		MethodologyID  string  `form:"methodology_id" binding:"required"`
		PreferredBasis *string `form:"preferred_basis" binding:"omitempty,oneof=GOLD SILVER"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	threshold, err := h.service.PreviewThreshold(c.Request.Context(), req.MethodologyID, req.PreferredBasis)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, threshold)
}

// ownerAndRecordID extracts the owner from the auth context and the record
// ID from the path, writing the error response itself on failure.
func (h *ZakatHandler) ownerAndRecordID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid or missing owner identity")
		return uuid.Nil, uuid.Nil, false
	}

	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid record ID format")
		return uuid.Nil, uuid.Nil, false
	}

	return ownerID, recordID, true
}
