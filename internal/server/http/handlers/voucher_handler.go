package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/PhamQuy48/storefront/internal/domain/errors"
	"github.com/PhamQuy48/storefront/internal/server/http/dto"
)

// VoucherHandler previews voucher discounts.
type VoucherHandler struct {
	facade VoucherFacade
}

// NewVoucherHandler constructs VoucherHandler.
func NewVoucherHandler(facade VoucherFacade) *VoucherHandler {
	return &VoucherHandler{facade: facade}
}

// Validate handles POST /api/vouchers/validate. Rejections are a normal
// answer, not a failure.
func (h *VoucherHandler) Validate(c *gin.Context) {
	var req dto.ValidateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", "malformed request body")
		return
	}

	quote, err := h.facade.ValidateVoucher(c.Request.Context(), req.Code, req.OrderTotal)
	switch {
	case err == nil:
	case domainErrors.IsVoucherRejection(err):
		c.JSON(http.StatusOK, dto.ValidateVoucherResponse{Valid: false, Reason: err.Error()})
		return
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ValidateVoucherResponse{Valid: false, Reason: "voucher not found"})
		return
	default:
		writeError(c, err)
		return
	}

	v := quote.Voucher
	discount := quote.Discount
	c.JSON(http.StatusOK, dto.ValidateVoucherResponse{
		Valid:    true,
		Discount: &discount,
		Voucher: &dto.VoucherResponse{
			Code:          v.Code,
			DiscountType:  string(v.DiscountType),
			DiscountValue: v.DiscountValue,
			MinOrderValue: v.MinOrderValue,
			MaxDiscount:   v.MaxDiscount,
			ValidUntil:    v.ValidUntil,
		},
	})
}
