package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PhamQuy48/storefront/internal/domain/model"
	"github.com/PhamQuy48/storefront/internal/server/http/dto"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Checkout handles POST /api/orders.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", "malformed request body")
		return
	}

	result, err := h.facade.Checkout(c.Request.Context(), toCheckoutRequest(req), CurrentIdentity(c))
	if err != nil {
		writeError(c, err)
		return
	}

	resp := dto.CheckoutResponse{Order: toOrderResponse(*result.Order)}
	if result.VoucherError != nil {
		resp.VoucherError = result.VoucherError.Error()
	}
	c.JSON(http.StatusCreated, resp)
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	orders, err := h.facade.Orders(c.Request.Context(), CurrentIdentity(c), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, c.Param("id"), "id")
	if !ok {
		return
	}
	order, err := h.facade.Order(c.Request.Context(), id, CurrentIdentity(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// History handles GET /api/orders/:id/history.
func (h *OrderHandler) History(c *gin.Context) {
	id, ok := parseUUID(c, c.Param("id"), "id")
	if !ok {
		return
	}
	changes, err := h.facade.OrderHistory(c.Request.Context(), id, CurrentIdentity(c))
	if err != nil {
		writeError(c, err)
		return
	}

	response := make([]dto.StatusChangeResponse, 0, len(changes))
	for _, ch := range changes {
		response = append(response, dto.StatusChangeResponse{
			From:          string(ch.From),
			To:            string(ch.To),
			PaymentStatus: string(ch.PaymentStatus),
			ActorID:       ch.ActorID,
			ActorRole:     string(ch.ActorRole),
			ChangedAt:     ch.ChangedAt,
		})
	}
	c.JSON(http.StatusOK, response)
}

// Transition handles PATCH /api/orders/:id.
func (h *OrderHandler) Transition(c *gin.Context) {
	id, ok := parseUUID(c, c.Param("id"), "id")
	if !ok {
		return
	}
	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status", "is required")
		return
	}

	status, _ := model.ParseOrderStatus(req.Status)
	order, err := h.facade.TransitionOrder(c.Request.Context(), id, status, CurrentIdentity(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// RecordPayment handles PATCH /api/orders/:id/payment.
func (h *OrderHandler) RecordPayment(c *gin.Context) {
	id, ok := parseUUID(c, c.Param("id"), "id")
	if !ok {
		return
	}
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "paymentStatus", "is required")
		return
	}

	status, _ := model.ParsePaymentStatus(req.PaymentStatus)
	order, err := h.facade.RecordPayment(c.Request.Context(), id, status, CurrentIdentity(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

func toCheckoutRequest(req dto.CheckoutRequest) model.CheckoutRequest {
	lines := make([]model.CheckoutLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, model.CheckoutLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return model.CheckoutRequest{
		CustomerName:           req.CustomerName,
		CustomerEmail:          req.CustomerEmail,
		CustomerPhone:          req.CustomerPhone,
		ShippingAddress:        req.ShippingAddress,
		PaymentMethod:          req.PaymentMethod,
		VoucherCode:            req.VoucherCode,
		ContinueWithoutVoucher: req.ContinueWithoutVoucher,
		Lines:                  lines,
	}
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	lines := make([]dto.OrderLineResponse, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, dto.OrderLineResponse{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
			Total:       l.Total(),
		})
	}
	return dto.OrderResponse{
		ID:              order.ID.String(),
		Number:          order.Number,
		UserID:          order.UserID,
		CustomerName:    order.Customer.Name,
		CustomerEmail:   order.Customer.Email,
		CustomerPhone:   order.Customer.Phone,
		ShippingAddress: order.ShippingAddress,
		Lines:           lines,
		Subtotal:        order.Subtotal,
		ShippingFee:     order.ShippingFee,
		DiscountAmount:  order.DiscountAmount,
		TotalAmount:     order.TotalAmount,
		VoucherID:       order.VoucherID,
		Status:          string(order.Status),
		PaymentStatus:   string(order.PaymentStatus),
		PaymentMethod:   string(order.PaymentMethod),
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}
