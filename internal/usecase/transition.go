package usecase

import (
	domainErrors "github.com/PhamQuy48/storefront/internal/domain/errors"
	"github.com/PhamQuy48/storefront/internal/domain/model"
)

// Effect is the side effect attached to an accepted transition.
type Effect int

const (
	EffectNone Effect = iota
	EffectReleaseStock
	EffectMarkPaidIfCOD
	EffectMarkRefunded
)

type edge struct {
	from model.OrderStatus
	to   model.OrderStatus
}

type rule struct {
	customer bool
	effect   Effect
}

// transitions is the closed set of status edges. Staff and admin may take any
// of them, customers only those marked.
var transitions = map[edge]rule{
	{model.OrderStatusPending, model.OrderStatusProcessing}:   {effect: EffectNone},
	{model.OrderStatusPending, model.OrderStatusCancelled}:    {customer: true, effect: EffectReleaseStock},
	{model.OrderStatusProcessing, model.OrderStatusShipping}:  {effect: EffectNone},
	{model.OrderStatusProcessing, model.OrderStatusCancelled}: {customer: true, effect: EffectReleaseStock},
	{model.OrderStatusShipping, model.OrderStatusCompleted}:   {effect: EffectMarkPaidIfCOD},
	{model.OrderStatusRefunding, model.OrderStatusCancelled}:  {effect: EffectMarkRefunded},
}

// plan is an evaluated transition ready to be applied with compare-and-set.
type plan struct {
	from          model.OrderStatus
	to            model.OrderStatus
	paymentStatus model.PaymentStatus
	effect        Effect
}

// planTransition decides whether actor may move order to requested.
// Cancelling a paid order that has not shipped becomes a refund request.
func planTransition(order *model.Order, requested model.OrderStatus, actor model.Identity) (plan, error) {
	p := plan{from: order.Status, to: requested, paymentStatus: order.PaymentStatus}

	if requested == model.OrderStatusCancelled &&
		order.PaymentStatus == model.PaymentStatusPaid &&
		(order.Status == model.OrderStatusPending || order.Status == model.OrderStatusProcessing) {
		p.to = model.OrderStatusRefunding
		return p, nil
	}

	r, ok := transitions[edge{from: order.Status, to: requested}]
	if !ok {
		return plan{}, &domainErrors.TransitionError{From: string(order.Status), To: string(requested)}
	}
	if !actor.IsStaff() && !r.customer {
		return plan{}, domainErrors.ErrForbidden
	}

	p.effect = r.effect
	switch r.effect {
	case EffectMarkPaidIfCOD:
		if order.PaymentMethod.IsCashOnDelivery() {
			p.paymentStatus = model.PaymentStatusPaid
		}
	case EffectMarkRefunded:
		p.paymentStatus = model.PaymentStatusRefunded
	}
	return p, nil
}

// releasesStock reports whether applying p returns reserved stock. A closed
// refund releases the stock held back when the paid order was cancelled.
func (p plan) releasesStock() bool {
	return p.effect == EffectReleaseStock || p.effect == EffectMarkRefunded
}
