package usecase

import (
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/PhamQuy48/storefront/internal/domain/model"
	testhelpers "github.com/PhamQuy48/storefront/internal/test"
)

var (
	customer = model.Identity{UserID: 7, Role: model.RoleCustomer}
	stranger = model.Identity{UserID: 8, Role: model.RoleCustomer}
	staff    = model.Identity{UserID: 100, Role: model.RoleStaff}
	fixedNow = time.Date(2026, time.February, 10, 9, 30, 0, 0, time.UTC)
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	orders        *testhelpers.OrderRepositoryStub
	vouchers      *testhelpers.VoucherRepositoryStub
	notifications *testhelpers.NotificationRepositoryStub
	tx            *testhelpers.TransactorStub
	publisher     *testhelpers.PublisherRecorder
	events        *testhelpers.OrderEventRecorder
	catalog       testhelpers.CatalogStub

	voucherUC      *VoucherUseCase
	notificationUC *NotificationUseCase
	orderUC        *OrderUseCase
}

func newFixture(vouchers ...model.Voucher) *fixture {
	f := &fixture{
		orders:        testhelpers.NewOrderRepositoryStub(),
		vouchers:      testhelpers.NewVoucherRepositoryStub(vouchers...),
		notifications: testhelpers.NewNotificationRepositoryStub(),
		tx:            &testhelpers.TransactorStub{},
		publisher:     &testhelpers.PublisherRecorder{},
		events:        &testhelpers.OrderEventRecorder{},
		catalog: testhelpers.CatalogStub{Items: map[int64]model.Product{
			1: {ID: 1, Name: "Ao dai", Price: decimal.NewFromInt(250000), Active: true},
			2: {ID: 2, Name: "Non la", Price: decimal.NewFromInt(50000), Active: true},
			3: {ID: 3, Name: "Retired", Price: decimal.NewFromInt(10000), Active: false},
		}},
	}
	f.orders.Now = func() time.Time { return fixedNow }

	logger := discardLogger()
	f.voucherUC = NewVoucherUseCase(f.vouchers, logger)
	f.voucherUC.now = func() time.Time { return fixedNow }
	f.notificationUC = NewNotificationUseCase(f.notifications, f.tx, f.publisher, "en", logger)
	f.notificationUC.now = func() time.Time { return fixedNow }
	f.orderUC = NewOrderUseCase(f.orders, f.catalog, f.tx, f.voucherUC, f.notificationUC, f.events, OrderOptions{
		MaxAttempts:           3,
		ShippingFee:           decimal.NewFromInt(30000),
		FreeShippingThreshold: decimal.NewFromInt(500000),
	}, logger)
	f.orderUC.now = func() time.Time { return fixedNow }
	return f
}

func (f *fixture) putOrder(status model.OrderStatus, payment model.PaymentStatus, method model.PaymentMethod) model.Order {
	order := model.Order{
		ID:            uuid.New(),
		Number:        "ORD-20260210-" + uuid.NewString()[:8],
		UserID:        customer.UserID,
		Lines:         []model.OrderLine{{ProductID: 1, ProductName: "Ao dai", UnitPrice: decimal.NewFromInt(250000), Quantity: 1}},
		Subtotal:      decimal.NewFromInt(250000),
		ShippingFee:   decimal.NewFromInt(30000),
		TotalAmount:   decimal.NewFromInt(280000),
		Status:        status,
		PaymentStatus: payment,
		PaymentMethod: method,
		CreatedAt:     fixedNow,
		UpdatedAt:     fixedNow,
	}
	f.orders.Put(order)
	return order
}

func checkoutRequest(lines ...model.CheckoutLine) model.CheckoutRequest {
	if len(lines) == 0 {
		lines = []model.CheckoutLine{{ProductID: 1, Quantity: 2}}
	}
	return model.CheckoutRequest{
		CustomerName:    "Nguyen Van A",
		CustomerEmail:   "a@example.com",
		CustomerPhone:   "0901234567",
		ShippingAddress: "1 Le Loi, District 1, Ho Chi Minh City",
		PaymentMethod:   "cod",
		Lines:           lines,
	}
}

func limitedVoucher(id int64, code string, limit int64) model.Voucher {
	return model.Voucher{
		ID:            id,
		Code:          code,
		DiscountType:  model.DiscountTypeFixedAmount,
		DiscountValue: decimal.NewFromInt(20000),
		UsageLimit:    &limit,
		ValidFrom:     fixedNow.Add(-24 * time.Hour),
		ValidUntil:    fixedNow.Add(24 * time.Hour),
		Active:        true,
	}
}
