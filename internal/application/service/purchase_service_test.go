package service_test

import (
	"context"
	"testing"

	"github.com/sangkips/stockpilot-api/internal/application/service"
	"github.com/sangkips/stockpilot-api/internal/domain/entity"
	"github.com/sangkips/stockpilot-api/internal/domain/enum"
	"github.com/sangkips/stockpilot-api/internal/domain/repository"
	"github.com/sangkips/stockpilot-api/internal/infrastructure/store"
	"github.com/sangkips/stockpilot-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PurchaseServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *store.MemoryStore
	service *service.PurchaseService
}

func (s *PurchaseServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = newTestStore()
	s.service = service.NewPurchaseService(s.store, service.NewInventoryLedger(nil), fixedClock(), nil)

	seed(s.T(), s.store, repository.CollectionProducts,
		product("p1", "Rice", "10", 4),
		entity.Product{ID: "p2", Name: "Beans", Price: dec("8"), Quantity: 0, Barcode: "111"})
	seed(s.T(), s.store, repository.CollectionSuppliers, entity.Supplier{ID: "s1", Name: "Atacadão"})
}

func TestPurchaseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PurchaseServiceTestSuite))
}

func price(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func (s *PurchaseServiceTestSuite) TestCreatePurchase_TotalsAndStock() {
	purchase, err := s.service.CreatePurchase(s.ctx, &service.PurchaseInput{
		SupplierID:    "s1",
		PaymentMethod: "boleto",
		Discount:      dec("5"),
		Shipping:      dec("12.50"),
		Items: []service.PurchaseItemInput{
			{ProductID: "p1", Quantity: 10, UnitPrice: price("6")},
			{ProductID: "p2", Quantity: 5, UnitPrice: price("4.20")},
		},
	})
	s.Require().NoError(err)

	s.True(dec("81").Equal(purchase.Subtotal), "subtotal was %s", purchase.Subtotal)
	s.True(dec("88.5").Equal(purchase.Total), "total was %s", purchase.Total)
	s.Equal(fixedNow, purchase.Date)
	s.Equal("Rice", purchase.Items[0].ProductName)

	s.Equal(14, quantityOf(s.T(), s.store, "p1"))
	s.Equal(5, quantityOf(s.T(), s.store, "p2"))
}

func (s *PurchaseServiceTestSuite) TestCreatePurchase_InlineNewProduct() {
	purchase, err := s.service.CreatePurchase(s.ctx, &service.PurchaseInput{
		SupplierID:    "s1",
		PaymentMethod: "pix",
		Items: []service.PurchaseItemInput{{
			NewProduct: &service.NewProductInput{Name: "Coffee", Barcode: "222", SellingPrice: dec("15"), CostPrice: dec("9")},
			Quantity:   6,
		}},
	})
	s.Require().NoError(err)

	item := purchase.Items[0]
	s.True(dec("9").Equal(item.UnitPrice), "unit price defaults to the cost price")

	products := load[entity.Product](s.T(), s.store, repository.CollectionProducts)
	s.Require().Len(products, 3)
	created := products[repository.FindByID(products, item.ProductID)]
	s.Equal("Coffee", created.Name)
	s.Equal(6, created.Quantity)
	s.Equal("222", created.Barcode)
}

func (s *PurchaseServiceTestSuite) TestCreatePurchase_DuplicateBarcodeWritesNothing() {
	_, err := s.service.CreatePurchase(s.ctx, &service.PurchaseInput{
		SupplierID:    "s1",
		PaymentMethod: "pix",
		Items: []service.PurchaseItemInput{
			{ProductID: "p1", Quantity: 1, UnitPrice: price("1")},
			{NewProduct: &service.NewProductInput{Name: "Copy", Barcode: "111", SellingPrice: dec("1")}, Quantity: 1},
		},
	})
	s.ErrorIs(err, apperror.ErrConflict)
	s.Len(load[entity.Product](s.T(), s.store, repository.CollectionProducts), 2)
	s.Equal(4, quantityOf(s.T(), s.store, "p1"))
}

func (s *PurchaseServiceTestSuite) TestCreatePurchase_Validation() {
	_, err := s.service.CreatePurchase(s.ctx, &service.PurchaseInput{
		SupplierID:    "s1",
		PaymentMethod: "pix",
		Items:         []service.PurchaseItemInput{{Quantity: 1, UnitPrice: price("1")}},
	})
	s.Require().ErrorIs(err, apperror.ErrValidation)
	s.Equal("items[0].productId", apperror.GetAppError(err).Errors[0].Field)

	_, err = s.service.CreatePurchase(s.ctx, &service.PurchaseInput{
		SupplierID:    "nobody",
		PaymentMethod: "pix",
		Items:         []service.PurchaseItemInput{{ProductID: "p1", Quantity: 1, UnitPrice: price("1")}},
	})
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *PurchaseServiceTestSuite) TestUpdatePurchase_MovesNetDifference() {
	created, err := s.service.CreatePurchase(s.ctx, &service.PurchaseInput{
		SupplierID:    "s1",
		PaymentMethod: "pix",
		Items:         []service.PurchaseItemInput{{ProductID: "p1", Quantity: 10, UnitPrice: price("5")}},
	})
	s.Require().NoError(err)
	s.Equal(14, quantityOf(s.T(), s.store, "p1"))

	updated, err := s.service.UpdatePurchase(s.ctx, created.ID, &service.PurchaseInput{
		SupplierID:    "s1",
		PaymentMethod: "pix",
		Items: []service.PurchaseItemInput{
			{ProductID: "p1", Quantity: 7, UnitPrice: price("5")},
			{ProductID: "p2", Quantity: 3, UnitPrice: price("2")},
		},
	})
	s.Require().NoError(err)
	s.Equal(created.ID, updated.ID)
	s.Equal(created.Date, updated.Date)

	s.Equal(11, quantityOf(s.T(), s.store, "p1"))
	s.Equal(3, quantityOf(s.T(), s.store, "p2"))
	s.Len(load[entity.Purchase](s.T(), s.store, repository.CollectionPurchases), 1)
}

func (s *PurchaseServiceTestSuite) TestDeletePurchase_ConflictWhenStockAlreadySold() {
	created, err := s.service.CreatePurchase(s.ctx, &service.PurchaseInput{
		SupplierID:    "s1",
		PaymentMethod: "pix",
		Items:         []service.PurchaseItemInput{{ProductID: "p2", Quantity: 3, UnitPrice: price("2")}},
	})
	s.Require().NoError(err)

	sales := service.NewSaleService(s.store, service.NewInventoryLedger(nil), creditDays, fixedClock(), nil)
	_, err = sales.RecordSale(s.ctx, service.RecordSaleInput{
		Items:         []service.SaleLineInput{{ProductID: "p2", Quantity: 2}},
		PaymentMethod: enum.PaymentMethodCash,
	})
	s.Require().NoError(err)

	err = s.service.DeletePurchase(s.ctx, created.ID)
	s.ErrorIs(err, apperror.ErrStockConflict)
	s.Equal(1, quantityOf(s.T(), s.store, "p2"))
	s.Len(load[entity.Purchase](s.T(), s.store, repository.CollectionPurchases), 1)
}

func (s *PurchaseServiceTestSuite) TestDeletePurchase_RemovesStock() {
	created, err := s.service.CreatePurchase(s.ctx, &service.PurchaseInput{
		SupplierID:    "s1",
		PaymentMethod: "pix",
		Items:         []service.PurchaseItemInput{{ProductID: "p1", Quantity: 2, UnitPrice: price("2")}},
	})
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeletePurchase(s.ctx, created.ID))
	s.Equal(4, quantityOf(s.T(), s.store, "p1"))
	s.Empty(load[entity.Purchase](s.T(), s.store, repository.CollectionPurchases))
}

func (s *PurchaseServiceTestSuite) TestDeletePurchases_OutOfOrderRestoresStockAndFeed() {
	cashFlow := service.NewCashFlowService(s.store, fixedClock(), nil)
	lines := [][]service.PurchaseItemInput{
		{{ProductID: "p1", Quantity: 3, UnitPrice: price("2")}, {ProductID: "p2", Quantity: 1, UnitPrice: price("1")}},
		{{ProductID: "p1", Quantity: 5, UnitPrice: price("2")}},
		{{ProductID: "p2", Quantity: 2, UnitPrice: price("1")}, {ProductID: "p1", Quantity: 1, UnitPrice: price("2")}},
	}

	ids := make([]string, 0, len(lines))
	for _, items := range lines {
		created, err := s.service.CreatePurchase(s.ctx, &service.PurchaseInput{
			SupplierID:    "s1",
			PaymentMethod: "pix",
			Discount:      dec("1"),
			Shipping:      dec("3"),
			Items:         items,
		})
		s.Require().NoError(err)
		ids = append(ids, created.ID)
	}
	s.Equal(13, quantityOf(s.T(), s.store, "p1"))
	s.Equal(3, quantityOf(s.T(), s.store, "p2"))

	feed, err := cashFlow.Transactions(s.ctx)
	s.Require().NoError(err)
	s.Len(feed, 3)

	for _, i := range []int{1, 2, 0} {
		s.Require().NoError(s.service.DeletePurchase(s.ctx, ids[i]))

		feed, err := cashFlow.Transactions(s.ctx)
		s.Require().NoError(err)
		for _, tx := range feed {
			s.NotEqual("purchase-"+ids[i], tx.ID)
		}
	}

	s.Equal(4, quantityOf(s.T(), s.store, "p1"))
	s.Equal(0, quantityOf(s.T(), s.store, "p2"))
	s.Empty(load[entity.Purchase](s.T(), s.store, repository.CollectionPurchases))

	feed, err = cashFlow.Transactions(s.ctx)
	s.Require().NoError(err)
	s.Empty(feed)
}
