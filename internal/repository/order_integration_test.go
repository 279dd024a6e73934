package repository

import (
	"github.com/emregurs3s/karakus-tech-website/internal/domain"
	"github.com/jackc/pgx/v5"
)

func (s *IntegrationTestSuite) seedUser(email string) int64 {
	id, err := s.UserRepo.Create(s.Ctx, &domain.User{
		Name:         "Ayşe Yılmaz",
		Email:        email,
		PasswordHash: "x",
		Roles:        []string{domain.RoleCustomer},
		IsActive:     true,
	})
	s.Require().NoError(err)
	return id
}

func (s *IntegrationTestSuite) createOrder(userID int64) *domain.Order {
	order := &domain.Order{
		UserID: userID,
		Status: domain.OrderStatusPending,
		Customer: domain.CustomerInfo{
			Name:  "Ayşe Yılmaz",
			Email: "ayse@example.com",
			Phone: "+905551112233",
		},
		Shipping: domain.ShippingAddress{
			FullAddress: "Atatürk Cad. No:1",
			City:        "İstanbul",
		},
		Items: []domain.OrderItem{
			{ProductID: 7, Title: "Oversize Tee", Price: 45000, Quantity: 2, Color: "Black", Size: "L"},
		},
		ShippingFee: 5000,
	}
	order.CalculateTotal()

	s.withTx(func(tx pgx.Tx) error {
		return s.OrderRepo.CreateOrder(s.Ctx, tx, order)
	})

	return order
}

func (s *IntegrationTestSuite) withTx(fn func(tx pgx.Tx) error) {
	tx, err := s.DbPool.Begin(s.Ctx)
	s.Require().NoError(err)
	s.Require().NoError(fn(tx))
	s.Require().NoError(tx.Commit(s.Ctx))
}

func (s *IntegrationTestSuite) TestUser_DuplicateEmail() {
	s.seedUser("ayse@example.com")

	_, err := s.UserRepo.Create(s.Ctx, &domain.User{
		Name:         "Other",
		Email:        "ayse@example.com",
		PasswordHash: "y",
		Roles:        []string{domain.RoleCustomer},
		IsActive:     true,
	})

	s.Require().ErrorIs(err, ErrUserExists)
}

func (s *IntegrationTestSuite) TestUser_UpdateRolesRoundTrip() {
	id := s.seedUser("ayse@example.com")

	s.Require().NoError(s.UserRepo.UpdateRoles(s.Ctx, id, []string{domain.RoleCustomer, domain.RoleAdmin}))

	user, err := s.UserRepo.GetByID(s.Ctx, id)
	s.Require().NoError(err)
	s.True(user.HasRole(domain.RoleAdmin))
}

func (s *IntegrationTestSuite) TestOrder_CreateAndGet() {
	userID := s.seedUser("ayse@example.com")
	order := s.createOrder(userID)

	s.Require().NotZero(order.ID)

	got, err := s.OrderRepo.GetByID(s.Ctx, order.ID)
	s.Require().NoError(err)

	s.Equal(domain.OrderStatusPending, got.Status)
	s.Equal(int64(90000), got.Subtotal)
	s.Equal(int64(95000), got.TotalSum)
	s.Require().Len(got.Items, 1)
	s.Equal("Oversize Tee", got.Items[0].Title)
	s.Equal(int32(2), got.Items[0].Quantity)
}

func (s *IntegrationTestSuite) TestOrder_StatusChangeReturnsOld() {
	userID := s.seedUser("ayse@example.com")
	order := s.createOrder(userID)

	var old domain.OrderStatus
	s.withTx(func(tx pgx.Tx) error {
		var err error
		old, err = s.OrderRepo.ChangeOrderStatus(s.Ctx, tx, order.ID, domain.OrderStatusShipped)
		return err
	})

	s.Equal(domain.OrderStatusPending, old)

	got, err := s.OrderRepo.GetByID(s.Ctx, order.ID)
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusShipped, got.Status)
}

func (s *IntegrationTestSuite) TestOrder_SetPaidIsIdempotent() {
	userID := s.seedUser("ayse@example.com")
	order := s.createOrder(userID)

	s.withTx(func(tx pgx.Tx) error {
		_, err := s.OrderRepo.SetPaid(s.Ctx, tx, order.ID, "pay-777")
		return err
	})

	var old domain.OrderStatus
	s.withTx(func(tx pgx.Tx) error {
		var err error
		old, err = s.OrderRepo.SetPaid(s.Ctx, tx, order.ID, "pay-777")
		return err
	})

	s.Equal(domain.OrderStatusPaid, old)

	got, err := s.OrderRepo.GetByID(s.Ctx, order.ID)
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusPaid, got.Status)
	s.Equal("pay-777", got.PaymentID)
}

func (s *IntegrationTestSuite) TestOrder_ListByStatus() {
	userID := s.seedUser("ayse@example.com")
	first := s.createOrder(userID)
	s.createOrder(userID)

	s.withTx(func(tx pgx.Tx) error {
		_, err := s.OrderRepo.ChangeOrderStatus(s.Ctx, tx, first.ID, domain.OrderStatusShipped)
		return err
	})

	orders, total, err := s.OrderRepo.List(s.Ctx, domain.OrderStatusShipped, 1, 10)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(orders, 1)
	s.Equal(first.ID, orders[0].ID)

	_, total, err = s.OrderRepo.List(s.Ctx, "", 1, 10)
	s.Require().NoError(err)
	s.Equal(int64(2), total)
}
