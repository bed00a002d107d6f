package paymentrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/abarbosa/coursepay/internal/domain"
	"github.com/abarbosa/coursepay/internal/pg"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface, *pg.MockTXManager) {
	ctrl := gomock.NewController(t)
	mockTxManager := pg.NewMockTXManager(ctrl)

	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB, mockTxManager)
	defer mockDB.Close()
	defer ctrl.Finish()

	return repo, mockDB, mockTxManager
}

const selectColumns = "SELECT id, user_id, course_id, asaas_payment_id, asaas_customer_id, status, value_cents, billing_type, created_at"

func TestRepository_FindByAsaasID(t *testing.T) {
	repo, mock, _ := NewMock(t)
	now := time.Now()

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		result    *domain.Payment
	}{
		{
			name: "Payment exists",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "user_id", "course_id", "asaas_payment_id", "asaas_customer_id", "status", "value_cents", "billing_type", "created_at"}).
					AddRow(1, "u1", "c1", "pay_1", "cus_1", "pending", int64(26730), "PIX", now)
				mock.ExpectQuery(regexp.QuoteMeta(selectColumns)).
					WithArgs("pay_1").
					WillReturnRows(rows)
			},
			result: &domain.Payment{
				ID:              1,
				UserID:          "u1",
				CourseID:        "c1",
				AsaasPaymentID:  "pay_1",
				AsaasCustomerID: "cus_1",
				Status:          "pending",
				ValueCents:      26730,
				BillingType:     "PIX",
				CreatedAt:       now,
			},
		},
		{
			name: "Payment does not exist",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(selectColumns)).
					WithArgs("pay_1").
					WillReturnError(pgx.ErrNoRows)
			},
			result: nil,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(selectColumns)).
					WithArgs("pay_1").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByAsaasID(context.Background(), "pay_1")
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.result, result)
		})
	}
}

func TestRepository_Save(t *testing.T) {
	repo, mock, tx := NewMock(t)
	now := time.Now()

	payment := &domain.Payment{
		UserID:          "u1",
		CourseID:        "c1",
		AsaasPaymentID:  "pay_1",
		AsaasCustomerID: "cus_1",
		Status:          "pending",
		ValueCents:      26730,
		BillingType:     "PIX",
		CreatedAt:       now,
	}

	tests := []struct {
		name      string
		mockSetup func()
		expectErr error
	}{
		{
			name: "Successful insert",
			mockSetup: func() {
				tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, fn func(context.Context) error) error {
						return fn(ctx)
					})
				mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO payments")).
					WithArgs("u1", "c1", "pay_1", "cus_1", "pending", int64(26730), "PIX", now).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(7))
			},
		},
		{
			name: "Duplicate charge id",
			mockSetup: func() {
				tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, fn func(context.Context) error) error {
						return fn(ctx)
					})
				mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO payments")).
					WithArgs("u1", "c1", "pay_1", "cus_1", "pending", int64(26730), "PIX", now).
					WillReturnError(&pgconn.PgError{Code: uniqueViolation})
			},
			expectErr: ErrPaymentExists,
		},
		{
			name: "Database error",
			mockSetup: func() {
				tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, fn func(context.Context) error) error {
						return fn(ctx)
					})
				mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO payments")).
					WithArgs("u1", "c1", "pay_1", "cus_1", "pending", int64(26730), "PIX", now).
					WillReturnError(errors.New("database error"))
			},
			expectErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := repo.Save(context.Background(), payment)
			if tt.expectErr != nil {
				assert.Error(t, err)
				if errors.Is(tt.expectErr, ErrPaymentExists) {
					assert.ErrorIs(t, err, ErrPaymentExists)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 7, payment.ID)
			}
		})
	}
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, mock, tx := NewMock(t)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Successful update",
			mockSetup: func() {
				tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, fn func(context.Context) error) error {
						return fn(ctx)
					})
				mock.ExpectExec(regexp.QuoteMeta("UPDATE payments")).
					WithArgs("confirmed", 7).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "Database error",
			mockSetup: func() {
				tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, fn func(context.Context) error) error {
						return fn(ctx)
					})
				mock.ExpectExec(regexp.QuoteMeta("UPDATE payments")).
					WithArgs("confirmed", 7).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := repo.UpdateStatus(context.Background(), 7, "confirmed")
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRepository_FindStalePending(t *testing.T) {
	repo, mock, _ := NewMock(t)
	now := time.Now()

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		count     int
	}{
		{
			name: "Stale payments found",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "user_id", "course_id", "asaas_payment_id", "asaas_customer_id", "status", "value_cents", "billing_type", "created_at"}).
					AddRow(1, "u1", "c1", "pay_1", "cus_1", "pending", int64(26730), "PIX", now).
					AddRow(2, "u2", "c1", "pay_2", "cus_2", "pending", int64(29700), "BOLETO", now)
				mock.ExpectQuery(regexp.QuoteMeta(selectColumns)).
					WithArgs(pgxmock.AnyArg(), 100).
					WillReturnRows(rows)
			},
			count: 2,
		},
		{
			name: "No stale payments",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "user_id", "course_id", "asaas_payment_id", "asaas_customer_id", "status", "value_cents", "billing_type", "created_at"})
				mock.ExpectQuery(regexp.QuoteMeta(selectColumns)).
					WithArgs(pgxmock.AnyArg(), 100).
					WillReturnRows(rows)
			},
			count: 0,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(selectColumns)).
					WithArgs(pgxmock.AnyArg(), 100).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			payments, err := repo.FindStalePending(context.Background(), 10*time.Minute, 100)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Len(t, payments, tt.count)
		})
	}
}
