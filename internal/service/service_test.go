package service

import (
	"testing"

	"github.com/abarbosa/coursepay/internal/asaas"
	"github.com/abarbosa/coursepay/internal/config"
	"github.com/abarbosa/coursepay/internal/pg"
	"github.com/abarbosa/coursepay/internal/repo"
	"github.com/abarbosa/coursepay/internal/service/checkoutservice"
	"github.com/abarbosa/coursepay/internal/service/reconcilerservice"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mockDB.Close()

	repos := repo.New(mockDB, pg.NewMockTXManager(ctrl))
	processor := asaas.NewMockClientI(ctrl)
	notifier := reconcilerservice.NewMockNotifier(ctrl)
	recovery := checkoutservice.NewMockRecoverySender(ctrl)

	cfg := &config.Config{
		CourseSlug: "tiktok-shop-do-zero",
		AppURL:     "https://example.com",
		JWTSecret:  "secret",
	}

	services := New(cfg, repos, processor, notifier, recovery)

	assert.NotNil(t, services.CheckoutService)
	assert.NotNil(t, services.ReconcilerService)
	assert.NotNil(t, services.PaymentService)
}
