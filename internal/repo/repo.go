package repo

import (
	"github.com/abarbosa/coursepay/internal/pg"
	courserepo "github.com/abarbosa/coursepay/internal/repo/course-repo"
	entitlementrepo "github.com/abarbosa/coursepay/internal/repo/entitlement-repo"
	paymentrepo "github.com/abarbosa/coursepay/internal/repo/payment-repo"
	userrepo "github.com/abarbosa/coursepay/internal/repo/user-repo"
)

// Repositories holds the concrete stores; each service narrows them to the
// interface it declares.
type Repositories struct {
	UserRepo        *userrepo.Repository
	CourseRepo      *courserepo.Repository
	PaymentRepo     *paymentrepo.Repository
	EntitlementRepo *entitlementrepo.Repository
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		UserRepo:        userrepo.New(conn),
		CourseRepo:      courserepo.New(conn),
		PaymentRepo:     paymentrepo.New(conn, txManager),
		EntitlementRepo: entitlementrepo.New(conn),
	}
}
