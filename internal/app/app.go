package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"curbside-backend/config"
	"curbside-backend/internal/api"
	"curbside-backend/internal/availability"
	"curbside-backend/internal/budget"
	"curbside-backend/internal/evaluate"
	"curbside-backend/internal/payment"
	"curbside-backend/internal/permit"
	"curbside-backend/internal/session"
	"curbside-backend/internal/store"
	"curbside-backend/internal/tariff"
)

// App is the assembled service graph behind the HTTP server.
type App struct {
	Router    *gin.Engine
	Evaluator *evaluate.Evaluator
	Sessions  *session.Service
	Ledger    *budget.Ledger
}

// New wires every engine component against gormDB.
func New(cfg *config.Config, gormDB *gorm.DB) *App {
	loc := cfg.Engine.Location
	if loc == nil {
		loc = time.Local
	}
	ttl := cfg.Engine.WindowCacheTTL()

	tariffs := tariff.NewCalendar(tariff.NewCachedSource(tariff.NewTariffSource(gormDB), ttl), loc)
	privileged := tariff.NewCalendar(tariff.NewCachedSource(tariff.NewPrivilegedSource(gormDB), ttl), loc)

	ledger := budget.NewLedger(budget.NewGormStore(gormDB), loc)
	evaluator := evaluate.NewEvaluator(tariffs, availability.NewResolver(privileged), payment.NewDecider(ledger))
	permits := permit.NewLookup(gormDB)
	sessions := session.NewService(store.NewGormStore(gormDB), permits, evaluator, ledger, cfg.Engine.DefaultMinParkingMinutes)

	handler := api.NewHandler(api.Deps{
		Evaluator:         evaluator,
		Permits:           permits,
		Sessions:          sessions,
		Ledger:            ledger,
		Tariffs:           tariffs,
		DefaultMinParking: cfg.Engine.DefaultMinParkingMinutes,
	})

	return &App{
		Router:    api.NewRouter(handler, cfg.Server),
		Evaluator: evaluator,
		Sessions:  sessions,
		Ledger:    ledger,
	}
}
