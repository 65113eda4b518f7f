package sales

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/paws-pos/internal/domain/repository"
	"github.com/jhoicas/paws-pos/internal/domain/sale"
	"github.com/jhoicas/paws-pos/pkg/clock"
)

// Config parámetros fijos del motor de ventas.
type Config struct {
	TaxRate     decimal.Decimal // por defecto sale.DefaultTaxRate (19%)
	PricePolicy PricePolicy     // por defecto PricePolicyTrustCaller
}

// SaleUseCase registro atómico de ventas y consultas sobre el libro de ventas.
type SaleUseCase struct {
	txRunner  TxRunner
	saleRepo  repository.SaleRepository
	userRepo  repository.UserRepository
	analytics repository.AnalyticsRepository
	cfg       Config
	clock     clock.Clock
	log       zerolog.Logger
}

// NewSaleUseCase construye el caso de uso. saleRepo, userRepo y analytics se usan fuera de la tx (lecturas).
func NewSaleUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	userRepo repository.UserRepository,
	analytics repository.AnalyticsRepository,
	cfg Config,
	clk clock.Clock,
	log zerolog.Logger,
) *SaleUseCase {
	if cfg.TaxRate.IsZero() {
		cfg.TaxRate = sale.DefaultTaxRate
	}
	if cfg.PricePolicy == "" {
		cfg.PricePolicy = PricePolicyTrustCaller
	}
	return &SaleUseCase{
		txRunner:  txRunner,
		saleRepo:  saleRepo,
		userRepo:  userRepo,
		analytics: analytics,
		cfg:       cfg,
		clock:     clk,
		log:       log.With().Str("component", "sales").Logger(),
	}
}
