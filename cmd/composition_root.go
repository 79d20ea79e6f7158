package cmd

import (
	"log/slog"

	httpserver "fooddispatch/internal/adapters/in/http"
	"fooddispatch/internal/adapters/out/notifier"
	"fooddispatch/internal/adapters/out/payments"
	"fooddispatch/internal/adapters/out/postgres"
	"fooddispatch/internal/core/application/usecases/commands"
	"fooddispatch/internal/core/application/usecases/queries"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/services"
	"fooddispatch/internal/core/ports"
	"fooddispatch/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters, domain services, and use case handlers.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	notifier   ports.Notifier
	payments   ports.PaymentGateway
	logger     *slog.Logger
}

// NewCompositionRoot assembles the object graph from the configuration and an
// open database connection.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) *CompositionRoot {
	var gateway ports.PaymentGateway
	if config.PaymentServiceURL != "" {
		gateway = payments.NewHTTPPaymentGateway(config.PaymentServiceURL)
	} else {
		gateway = payments.NewStaticPaymentGateway(true)
	}

	return &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		notifier:   notifier.NewSlogNotifier(logger),
		payments:   gateway,
		logger:     logger,
	}
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPlaceOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewTransitionOrderCommandHandler(
		f,
		c.notifier,
		c.payments,
		c.feeCalculator(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateRespondToOfferCommandHandler() commands.RespondToOfferCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRespondToOfferCommandHandler(f, c.notifier, c.logger, c.config.MaxDispatchAttempts)
}

func (c *CompositionRoot) CreateCreateDriverCommandHandler() commands.CreateDriverCommandHandler {
	var f commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateDriverCommandHandler(f, c.config.DriverCapacity)
}

func (c *CompositionRoot) CreateUpdateDriverLocationCommandHandler() commands.UpdateDriverLocationCommandHandler {
	var f commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateDriverLocationCommandHandler(f)
}

func (c *CompositionRoot) CreateDispatchOrdersCommandHandler() commands.DispatchOrdersCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewDispatchOrdersCommandHandler(
		f,
		services.NewDriverMatcher(c.config.DispatchRadiusKm),
		c.notifier,
		c.logger,
		c.config.OfferTTL,
		c.config.DispatchBackoff,
		c.config.MaxDispatchAttempts,
	)
}

func (c *CompositionRoot) CreateExpireOffersCommandHandler() commands.ExpireOffersCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewExpireOffersCommandHandler(f, c.notifier, c.logger, c.config.MaxDispatchAttempts)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDriverEarningsQueryHandler() queries.GetDriverEarningsQueryHandler {
	return queries.NewGetDriverEarningsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetEarningsSummaryQueryHandler() queries.GetEarningsSummaryQueryHandler {
	return queries.NewGetEarningsSummaryQueryHandler(c.gormDB)
}

// CreateHTTPServer builds the REST adapter with every handler wired in.
func (c *CompositionRoot) CreateHTTPServer() *httpserver.Server {
	return httpserver.NewServer(
		c.CreatePlaceOrderCommandHandler(),
		c.CreateTransitionOrderCommandHandler(),
		c.CreateRespondToOfferCommandHandler(),
		c.CreateCreateDriverCommandHandler(),
		c.CreateUpdateDriverLocationCommandHandler(),
		c.CreateGetActiveOrdersQueryHandler(),
		c.CreateGetDriverEarningsQueryHandler(),
		c.CreateGetEarningsSummaryQueryHandler(),
		c.logger,
	)
}

// CreateJobManager builds the background job manager for the dispatch and
// offer expiry sweeps.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateDispatchOrdersCommandHandler(),
		c.CreateExpireOffersCommandHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) feeCalculator() services.FeeCalculator {
	return services.NewFeeCalculator(
		kernel.NewMoneyFromCents(c.config.FeeBaseCents),
		kernel.NewMoneyFromCents(c.config.FeePerKmCents),
		kernel.NewMoneyFromCents(c.config.FeeBonusCents),
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncDriverUoWFactory func() commands.DriverUoW

func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
