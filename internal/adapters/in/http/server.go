// Package http exposes the dispatch engine's REST API.
//
// The lifecycle endpoints authenticate the acting party through the
// X-Actor-Role and X-Actor-Id headers; verifying those claims is the job of
// the authentication collaborator in front of this service.
package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"fooddispatch/internal/core/application/usecases/commands"
	"fooddispatch/internal/core/application/usecases/queries"
	"fooddispatch/internal/core/domain/model/driver"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// Header names carrying the verified actor identity.
const (
	headerActorRole = "X-Actor-Role"
	headerActorID   = "X-Actor-Id"
)

// defaultSummaryWindow is used when the earnings summary request carries no
// explicit window.
const defaultSummaryWindow = 24 * time.Hour

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	placeOrderHandler      commands.PlaceOrderCommandHandler
	transitionOrderHandler commands.TransitionOrderCommandHandler
	respondToOfferHandler  commands.RespondToOfferCommandHandler
	createDriverHandler    commands.CreateDriverCommandHandler
	updateLocationHandler  commands.UpdateDriverLocationCommandHandler

	// Query handlers
	getActiveOrdersHandler    queries.GetActiveOrdersQueryHandler
	getDriverEarningsHandler  queries.GetDriverEarningsQueryHandler
	getEarningsSummaryHandler queries.GetEarningsSummaryQueryHandler

	logger *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query
// handlers.
func NewServer(
	placeOrderHandler commands.PlaceOrderCommandHandler,
	transitionOrderHandler commands.TransitionOrderCommandHandler,
	respondToOfferHandler commands.RespondToOfferCommandHandler,
	createDriverHandler commands.CreateDriverCommandHandler,
	updateLocationHandler commands.UpdateDriverLocationCommandHandler,
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler,
	getDriverEarningsHandler queries.GetDriverEarningsQueryHandler,
	getEarningsSummaryHandler queries.GetEarningsSummaryQueryHandler,
	logger *slog.Logger,
) *Server {
	return &Server{
		placeOrderHandler:         placeOrderHandler,
		transitionOrderHandler:    transitionOrderHandler,
		respondToOfferHandler:     respondToOfferHandler,
		createDriverHandler:       createDriverHandler,
		updateLocationHandler:     updateLocationHandler,
		getActiveOrdersHandler:    getActiveOrdersHandler,
		getDriverEarningsHandler:  getDriverEarningsHandler,
		getEarningsSummaryHandler: getEarningsSummaryHandler,
		logger:                    logger.With("component", "http_server"),
	}
}

// RegisterRoutes binds every endpoint on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	v1 := e.Group("/api/v1")

	v1.POST("/orders", s.PlaceOrder)
	v1.POST("/orders/:id/transition", s.TransitionOrder)
	v1.GET("/orders/active", s.GetActiveOrders)

	v1.POST("/drivers", s.CreateDriver)
	v1.PUT("/drivers/:id/location", s.UpdateDriverLocation)
	v1.GET("/drivers/:id/earnings", s.GetDriverEarnings)
	v1.GET("/drivers/:id/earnings/summary", s.GetEarningsSummary)

	v1.POST("/offers/:id/respond", s.RespondToOffer)
}

// PlaceOrder handles POST /api/v1/orders - creates a new order in Placed
// status.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	var request placeOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	customerID, err := kernel.UUIDFromString(request.CustomerID)
	if err != nil {
		return respondError(ctx, err)
	}
	restaurantID, err := kernel.UUIDFromString(request.RestaurantID)
	if err != nil {
		return respondError(ctx, err)
	}

	pickup, err := kernel.NewGeoPoint(request.Pickup.Lat, request.Pickup.Lng)
	if err != nil {
		return respondError(ctx, err)
	}

	var dropoff *kernel.GeoPoint
	if request.Dropoff != nil {
		point, pointErr := kernel.NewGeoPoint(request.Dropoff.Lat, request.Dropoff.Lng)
		if pointErr != nil {
			return respondError(ctx, pointErr)
		}
		dropoff = &point
	}

	items := make([]commands.OrderItem, 0, len(request.Items))
	for _, item := range request.Items {
		items = append(items, commands.OrderItem{
			Name:           item.Name,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewPlaceOrderCommand(orderID, customerID, restaurantID, pickup, dropoff, items)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.placeOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		s.logError(ctx, "place order failed", err)
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, createdResponse{ID: orderID.String()})
}

// TransitionOrder handles POST /api/v1/orders/:id/transition - moves an order
// through its lifecycle on behalf of the actor identified by the request
// headers.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	var request transitionOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	target, err := order.StatusFromString(request.Target)
	if err != nil {
		return respondError(ctx, err)
	}

	actor, err := s.actorFromHeaders(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, target, actor)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.transitionOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		s.logError(ctx, "order transition failed", err)
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetActiveOrders handles GET /api/v1/orders/active - retrieves orders that
// have not reached a terminal status.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	query := queries.NewGetActiveOrdersQuery()

	orders, err := s.getActiveOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		s.logError(ctx, "active orders query failed", err)
		return respondError(ctx, err)
	}

	response := make([]activeOrderResponse, 0, len(orders))
	for _, o := range orders {
		item := activeOrderResponse{
			ID:               o.ID.String(),
			Status:           o.Status,
			DispatchAttempts: o.DispatchAttempts,
			Unassignable:     o.Unassignable,
		}
		if o.DriverID != nil {
			driverID := o.DriverID.String()
			item.DriverID = &driverID
		}
		response = append(response, item)
	}

	return ctx.JSON(http.StatusOK, response)
}

// CreateDriver handles POST /api/v1/drivers - registers a new driver.
func (s *Server) CreateDriver(ctx echo.Context) error {
	var request createDriverRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	vehicle, err := driver.VehicleFromString(request.Vehicle)
	if err != nil {
		return respondError(ctx, err)
	}

	location, err := kernel.NewGeoPoint(request.Location.Lat, request.Location.Lng)
	if err != nil {
		return respondError(ctx, err)
	}

	driverID := kernel.NewUUID()
	cmd, err := commands.NewCreateDriverCommand(driverID, request.Name, location, vehicle)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.createDriverHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		s.logError(ctx, "create driver failed", err)
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, createdResponse{ID: driverID.String()})
}

// UpdateDriverLocation handles PUT /api/v1/drivers/:id/location - records the
// driver's live position as pushed by the geography collaborator.
func (s *Server) UpdateDriverLocation(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	var request updateLocationRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	location, err := kernel.NewGeoPoint(request.Location.Lat, request.Location.Lng)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewUpdateDriverLocationCommand(driverID, location)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.updateLocationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		s.logError(ctx, "update driver location failed", err)
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RespondToOffer handles POST /api/v1/offers/:id/respond - records a driver's
// accept or decline. The responding driver is identified by the actor
// headers.
func (s *Server) RespondToOffer(ctx echo.Context) error {
	offerID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	var request respondToOfferRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	decision, err := commands.DecisionFromString(request.Decision)
	if err != nil {
		return respondError(ctx, err)
	}

	actor, err := s.actorFromHeaders(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	if actor.Role() != kernel.RoleDriver || actor.ID() == nil {
		return ctx.JSON(http.StatusForbidden, errorResponse{
			Code:    http.StatusForbidden,
			Message: "only drivers may respond to offers",
		})
	}

	cmd, err := commands.NewRespondToOfferCommand(offerID, *actor.ID(), decision)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.respondToOfferHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		s.logError(ctx, "offer response failed", err)
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetDriverEarnings handles GET /api/v1/drivers/:id/earnings - lists the
// driver's ledger entries page by page.
func (s *Server) GetDriverEarnings(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	page := intQueryParam(ctx, "page", 0)
	pageSize := intQueryParam(ctx, "page_size", 0)
	ordering := ctx.QueryParam("ordering")

	query, err := queries.NewGetDriverEarningsQuery(driverID, page, pageSize, ordering)
	if err != nil {
		return respondError(ctx, err)
	}

	result, err := s.getDriverEarningsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		s.logError(ctx, "driver earnings query failed", err)
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toEarningsPageResponse(result))
}

// GetEarningsSummary handles GET /api/v1/drivers/:id/earnings/summary -
// aggregates the driver's earnings over a time window. Without explicit
// from/to parameters the window is the last 24 hours.
func (s *Server) GetEarningsSummary(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, err)
	}

	windowEnd := time.Now().UTC()
	windowStart := windowEnd.Add(-defaultSummaryWindow)

	if from := ctx.QueryParam("from"); from != "" {
		windowStart, err = time.Parse(time.RFC3339, from)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, errorResponse{
				Code:    http.StatusBadRequest,
				Message: "from must be an RFC 3339 timestamp",
			})
		}
	}
	if to := ctx.QueryParam("to"); to != "" {
		windowEnd, err = time.Parse(time.RFC3339, to)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, errorResponse{
				Code:    http.StatusBadRequest,
				Message: "to must be an RFC 3339 timestamp",
			})
		}
	}

	query, err := queries.NewGetEarningsSummaryQuery(driverID, windowStart, windowEnd)
	if err != nil {
		return respondError(ctx, err)
	}

	summary, err := s.getEarningsSummaryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		s.logError(ctx, "earnings summary query failed", err)
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, earningsSummaryResponse{
		DriverID:    summary.DriverID.String(),
		WindowStart: summary.WindowStart,
		WindowEnd:   summary.WindowEnd,
		EntryCount:  summary.EntryCount,
		TotalCents:  summary.TotalCents,
	})
}

// actorFromHeaders builds the acting party from the identity headers. System
// actors carry no identifier; every other role requires one.
func (s *Server) actorFromHeaders(ctx echo.Context) (kernel.Actor, error) {
	role, err := kernel.RoleFromString(ctx.Request().Header.Get(headerActorRole))
	if err != nil {
		return kernel.Actor{}, err
	}

	if role == kernel.RoleSystem {
		return kernel.NewSystemActor(), nil
	}

	id, err := kernel.UUIDFromString(ctx.Request().Header.Get(headerActorID))
	if err != nil {
		return kernel.Actor{}, err
	}

	return kernel.NewActor(role, id)
}

func (s *Server) logError(ctx echo.Context, message string, err error) {
	if statusForError(err) == http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), message, "error", err)
	}
}

// intQueryParam parses an integer query parameter, falling back to def on
// absence or garbage. Range validation happens in the query constructor.
func intQueryParam(ctx echo.Context, name string, def int) int {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return def
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}
