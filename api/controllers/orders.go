package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shopcart-app/shopcart-backend/api/middleware"
	"github.com/shopcart-app/shopcart-backend/api/responses"
	"github.com/shopcart-app/shopcart-backend/api/validators"
	"github.com/shopcart-app/shopcart-backend/internal/orders"
	"github.com/shopcart-app/shopcart-backend/pkg/enums"
	pkgerrors "github.com/shopcart-app/shopcart-backend/pkg/errors"
	"github.com/shopcart-app/shopcart-backend/pkg/logger"
	"github.com/shopcart-app/shopcart-backend/pkg/pagination"
)

type createOrderRequest struct {
	ProductID       string `json:"productId" validate:"required,uuid"`
	Quantity        int    `json:"quantity" validate:"required,min=1"`
	ShippingAddress string `json:"shippingAddress" validate:"required"`
}

type settleOrderRequest struct {
	ConfirmationRef string `json:"confirmationRef" validate:"required"`
	Signature       string `json:"signature" validate:"required"`
}

type shipOrderRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreateOrder opens a payment intent and records the pending order.
func CreateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		buyerID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := uuid.Parse(req.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		result, err := svc.Create(r.Context(), orders.CreateOrderInput{
			BuyerID:         buyerID,
			ProductID:       productID,
			Quantity:        req.Quantity,
			ShippingAddress: req.ShippingAddress,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// SettleOrder verifies the gateway callback and finalizes payment.
func SettleOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actorID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req settleOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Settle(r.Context(), orders.SettleInput{
			OrderID:         orderID,
			ConfirmationRef: req.ConfirmationRef,
			Signature:       req.Signature,
			ActorID:         actorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ShipOrder advances the shipment one step along the fulfillment chain.
func ShipOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actorID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req shipOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		target, err := enums.ParseShipmentStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipment status"))
			return
		}

		err = svc.AdvanceShipment(r.Context(), orders.AdvanceShipmentInput{
			OrderID:   orderID,
			Target:    target,
			ActorID:   actorID,
			ActorRole: callerRole(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": string(target)})
	}
}

// CancelOrder cancels an order on behalf of the caller.
func CancelOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actorID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err = svc.CancelOrder(r.Context(), orders.CancelOrderInput{
			OrderID:   orderID,
			ActorID:   actorID,
			ActorRole: callerRole(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": string(enums.ShipmentStatusCancelled)})
	}
}

// GetOrder returns a single order to its buyer, seller or an admin.
func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actorID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), orderID, actorID, callerRole(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// ListBuyerOrders returns the caller's purchase history.
func ListBuyerOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listOrders(svc, logg, w, r, svc == nil, func(actorID uuid.UUID, params pagination.Params, filters orders.OrderFilters) (*orders.OrderList, error) {
			return svc.ListBuyerOrders(r.Context(), actorID, params, filters)
		})
	}
}

// ListSellerOrders returns orders placed against the caller's listings.
func ListSellerOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listOrders(svc, logg, w, r, svc == nil, func(actorID uuid.UUID, params pagination.Params, filters orders.OrderFilters) (*orders.OrderList, error) {
			return svc.ListSellerOrders(r.Context(), actorID, params, filters)
		})
	}
}

func listOrders(
	svc orders.Service,
	logg *logger.Logger,
	w http.ResponseWriter,
	r *http.Request,
	unavailable bool,
	list func(uuid.UUID, pagination.Params, orders.OrderFilters) (*orders.OrderList, error),
) {
	if unavailable {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
		return
	}

	actorID, err := callerID(r)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	params, err := listParams(r)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	filters, err := orderFilters(r)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	result, err := list(actorID, params, filters)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, result)
}

func listParams(r *http.Request) (pagination.Params, error) {
	params := pagination.Params{Cursor: strings.TrimSpace(r.URL.Query().Get("cursor"))}
	limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
	if err != nil {
		return params, err
	}
	params.Limit = limit
	return params, nil
}

func orderFilters(r *http.Request) (orders.OrderFilters, error) {
	var filters orders.OrderFilters
	if raw := strings.TrimSpace(r.URL.Query().Get("paymentStatus")); raw != "" {
		status, err := enums.ParsePaymentStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status filter")
		}
		filters.PaymentStatus = &status
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("shipmentStatus")); raw != "" {
		status, err := enums.ParseShipmentStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipment status filter")
		}
		filters.ShipmentStatus = &status
	}
	return filters, nil
}

func orderIDParam(r *http.Request) (uuid.UUID, error) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
	}
	return orderID, nil
}

func callerRole(r *http.Request) enums.MemberRole {
	return enums.MemberRole(middleware.RoleFromContext(r.Context()))
}
