package enums

import "fmt"

// ShipmentStatus tracks fulfillment progress for an order. Forward motion
// only; cancelled is reachable from every non-terminal state.
type ShipmentStatus string

const (
	ShipmentStatusOrdered        ShipmentStatus = "ordered"
	ShipmentStatusShipped        ShipmentStatus = "shipped"
	ShipmentStatusInTransit      ShipmentStatus = "in_transit"
	ShipmentStatusOutForDelivery ShipmentStatus = "out_for_delivery"
	ShipmentStatusDelivered      ShipmentStatus = "delivered"
	ShipmentStatusCancelled      ShipmentStatus = "cancelled"
)

var validShipmentStatuses = []ShipmentStatus{
	ShipmentStatusOrdered,
	ShipmentStatusShipped,
	ShipmentStatusInTransit,
	ShipmentStatusOutForDelivery,
	ShipmentStatusDelivered,
	ShipmentStatusCancelled,
}

// shipmentTransitions is the adjacency table of legal seller-driven moves.
var shipmentTransitions = map[ShipmentStatus][]ShipmentStatus{
	ShipmentStatusOrdered:        {ShipmentStatusShipped, ShipmentStatusCancelled},
	ShipmentStatusShipped:        {ShipmentStatusInTransit, ShipmentStatusCancelled},
	ShipmentStatusInTransit:      {ShipmentStatusOutForDelivery, ShipmentStatusCancelled},
	ShipmentStatusOutForDelivery: {ShipmentStatusDelivered, ShipmentStatusCancelled},
	ShipmentStatusDelivered:      {},
	ShipmentStatusCancelled:      {},
}

// String implements fmt.Stringer.
func (s ShipmentStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShipmentStatus.
func (s ShipmentStatus) IsValid() bool {
	for _, candidate := range validShipmentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted.
func (s ShipmentStatus) IsTerminal() bool {
	return s == ShipmentStatusDelivered || s == ShipmentStatusCancelled
}

// CanTransitionTo reports whether target is reachable from s in one step.
func (s ShipmentStatus) CanTransitionTo(target ShipmentStatus) bool {
	for _, candidate := range shipmentTransitions[s] {
		if candidate == target {
			return true
		}
	}
	return false
}

// ParseShipmentStatus converts raw input into a ShipmentStatus.
func ParseShipmentStatus(value string) (ShipmentStatus, error) {
	for _, candidate := range validShipmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipment status %q", value)
}
