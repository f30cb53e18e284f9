package domain

import "errors"

type OrderStatus string

// remember to add new statuses to the validOrderStatuses map
const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusInProcess OrderStatus = "in_process"
	OrderStatusFinalized OrderStatus = "finalized"
	OrderStatusRejected  OrderStatus = "rejected"
)

var validOrderStatuses = map[OrderStatus]struct{}{
	OrderStatusPending:   {},
	OrderStatusInProcess: {},
	OrderStatusFinalized: {},
	OrderStatusRejected:  {},
}

// orderTransitions is the explicit legality table. A rejected order may be
// re-rejected, which only overwrites the reason.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusInProcess, OrderStatusRejected},
	OrderStatusInProcess: {OrderStatusFinalized, OrderStatusRejected},
	OrderStatusRejected:  {OrderStatusRejected},
	OrderStatusFinalized: {},
}

func ToOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := validOrderStatuses[status]; ok {
		return status, nil
	}

	return "", errors.New("invalid order status")
}

func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

func OrderStatuses() []OrderStatus {
	result := make([]OrderStatus, 0, len(validOrderStatuses))
	for status := range validOrderStatuses {
		result = append(result, status)
	}
	return result
}
