// Package workflow holds the order lifecycle rules and the pure
// aggregation logic behind the review and purchase-list views. Nothing
// in here touches the database; handlers feed it data and persist the
// results.
package workflow

import (
	"errors"
	"fmt"

	"campstock/internal/models"
)

// Action is an explicit order lifecycle operation
type Action string

const (
	ActionSubmit         Action = "submit"
	ActionResubmit       Action = "resubmit"
	ActionApprove        Action = "approve"
	ActionRequestChanges Action = "request_changes"
	ActionReject         Action = "reject"
	ActionMarkOrdered    Action = "mark_ordered"
	ActionUnmarkOrdered  Action = "unmark_ordered"
	ActionWithdraw       Action = "withdraw"
)

var (
	// ErrEmptyOrder is returned when submitting an order with no items
	ErrEmptyOrder = errors.New("cannot submit empty order")
	// ErrInvalidTransition is returned when an action is not allowed
	// from the order's current status
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrReceivingStarted guards unmark-ordered once items have been received
	ErrReceivingStarted = errors.New("receiving has already started")
)

// transitions maps each action to the statuses it may be applied from
// and the status it produces.
var transitions = map[Action]struct {
	from []models.OrderStatus
	to   models.OrderStatus
}{
	ActionSubmit:         {from: []models.OrderStatus{models.OrderStatusDraft}, to: models.OrderStatusSubmitted},
	ActionResubmit:       {from: []models.OrderStatus{models.OrderStatusChangesRequested, models.OrderStatusDraft}, to: models.OrderStatusSubmitted},
	ActionApprove:        {from: []models.OrderStatus{models.OrderStatusSubmitted, models.OrderStatusUnderReview}, to: models.OrderStatusApproved},
	ActionRequestChanges: {from: []models.OrderStatus{models.OrderStatusSubmitted, models.OrderStatusUnderReview}, to: models.OrderStatusChangesRequested},
	ActionReject:         {from: []models.OrderStatus{models.OrderStatusSubmitted, models.OrderStatusUnderReview}, to: models.OrderStatusCancelled},
	ActionMarkOrdered:    {from: []models.OrderStatus{models.OrderStatusApproved}, to: models.OrderStatusOrdered},
	ActionUnmarkOrdered:  {from: []models.OrderStatus{models.OrderStatusOrdered}, to: models.OrderStatusApproved},
	ActionWithdraw: {from: []models.OrderStatus{
		models.OrderStatusDraft, models.OrderStatusSubmitted, models.OrderStatusUnderReview,
		models.OrderStatusChangesRequested, models.OrderStatusApproved,
	}, to: models.OrderStatusCancelled},
}

// CanTransition reports whether the action is allowed from the status
func CanTransition(status models.OrderStatus, action Action) bool {
	rule, ok := transitions[action]
	if !ok {
		return false
	}
	for _, s := range rule.from {
		if s == status {
			return true
		}
	}
	return false
}

// Transition returns the status an order moves to when the action is
// applied, or ErrInvalidTransition when the action is not allowed from
// the current status.
func Transition(status models.OrderStatus, action Action) (models.OrderStatus, error) {
	if !CanTransition(status, action) {
		return status, fmt.Errorf("%w: cannot %s order with status %q", ErrInvalidTransition, action, status)
	}
	return transitions[action].to, nil
}

// Submit validates and applies the submit transition. An order needs at
// least one item before it can go to review.
func Submit(order *models.Order) error {
	if len(order.Items) == 0 {
		return ErrEmptyOrder
	}
	next, err := Transition(models.OrderStatus(order.Status), ActionSubmit)
	if err != nil {
		return err
	}
	order.Status = string(next)
	return nil
}

// Resubmit applies the resubmit transition after changes were requested,
// clearing review state so the order gets a fresh review.
func Resubmit(order *models.Order) error {
	if len(order.Items) == 0 {
		return ErrEmptyOrder
	}
	next, err := Transition(models.OrderStatus(order.Status), ActionResubmit)
	if err != nil {
		return err
	}
	for i := range order.Items {
		order.Items[i].ApprovedQty = nil
		order.Items[i].ReviewerNotes = ""
	}
	order.Status = string(next)
	order.ReviewedBy = nil
	order.ReviewedAt = nil
	order.ReviewNotes = ""
	return nil
}

// Approve applies the review approval, freezing approved quantities to
// the requested value wherever the reviewer left them untouched.
func Approve(order *models.Order) error {
	next, err := Transition(models.OrderStatus(order.Status), ActionApprove)
	if err != nil {
		return err
	}
	for i := range order.Items {
		if order.Items[i].ApprovedQty == nil {
			qty := order.Items[i].RequestedQty
			order.Items[i].ApprovedQty = &qty
		}
	}
	order.Status = string(next)
	return nil
}

// RequestChanges sends the order back to its creator. Notes are required
// so the creator knows what to change.
func RequestChanges(order *models.Order, notes string) error {
	if notes == "" {
		return errors.New("review notes are required when requesting changes")
	}
	next, err := Transition(models.OrderStatus(order.Status), ActionRequestChanges)
	if err != nil {
		return err
	}
	order.Status = string(next)
	order.ReviewNotes = notes
	return nil
}

// UnmarkOrdered reverts an ordered order back to approved. Refused once
// any item has been received.
func UnmarkOrdered(order *models.Order) error {
	for i := range order.Items {
		if order.Items[i].IsReceived || order.Items[i].ReceivedQty != nil {
			return ErrReceivingStarted
		}
	}
	next, err := Transition(models.OrderStatus(order.Status), ActionUnmarkOrdered)
	if err != nil {
		return err
	}
	order.Status = string(next)
	order.OrderedAt = nil
	return nil
}

// CanReceive reports whether the order is in a receivable state
func CanReceive(status models.OrderStatus) bool {
	return status == models.OrderStatusOrdered || status == models.OrderStatusPartiallyReceived
}

// ReceiveStatus returns the status after a finalized receive: received
// when every item is fully received, partially_received otherwise.
func ReceiveStatus(order *models.Order) models.OrderStatus {
	for i := range order.Items {
		if !order.Items[i].IsReceived {
			return models.OrderStatusPartiallyReceived
		}
	}
	return models.OrderStatusReceived
}

// IsTerminal reports whether an order can no longer change status
func IsTerminal(status models.OrderStatus) bool {
	return status == models.OrderStatusReceived || status == models.OrderStatusCancelled
}
