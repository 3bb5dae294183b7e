package workflow

import (
	"testing"

	"campstock/internal/models"

	"github.com/stretchr/testify/assert"
)

func orderWithItems(status models.OrderStatus, itemCount int) *models.Order {
	order := &models.Order{Status: string(status)}
	for i := 0; i < itemCount; i++ {
		order.Items = append(order.Items, models.OrderItem{
			ID:           uint(i + 1),
			RequestedQty: float64(i + 1),
		})
	}
	return order
}

func TestSubmitRequiresItems(t *testing.T) {
	order := orderWithItems(models.OrderStatusDraft, 0)
	err := Submit(order)
	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.Equal(t, string(models.OrderStatusDraft), order.Status)
}

func TestSubmitFromDraft(t *testing.T) {
	order := orderWithItems(models.OrderStatusDraft, 2)
	assert.NoError(t, Submit(order))
	assert.Equal(t, string(models.OrderStatusSubmitted), order.Status)
}

func TestSubmitFromWrongStatus(t *testing.T) {
	for _, status := range []models.OrderStatus{
		models.OrderStatusSubmitted,
		models.OrderStatusApproved,
		models.OrderStatusOrdered,
		models.OrderStatusReceived,
		models.OrderStatusCancelled,
	} {
		order := orderWithItems(status, 1)
		err := Submit(order)
		assert.ErrorIs(t, err, ErrInvalidTransition, "submit from %s should fail", status)
	}
}

func TestApproveFreezesQuantities(t *testing.T) {
	order := orderWithItems(models.OrderStatusUnderReview, 3)
	reduced := 1.5
	order.Items[1].ApprovedQty = &reduced

	assert.NoError(t, Approve(order))
	assert.Equal(t, string(models.OrderStatusApproved), order.Status)

	// Untouched items freeze at their requested quantity
	assert.NotNil(t, order.Items[0].ApprovedQty)
	assert.Equal(t, 1.0, *order.Items[0].ApprovedQty)
	assert.Equal(t, 1.5, *order.Items[1].ApprovedQty)
	assert.Equal(t, 3.0, *order.Items[2].ApprovedQty)
}

func TestRequestChangesRequiresNotes(t *testing.T) {
	order := orderWithItems(models.OrderStatusSubmitted, 1)
	assert.Error(t, RequestChanges(order, ""))
	assert.Equal(t, string(models.OrderStatusSubmitted), order.Status)

	assert.NoError(t, RequestChanges(order, "halve the flour"))
	assert.Equal(t, string(models.OrderStatusChangesRequested), order.Status)
	assert.Equal(t, "halve the flour", order.ReviewNotes)
}

func TestResubmitClearsReviewState(t *testing.T) {
	order := orderWithItems(models.OrderStatusChangesRequested, 2)
	approved := 5.0
	reviewer := uint(9)
	order.Items[0].ApprovedQty = &approved
	order.Items[0].ReviewerNotes = "too much"
	order.ReviewedBy = &reviewer
	order.ReviewNotes = "changes please"

	assert.NoError(t, Resubmit(order))
	assert.Equal(t, string(models.OrderStatusSubmitted), order.Status)
	assert.Nil(t, order.Items[0].ApprovedQty)
	assert.Empty(t, order.Items[0].ReviewerNotes)
	assert.Nil(t, order.ReviewedBy)
	assert.Empty(t, order.ReviewNotes)
}

func TestUnmarkOrderedRefusedAfterReceiving(t *testing.T) {
	order := orderWithItems(models.OrderStatusOrdered, 2)
	received := 1.0
	order.Items[0].ReceivedQty = &received

	err := UnmarkOrdered(order)
	assert.ErrorIs(t, err, ErrReceivingStarted)
	assert.Equal(t, string(models.OrderStatusOrdered), order.Status)
}

func TestUnmarkOrderedRevertsToApproved(t *testing.T) {
	order := orderWithItems(models.OrderStatusOrdered, 1)
	assert.NoError(t, UnmarkOrdered(order))
	assert.Equal(t, string(models.OrderStatusApproved), order.Status)
}

func TestReceiveStatus(t *testing.T) {
	order := orderWithItems(models.OrderStatusOrdered, 2)
	assert.Equal(t, models.OrderStatusPartiallyReceived, ReceiveStatus(order))

	order.Items[0].IsReceived = true
	assert.Equal(t, models.OrderStatusPartiallyReceived, ReceiveStatus(order))

	order.Items[1].IsReceived = true
	assert.Equal(t, models.OrderStatusReceived, ReceiveStatus(order))
}

func TestWithdrawAllowedStatuses(t *testing.T) {
	allowed := []models.OrderStatus{
		models.OrderStatusDraft,
		models.OrderStatusSubmitted,
		models.OrderStatusUnderReview,
		models.OrderStatusChangesRequested,
		models.OrderStatusApproved,
	}
	for _, status := range allowed {
		assert.True(t, CanTransition(status, ActionWithdraw), "withdraw from %s", status)
	}

	blocked := []models.OrderStatus{
		models.OrderStatusOrdered,
		models.OrderStatusPartiallyReceived,
		models.OrderStatusReceived,
		models.OrderStatusCancelled,
	}
	for _, status := range blocked {
		assert.False(t, CanTransition(status, ActionWithdraw), "withdraw from %s", status)
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, IsTerminal(models.OrderStatusReceived))
	assert.True(t, IsTerminal(models.OrderStatusCancelled))
	assert.False(t, IsTerminal(models.OrderStatusPartiallyReceived))
	assert.False(t, IsTerminal(models.OrderStatusDraft))
}
