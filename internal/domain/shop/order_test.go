package shop

import (
	"testing"

	"github.com/painless/shop/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    OrderStatus
		wantErr bool
	}{
		{"waiting", OrderStatusWaiting, false},
		{"Delivered", OrderStatusDelivered, false},
		{" cancelled ", OrderStatusCancelled, false},
		{"processing", OrderStatusProcessing, false},
		{"refunded", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOrderStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrderStatus_IsFinal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.IsFinal())
	assert.True(t, OrderStatusCancelled.IsFinal())
	assert.False(t, OrderStatusShipped.IsFinal())
	assert.False(t, OrderStatusWaiting.IsFinal())
}

func TestPackOrder_Total(t *testing.T) {
	line := PackOrder{
		Quantity: 3,
		Cost:     valueobject.NewDefaultMoney(decimal.NewFromInt(250)),
	}
	assert.True(t, line.Total().Amount().Equal(decimal.NewFromInt(750)))
}

func TestPack_Margin(t *testing.T) {
	pack := Pack{
		Price:    valueobject.NewDefaultMoney(decimal.NewFromInt(120)),
		BuyPrice: valueobject.NewDefaultMoney(decimal.NewFromInt(100)),
	}
	margin, err := pack.Margin()
	require.NoError(t, err)
	assert.Equal(t, "20.00 T", margin.String())
}

func TestAddress_ReceiverName(t *testing.T) {
	assert.Equal(t, "Sara Ahmadi", (&Address{ReceiverFirstName: "Sara", ReceiverLastName: "Ahmadi"}).ReceiverName())
	assert.Equal(t, "Sara", (&Address{ReceiverFirstName: "Sara"}).ReceiverName())
	assert.Equal(t, "Ahmadi", (&Address{ReceiverLastName: "Ahmadi"}).ReceiverName())
}
