package budget

import (
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/toolrun"
	"github.com/spetersoncode/toolrun/model"
)

var testModel = model.Custom("test", ai.ProviderOpenAI, model.ChatPricing{
	InputPerMillion:  2.5,
	OutputPerMillion: 10,
})

func TestTracker_CapExceeded(t *testing.T) {
	tr := New(10.0)

	err := tr.ChargeInput(testModel, 5_000_000)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBudgetExceeded))
	var exceeded *ExceededError
	require.True(t, errors.As(err, &exceeded))
	assert.True(t, exceeded.Spent.Equal(decimal.RequireFromString("12.5")))
	assert.True(t, tr.Spent().Equal(decimal.RequireFromString("12.5")), "spend is not rolled back")
	assert.False(t, tr.InCap())
	assert.Equal(t, "Billing(12.5/10)", tr.String())
}

func TestTracker_ChargesAreAdditive(t *testing.T) {
	tests := []struct {
		name string
		a, b int64
	}{
		{name: "small", a: 1, b: 2},
		{name: "uneven", a: 123_457, b: 876_543},
		{name: "large", a: 2_000_000, b: 1_999_999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			split := New(1000)
			require.NoError(t, split.ChargeInput(testModel, tt.a))
			require.NoError(t, split.ChargeInput(testModel, tt.b))

			once := New(1000)
			require.NoError(t, once.ChargeInput(testModel, tt.a+tt.b))

			assert.True(t, split.Spent().Equal(once.Spent()), "%s != %s", split.Spent(), once.Spent())
		})
	}
}

func TestTracker_InputAndOutputAreIndependent(t *testing.T) {
	tr := New(10.0)

	require.NoError(t, tr.ChargeInput(testModel, 1_000_000))
	require.NoError(t, tr.ChargeOutput(testModel, 500_000))

	// 2.5 + 5.0
	assert.True(t, tr.Spent().Equal(decimal.RequireFromString("7.5")))
	assert.True(t, tr.Remaining().Equal(decimal.RequireFromString("2.5")))
}

func TestTracker_ExactlyAtCapIsAllowed(t *testing.T) {
	tr := New(10.0)

	require.NoError(t, tr.ChargeInput(testModel, 4_000_000))
	assert.True(t, tr.InCap())

	err := tr.ChargeInput(testModel, 1)
	assert.ErrorIs(t, err, ErrBudgetExceeded)
}

func TestTracker_CachedInput(t *testing.T) {
	tr := New(10.0)

	require.NoError(t, tr.ChargeCachedInput(model.GPT4o, 1_000_000))
	require.NoError(t, tr.ChargeCachedInput(model.GPT4, 100_000))

	// 1.25 + 3.0 (no cached tier, falls back to input)
	assert.True(t, tr.Spent().Equal(decimal.RequireFromString("4.25")))
}

func TestTracker_Concurrent(t *testing.T) {
	tr := New(1_000_000)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tr.ChargeInput(testModel, 1_000)
			_ = tr.ChargeOutput(testModel, 1_000)
		}()
	}
	wg.Wait()

	// 100 * (0.0025 + 0.01)
	assert.True(t, tr.Spent().Equal(decimal.RequireFromString("1.25")), tr.Spent().String())
}
