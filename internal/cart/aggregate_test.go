package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sewnstudio/atelier-backend/pkg/db/models"
	"github.com/sewnstudio/atelier-backend/pkg/enums"
)

func itemFixture(price string) *models.Item {
	return &models.Item{
		ID:        uuid.New(),
		Name:      "Tailored Blazer",
		BasePrice: decimal.RequireFromString(price),
		Images:    []string{"blazer-front.jpg"},
	}
}

func TestBuildLineComputesMaterialFee(t *testing.T) {
	item := itemFixture("699")

	line := BuildLine(LineSpec{
		Item:              item,
		MeasurementRef:    "default",
		MeasurementName:   "Default",
		MaterialProvision: enums.MaterialProvisionShop,
		Quantity:          1,
	})

	assert.True(t, line.MaterialFee.Equal(decimal.RequireFromString("140")), "fee %s", line.MaterialFee)
	assert.True(t, lineTotal(&line).Equal(decimal.RequireFromString("839")), "total %s", lineTotal(&line))
	require.NotNil(t, line.ImageRef)
	assert.Equal(t, "blazer-front.jpg", *line.ImageRef)
}

func TestBuildLineCustomerMaterialHasNoFee(t *testing.T) {
	line := BuildLine(LineSpec{
		Item:              itemFixture("450"),
		MeasurementRef:    "default",
		MeasurementName:   "Default",
		MaterialProvision: enums.MaterialProvisionCustomer,
		Quantity:          2,
	})

	assert.True(t, line.MaterialFee.IsZero())
	assert.True(t, lineTotal(&line).Equal(decimal.RequireFromString("900")))
}

func TestBuildLineCoercesQuantity(t *testing.T) {
	line := BuildLine(LineSpec{
		Item:              itemFixture("100"),
		MeasurementRef:    "default",
		MaterialProvision: enums.MaterialProvisionShop,
		Quantity:          -3,
	})
	assert.Equal(t, 1, line.Quantity)
}

func TestAddMergesOnIdentityKey(t *testing.T) {
	item := itemFixture("699")
	agg := NewAggregate(nil)

	linen := "linen"
	first := BuildLine(LineSpec{
		Item:              item,
		MeasurementRef:    "default",
		MeasurementName:   "Default",
		FabricType:        &linen,
		MaterialProvision: enums.MaterialProvisionShop,
		Quantity:          1,
	})
	agg.Add(first)

	wool := "wool"
	second := BuildLine(LineSpec{
		Item:              item,
		MeasurementRef:    "default",
		MeasurementName:   "Default",
		FabricType:        &wool,
		MaterialProvision: enums.MaterialProvisionCustomer,
		Quantity:          2,
	})
	agg.Add(second)

	require.Equal(t, 1, agg.Len())
	lines := agg.Lines()
	assert.Equal(t, 3, lines[0].Quantity)
	// First add wins fabric and material fields.
	require.NotNil(t, lines[0].FabricType)
	assert.Equal(t, "linen", *lines[0].FabricType)
	assert.Equal(t, enums.MaterialProvisionShop, lines[0].MaterialProvision)

	assert.True(t, agg.Total().Equal(decimal.RequireFromString("2517")), "total %s", agg.Total())
	assert.Equal(t, 3, agg.Count())
}

func TestAddAppendsWhenMeasurementDiffers(t *testing.T) {
	item := itemFixture("699")
	agg := NewAggregate(nil)

	profileA := uuid.NewString()
	agg.Add(BuildLine(LineSpec{
		Item: item, MeasurementRef: profileA, MaterialProvision: enums.MaterialProvisionShop, Quantity: 1,
	}))
	agg.Add(BuildLine(LineSpec{
		Item: item, MeasurementRef: "default", MaterialProvision: enums.MaterialProvisionShop, Quantity: 1,
	}))

	require.Equal(t, 2, agg.Len())
	lines := agg.Lines()
	assert.Equal(t, 0, lines[0].Position)
	assert.Equal(t, 1, lines[1].Position)
}

func TestRemoveOutOfRangeIsNoOp(t *testing.T) {
	agg := NewAggregate(nil)
	agg.Add(BuildLine(LineSpec{
		Item: itemFixture("100"), MeasurementRef: "default", MaterialProvision: enums.MaterialProvisionShop, Quantity: 1,
	}))

	before := agg.Total()
	agg.Remove(-1)
	agg.Remove(5)
	require.Equal(t, 1, agg.Len())
	assert.True(t, agg.Total().Equal(before))

	agg.Remove(0)
	assert.Equal(t, 0, agg.Len())
	assert.True(t, agg.Total().IsZero())
}

func TestSetQuantityClampsAndKeepsZeroLines(t *testing.T) {
	agg := NewAggregate(nil)
	agg.Add(BuildLine(LineSpec{
		Item: itemFixture("100"), MeasurementRef: "default", MaterialProvision: enums.MaterialProvisionShop, Quantity: 2,
	}))

	agg.SetQuantity(0, -4)
	require.Equal(t, 1, agg.Len())
	assert.Equal(t, 0, agg.Lines()[0].Quantity)
	assert.True(t, agg.Total().IsZero())
	assert.True(t, agg.IsEmpty())

	agg.SetQuantity(0, 5)
	assert.Equal(t, 5, agg.Count())

	// Out-of-range index changes nothing.
	agg.SetQuantity(9, 1)
	assert.Equal(t, 5, agg.Count())
}

func TestClearIsUnconditional(t *testing.T) {
	agg := NewAggregate(nil)
	for i := 0; i < 3; i++ {
		agg.Add(BuildLine(LineSpec{
			Item: itemFixture("100"), MeasurementRef: uuid.NewString(), MaterialProvision: enums.MaterialProvisionShop, Quantity: 1,
		}))
	}
	require.Equal(t, 3, agg.Len())

	agg.Clear()
	assert.Equal(t, 0, agg.Len())
	assert.True(t, agg.Total().IsZero())
	assert.Equal(t, 0, agg.Count())
}

func TestTotalsRecomputedAfterEveryMutation(t *testing.T) {
	item := itemFixture("450")
	agg := NewAggregate(nil)

	agg.Add(BuildLine(LineSpec{
		Item: item, MeasurementRef: "default", MaterialProvision: enums.MaterialProvisionCustomer, Quantity: 2,
	}))
	assert.True(t, agg.Total().Equal(decimal.RequireFromString("900")))

	agg.SetQuantity(0, 1)
	assert.True(t, agg.Total().Equal(decimal.RequireFromString("450")))

	agg.Remove(0)
	assert.True(t, agg.Total().IsZero())
}
