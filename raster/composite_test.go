package raster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testTransform = [6]float64{-11119505.2, 926.6, 0, 5559752.6, 0, -926.6}

const testProjection = `PROJCS["unnamed",GEOGCS["Unknown datum based upon the custom spheroid"]]`

func layerOf(width, height int, values ...float64) *Layer {
	return &Layer{
		Grid:       gridOf(width, height, values...),
		Transform:  testTransform,
		Projection: testProjection,
	}
}

func maskOf(width, height int, values ...bool) *Mask {
	mask := NewMask(width, height)
	copy(mask.Data, values)
	return mask
}

func TestAccumulator_AllInvalidPixelBecomesZero(t *testing.T) {
	acc := NewAccumulator()
	assert.Nil(t, acc.Add(layerOf(1, 1, 0), maskOf(1, 1, false)))
	assert.Nil(t, acc.Add(layerOf(1, 1, 0), maskOf(1, 1, false)))

	composite, err := acc.Composite()
	assert.Nil(t, err)
	assert.Equal(t, 0.0, composite.Grid.Data[0])
}

func TestAccumulator_SingleValidObservation(t *testing.T) {
	acc := NewAccumulator()
	assert.Nil(t, acc.Add(layerOf(1, 1, 14237), maskOf(1, 1, true)))
	assert.Nil(t, acc.Add(layerOf(1, 1, 0), maskOf(1, 1, false)))

	composite, err := acc.Composite()
	assert.Nil(t, err)
	assert.Equal(t, 14237.0, composite.Grid.Data[0])
}

func TestAccumulator_MeanOfTwoObservations(t *testing.T) {
	acc := NewAccumulator()
	assert.Nil(t, acc.Add(layerOf(1, 1, 14000), maskOf(1, 1, true)))
	assert.Nil(t, acc.Add(layerOf(1, 1, 14101), maskOf(1, 1, true)))

	composite, err := acc.Composite()
	assert.Nil(t, err)
	// (14000+14101)/2 = 14050.5, truncated by the uint16 downcast
	assert.Equal(t, 14050.0, composite.Grid.Data[0])
}

func TestAccumulator_NoDoubleCounting(t *testing.T) {
	acc := NewAccumulator()
	for i := 0; i < 4; i++ {
		assert.Nil(t, acc.Add(layerOf(1, 1, 100), maskOf(1, 1, true)))
	}
	assert.Equal(t, 4, acc.Granules())

	composite, err := acc.Composite()
	assert.Nil(t, err)
	assert.Equal(t, 100.0, composite.Grid.Data[0])
}

func TestAccumulator_InheritsGeoreferencing(t *testing.T) {
	acc := NewAccumulator()
	assert.Nil(t, acc.Add(layerOf(2, 1, 1, 2), maskOf(2, 1, true, true)))

	composite, err := acc.Composite()
	assert.Nil(t, err)
	assert.Equal(t, testTransform, composite.Transform)
	assert.Equal(t, testProjection, composite.Projection)
}

func TestAccumulator_EmptyErrors(t *testing.T) {
	_, err := NewAccumulator().Composite()
	assert.Equal(t, ErrNoGranules, err)
}

func TestAccumulator_ShapeMismatch(t *testing.T) {
	acc := NewAccumulator()
	assert.Nil(t, acc.Add(layerOf(2, 1, 1, 2), maskOf(2, 1, true, true)))
	err := acc.Add(layerOf(1, 1, 3), maskOf(1, 1, true))
	assert.NotNil(t, err)
}

func TestDowncastUint16(t *testing.T) {
	assert.Equal(t, 0.0, downcastUint16(-12))
	assert.Equal(t, 0.0, downcastUint16(math.NaN()))
	assert.Equal(t, 14050.0, downcastUint16(14050.9))
	assert.Equal(t, float64(math.MaxUint16), downcastUint16(1e9))
}
