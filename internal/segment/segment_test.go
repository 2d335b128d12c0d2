package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseParkingType(t *testing.T) {
	pt, err := ParseParkingType(" Paid ")
	assert.NoError(t, err)
	assert.Equal(t, ParkingPaid, pt)
	assert.True(t, pt.Metered())

	pt, err = ParseParkingType("privileged")
	assert.NoError(t, err)
	assert.False(t, pt.Metered())

	_, err = ParseParkingType("valet")
	assert.Error(t, err)
}
