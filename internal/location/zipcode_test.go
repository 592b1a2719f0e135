package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZipCodeServiceCenters(t *testing.T) {
	s := NewZipCodeService()
	s.Add("11372", "Queens", Point{Lat: 40.750, Lng: -73.880})
	s.Add("11372", "Queens", Point{Lat: 40.760, Lng: -73.890})
	s.Add(" 11372 ", "Brooklyn", Point{})
	s.Add("10014", "Manhattan", Point{Lat: 40.734, Lng: -74.006})
	s.Add("", "Bronx", Point{Lat: 40.85, Lng: -73.88})

	zip, ok := s.Get("11372")
	require.True(t, ok)
	assert.Equal(t, "Queens", zip.Borough)
	assert.Equal(t, 2, zip.Restaurants)
	assert.InDelta(t, 40.755, zip.Center.Lat, 1e-9)
	assert.InDelta(t, -73.885, zip.Center.Lng, 1e-9)

	assert.Equal(t, 2, s.Count())

	all := s.GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, "10014", all[0].Code)
	assert.Equal(t, "11372", all[1].Code)

	queens := s.GetByBorough("queens")
	require.Len(t, queens, 1)
	assert.Equal(t, "11372", queens[0].Code)
}

func TestZipCodeServiceUnlocated(t *testing.T) {
	s := NewZipCodeService()
	s.Add("10001", "Manhattan", Point{})

	_, ok := s.Get("10001")
	assert.False(t, ok)
	assert.Zero(t, s.Count())
	assert.Empty(t, s.GetAll())
}
