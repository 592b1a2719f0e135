package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randytsao24/gradecast/internal/location"
	"github.com/randytsao24/gradecast/internal/models"
)

const sampleCSV = `CAMIS,DBA,BORO,ZIPCODE,CUISINE_DESCRIPTION,CRITICAL_FLAG,SCORE,GRADE,INSPECTION_DATE,Latitude,Longitude
50000001,Arepa Lady,QUEENS,11372,latin american,Critical,12,A,2024-03-01,40.7478,-73.8845
50000001,Arepa Lady,QUEENS,11372,latin american,Not Critical,30,C,2022-05-10,40.7478,-73.8845
50000002,Joe's Pizza, manhattan ,10014,Pizza,Not Critical,9,A,2023-11-20,40.7306,-74.0021
50000003,,Brooklyn, ,Chinese,,,,2024-01-15,,
50000004,"Corner Deli, Inc",BRONX,10451,American,Critical,21,B,01/05/2024,40.8200,-73.9250
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cleaned_restaurant_inspections.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSV(t *testing.T) {
	records, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 5)

	first := records[0]
	assert.Equal(t, "50000001", first.CAMIS)
	assert.Equal(t, "Queens", first.Borough)
	assert.Equal(t, "Latin American", first.CuisineDescription)
	assert.Equal(t, models.Ptr("11372"), first.Zipcode)
	assert.Equal(t, 1, first.CriticalFlagBin)
	assert.Equal(t, models.Ptr(12.0), first.Score)
	assert.Equal(t, models.Ptr("A"), first.Grade)
	assert.Equal(t, models.Ptr(40.7478), first.Latitude)

	assert.Equal(t, 0, records[1].CriticalFlagBin)
	assert.Equal(t, "Manhattan", records[2].Borough)

	blank := records[3]
	assert.Nil(t, blank.DBA)
	assert.Nil(t, blank.Zipcode)
	assert.Nil(t, blank.Score)
	assert.Nil(t, blank.Grade)
	assert.Nil(t, blank.Latitude)
	assert.False(t, blank.HasCoordinates())

	assert.Equal(t, models.Ptr("Corner Deli, Inc"), records[4].DBA)
}

func TestReadCSVUsesFlagColumnWhenPresent(t *testing.T) {
	records, err := ReadCSV(strings.NewReader("camis,borough,critical_flag,critical_flag_bin\n1,Queens,Critical,0\n2,Bronx,,1.0\n"))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 0, records[0].CriticalFlagBin)
	assert.Equal(t, 1, records[1].CriticalFlagBin)
}

func TestReadCSVShortRows(t *testing.T) {
	records, err := ReadCSV(strings.NewReader("camis,borough,score\n1,Queens\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Queens", records[0].Borough)
	assert.Nil(t, records[0].Score)
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestLatestKeepsNewestInspection(t *testing.T) {
	records, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	latest := Latest(records)
	require.Len(t, latest, 4)

	var ids []string
	for _, r := range latest {
		ids = append(ids, r.CAMIS)
	}
	want := []string{"50000001", "50000003", "50000004", "50000002"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("Latest order mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, models.Ptr("A"), latest[0].Grade)
}

func TestLatestUndatedRowsSortLast(t *testing.T) {
	latest := Latest([]models.Restaurant{
		{CAMIS: "1", InspectionDate: "not a date", Grade: models.Ptr("C")},
		{CAMIS: "1", InspectionDate: "2020-01-01", Grade: models.Ptr("A")},
		{CAMIS: "", InspectionDate: ""},
		{CAMIS: "", InspectionDate: ""},
	})
	require.Len(t, latest, 3)
	assert.Equal(t, models.Ptr("A"), latest[0].Grade)
}

func testService(t *testing.T) *Service {
	t.Helper()
	svc, err := Load(context.Background(), writeCSV(t, sampleCSV))
	require.NoError(t, err)
	return svc
}

func TestServiceGet(t *testing.T) {
	svc := testService(t)
	assert.Equal(t, 4, svc.Count())

	r, err := svc.Get("50000002")
	require.NoError(t, err)
	assert.Equal(t, models.Ptr("Joe's Pizza"), r.DBA)

	_, err = svc.Get("99999999")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestServiceQueryFilters(t *testing.T) {
	svc := testService(t)

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"all", Query{}, []string{"50000001", "50000003", "50000004", "50000002"}},
		{"borough ignores case", Query{Borough: "queens"}, []string{"50000001"}},
		{"cuisine", Query{Cuisine: "PIZZA"}, []string{"50000002"}},
		{"zipcode", Query{Zipcode: "10451"}, []string{"50000004"}},
		{"grade", Query{Grade: "a"}, []string{"50000001", "50000002"}},
		{"limit", Query{Limit: 2}, []string{"50000001", "50000003"}},
		{"no match", Query{Borough: "Staten Island"}, []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			matches, err := svc.Query(tc.query)
			require.NoError(t, err)
			ids := make([]string, 0, len(matches))
			for _, m := range matches {
				ids = append(ids, m.CAMIS)
			}
			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestServiceQueryNear(t *testing.T) {
	svc := testService(t)

	matches, err := svc.Query(Query{
		Near:         &location.Point{Lat: 40.7300, Lng: -74.0000},
		RadiusMeters: 2000,
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "50000002", matches[0].CAMIS)
	require.NotNil(t, matches[0].DistanceMeters)
	assert.Less(t, *matches[0].DistanceMeters, 2000.0)

	matches, err = svc.Query(Query{Near: &location.Point{Lat: 40.75, Lng: -73.95}, RadiusMeters: 20000})
	require.NoError(t, err)
	require.Len(t, matches, 3)
	for i := 1; i < len(matches); i++ {
		assert.LessOrEqual(t, *matches[i-1].DistanceMeters, *matches[i].DistanceMeters)
	}
}

func TestServiceQueryNearZip(t *testing.T) {
	svc := testService(t)

	matches, err := svc.Query(Query{NearZip: "11372", RadiusMeters: 500})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "50000001", matches[0].CAMIS)

	_, err = svc.Query(Query{NearZip: "00000"})
	assert.ErrorIs(t, err, ErrUnknownZip)

	_, err = svc.Query(Query{Near: &location.Point{Lat: 200, Lng: 0}})
	assert.ErrorIs(t, err, ErrInvalidNear)
}

func TestServiceListings(t *testing.T) {
	svc := testService(t)

	assert.Equal(t, []string{"Bronx", "Brooklyn", "Manhattan", "Queens"}, svc.Boroughs())
	assert.Equal(t, []string{"American", "Chinese", "Latin American", "Pizza"}, svc.Cuisines())

	zips := svc.ZipCodes("")
	require.Len(t, zips, 3)
	assert.Equal(t, "10014", zips[0].Code)

	queens := svc.ZipCodes("QUEENS")
	require.Len(t, queens, 1)
	assert.Equal(t, "11372", queens[0].Code)
}

func TestQueryKey(t *testing.T) {
	a := Query{Borough: "queens", Grade: "a"}
	b := Query{Borough: " Queens ", Grade: "A"}
	assert.Equal(t, a.Key(), b.Key())

	c := Query{Borough: "Queens", Grade: "A", Limit: 5}
	assert.NotEqual(t, a.Key(), c.Key())

	near := Query{Near: &location.Point{Lat: 40.7, Lng: -73.9}}
	wider := Query{Near: &location.Point{Lat: 40.7, Lng: -73.9}, RadiusMeters: 5000}
	assert.NotEqual(t, near.Key(), wider.Key())
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	records, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "restaurants.db")
	store, err := OpenSQLite(path)
	require.NoError(t, err)

	n, err := store.Import(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	// A second import replaces the first.
	n, err = store.Import(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	require.NoError(t, store.Close())

	loaded, err := LoadSQLite(ctx, path)
	require.NoError(t, err)
	if diff := cmp.Diff(records, loaded); diff != "" {
		t.Errorf("SQLite round trip mismatch (-want +got):\n%s", diff)
	}

	svc, err := Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 4, svc.Count())
}

func TestLoadMissingFiles(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(context.Background(), filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(context.Background(), filepath.Join(dir, "missing.db"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
