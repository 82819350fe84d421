package geocoder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "helpy/pkg/domain-errors"
)

func TestGeocodeOK(t *testing.T) {
	var gotPath, gotAddress, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAddress = r.URL.Query().Get("address")
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [
				{"formatted_address": "Lyon, France", "geometry": {"location": {"lat": 45.764, "lng": 4.8357}}},
				{"formatted_address": "Lyon, FR", "geometry": {"location": {"lat": 45.7, "lng": 4.8}}}
			]
		}`))
	}))
	defer server.Close()

	client := New(server.URL, "test-key")
	candidates, err := client.Geocode(context.Background(), "Lyon, France")

	require.NoError(t, err)
	assert.Equal(t, "/maps/api/geocode/json", gotPath)
	assert.Equal(t, "Lyon, France", gotAddress)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, candidates, 2)
	assert.InDelta(t, 45.764, candidates[0].Latitude, 0.001)
	assert.InDelta(t, 4.8357, candidates[0].Longitude, 0.001)
	assert.Equal(t, "Lyon, France", candidates[0].FormattedAddress)
}

func TestGeocodeZeroResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	}))
	defer server.Close()

	client := New(server.URL, "test-key")
	candidates, err := client.Geocode(context.Background(), "nowhere at all")

	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestGeocodeProviderRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "REQUEST_DENIED", "results": []}`))
	}))
	defer server.Close()

	client := New(server.URL, "bad-key")
	_, err := client.Geocode(context.Background(), "Lyon, France")

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeGeocodeUnavailable))
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
}

func TestGeocodeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL, "test-key")
	_, err := client.Geocode(context.Background(), "Lyon, France")

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeGeocodeUnavailable))
}

func TestGeocodeMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status": "OK", "results": [`))
	}))
	defer server.Close()

	client := New(server.URL, "test-key")
	_, err := client.Geocode(context.Background(), "Lyon, France")

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeGeocodeUnavailable))
}

func TestGeocodeTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"status": "OK", "results": []}`))
	}))
	defer server.Close()

	client := New(server.URL, "test-key", WithTimeout(20*time.Millisecond))
	_, err := client.Geocode(context.Background(), "Lyon, France")

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
}

func TestGeocodeUnreachableHost(t *testing.T) {
	client := New("http://127.0.0.1:1", "test-key", WithTimeout(500*time.Millisecond))
	_, err := client.Geocode(context.Background(), "Lyon, France")

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeGeocodeUnavailable))
}
