// Mock geocoding API for local development and e2e tests. It answers the
// Google-style geocode endpoint with a small table of known French addresses;
// anything else returns ZERO_RESULTS. Addresses containing "fail" return a
// provider rejection so clients can exercise their silent-failure path.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort      = "8083"
	defaultLatencyMs = "80"
)

var latencyMs = getEnvInt("LATENCY_MS", defaultLatencyMs)

type location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type result struct {
	FormattedAddress string `json:"formatted_address"`
	Geometry         struct {
		Location location `json:"location"`
	} `json:"geometry"`
}

type response struct {
	Status  string   `json:"status"`
	Results []result `json:"results"`
}

var knownAddresses = map[string]location{
	"paris":     {Lat: 48.8566, Lng: 2.3522},
	"lyon":      {Lat: 45.7640, Lng: 4.8357},
	"marseille": {Lat: 43.2965, Lng: 5.3698},
	"bordeaux":  {Lat: 44.8378, Lng: -0.5792},
	"roquette":  {Lat: 48.8592, Lng: 2.3781},
}

func main() {
	port := getEnv("PORT", defaultPort)

	http.HandleFunc("/health", handleHealth)
	http.HandleFunc("/maps/api/geocode/json", handleGeocode)

	log.Printf("Mock geocoder starting on port %s", port)

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal(err)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "geocoder",
	})
}

func handleGeocode(w http.ResponseWriter, r *http.Request) {
	time.Sleep(time.Duration(latencyMs) * time.Millisecond)

	address := strings.ToLower(r.URL.Query().Get("address"))
	if address == "" {
		writeJSON(w, http.StatusOK, response{Status: "INVALID_REQUEST"})
		return
	}
	if strings.Contains(address, "fail") {
		writeJSON(w, http.StatusOK, response{Status: "REQUEST_DENIED"})
		return
	}

	for needle, loc := range knownAddresses {
		if strings.Contains(address, needle) {
			res := result{FormattedAddress: r.URL.Query().Get("address")}
			res.Geometry.Location = loc
			writeJSON(w, http.StatusOK, response{Status: "OK", Results: []result{res}})
			return
		}
	}

	writeJSON(w, http.StatusOK, response{Status: "ZERO_RESULTS", Results: []result{}})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key, fallback string) int {
	n, err := strconv.Atoi(getEnv(key, fallback))
	if err != nil {
		return 0
	}
	return n
}
