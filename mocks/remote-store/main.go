// Mock remote data store for local development and e2e tests. It speaks just
// enough of the PostgREST and GoTrue wire formats to exercise the server's
// fetch-with-fallback and auth paths, and its behavior can be steered with
// the MODE environment variable:
//
//	MODE=ok     serve the seeded sample rows (default)
//	MODE=empty  answer every select with an empty array
//	MODE=error  answer every request with HTTP 500
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort      = "8082"
	defaultAPIKey    = "remote-store-secret-key"
	defaultLatencyMs = "50"
)

var (
	apiKey    = getEnv("API_KEY", defaultAPIKey)
	latencyMs = getEnvInt("LATENCY_MS", defaultLatencyMs)
	mode      = getEnv("MODE", "ok")
)

var artisans = []map[string]any{
	{"id": 1, "nom": "Dupont", "prenom": "Jean", "corps_de_metier": "Menuisier", "telephone": "06 12 34 56 78", "note": 4.8},
	{"id": 2, "nom": "Martin", "prenom": "Sophie", "corps_de_metier": "Ébéniste", "telephone": "06 23 45 67 89", "note": 4.9},
	{"id": 3, "nom": "Petit", "prenom": "Michel", "corps_de_metier": "Plombier", "telephone": "06 34 56 78 90", "note": 4.5},
}

var posts = []map[string]any{
	{"id": 1, "title": "Welcome to Helpy", "content": "Find trusted artisans near you.", "created_at": "2025-03-01T09:00:00Z"},
	{"id": 2, "title": "Getting Started", "content": "Search by name or trade.", "created_at": "2025-03-02T10:30:00Z"},
}

var profiles = map[string]map[string]any{}

func main() {
	port := getEnv("PORT", defaultPort)

	http.HandleFunc("/health", handleHealth)
	http.HandleFunc("/rest/v1/", handleRest)
	http.HandleFunc("/auth/v1/signup", handleSignUp)
	http.HandleFunc("/auth/v1/token", handleToken)
	http.HandleFunc("/auth/v1/user", handleUser)

	log.Printf("Mock remote store starting on port %s (mode=%s)", port, mode)
	log.Printf("API key: %s", apiKey)

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal(err)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "remote-store",
	})
}

func handleRest(w http.ResponseWriter, r *http.Request) {
	time.Sleep(time.Duration(latencyMs) * time.Millisecond)

	if !authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid api key"})
		return
	}
	if mode == "error" {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "simulated outage"})
		return
	}

	table := strings.TrimPrefix(r.URL.Path, "/rest/v1/")
	rows := tableRows(table)
	if rows == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "unknown table"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		if mode == "empty" {
			writeJSON(w, http.StatusOK, []any{})
			return
		}
		writeJSON(w, http.StatusOK, filterRows(rows, r.URL.Query()))
	case http.MethodPost, http.MethodPatch:
		var row map[string]any
		if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
			return
		}
		if table == "profiles" {
			if id, ok := row["id"].(string); ok {
				profiles[id] = row
			}
		}
		w.WriteHeader(http.StatusCreated)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func tableRows(table string) []map[string]any {
	switch table {
	case "artisans":
		return artisans
	case "posts":
		return posts
	case "profiles":
		out := make([]map[string]any, 0, len(profiles))
		for _, p := range profiles {
			out = append(out, p)
		}
		return out
	default:
		return nil
	}
}

// filterRows honors PostgREST equality filters (col=eq.value). Ordering and
// projection parameters are accepted and ignored; the seeded rows are already
// in their natural order.
func filterRows(rows []map[string]any, query map[string][]string) []map[string]any {
	out := rows
	for col, values := range query {
		if col == "select" || col == "order" {
			continue
		}
		for _, v := range values {
			want, ok := strings.CutPrefix(v, "eq.")
			if !ok {
				continue
			}
			var filtered []map[string]any
			for _, row := range out {
				if fmt.Sprintf("%v", row[col]) == want {
					filtered = append(filtered, row)
				}
			}
			out = filtered
		}
	}
	if out == nil {
		out = []map[string]any{}
	}
	return out
}

func handleSignUp(w http.ResponseWriter, r *http.Request) {
	handleSession(w, r, http.StatusOK)
}

func handleToken(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("grant_type") != "password" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error_description": "unsupported grant type"})
		return
	}
	handleSession(w, r, http.StatusOK)
}

func handleSession(w http.ResponseWriter, r *http.Request, status int) {
	time.Sleep(time.Duration(latencyMs) * time.Millisecond)

	if !authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "invalid api key"})
		return
	}
	if mode == "error" {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"msg": "simulated outage"})
		return
	}

	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error_description": "invalid credentials payload"})
		return
	}
	if creds.Password == "wrong" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error_description": "Invalid login credentials"})
		return
	}

	writeJSON(w, status, map[string]any{
		"access_token": "mock-token-" + creds.Email,
		"token_type":   "bearer",
		"expires_in":   3600,
		"user": map[string]any{
			"id":    "mock-user-" + creds.Email,
			"email": creds.Email,
		},
	})
}

func handleUser(w http.ResponseWriter, r *http.Request) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || !strings.HasPrefix(token, "mock-token-") {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "invalid JWT"})
		return
	}

	email := strings.TrimPrefix(token, "mock-token-")
	writeJSON(w, http.StatusOK, map[string]any{
		"id":    "mock-user-" + email,
		"email": email,
	})
}

func authorized(r *http.Request) bool {
	return r.Header.Get("apikey") == apiKey
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
