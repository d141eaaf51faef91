package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fieldguide/internal/api"
)

func TestClientSendsBearerToken(t *testing.T) {
	t.Parallel()

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.DaemonStatus{Running: true})
	}))
	defer server.Close()

	client := newAPIClient(server.URL, "secret")
	var status api.DaemonStatus
	if err := client.get(context.Background(), "/api/status", nil, &status); err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if !status.Running {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestClientSurfacesGuidanceFromErrorEnvelope(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{
			Error: "Nothing to act on here. Ask for a round first.",
			Kind:  api.KindNotFound,
		})
	}))
	defer server.Close()

	client := newAPIClient(server.URL, "")
	err := client.post(context.Background(), "/api/guess", map[string]string{"channel": "ch1"}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Ask for a round first") {
		t.Fatalf("expected guidance message, got %v", err)
	}
}

func TestClientFallsBackToStatusCode(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newAPIClient(server.URL, "")
	err := client.get(context.Background(), "/api/status", nil, nil)
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Fatalf("expected status code in error, got %v", err)
	}
}
