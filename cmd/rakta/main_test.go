package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rakta/internal/client"
	"rakta/internal/config"
)

func testSession(t *testing.T, server string) *session {
	t.Helper()
	t.Setenv("RAKTA_SERVER", "")
	t.Setenv("RAKTA_LOCALE", "")
	path := filepath.Join(t.TempDir(), "rakta", "config.yaml")
	s, err := newSession(path, server)
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func closedServerURL() string {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

const profileJSON = `{"id":"u1","email":"sita@example.com","full_name":"Sita Sharma","blood_group":"A","rh":"+ve","blood_type":"A+","age_years":29,"total_blood_donated":1350,"donation_count":3,"available_to_donate":true}`

func TestLoginSavesTokenAndCachesProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":"invalid_credentials","message":"invalid email or password"}}`))
			return
		}
		exp := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
		fmt.Fprintf(w, `{"token":"tok-1","expires_at":%q,"user":%s}`, exp, profileJSON)
	}))
	defer srv.Close()
	s := testSession(t, srv.URL)

	var out bytes.Buffer
	err := runLogin(context.Background(), &out, strings.NewReader("secret1\n"), s, "sita@example.com", "")
	if err != nil {
		t.Fatalf("runLogin: %v", err)
	}
	if !strings.Contains(out.String(), "Signed in as Sita Sharma (sita@example.com)") {
		t.Fatalf("unexpected output %q", out.String())
	}

	saved, err := config.Load(s.path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if saved.Token != "tok-1" || saved.Email != "sita@example.com" {
		t.Fatalf("config not saved: %+v", saved)
	}
	var cached client.Profile
	if _, err := s.cache.GetJSON(context.Background(), cacheKeyProfile, &cached); err != nil {
		t.Fatalf("profile not cached: %v", err)
	}
	if cached.FullName != "Sita Sharma" {
		t.Fatalf("cached profile = %+v", cached)
	}
}

func TestLoginRequiresEmail(t *testing.T) {
	s := testSession(t, closedServerURL())
	err := runLogin(context.Background(), &bytes.Buffer{}, strings.NewReader(""), s, "", "pw")
	if err == nil || !strings.Contains(err.Error(), "--email") {
		t.Fatalf("err = %v", err)
	}
}

func TestProfileFallsBackToCacheWhenOffline(t *testing.T) {
	s := testSession(t, closedServerURL())
	s.api.SetToken("tok")
	ctx := context.Background()
	var p client.Profile
	if err := json.Unmarshal([]byte(profileJSON), &p); err != nil {
		t.Fatal(err)
	}
	if err := s.cache.PutJSON(ctx, cacheKeyProfile, p); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := runProfile(ctx, &out, s, time.Now()); err != nil {
		t.Fatalf("runProfile: %v", err)
	}
	text := out.String()
	for _, want := range []string{"(offline", "Sita Sharma", "A+", "1,350 ml over 3 donations", fmt.Sprintf("%-18s %s", "Available:", "yes")} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestProfileOfflineWithoutCache(t *testing.T) {
	s := testSession(t, closedServerURL())
	s.api.SetToken("tok")
	err := runProfile(context.Background(), &bytes.Buffer{}, s, time.Now())
	if err == nil || !strings.Contains(err.Error(), "no cached profile") {
		t.Fatalf("err = %v", err)
	}
}

func TestProfileUnauthorizedAsksForLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"unauthorized","message":"token expired"}}`))
	}))
	defer srv.Close()
	s := testSession(t, srv.URL)
	s.api.SetToken("expired")

	err := runProfile(context.Background(), &bytes.Buffer{}, s, time.Now())
	if err == nil || !strings.Contains(err.Error(), "rakta login") {
		t.Fatalf("err = %v", err)
	}
}

func TestDashboardPrintsSeriesAndCaches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"series":{"labels":["11/6","12/6","13/6"],"data":[0,2,4]},"lives_saved":1234,"last_updated":"2024-06-15T10:00:00Z","last_updated_human":"3 minutes ago","notifications":[{"kind":"stale","message":"Showing last known activity"}]}`))
	}))
	defer srv.Close()
	s := testSession(t, srv.URL)
	s.api.SetToken("tok")

	var out bytes.Buffer
	if err := runDashboard(context.Background(), &out, s, false, time.Now()); err != nil {
		t.Fatalf("runDashboard: %v", err)
	}
	text := out.String()
	for _, want := range []string{
		"  11/6  0\n",
		"  12/6 " + strings.Repeat("#", 15) + " 2\n",
		"  13/6 " + strings.Repeat("#", 30) + " 4\n",
		"Lives saved: 1,234",
		"Last updated: 3 minutes ago",
		"! Showing last known activity",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	var cached client.Dashboard
	if _, err := s.cache.GetJSON(context.Background(), cacheKeyDashboard, &cached); err != nil {
		t.Fatalf("dashboard not cached: %v", err)
	}
	if cached.LivesSaved != 1234 {
		t.Fatalf("cached = %+v", cached)
	}
}

func TestDonateInvalidatesCachedProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"d1","blood_type":"A+","location":"Kathmandu","amount_ml":1450,"message":"Thank you for your donation of 1450ml for A+!"}`))
	}))
	defer srv.Close()
	s := testSession(t, srv.URL)
	s.api.SetToken("tok")
	ctx := context.Background()
	if err := s.cache.Put(ctx, cacheKeyProfile, []byte(profileJSON)); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := runDonate(ctx, &out, s, client.DonationInput{BloodGroup: "A+", Location: "Kathmandu", AmountML: 1450}); err != nil {
		t.Fatalf("runDonate: %v", err)
	}
	if !strings.Contains(out.String(), "Thank you for your donation of 1450ml for A+!") ||
		!strings.Contains(out.String(), "Recorded 1,450 ml at Kathmandu") {
		t.Fatalf("unexpected output %q", out.String())
	}
	if _, err := s.cache.Get(ctx, cacheKeyProfile); err == nil {
		t.Fatal("cached profile should be invalidated")
	}
}

func TestLogoutClearsSessionAndCache(t *testing.T) {
	var signedOut bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		signedOut = r.URL.Path == "/v1/auth/signout"
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	s := testSession(t, srv.URL)
	s.cfg.Token = "tok"
	s.api.SetToken("tok")
	ctx := context.Background()
	if err := s.cache.Put(ctx, cacheKeyDashboard, []byte("{}")); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := runLogout(ctx, &out, s); err != nil {
		t.Fatalf("runLogout: %v", err)
	}
	if !signedOut {
		t.Fatal("server sign out not called")
	}
	saved, err := config.Load(s.path)
	if err != nil {
		t.Fatal(err)
	}
	if saved.SignedIn() {
		t.Fatal("token should be cleared")
	}
	if _, err := s.cache.Get(ctx, cacheKeyDashboard); err == nil {
		t.Fatal("cache should be cleared")
	}
}

func TestLogoutWorksOffline(t *testing.T) {
	s := testSession(t, closedServerURL())
	s.cfg.Token = "tok"
	s.api.SetToken("tok")
	if err := runLogout(context.Background(), &bytes.Buffer{}, s); err != nil {
		t.Fatalf("runLogout offline: %v", err)
	}
}

func TestRunAvailableRejectsBadArgument(t *testing.T) {
	s := testSession(t, closedServerURL())
	if err := runAvailable(context.Background(), &bytes.Buffer{}, s, "maybe"); err == nil {
		t.Fatal("expected error")
	}
}

func TestRequestListFormatsAge(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"id":"r1","blood_type":"O-","units":2,"hospital":"Bir Hospital","location":"Kathmandu","urgency":"urgent","status":"notified","created_at":"2024-06-15T08:00:00Z"}]}`))
	}))
	defer srv.Close()
	s := testSession(t, srv.URL)
	s.api.SetToken("tok")

	var out bytes.Buffer
	if err := runRequestList(context.Background(), &out, s, 5, now); err != nil {
		t.Fatalf("runRequestList: %v", err)
	}
	if !strings.Contains(out.String(), "Bir Hospital, Kathmandu (2 hours ago)") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestOffline(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"api error", &client.APIError{Status: 500}, false},
		{"missing token", client.ErrMissingToken, false},
		{"canceled", context.Canceled, false},
		{"transport", errors.New("dial tcp: connection refused"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := offline(tt.err); got != tt.want {
				t.Fatalf("offline(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
