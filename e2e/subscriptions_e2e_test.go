//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

const defaultHTTPBase = "http://localhost:38080"

const monthlyPlanPrice = "1000000000000000"

type httpClient struct {
	baseURL string
	client  *http.Client
}

func newHTTPClient(baseURL string) *httpClient {
	return &httpClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *httpClient) doJSON(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal failed: %v", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		t.Fatalf("new request failed: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		t.Fatalf("http request failed: %v", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response failed: %v", err)
	}

	return resp, bodyBytes
}

func waitForHTTP(baseURL string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 2 * time.Second}
	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	return fmt.Errorf("http service not ready at %s", baseURL)
}

func httpBase() string {
	if v := os.Getenv("SUBSCRIPTIONS_E2E_HTTP"); v != "" {
		return v
	}
	return defaultHTTPBase
}

type planEnvelope struct {
	Plan struct {
		ID           uint32 `json:"id"`
		Title        string `json:"title"`
		DurationDays uint64 `json:"duration_days"`
		Price        string `json:"price"`
	} `json:"plan"`
}

type subscriptionEnvelope struct {
	Subscription struct {
		Address    string `json:"address"`
		PlanID     uint32 `json:"plan_id"`
		StartedAt  string `json:"started_at"`
		ExpiresAt  string `json:"expires_at"`
		PaidAmount string `json:"paid_amount"`
	} `json:"subscription"`
}

type listPlanIDs struct {
	PlanIDs []uint32 `json:"plan_ids"`
}

type isActive struct {
	Active bool `json:"active"`
}

func TestSubscriptionFlow(t *testing.T) {
	base := httpBase()
	if err := waitForHTTP(base, 30*time.Second); err != nil {
		t.Fatal(err)
	}
	c := newHTTPClient(base)
	address := fmt.Sprintf("erd1student%d", time.Now().UnixNano())

	resp, body := c.doJSON(t, http.MethodPost, "/plans", map[string]any{
		"title":         "Monthly Plan",
		"duration_days": 30,
		"price":         monthlyPlanPrice,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create plan: expected 201, got %d: %s", resp.StatusCode, body)
	}
	var created planEnvelope
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("unmarshal plan failed: %v", err)
	}
	planID := created.Plan.ID
	if planID == 0 {
		t.Fatalf("expected assigned plan id, got %+v", created)
	}

	resp, body = c.doJSON(t, http.MethodGet, fmt.Sprintf("/plans/%d", planID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get plan: expected 200, got %d: %s", resp.StatusCode, body)
	}
	var fetched planEnvelope
	if err := json.Unmarshal(body, &fetched); err != nil {
		t.Fatalf("unmarshal plan failed: %v", err)
	}
	if fetched.Plan.Title != "Monthly Plan" || fetched.Plan.DurationDays != 30 || fetched.Plan.Price != monthlyPlanPrice {
		t.Fatalf("plan fields do not match inputs: %+v", fetched.Plan)
	}

	resp, body = c.doJSON(t, http.MethodGet, "/plans", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list plans: expected 200, got %d: %s", resp.StatusCode, body)
	}
	var ids listPlanIDs
	if err := json.Unmarshal(body, &ids); err != nil {
		t.Fatalf("unmarshal ids failed: %v", err)
	}
	found := false
	for _, id := range ids.PlanIDs {
		if id == planID {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %d in listing %v", planID, ids.PlanIDs)
	}

	// Unpaid subscribe must be rejected and leave no record.
	resp, body = c.doJSON(t, http.MethodPost, "/subscriptions", map[string]any{
		"address": address,
		"plan_id": planID,
		"amount":  "0",
	})
	if resp.StatusCode != http.StatusPaymentRequired {
		t.Fatalf("unpaid subscribe: expected 402, got %d: %s", resp.StatusCode, body)
	}
	resp, _ = c.doJSON(t, http.MethodGet, "/subscriptions/"+address, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected no record after rejection, got %d", resp.StatusCode)
	}

	resp, body = c.doJSON(t, http.MethodPost, "/subscriptions", map[string]any{
		"address": address,
		"plan_id": planID,
		"amount":  monthlyPlanPrice,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("paid subscribe: expected 201, got %d: %s", resp.StatusCode, body)
	}

	resp, body = c.doJSON(t, http.MethodGet, "/subscriptions/"+address, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get subscription: expected 200, got %d: %s", resp.StatusCode, body)
	}
	var sub subscriptionEnvelope
	if err := json.Unmarshal(body, &sub); err != nil {
		t.Fatalf("unmarshal subscription failed: %v", err)
	}
	if sub.Subscription.PlanID != planID || sub.Subscription.PaidAmount != monthlyPlanPrice {
		t.Fatalf("unexpected subscription: %+v", sub.Subscription)
	}
	started, err := time.Parse(time.RFC3339, sub.Subscription.StartedAt)
	if err != nil {
		t.Fatalf("parse started_at failed: %v", err)
	}
	expires, err := time.Parse(time.RFC3339, sub.Subscription.ExpiresAt)
	if err != nil {
		t.Fatalf("parse expires_at failed: %v", err)
	}
	if !expires.Equal(started.Add(30 * 24 * time.Hour)) {
		t.Fatalf("expected expires_at = started_at + 30d, got %v / %v", started, expires)
	}

	resp, body = c.doJSON(t, http.MethodGet, "/subscriptions/"+address+"/active", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("is active: expected 200, got %d: %s", resp.StatusCode, body)
	}
	var active isActive
	if err := json.Unmarshal(body, &active); err != nil {
		t.Fatalf("unmarshal active failed: %v", err)
	}
	if !active.Active {
		t.Fatal("expected fresh subscription to be active")
	}

	after := expires.Add(time.Hour).Format(time.RFC3339)
	resp, body = c.doJSON(t, http.MethodGet, "/subscriptions/"+address+"/active?at="+after, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("is active at instant: expected 200, got %d: %s", resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, &active); err != nil {
		t.Fatalf("unmarshal active failed: %v", err)
	}
	if active.Active {
		t.Fatalf("expected inactive past expiry at %s", after)
	}
}

func TestSubscribeUnknownPlanE2E(t *testing.T) {
	base := httpBase()
	if err := waitForHTTP(base, 30*time.Second); err != nil {
		t.Fatal(err)
	}
	c := newHTTPClient(base)

	resp, body := c.doJSON(t, http.MethodPost, "/subscriptions", map[string]any{
		"address": "erd1nobody",
		"plan_id": 4294967295,
		"amount":  "1",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", resp.StatusCode, body)
	}
}
