package orders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != defaultBaseURL+"/" {
		t.Fatalf("default url = %q, want %q", u.String(), defaultBaseURL+"/")
	}

	u, err = parseBaseURL("  10.0.0.2:9000  ")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "10.0.0.2:9000" || u.Path != "/" {
		t.Fatalf("host:port url = %q, want http://10.0.0.2:9000/", u.String())
	}

	u, err = parseBaseURL("https://example.com/dashboard?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "/dashboard/" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestParseBaseURL_MissingHostFails(t *testing.T) {
	if _, err := parseBaseURL("http:///dashboard"); err == nil {
		t.Fatalf("parseBaseURL returned nil error, want missing host")
	}
}

func TestClient_EndpointsAndHeaders(t *testing.T) {
	t.Parallel()

	type hit struct {
		method, path, agent, requestID string
	}
	hits := make(chan hit, 8)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits <- hit{r.Method, r.URL.Path, r.Header.Get("User-Agent"), r.Header.Get(RequestIDHeader)}
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/dashboard/orders":
			_, _ = w.Write([]byte(`[
				{"id": 7, "id_percakapan": "conv-7", "nama_customer": "Sari", "email": "sari@example.com",
				 "jenis_barang": "Elektronik", "nama_barang": "Laptop", "jumlah_barang": 1,
				 "estimasi_nilai_barang": "4500000.00", "wilayah": "Jakarta", "status": "On Process",
				 "created_at": "2025-11-02T09:30:00+07:00"},
				{"id": 3, "id_percakapan": "conv-3", "nama_customer": "Budi", "email": "budi@example.com",
				 "jenis_barang": "Perhiasan", "nama_barang": "Cincin", "jumlah_barang": 2,
				 "estimasi_nilai_barang": 1250000, "wilayah": "", "status": "Verified",
				 "created_at": "2025-11-01T08:00:00"}
			]`))
		case r.Method == http.MethodPost && r.URL.Path == "/dashboard/verification/7":
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Email sent", "kode_unik": "ABC123"})
		case r.Method == http.MethodDelete && r.URL.Path == "/dashboard/order/3":
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Order deleted"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL + "/dashboard")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if c.BaseURL() != server.URL+"/dashboard" {
		t.Fatalf("BaseURL = %q, want %q", c.BaseURL(), server.URL+"/dashboard")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	items, err := c.ListOrders(ctx)
	if err != nil {
		t.Fatalf("ListOrders returned error: %v", err)
	}
	if len(items) != 2 || items[0].ID != 7 || items[1].ID != 3 {
		t.Fatalf("ListOrders = %#v, want ids [7 3] in service order", items)
	}
	if items[0].EstimatedValue != 4500000 || items[1].EstimatedValue != 1250000 {
		t.Fatalf("estimated values = %v/%v, want 4500000/1250000", items[0].EstimatedValue, items[1].EstimatedValue)
	}
	if items[0].Status != StatusOnProcess || items[0].ConversationID != "conv-7" || items[0].Region != "Jakarta" {
		t.Fatalf("first order decoded wrong: %#v", items[0])
	}

	if err := c.SendVerification(ctx, 7); err != nil {
		t.Fatalf("SendVerification returned error: %v", err)
	}
	if err := c.DeleteOrder(ctx, 3); err != nil {
		t.Fatalf("DeleteOrder returned error: %v", err)
	}

	close(hits)
	var ids []string
	for h := range hits {
		if !strings.HasPrefix(h.agent, "pawndesk/") {
			t.Fatalf("User-Agent = %q, want pawndesk/*", h.agent)
		}
		if h.requestID == "" {
			t.Fatalf("%s %s sent no %s", h.method, h.path, RequestIDHeader)
		}
		ids = append(ids, h.requestID)
	}
	if len(ids) != 3 || ids[0] == ids[1] || ids[1] == ids[2] {
		t.Fatalf("request ids = %v, want 3 distinct ids", ids)
	}
}

func TestClient_HTTPErrorsCarryDetail(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/verification/9":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail": "Order already verified"}`))
		case "/order/9":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	err = c.SendVerification(context.Background(), 9)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("SendVerification error = %v, want *TransportError", err)
	}
	if te.Op != OpVerify || te.StatusCode != http.StatusBadRequest || te.Detail != "Order already verified" {
		t.Fatalf("TransportError = %#v, want verify/400/detail", te)
	}
	if !strings.Contains(te.Error(), "returned status 400") {
		t.Fatalf("Error() = %q, want status in message", te.Error())
	}

	err = c.DeleteOrder(context.Background(), 9)
	if !errors.As(err, &te) || te.StatusCode != http.StatusInternalServerError || te.Detail != "boom" {
		t.Fatalf("DeleteOrder error = %#v, want 500 with raw body detail", err)
	}
}

func TestClient_DecodeAndNetworkErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{not-json"))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.ListOrders(context.Background())
	if !IsTransport(err) || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("ListOrders error = %v, want decode transport error", err)
	}

	offline, err := NewClient("127.0.0.1:1", WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = offline.ListOrders(context.Background())
	var te *TransportError
	if !errors.As(err, &te) || te.StatusCode != 0 || te.Err == nil {
		t.Fatalf("ListOrders offline error = %#v, want transport error without status", err)
	}
}

func TestClient_RejectsInvalidPayload(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"zero quantity":  `[{"id": 1, "jumlah_barang": 0, "estimasi_nilai_barang": 10}]`,
		"negative value": `[{"id": 1, "jumlah_barang": 1, "estimasi_nilai_barang": -5}]`,
		"duplicate id":   `[{"id": 1, "jumlah_barang": 1}, {"id": 1, "jumlah_barang": 1}]`,
	}
	for name, body := range cases {
		body := body
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			t.Cleanup(server.Close)

			c, err := NewClient(server.URL)
			if err != nil {
				t.Fatalf("NewClient returned error: %v", err)
			}
			items, err := c.ListOrders(context.Background())
			if err == nil || !strings.Contains(err.Error(), "invalid payload") {
				t.Fatalf("ListOrders = %v, %v; want invalid payload error", items, err)
			}
		})
	}
}

func TestClient_NilReceiver(t *testing.T) {
	var c *Client
	_, listErr := c.ListOrders(context.Background())
	errs := map[string]error{
		OpList:   listErr,
		OpVerify: c.SendVerification(context.Background(), 1),
		OpDelete: c.DeleteOrder(context.Background(), 1),
	}
	for op, err := range errs {
		var te *TransportError
		if !errors.As(err, &te) {
			t.Fatalf("%s on nil client returned %v, want *TransportError", op, err)
		}
		if te.Op != op {
			t.Fatalf("%s on nil client: Op = %q", op, te.Op)
		}
		if !errors.Is(err, ErrNilClient) {
			t.Fatalf("%s on nil client: error %v does not wrap ErrNilClient", op, err)
		}
	}
}
