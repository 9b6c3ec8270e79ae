package orders

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"
)

func TestAmount_UnmarshalVariants(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Amount
	}{
		{"number", `1500000`, 1500000},
		{"float", `12.5`, 12.5},
		{"decimal string", `"4500000.00"`, 4500000},
		{"padded string", `" 7.25 "`, 7.25},
		{"empty string", `""`, 0},
		{"null", `null`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got Amount
			if err := json.Unmarshal([]byte(tc.in), &got); err != nil {
				t.Fatalf("Unmarshal(%s) returned error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("Unmarshal(%s) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}

	for _, in := range []string{`"lots"`, `"NaN"`, `"Inf"`, `"-Inf"`, `"+Infinity"`} {
		var bad Amount
		if err := json.Unmarshal([]byte(in), &bad); err == nil {
			t.Fatalf("Unmarshal(%s) returned nil error, value %v", in, bad)
		}
	}
}

func TestAmount_MarshalsAsNumber(t *testing.T) {
	out, err := json.Marshal(struct {
		V Amount `json:"v"`
	}{V: 1250000.5})
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	if string(out) != `{"v":1250000.5}` {
		t.Fatalf("Marshal = %s, want {\"v\":1250000.5}", out)
	}
}

func TestOrder_RegionLabel(t *testing.T) {
	if got := (Order{Region: ""}).RegionLabel(); got != UnknownRegion {
		t.Fatalf("RegionLabel(empty) = %q, want %q", got, UnknownRegion)
	}
	if got := (Order{Region: "   "}).RegionLabel(); got != UnknownRegion {
		t.Fatalf("RegionLabel(blank) = %q, want %q", got, UnknownRegion)
	}
	o := Order{Region: "West"}
	if got := o.RegionLabel(); got != "West" {
		t.Fatalf("RegionLabel = %q, want West", got)
	}
}

func TestOrder_CanVerify(t *testing.T) {
	cases := map[Status]bool{
		StatusPending:        true,
		StatusOnProcess:      true,
		StatusOnVerification: false,
		StatusVerified:       false,
		Status("Archived"):   true,
	}
	for status, want := range cases {
		if got := (Order{Status: status}).CanVerify(); got != want {
			t.Fatalf("CanVerify(%q) = %v, want %v", status, got, want)
		}
	}
}

func TestOrder_Validate(t *testing.T) {
	valid := Order{ID: 1, ItemQuantity: 1}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate(valid) = %v, want nil", err)
	}
	for name, o := range map[string]Order{
		"zero id":        {ID: 0, ItemQuantity: 1},
		"zero quantity":  {ID: 1, ItemQuantity: 0},
		"negative value": {ID: 1, ItemQuantity: 1, EstimatedValue: -1},
		"NaN value":      {ID: 1, ItemQuantity: 1, EstimatedValue: Amount(math.NaN())},
		"infinite value": {ID: 1, ItemQuantity: 1, EstimatedValue: Amount(math.Inf(1))},
	} {
		if err := o.Validate(); err == nil {
			t.Fatalf("Validate(%s) returned nil error", name)
		}
	}
}

func TestStatusRankAndRegressed(t *testing.T) {
	for i, s := range Statuses() {
		rank, ok := StatusRank(s)
		if !ok || rank != i {
			t.Fatalf("StatusRank(%q) = %d,%v; want %d,true", s, rank, ok, i)
		}
		if !s.Known() {
			t.Fatalf("Known(%q) = false", s)
		}
	}
	if Status("on process").Known() {
		t.Fatalf("labels are case sensitive; lower-case must not match")
	}
	if !Regressed(StatusVerified, StatusOnProcess) {
		t.Fatalf("Verified -> On Process should be a regression")
	}
	if Regressed(StatusOnProcess, StatusOnVerification) {
		t.Fatalf("On Process -> On Verification is forward")
	}
	if Regressed(StatusVerified, Status("Archived")) {
		t.Fatalf("unknown labels never count as regressions")
	}
}

func TestParsedCreatedAt(t *testing.T) {
	cases := []string{
		"2025-11-02T09:30:00+07:00",
		"2025-11-02T09:30:00.123456",
		"2025-11-02 09:30:00",
	}
	for _, in := range cases {
		got := Order{CreatedAt: in}.ParsedCreatedAt()
		if got.IsZero() || got.Year() != 2025 || got.Month() != time.November || got.Day() != 2 {
			t.Fatalf("ParsedCreatedAt(%q) = %v, want 2025-11-02", in, got)
		}
	}
	if !(Order{CreatedAt: "yesterday"}).ParsedCreatedAt().IsZero() {
		t.Fatalf("unparseable timestamp should yield zero time")
	}
}

func TestCloneAndFind(t *testing.T) {
	if Clone(nil) != nil {
		t.Fatalf("Clone(nil) should be nil")
	}
	src := []Order{{ID: 1}, {ID: 2}}
	dup := Clone(src)
	dup[0].ID = 99
	if src[0].ID != 1 {
		t.Fatalf("Clone shares backing array")
	}
	if Find(src, 2) != 1 || Find(src, 5) != -1 {
		t.Fatalf("Find returned wrong indexes")
	}
}

func TestTransportError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&TransportError{Op: OpList, Path: "/orders", Err: cause})
	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is should reach the cause")
	}
	if !IsTransport(err) {
		t.Fatalf("IsTransport = false, want true")
	}
	if IsTransport(cause) {
		t.Fatalf("IsTransport(plain error) = true, want false")
	}
	if got := err.Error(); got != "list /orders: connection refused" {
		t.Fatalf("Error() = %q", got)
	}
}
