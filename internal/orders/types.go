package orders

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Status is the lifecycle label reported by the order service.
type Status string

// Known status labels, exactly as the order service spells them.
const (
	StatusPending        Status = "Pending"
	StatusOnProcess      Status = "On Process"
	StatusOnVerification Status = "On Verification"
	StatusVerified       Status = "Verified"
)

// UnknownRegion replaces empty region labels for display and grouping.
const UnknownRegion = "Unknown"

const serviceTimestampLayout = "2006-01-02 15:04:05"

// Statuses lists the known statuses in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusOnProcess, StatusOnVerification, StatusVerified}
}

// Known reports whether s is one of the four lifecycle labels.
func (s Status) Known() bool {
	_, ok := StatusRank(s)
	return ok
}

// StatusRank returns the position of s in the lifecycle. Unknown labels
// report ok=false.
func StatusRank(s Status) (rank int, ok bool) {
	switch s {
	case StatusPending:
		return 0, true
	case StatusOnProcess:
		return 1, true
	case StatusOnVerification:
		return 2, true
	case StatusVerified:
		return 3, true
	}
	return -1, false
}

// Regressed reports whether moving from prev to next goes backwards in the
// lifecycle. Transitions involving unknown labels never count.
func Regressed(prev, next Status) bool {
	p, okPrev := StatusRank(prev)
	n, okNext := StatusRank(next)
	return okPrev && okNext && n < p
}

// Order mirrors one record of GET /orders.
type Order struct {
	ID             int64  `json:"id"`
	ConversationID string `json:"id_percakapan"`
	CustomerName   string `json:"nama_customer"`
	Email          string `json:"email"`
	ItemType       string `json:"jenis_barang"`
	ItemName       string `json:"nama_barang"`
	ItemQuantity   int    `json:"jumlah_barang"`
	EstimatedValue Amount `json:"estimasi_nilai_barang"`
	Region         string `json:"wilayah"`
	Status         Status `json:"status"`
	CreatedAt      string `json:"created_at"`
}

// RegionLabel returns the region, or UnknownRegion when it is blank.
func (o Order) RegionLabel() string {
	if strings.TrimSpace(o.Region) == "" {
		return UnknownRegion
	}
	return o.Region
}

// CanVerify reports whether a verification email may be sent for the order.
func (o Order) CanVerify() bool {
	return o.Status != StatusVerified && o.Status != StatusOnVerification
}

// Validate checks the record invariants.
func (o Order) Validate() error {
	if o.ID <= 0 {
		return fmt.Errorf("order id %d must be positive", o.ID)
	}
	if o.ItemQuantity < 1 {
		return fmt.Errorf("order %d: item quantity %d must be at least 1", o.ID, o.ItemQuantity)
	}
	if v := float64(o.EstimatedValue); math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("order %d: estimated value %v is not a finite number", o.ID, v)
	}
	if o.EstimatedValue < 0 {
		return fmt.Errorf("order %d: estimated value %v must not be negative", o.ID, float64(o.EstimatedValue))
	}
	return nil
}

// ParsedCreatedAt returns CreatedAt as time.Time, or the zero time.
func (o Order) ParsedCreatedAt() time.Time {
	return parseTime(o.CreatedAt)
}

// Amount is a currency-agnostic monetary value. The service may encode it as
// a JSON number or as a decimal string.
type Amount float64

// UnmarshalJSON accepts numbers, decimal strings and null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*a = 0
			return nil
		}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("parse amount %q: %w", raw, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("parse amount %q: not a finite number", raw)
	}
	*a = Amount(v)
	return nil
}

// MarshalJSON always encodes a JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(a), 'f', -1, 64)), nil
}

// Clone returns a copy of the collection, or nil when empty.
func Clone(items []Order) []Order {
	if len(items) == 0 {
		return nil
	}
	dup := make([]Order, len(items))
	copy(dup, items)
	return dup
}

// Find returns the index of the order with id, or -1.
func Find(items []Order, id int64) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func validateCollection(items []Order) error {
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("duplicate order id %d", item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(serviceTimestampLayout, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
