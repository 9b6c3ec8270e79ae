// Package summary derives read-only aggregates from an order collection.
// Every function is pure; callers recompute on each snapshot.
package summary

import "github.com/gadaielektronik/pawndesk/internal/orders"

// StatusCounts tallies orders per lifecycle status. Other counts labels that
// match none of the four known statuses; it is display-only.
type StatusCounts struct {
	Pending        int
	OnProcess      int
	OnVerification int
	Verified       int
	Other          int
	Total          int
}

// Of returns the count for a known status, or Other for anything else.
func (c StatusCounts) Of(status orders.Status) int {
	switch status {
	case orders.StatusPending:
		return c.Pending
	case orders.StatusOnProcess:
		return c.OnProcess
	case orders.StatusOnVerification:
		return c.OnVerification
	case orders.StatusVerified:
		return c.Verified
	}
	return c.Other
}

// CountStatuses counts orders by exact status label.
func CountStatuses(items []orders.Order) StatusCounts {
	counts := StatusCounts{Total: len(items)}
	for _, item := range items {
		switch item.Status {
		case orders.StatusPending:
			counts.Pending++
		case orders.StatusOnProcess:
			counts.OnProcess++
		case orders.StatusOnVerification:
			counts.OnVerification++
		case orders.StatusVerified:
			counts.Verified++
		default:
			counts.Other++
		}
	}
	return counts
}

// RegionCount is one slice of the regional distribution.
type RegionCount struct {
	Region string
	Count  int
}

// RegionBreakdown groups orders by region label in first-occurrence order.
// Blank regions are counted under orders.UnknownRegion.
func RegionBreakdown(items []orders.Order) []RegionCount {
	if len(items) == 0 {
		return nil
	}
	index := make(map[string]int)
	var out []RegionCount
	for _, item := range items {
		label := item.RegionLabel()
		if i, ok := index[label]; ok {
			out[i].Count++
			continue
		}
		index[label] = len(out)
		out = append(out, RegionCount{Region: label, Count: 1})
	}
	return out
}

// Shares converts region counts into fractions of the total.
func Shares(regions []RegionCount) []float64 {
	total := 0
	for _, r := range regions {
		total += r.Count
	}
	out := make([]float64, len(regions))
	if total == 0 {
		return out
	}
	for i, r := range regions {
		out[i] = float64(r.Count) / float64(total)
	}
	return out
}

// TotalValue sums estimated values across the collection.
func TotalValue(items []orders.Order) float64 {
	var total float64
	for _, item := range items {
		total += float64(item.EstimatedValue)
	}
	return total
}
