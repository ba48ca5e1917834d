package commitments

import (
	"context"
)

// Stats are protocol-wide aggregates over every commitment in the store.
type Stats struct {
	Total         int                `json:"total"`
	ByStatus      map[string]int     `json:"byStatus"`
	TotalAmount   float64            `json:"totalAmount"`
	AmountByAsset map[string]float64 `json:"amountByAsset"`
}

// Stats aggregates over the store's full enumeration. The enumeration is an
// explicit store operation; the aggregate is only as complete as the store.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	all, err := s.store.ListCommitments(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		ByStatus:      make(map[string]int),
		AmountByAsset: make(map[string]float64),
	}
	for _, c := range all {
		stats.Total++
		stats.ByStatus[string(c.Status)]++
		stats.TotalAmount += c.Amount
		stats.AmountByAsset[c.Asset] += c.Amount
	}
	return stats, nil
}
