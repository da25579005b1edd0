package db

import (
	"context"
	"fmt"
)

// Summary holds aggregate task counts for one user
type Summary struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
	Important int64 `json:"important"`
}

// Summary counts the user's tasks. Pending is derived as Total - Completed.
func (s *Store) Summary(ctx context.Context, userID uint) (Summary, error) {
	var row struct {
		Total     int64
		Completed int64
		Important int64
	}

	err := s.ownedBy(ctx, userID).
		Select("COUNT(*) AS total, " +
			"COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0) AS completed, " +
			"COALESCE(SUM(CASE WHEN important THEN 1 ELSE 0 END), 0) AS important").
		Scan(&row).Error
	if err != nil {
		return Summary{}, fmt.Errorf("failed to summarise tasks: %w", err)
	}

	return Summary{
		Total:     row.Total,
		Completed: row.Completed,
		Pending:   row.Total - row.Completed,
		Important: row.Important,
	}, nil
}
