package storage

import (
	"fmt"
	"time"
)

// CampStatus is derived from the current date and a camp's staffing,
// registration, and food sufficiency. It is never persisted.
type CampStatus string

const (
	// StatusPlanned is a future camp with no leader yet.
	StatusPlanned CampStatus = "planned"
	// StatusNoCampers is a future camp with a leader but no campers.
	StatusNoCampers CampStatus = "no_campers"
	// StatusInsufficientFood is a future camp whose approved stock cannot
	// cover its campers' daily needs.
	StatusInsufficientFood CampStatus = "insufficient_food"
	// StatusReady is a future camp with a leader, campers, and enough food.
	StatusReady CampStatus = "ready"
	// StatusInProgress is a camp currently running.
	StatusInProgress CampStatus = "in_progress"
	// StatusCompleted is a past camp that ran with a leader, campers, and
	// sufficient food.
	StatusCompleted CampStatus = "completed"
	// StatusCancelled is a camp that never became ready before starting.
	StatusCancelled CampStatus = "cancelled"
)

// minCampers is the smallest registration count for a camp to run.
const minCampers = 1

// campDateFormat is the date layout stored in camp rows.
const campDateFormat = "2006-01-02"

// DeriveCampStatus computes a camp's status from explicit state.
func DeriveCampStatus(today, startDate, endDate time.Time, hasLeader bool, numCampers int, foodSufficient bool) CampStatus {
	viable := hasLeader && numCampers >= minCampers && foodSufficient

	switch {
	case endDate.Before(today):
		if viable {
			return StatusCompleted
		}
		return StatusCancelled
	case !startDate.After(today):
		if viable {
			return StatusInProgress
		}
		return StatusCancelled
	default:
		if !hasLeader {
			return StatusPlanned
		}
		if numCampers < minCampers {
			return StatusNoCampers
		}
		if !foodSufficient {
			return StatusInsufficientFood
		}
		return StatusReady
	}
}

// CampStatusFor derives the status of one camp as of today.
func (s *Store) CampStatusFor(camp Camp, today time.Time) (CampStatus, error) {
	startDate, err := time.Parse(campDateFormat, camp.StartDate)
	if err != nil {
		return "", fmt.Errorf("parse start date for camp %d: %w", camp.ID, err)
	}
	endDate, err := time.Parse(campDateFormat, camp.EndDate)
	if err != nil {
		return "", fmt.Errorf("parse end date for camp %d: %w", camp.ID, err)
	}

	numCampers, err := s.CampOccupancy(camp.ID)
	if err != nil {
		return "", err
	}

	foodNeeded := camp.DailyFoodPerCamper * numCampers
	foodSufficient := foodNeeded <= camp.ApprovedDailyFoodStock

	return DeriveCampStatus(
		today, startDate, endDate,
		camp.LeaderID != nil, numCampers, foodSufficient,
	), nil
}
