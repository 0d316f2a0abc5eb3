package dto

import (
	"time"

	"github.com/avelars/eventmerch-service/internal/model"
)

type MovementFilters struct {
	VariantID    string
	MovementType model.MovementType
	StartDate    *time.Time
	EndDate      *time.Time
	Page         int
	PageSize     int
}
