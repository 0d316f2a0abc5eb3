package dto

import (
	"time"

	"github.com/avelars/eventmerch-service/internal/model"
)

type OrderFilters struct {
	Status        model.OrderStatus
	SaleType      model.SaleType
	StandID       string
	CustomerEmail string
	StartDate     *time.Time
	EndDate       *time.Time
	Page          int
	PageSize      int
}
