package model

import "time"

type MovementType string

const (
	MovementAdjustment   MovementType = "adjustment"
	MovementReturn       MovementType = "return"
	MovementCancellation MovementType = "cancellation"
	MovementRestore      MovementType = "restore"
	MovementReduce       MovementType = "reduce"
)

// StockMovement is an append-only audit row. Reconciliation never reads
// it back; it only mirrors the delta that was actually applied.
type StockMovement struct {
	ID             string       `db:"id" json:"id"`
	VariantID      string       `db:"variant_id" json:"variant_id"`
	MovementType   MovementType `db:"movement_type" json:"movement_type"`
	QuantityChange int          `db:"quantity_change" json:"quantity_change"`
	QuantityBefore int          `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  int          `db:"quantity_after" json:"quantity_after"`
	ReferenceType  *string      `db:"reference_type" json:"reference_type"`
	ReferenceID    *string      `db:"reference_id" json:"reference_id"`
	Reason         string       `db:"reason" json:"reason"`
	CreatedBy      *string      `db:"created_by" json:"created_by"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
}
