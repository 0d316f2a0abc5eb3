package model

import "time"

type Stand struct {
	BaseModel
	Name         string       `db:"name" json:"name"`
	Location     string       `db:"location" json:"location"`
	ContactName  *string      `db:"contact_name" json:"contact_name"`
	ContactPhone *string      `db:"contact_phone" json:"contact_phone"`
	QRCode       string       `db:"qr_code" json:"qr_code"`
	ImageURL     *string      `db:"image_url" json:"image_url"`
	Stock        []StandStock `db:"-" json:"stock"`
}

// StandStock assigns a quantity of a variant to a stand. The assigned
// quantity is independent of the variant's global quantity; the two are
// reconciled by staff, not by a stored invariant.
type StandStock struct {
	ID        string    `db:"id" json:"id"`
	StandID   string    `db:"stand_id" json:"stand_id"`
	VariantID string    `db:"variant_id" json:"variant_id"`
	Quantity  int       `db:"quantity" json:"quantity"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
