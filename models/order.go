package models

import (
	"time"
)

// Profile system tags an order can carry
const (
	SystemPCV    = "PCV"
	SystemALU    = "ALU"
	SystemDrewno = "DREWNO"
)

// Handle style tags an order can carry
const (
	HandleStandard      = "standardowa"
	HandleAntiBurglary  = "antywlamaniowa"
	HandleKeyLockable   = "z-kluczykiem"
)

// Order represents a production order in the system
type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"size:100;uniqueIndex;not null" json:"order_number"`
	Description string `gorm:"type:text" json:"description"`

	// Optional classification attributes, all nullable; value domains are
	// enforced at the request boundary
	SystemType       *string `gorm:"size:50" json:"system_type,omitempty"`
	HandleType       *string `gorm:"size:50" json:"handle_type,omitempty"`
	WeldingFramesQty *int    `json:"welding_frames_qty,omitempty"`
	GlazingFramesQty *int    `json:"glazing_frames_qty,omitempty"`
	ComplexityRating *int    `json:"complexity_rating,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	TimeLogs []TimeLog `gorm:"foreignKey:OrderID" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// QRPayload returns the payload encoded into the order's QR code
func (o *Order) QRPayload() string {
	return "ORDER:" + o.OrderNumber
}
