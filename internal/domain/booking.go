package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking statuses.
const (
	BookingPending  = "pending"
	BookingApproved = "approved"
	BookingRejected = "rejected"
)

// Booking is a tenant's request for a listing, decided by the listing owner.
type Booking struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ListingID uuid.UUID  `gorm:"column:listing_id;type:uuid;not null;index" json:"listing_id"`
	OwnerID   uuid.UUID  `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	TenantID  uuid.UUID  `gorm:"column:tenant_id;type:uuid;not null;index" json:"tenant_id"`
	Message   string     `gorm:"column:message" json:"message"`
	MoveIn    *time.Time `gorm:"column:move_in" json:"move_in"`
	Status    string     `gorm:"column:status;type:varchar(16);not null;default:pending" json:"status"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"column:updated_at" json:"updatedAt"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
