package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification kinds.
const (
	NotifyListingCreated   = "listing_created"
	NotifyBookingRequested = "booking_requested"
	NotifyBookingApproved  = "booking_approved"
	NotifyBookingRejected  = "booking_rejected"
)

// Notification is an in-app message for one user.
type Notification struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Kind      string     `gorm:"column:kind;type:varchar(32);not null" json:"kind"`
	Message   string     `gorm:"column:message;not null" json:"message"`
	ListingID *uuid.UUID `gorm:"column:listing_id;type:uuid" json:"listing_id"`
	BookingID *uuid.UUID `gorm:"column:booking_id;type:uuid" json:"booking_id"`
	Read      bool       `gorm:"column:is_read;not null;default:false" json:"read"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"createdAt"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
