package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Listing is a room, hotel or shop published by an owner.
type Listing struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OwnerID       uuid.UUID      `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	Type          string         `gorm:"column:type;type:varchar(16);not null;index" json:"type"`
	Title         string         `gorm:"column:title;not null" json:"title"`
	Category      string         `gorm:"column:category" json:"category"`
	Description   string         `gorm:"column:description" json:"description"`
	Price         float64        `gorm:"column:price;type:decimal(12,2);not null" json:"price"`
	Location      string         `gorm:"column:location" json:"location"`
	City          string         `gorm:"column:city;index" json:"city"`
	State         string         `gorm:"column:state" json:"state"`
	PostalCode    string         `gorm:"column:pincode" json:"pincode"`
	ContactNumber string         `gorm:"column:contact_number" json:"contactNumber"`
	Email         string         `gorm:"column:email" json:"email"`
	Latitude      *float64       `gorm:"column:latitude" json:"latitude"`
	Longitude     *float64       `gorm:"column:longitude" json:"longitude"`
	Amenities     datatypes.JSON `gorm:"column:amenities;type:json" json:"amenities"`
	Fields        datatypes.JSON `gorm:"column:fields;type:json" json:"fields"`
	Images        datatypes.JSON `gorm:"column:images;type:json" json:"images"` // stored URLs, primary first
	Available     bool           `gorm:"column:available;not null;default:true" json:"available"`
	CreatedAt     time.Time      `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt     time.Time      `gorm:"column:updated_at" json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Listing) TableName() string {
	return "listings"
}

// BeforeCreate sets the id if not already set (DBs without default uuid).
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// AmenityList decodes the amenities column. Malformed values read as empty.
func (l *Listing) AmenityList() []string {
	return decodeStrings(l.Amenities)
}

// ImageList decodes the images column.
func (l *Listing) ImageList() []string {
	return decodeStrings(l.Images)
}

func decodeStrings(j datatypes.JSON) []string {
	if len(j) == 0 {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal(j, &out); err != nil {
		return []string{}
	}
	return out
}
