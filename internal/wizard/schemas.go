package wizard

import (
	"sort"

	"roomrento-backend/internal/geo"
)

// Listing types.
const (
	TypeRoom  = "room"
	TypeHotel = "hotel"
	TypeShop  = "shop"
)

const (
	msgPrice         = "Please enter a valid price (0 or more)"
	msgLocation      = "Location is required"
	msgContact       = "Contact number is required"
	msgEmailRequired = "Email is required"
	msgEmailInvalid  = "Please enter a valid email address"
	msgImages        = "At least one image is required"
)

func commercialRules() []Rule {
	return []Rule{
		{Field: FieldPrice, Kind: MinNumber, Min: 0, Message: msgPrice},
		{Field: FieldLocation, Kind: Required, Message: msgLocation},
		{Field: FieldContact, Kind: Required, Message: msgContact},
		{Field: FieldEmail, Kind: Email, Message: msgEmailRequired, InvalidMessage: msgEmailInvalid},
	}
}

func mediaStep() Step {
	return Step{
		Label:  "Images & Review",
		Fields: []string{FieldImages},
		Rules:  []Rule{{Field: FieldImages, Kind: HasImages, Message: msgImages}},
	}
}

var locationFields = []string{FieldPrice, FieldLocation, FieldCity, FieldState, FieldPostalCode, FieldContact, FieldEmail}

// RoomSchema is the wizard for a single rentable room.
var RoomSchema = &Schema{
	Type:          TypeRoom,
	Endpoint:      "/api/v1/rooms",
	TitleField:    "title",
	CategoryField: "roomType",
	Steps: []Step{
		{
			Label:  "Basic Info",
			Fields: []string{"title", "description", "roomType"},
			Rules: []Rule{
				{Field: "title", Kind: Required, Message: "Title is required"},
				{Field: "description", Kind: Required, Message: "Description is required"},
				{Field: "roomType", Kind: Required, Message: "Room type is required"},
			},
		},
		{Label: "Pricing & Location", Fields: locationFields, Rules: commercialRules()},
		{
			Label:  "Features & Contact",
			Fields: []string{FieldAmenities, "furnished", "availableFrom"},
			Rules:  []Rule{{Field: FieldAmenities, Kind: NonEmptyList, Message: "Select at least one amenity"}},
		},
		mediaStep(),
	},
	ArrayFields:        []string{FieldAmenities},
	ImageLimit:         5,
	RequireCoordinates: true,
	MergePolicy:        geo.PreserveExisting,
}

// HotelSchema is the wizard for a hotel with several room types.
var HotelSchema = &Schema{
	Type:          TypeHotel,
	Endpoint:      "/api/v1/hotels",
	TitleField:    "name",
	CategoryField: "category",
	Steps: []Step{
		{
			Label:  "Basic Info",
			Fields: []string{"name", "description", "category"},
			Rules: []Rule{
				{Field: "name", Kind: Required, Message: "Hotel name is required"},
				{Field: "description", Kind: Required, Message: "Description is required"},
				{Field: "category", Kind: Required, Message: "Hotel category is required"},
			},
		},
		{Label: "Pricing & Location", Fields: locationFields, Rules: commercialRules()},
		{
			Label:  "Rooms & Amenities",
			Fields: []string{"roomTypes", FieldAmenities, "checkInTime", "checkOutTime"},
			Rules: []Rule{
				{Field: "roomTypes", Kind: NonEmptyList, Message: "Select at least one room type"},
				{Field: FieldAmenities, Kind: NonEmptyList, Message: "Select at least one amenity"},
			},
		},
		mediaStep(),
	},
	ArrayFields:        []string{"roomTypes", FieldAmenities},
	ImageLimit:         10,
	RequireCoordinates: false,
	MergePolicy:        geo.PreserveExisting,
}

// ShopSchema is the wizard for a commercial shop space.
var ShopSchema = &Schema{
	Type:          TypeShop,
	Endpoint:      "/api/v1/shops",
	TitleField:    "title",
	CategoryField: "shopType",
	Steps: []Step{
		{
			Label:  "Basic Info",
			Fields: []string{"title", "description", "shopType"},
			Rules: []Rule{
				{Field: "title", Kind: Required, Message: "Title is required"},
				{Field: "description", Kind: Required, Message: "Description is required"},
				{Field: "shopType", Kind: Required, Message: "Shop type is required"},
			},
		},
		{Label: "Pricing & Location", Fields: locationFields, Rules: commercialRules()},
		{
			Label:  "Business Details",
			Fields: []string{"businessTypes", FieldAmenities, "area"},
			Rules:  []Rule{{Field: "businessTypes", Kind: NonEmptyList, Message: "Select at least one business type"}},
		},
		mediaStep(),
	},
	ArrayFields:        []string{"businessTypes", FieldAmenities},
	ImageLimit:         6,
	RequireCoordinates: false,
	MergePolicy:        geo.PreserveExisting,
}

var registry = map[string]*Schema{
	TypeRoom:  RoomSchema,
	TypeHotel: HotelSchema,
	TypeShop:  ShopSchema,
}

// Lookup returns the schema for a listing type.
func Lookup(listingType string) (*Schema, bool) {
	s, ok := registry[listingType]
	return s, ok
}

// Types returns the registered listing types.
func Types() []string {
	out := make([]string, 0, len(registry))
	for t := range registry {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
