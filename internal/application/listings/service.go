package listings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"roomrento-backend/internal/application/filters"
	"roomrento-backend/internal/application/uploads"
	"roomrento-backend/internal/domain"
	"roomrento-backend/internal/wizard"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrDuplicateListing = errors.New("Duplicate listing")
	ErrListingNotFound  = errors.New("Listing not found")
	ErrNotOwner         = errors.New("You do not own this listing")
)

// Fields stored in their own columns; every other draft field goes to the
// fields JSON column.
var columnFields = map[string]bool{
	wizard.FieldLocation:   true,
	wizard.FieldCity:       true,
	wizard.FieldState:      true,
	wizard.FieldPostalCode: true,
	wizard.FieldPrice:      true,
	wizard.FieldContact:    true,
	wizard.FieldEmail:      true,
	wizard.FieldAmenities:  true,
	"description":          true,
}

type Service struct {
	DB     *gorm.DB
	Images uploads.Store
}

// CreateInput is a submitted wizard draft of one listing type.
type CreateInput struct {
	OwnerID uuid.UUID
	Schema  *wizard.Schema
	Draft   wizard.Draft
}

// Create validates the draft with its wizard schema, stores the images and
// persists the listing together with an owner notification.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Listing, error) {
	if errs := wizard.ValidateDraft(in.Schema, &in.Draft); len(errs) > 0 {
		return nil, &wizard.ValidationError{Errors: errs}
	}
	fields := in.Draft.Fields
	title := strings.TrimSpace(wizard.AsString(fields[in.Schema.TitleField]))

	var count int64
	if err := s.DB.WithContext(ctx).Model(&domain.Listing{}).
		Where("owner_id = ? AND type = ? AND LOWER(title) = LOWER(?)", in.OwnerID, in.Schema.Type, title).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateListing
	}

	urls, err := s.storeImages(ctx, in.Draft)
	if err != nil {
		return nil, err
	}

	price, _ := wizard.AsFloat(fields[wizard.FieldPrice])
	listing := &domain.Listing{
		OwnerID:       in.OwnerID,
		Type:          in.Schema.Type,
		Title:         title,
		Category:      wizard.AsString(fields[in.Schema.CategoryField]),
		Description:   wizard.AsString(fields["description"]),
		Price:         price,
		Location:      wizard.AsString(fields[wizard.FieldLocation]),
		City:          wizard.AsString(fields[wizard.FieldCity]),
		State:         wizard.AsString(fields[wizard.FieldState]),
		PostalCode:    wizard.AsString(fields[wizard.FieldPostalCode]),
		ContactNumber: wizard.AsString(fields[wizard.FieldContact]),
		Email:         strings.TrimSpace(wizard.AsString(fields[wizard.FieldEmail])),
		Amenities:     jsonList(wizard.AsList(fields[wizard.FieldAmenities])),
		Fields:        extraFields(in.Schema, fields),
		Images:        jsonList(urls),
		Available:     true,
	}
	if c := in.Draft.Coordinates; c != nil {
		lat, lng := c.Lat, c.Lng
		listing.Latitude = &lat
		listing.Longitude = &lng
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(listing).Error; err != nil {
			return err
		}
		return tx.Create(&domain.Notification{
			UserID:    in.OwnerID,
			Kind:      domain.NotifyListingCreated,
			Message:   fmt.Sprintf("Your %s listing %q is live", in.Schema.Type, title),
			ListingID: &listing.ID,
		}).Error
	})
	if err != nil {
		s.discardImages(urls)
		return nil, err
	}
	return listing, nil
}

func (s *Service) storeImages(ctx context.Context, d wizard.Draft) ([]string, error) {
	all := d.Images.All()
	urls := make([]string, 0, len(all))
	if s.Images == nil {
		return nil, fmt.Errorf("listings: no image store configured")
	}
	for _, img := range all {
		url, err := s.Images.Save(ctx, img.Name, img.ContentType, img.Data)
		if err != nil {
			s.discardImages(urls)
			return nil, fmt.Errorf("store image %s: %w", img.Name, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *Service) discardImages(urls []string) {
	for _, u := range urls {
		if err := s.Images.Delete(context.Background(), u); err != nil {
			log.Warn().Err(err).Str("url", u).Msg("listings: failed to discard image")
		}
	}
}

func extraFields(schema *wizard.Schema, fields map[string]interface{}) datatypes.JSON {
	out := map[string]interface{}{}
	for k, v := range fields {
		if columnFields[k] || k == schema.TitleField || k == schema.CategoryField || v == nil {
			continue
		}
		if schema.IsArrayField(k) {
			out[k] = wizard.AsList(v)
			continue
		}
		out[k] = v
	}
	b, _ := json.Marshal(out)
	return datatypes.JSON(b)
}

func jsonList(items []string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items)
	return datatypes.JSON(b)
}

// Mine returns the owner's listings, newest first.
func (s *Service) Mine(ctx context.Context, ownerID uuid.UUID) ([]domain.Listing, error) {
	var out []domain.Listing
	err := s.DB.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&out).Error
	return out, err
}

// Get returns one listing.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	var l domain.Listing
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (s *Service) owned(ctx context.Context, ownerID, id uuid.UUID) (*domain.Listing, error) {
	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return l, nil
}

// SetAvailability toggles whether tenants can find and book the listing.
func (s *Service) SetAvailability(ctx context.Context, ownerID, id uuid.UUID, available bool) (*domain.Listing, error) {
	l, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(l).Update("available", available).Error; err != nil {
		return nil, err
	}
	l.Available = available
	return l, nil
}

// Delete soft-deletes the listing.
func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	l, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Delete(l).Error
}

// Search returns available listings matching f, newest first.
func (s *Service) Search(ctx context.Context, f filters.SearchFilter) ([]domain.Listing, error) {
	q := s.DB.WithContext(ctx).Where("available = ?", true)
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if city := strings.TrimSpace(f.City); city != "" {
		q = q.Where("LOWER(city) = LOWER(?)", city)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	var rows []domain.Listing
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	amenity := strings.ToLower(strings.TrimSpace(f.Amenity))
	if amenity == "" {
		return rows, nil
	}
	out := make([]domain.Listing, 0, len(rows))
	for _, l := range rows {
		for _, a := range l.AmenityList() {
			if strings.ToLower(a) == amenity {
				out = append(out, l)
				break
			}
		}
	}
	return out, nil
}
