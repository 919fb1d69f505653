package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roomrento-backend/internal/application/emails"
	"roomrento-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrListingNotFound    = errors.New("Listing not found")
	ErrListingUnavailable = errors.New("Listing is not available")
	ErrOwnListing         = errors.New("You cannot book your own listing")
	ErrAlreadyRequested   = errors.New("You already have a pending request for this listing")
	ErrBookingNotFound    = errors.New("Booking not found")
	ErrInvalidStatus      = errors.New("Status must be approved or rejected")
	ErrAlreadyDecided     = errors.New("Booking has already been decided")
	ErrNotOwner           = errors.New("You do not own this listing")
)

type Service struct {
	DB     *gorm.DB
	Emails emails.Sender // optional
}

type RequestInput struct {
	TenantID  uuid.UUID
	ListingID uuid.UUID
	Message   string
	MoveIn    *time.Time
}

// Request creates a pending booking and notifies the owner in the same transaction.
func (s *Service) Request(ctx context.Context, in RequestInput) (*domain.Booking, error) {
	var listing domain.Listing
	var booking *domain.Booking

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", in.ListingID).First(&listing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrListingNotFound
			}
			return err
		}
		if listing.OwnerID == in.TenantID {
			return ErrOwnListing
		}
		if !listing.Available {
			return ErrListingUnavailable
		}
		var pending int64
		if err := tx.Model(&domain.Booking{}).
			Where("listing_id = ? AND tenant_id = ? AND status = ?", listing.ID, in.TenantID, domain.BookingPending).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending > 0 {
			return ErrAlreadyRequested
		}

		booking = &domain.Booking{
			ListingID: listing.ID,
			OwnerID:   listing.OwnerID,
			TenantID:  in.TenantID,
			Message:   in.Message,
			MoveIn:    in.MoveIn,
			Status:    domain.BookingPending,
		}
		if err := tx.Create(booking).Error; err != nil {
			return err
		}
		return tx.Create(&domain.Notification{
			UserID:    listing.OwnerID,
			Kind:      domain.NotifyBookingRequested,
			Message:   fmt.Sprintf("New booking request for %q", listing.Title),
			ListingID: &listing.ID,
			BookingID: &booking.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	if s.Emails != nil {
		owner, tenant := s.users(ctx, listing.OwnerID, in.TenantID)
		if owner != nil {
			req := emails.BookingRequest{
				OwnerEmail:   owner.Email,
				OwnerName:    owner.Fullname,
				ListingTitle: listing.Title,
				Message:      in.Message,
			}
			if tenant != nil {
				req.TenantName = tenant.Fullname
			}
			if err := s.Emails.SendBookingRequested(ctx, req); err != nil {
				log.Error().Err(err).Str("booking_id", booking.ID.String()).Msg("bookings: request email failed")
			}
		}
	}
	return booking, nil
}

// Decide approves or rejects a pending booking of one of the owner's listings.
func (s *Service) Decide(ctx context.Context, ownerID, bookingID uuid.UUID, status string) (*domain.Booking, error) {
	if status != domain.BookingApproved && status != domain.BookingRejected {
		return nil, ErrInvalidStatus
	}
	var booking domain.Booking
	var listing domain.Listing

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", bookingID).First(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.OwnerID != ownerID {
			return ErrNotOwner
		}
		if booking.Status != domain.BookingPending {
			return ErrAlreadyDecided
		}
		if err := tx.Unscoped().Where("id = ?", booking.ListingID).First(&listing).Error; err != nil {
			return err
		}
		// Only a still-pending row may change; a concurrent decision wins.
		res := tx.Model(&booking).Where("status = ?", domain.BookingPending).Update("status", status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyDecided
		}
		booking.Status = status

		kind := domain.NotifyBookingRejected
		if status == domain.BookingApproved {
			kind = domain.NotifyBookingApproved
		}
		return tx.Create(&domain.Notification{
			UserID:    booking.TenantID,
			Kind:      kind,
			Message:   fmt.Sprintf("Your booking request for %q was %s", listing.Title, status),
			ListingID: &listing.ID,
			BookingID: &booking.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	if s.Emails != nil {
		if _, tenant := s.users(ctx, uuid.Nil, booking.TenantID); tenant != nil {
			err := s.Emails.SendBookingDecision(ctx, emails.BookingDecision{
				TenantEmail:  tenant.Email,
				TenantName:   tenant.Fullname,
				ListingTitle: listing.Title,
				Status:       status,
			})
			if err != nil {
				log.Error().Err(err).Str("booking_id", booking.ID.String()).Msg("bookings: decision email failed")
			}
		}
	}
	return &booking, nil
}

// Incoming returns the requests for the owner's listings, newest first.
func (s *Service) Incoming(ctx context.Context, ownerID uuid.UUID) ([]domain.Booking, error) {
	var out []domain.Booking
	err := s.DB.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&out).Error
	return out, err
}

// Mine returns the tenant's requests, newest first.
func (s *Service) Mine(ctx context.Context, tenantID uuid.UUID) ([]domain.Booking, error) {
	var out []domain.Booking
	err := s.DB.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s *Service) users(ctx context.Context, ownerID, tenantID uuid.UUID) (owner, tenant *domain.User) {
	var rows []domain.User
	if err := s.DB.WithContext(ctx).Where("user_id IN ?", []uuid.UUID{ownerID, tenantID}).Find(&rows).Error; err != nil {
		log.Warn().Err(err).Msg("bookings: user lookup failed")
		return nil, nil
	}
	for i := range rows {
		switch rows[i].UserID {
		case ownerID:
			owner = &rows[i]
		case tenantID:
			tenant = &rows[i]
		}
	}
	return owner, tenant
}
