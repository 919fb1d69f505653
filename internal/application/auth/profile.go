package auth

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"roomrento-backend/internal/domain"
	"roomrento-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrNoUpdateFields = errors.New("No valid update fields provided")

// ProfileUpdate holds the editable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	Fullname *string `json:"fullname"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
}

// UpdateProfile applies the non-nil fields of in to the user's row.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileUpdate) (*domain.User, error) {
	upd := map[string]interface{}{}
	if in.Fullname != nil {
		fn := strings.TrimSpace(*in.Fullname)
		if fn == "" || !validation.IsValidFullname(fn) {
			return nil, ErrInvalidFullname
		}
		upd["fullname"] = normalizeName(fn)
	}
	if in.Email != nil {
		e := strings.TrimSpace(strings.ToLower(*in.Email))
		if !validation.IsValidEmail(e) {
			return nil, ErrInvalidEmailFormat
		}
		var dup domain.User
		if err := s.DB.WithContext(ctx).Where("email = ? AND user_id != ?", e, userID).First(&dup).Error; err == nil {
			return nil, ErrEmailTaken
		}
		upd["email"] = e
	}
	if in.Phone != nil {
		p := strings.TrimSpace(*in.Phone)
		if p != "" && !validation.IsValidPhone(p) {
			return nil, ErrInvalidPhone
		}
		upd["phone"] = p
	}
	if in.Password != nil {
		if !validation.IsValidPassword(*in.Password) {
			return nil, ErrInvalidPassword
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), 10)
		if err != nil {
			return nil, err
		}
		upd["password_hash"] = string(hash)
	}
	if len(upd) == 0 {
		return nil, ErrNoUpdateFields
	}

	res := s.DB.WithContext(ctx).Model(&domain.User{}).Where("user_id = ?", userID).Updates(upd)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotAuthenticated
	}
	return s.Find(ctx, userID)
}

// normalizeName title-cases each word and collapses runs of whitespace.
func normalizeName(s string) string {
	var b strings.Builder
	capitalize := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsSpace(r) {
			if !capitalize {
				b.WriteRune(' ')
				capitalize = true
			}
			continue
		}
		if capitalize {
			b.WriteRune(unicode.ToUpper(r))
			capitalize = false
		} else {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
