package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hrstack/staff-portal-api/internal/constants"
	"github.com/hrstack/staff-portal-api/internal/mail"
	"github.com/hrstack/staff-portal-api/internal/models"
	"github.com/hrstack/staff-portal-api/internal/repository"
	"github.com/hrstack/staff-portal-api/internal/utils"
)

var (
	ErrEmailNotFound = errors.New("no active account with this email")
	ErrResetSendFail = errors.New("password reset email could not be sent")
	ErrResetInvalid  = errors.New("reset token is invalid")
	ErrResetExpired  = errors.New("reset token has expired")
	ErrUnknownRole   = errors.New("unknown role")
)

// ResetService runs the password-reset lifecycle for every tier:
// NoReset -> PendingReset -> Consumed | Expired -> NoReset.
type ResetService struct {
	stores    repository.Stores
	mailer    mail.Mailer
	portalURL string
	ttl       time.Duration
	log       zerolog.Logger
}

// NewResetService creates a new ResetService. ttl is the reset window.
func NewResetService(stores repository.Stores, mailer mail.Mailer, portalURL string, ttl time.Duration, log zerolog.Logger) *ResetService {
	return &ResetService{
		stores:    stores,
		mailer:    mailer,
		portalURL: portalURL,
		ttl:       ttl,
		log:       log,
	}
}

// Request opens a reset window for the active identity holding the email and
// mails the plaintext token. Only the sha256 digest is stored. If the mail
// cannot be sent, the pending state is rolled back and the failure surfaced:
// a reset the user never received must not stay open.
func (s *ResetService) Request(role models.Role, email string) error {
	store, ok := s.stores.ByRole(role)
	if !ok {
		return ErrUnknownRole
	}

	identity, err := store.FindActiveIdentityByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmailNotFound
		}
		return fmt.Errorf("failed to find account: %w", err)
	}

	token, tokenHash, err := utils.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	expiry := time.Now().Add(s.ttl)
	if err := store.SetResetToken(identity.GetID(), tokenHash, expiry); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	subject, body := mail.ResetMessage(identity, token, s.portalURL)
	if err := s.mailer.Send(identity.GetEmail(), subject, body); err != nil {
		s.log.Error().Err(err).
			Str("role", string(role)).
			Uint64("id", identity.GetID()).
			Msg("password reset email failed, rolling back pending reset")

		if clearErr := store.ClearResetToken(identity.GetID()); clearErr != nil {
			s.log.Error().Err(clearErr).Uint64("id", identity.GetID()).
				Msg("failed to roll back pending reset")
		}
		return ErrResetSendFail
	}

	return nil
}

// Consume spends a reset token and sets the new password. The check-and-clear
// runs as one conditional update, so a token presented twice concurrently is
// honored at most once.
func (s *ResetService) Consume(role models.Role, token, newPassword string) error {
	store, ok := s.stores.ByRole(role)
	if !ok {
		return ErrUnknownRole
	}
	if len(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	tokenHash := utils.HashResetToken(token)

	newHash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	consumed, err := store.ConsumeResetToken(tokenHash, newHash)
	if err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}
	if consumed {
		return nil
	}

	// Nothing matched: distinguish an expired pending reset from a token
	// that was never issued (or already spent). An expired window is cleared
	// on the way out so the state machine lands back at NoReset.
	identity, err := store.FindIdentityByResetTokenHash(tokenHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResetInvalid
		}
		return fmt.Errorf("failed to inspect reset token: %w", err)
	}

	if clearErr := store.ClearResetToken(identity.GetID()); clearErr != nil {
		s.log.Error().Err(clearErr).Uint64("id", identity.GetID()).
			Msg("failed to clear expired reset token")
	}
	return ErrResetExpired
}
