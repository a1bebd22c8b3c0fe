package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/nochase/nochase/internal/model"
)

const MaxUserIDLength = 128

// ValidateIdentity checks the claims taken from a verified token. The email
// is optional; when present it must parse as an RFC 5322 address.
func ValidateIdentity(identity *model.Identity) error {
	if identity == nil || strings.TrimSpace(identity.UserID) == "" {
		return errors.New("token has no user id")
	}
	if len(identity.UserID) > MaxUserIDLength {
		return fmt.Errorf("user id is too long (max %d characters)", MaxUserIDLength)
	}

	if identity.Email == "" {
		return nil
	}
	if len(identity.Email) > 254 {
		return errors.New("email address is too long (max 254 characters)")
	}
	_, err := mail.ParseAddress(identity.Email)
	if err != nil {
		return errors.New("invalid email address format")
	}
	return nil
}
