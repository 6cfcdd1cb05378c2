package model

import (
	"strings"

	"github.com/google/uuid"
)

type IdentityMetadata struct {
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

// Identity is the signed-in user as asserted by the auth provider.
type Identity struct {
	ID       uuid.UUID        `json:"id"`
	Email    string           `json:"email"`
	Metadata IdentityMetadata `json:"user_metadata"`
}

// Username is the local part of the email, or a handle derived from the id
// when the provider did not supply an email.
func (i Identity) Username() string {
	if local, _, ok := strings.Cut(i.Email, "@"); ok && local != "" {
		return local
	}
	return "user" + strings.ReplaceAll(i.ID.String(), "-", "")[:8]
}

func (i Identity) Author() *Author {
	name := i.Username()
	if i.Metadata.FullName != nil && *i.Metadata.FullName != "" {
		name = *i.Metadata.FullName
	}

	return &Author{
		Name:      name,
		AvatarURL: i.Metadata.AvatarURL,
		Handle:    "@" + i.Username(),
	}
}

func (i Identity) Profile() Profile {
	return Profile{
		ID:          i.ID,
		Username:    i.Username(),
		DisplayName: i.Metadata.FullName,
		AvatarURL:   i.Metadata.AvatarURL,
	}
}
