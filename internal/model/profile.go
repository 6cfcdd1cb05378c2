package model

import "github.com/google/uuid"

type Profile struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName *string   `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
}

func (p Profile) Author() *Author {
	name := p.Username
	if p.DisplayName != nil && *p.DisplayName != "" {
		name = *p.DisplayName
	}

	return &Author{
		Name:      name,
		AvatarURL: p.AvatarURL,
		Handle:    "@" + p.Username,
	}
}
