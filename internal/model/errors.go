package model

import "errors"

var ErrFieldsNotAllowedToUpdate = errors.New("fields not allowed to update")
