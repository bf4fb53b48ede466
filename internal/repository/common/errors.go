package common

import "errors"

// ErrAlreadyExists возвращается при нарушении уникального ключа.
var ErrAlreadyExists = errors.New("entity already exists")
