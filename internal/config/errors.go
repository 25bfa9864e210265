package config

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to configuration errors
const (
	TextCodeConfigInvalid  = "CONFIG_INVALID"
	TextCodeConfigNotFound = "CONFIG_NOT_FOUND"
)

func configWrapError(source error, category goerrors.Category, message string, metadata map[string]any) error {
	code, textCode := http.StatusBadRequest, TextCodeConfigInvalid
	if category == goerrors.CategoryNotFound {
		code, textCode = http.StatusNotFound, TextCodeConfigNotFound
	}

	var err *goerrors.Error
	if source == nil {
		err = goerrors.New(message, category)
	} else {
		err = goerrors.Wrap(source, category, message)
	}
	err = err.WithCode(code).WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}
