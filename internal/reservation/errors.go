package reservation

import (
	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to reservation errors
const (
	TextCodeBadInput        = "RESERVATION_BAD_INPUT"
	TextCodeExternalFailure = "RESERVATION_EXTERNAL_FAILURE"
	TextCodeInternal        = "RESERVATION_INTERNAL"
)

func reservationError(
	message string,
	category goerrors.Category,
	code int,
	metadata map[string]any,
) error {
	err := goerrors.New(message, category).
		WithCode(code).
		WithTextCode(textCode(category))
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func reservationWrapError(
	source error,
	category goerrors.Category,
	message string,
	code int,
	metadata map[string]any,
) error {
	if source == nil {
		return reservationError(message, category, code, metadata)
	}
	err := goerrors.Wrap(source, category, message).
		WithCode(code).
		WithTextCode(textCode(category))
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func textCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return TextCodeBadInput
	case goerrors.CategoryExternal:
		return TextCodeExternalFailure
	default:
		return TextCodeInternal
	}
}
