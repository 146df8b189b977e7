package backend

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeNotFound      = "EDITOR_NOT_FOUND"
	TextCodeInvalidID     = "EDITOR_INVALID_STRUCTURE_ID"
	TextCodeNotGroup      = "EDITOR_NOT_GROUP_CONTAINER"
	TextCodeStorageFailed = "EDITOR_STORAGE_FAILED"
)

var (
	ErrInvalidStructureID = errors.New("backend: invalid structure id")
	ErrNotGroupContainer  = errors.New("backend: element is not a group container")
)

func invalidID(value string) error {
	return goerrors.Wrap(ErrInvalidStructureID, goerrors.CategoryValidation, "invalid structure id "+value).
		WithTextCode(TextCodeInvalidID)
}

func storageError(err error, message string) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	if IsNotFound(err) {
		var target *NotFoundError
		if errors.As(err, &target) {
			return notFound(target.Resource, target.Key)
		}
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, message).WithTextCode(TextCodeStorageFailed)
}
