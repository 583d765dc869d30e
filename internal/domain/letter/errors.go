package letter

import "errors"

var (
	ErrLetterNotFound     = errors.New("letter not found")
	ErrAttachmentNotFound = errors.New("letter has no attachment")
	ErrInvalidAttachment  = errors.New("attachment type is not allowed")
	ErrAttachmentTooLarge = errors.New("attachment exceeds the upload limit")
)
