package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrTransfer          = errors.New("transfer failed")
	ErrRemoteProcessing  = errors.New("remote processing failed")
	ErrIncompleteAsset   = errors.New("incomplete asset")
	ErrProcessingTimeout = errors.New("processing timed out")
	ErrMalformedResponse = errors.New("malformed response")
	ErrInference         = errors.New("inference failed")
	ErrRecommendation    = errors.New("recommendation failed")
	ErrEmptyCart         = errors.New("cart is empty")
)
