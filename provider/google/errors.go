package google

import (
	"errors"

	"google.golang.org/genai"

	ai "github.com/spetersoncode/toolrun"
)

// wrapError categorizes API errors. genai.APIError carries no headers, so
// Retry-After is never available.
func wrapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return ai.StatusError(ai.ProviderGoogle, apiErr.Code, nil, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return ai.StatusError(ai.ProviderGoogle, apiErrPtr.Code, nil, err)
	}
	return err
}
