package anthropic

import (
	"errors"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"

	ai "github.com/spetersoncode/toolrun"
)

// wrapError categorizes API errors. The API signals overload with 529,
// which the status mapping already treats as transient.
func wrapError(err error) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	var header http.Header
	if apiErr.Response != nil {
		header = apiErr.Response.Header
	}
	return ai.StatusError(ai.ProviderAnthropic, apiErr.StatusCode, header, err)
}
