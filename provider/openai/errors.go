package openai

import (
	"errors"
	"net/http"

	"github.com/openai/openai-go"

	ai "github.com/spetersoncode/toolrun"
)

// wrapError categorizes API errors. Transport errors pass through untouched
// so the retry heuristics can inspect them.
func wrapError(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	var header http.Header
	if apiErr.Response != nil {
		header = apiErr.Response.Header
	}
	return ai.StatusError(ai.ProviderOpenAI, apiErr.StatusCode, header, err)
}
