package submit

import "github.com/five82/quill/internal/client"

// Result is the outcome of one submission: either an ErrorResult or a
// SuccessResult.
type Result interface {
	isResult()
}

// ErrorResult carries a failure message. Transport is set when the request
// never produced a usable reply.
type ErrorResult struct {
	Message   string
	Transport bool
}

// SuccessResult carries the content fields the server returned. Absent fields
// are nil.
type SuccessResult struct {
	Readme  *string
	Debug   *string
	Suggest *string
}

func (ErrorResult) isResult()   {}
func (SuccessResult) isResult() {}

// FromResponse classifies a decoded reply. A non-empty error field wins over
// any content fields sent alongside it.
func FromResponse(resp *client.Response) Result {
	if resp == nil {
		return SuccessResult{}
	}
	if resp.Error != nil && *resp.Error != "" {
		return ErrorResult{Message: *resp.Error}
	}
	return SuccessResult{
		Readme:  resp.Readme,
		Debug:   resp.Debug,
		Suggest: resp.Suggest,
	}
}

// FromTransportError wraps a failure to complete the round trip.
func FromTransportError(err error) Result {
	return ErrorResult{Message: err.Error(), Transport: true}
}
