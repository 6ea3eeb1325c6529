package response

import "errors"

var (
	errStoreUnavailable = errors.New("the data store is temporarily unavailable")
	errSerialization    = errors.New("the response could not be serialized")
	errInternal         = errors.New("internal server error")
)
