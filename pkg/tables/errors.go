package tables

import (
	"errors"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
)

const codeTableAlreadyExists = "TableAlreadyExists"

// IsNotFound reports whether err is a table service 404 response, covering
// both missing tables and missing entities.
func IsNotFound(err error) bool {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsAlreadyExists reports whether err indicates the table already exists.
func IsAlreadyExists(err error) bool {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return respErr.ErrorCode == codeTableAlreadyExists
	}
	return false
}
