package http

import (
	"errors"
	"fmt"
)

var errNotFound = errors.New("route not found")

func errMethodNotAllowed(method string) error {
	return fmt.Errorf("method %s not allowed", method)
}
