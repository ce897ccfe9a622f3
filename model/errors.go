// Package model - error taxonomy shared by the sources, the store and the CLI
package model

import "errors"

var (
	// ErrNetwork marks a request that failed, timed out or returned a non-success status
	ErrNetwork = errors.New("network error")
	// ErrParse marks a payload that is not valid JSON or lacks an expected field
	ErrParse = errors.New("parse error")
	// ErrIO marks a local file read or write failure
	ErrIO = errors.New("io error")
)
