// Package validator provides a small validation abstraction for request and
// dependency structs.
//
// Business code should depend on the Validator interface. The go-playground
// v10 implementation reports failures as a snake_case field to message map.
package validator
