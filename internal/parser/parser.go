// Package parser converts raw response bodies into structured values based
// on a declared content type.
package parser

import "errors"

const (
	// TypeJSON declares a JSON body.
	TypeJSON = "json"
	// TypeCSV declares a CSV body.
	TypeCSV = "csv"
)

// ErrEmptyData is returned when a body is empty or absent.
var ErrEmptyData = errors.New("empty data")

// ErrUnsupportedType is returned for a declared type other than json or csv.
var ErrUnsupportedType = errors.New("unsupported data type")

// SupportedTypes lists the body types generic sources may declare, in the
// order the configuration UI presents them.
func SupportedTypes() []string {
	return []string{TypeJSON, TypeCSV}
}

// IsSupportedType reports whether typ is a known body type.
func IsSupportedType(typ string) bool {
	return typ == TypeJSON || typ == TypeCSV
}
