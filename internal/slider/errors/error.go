// Package errors provides custom error types for slider-related operations.
package errors

import "errors"

var ErrSliderNotFound = errors.New("slider not found")
var ErrReadSliders = errors.New("failed to read sliders")
var ErrWriteSliders = errors.New("failed to write sliders")
