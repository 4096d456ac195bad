// Package errors defines the typed failures surfaced by the render pipeline.
//
// Only InvalidContentError, InvalidDimensionsError and RenderError ever reach
// a caller of poster.Renderer. ThemeNotFoundError and AssetMissingError are
// soft: they are logged where they occur and a safe default is substituted.
package errors

import (
	"errors"
	"fmt"
)

// InvalidContentError reports content rejected before any rendering work.
type InvalidContentError struct {
	Field   string
	Message string
	Err     error
}

// NewInvalidContentError constructs an InvalidContentError.
func NewInvalidContentError(field, message string, err error) error {
	return &InvalidContentError{Field: field, Message: message, Err: err}
}

func (e *InvalidContentError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid content: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid content: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *InvalidContentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// InvalidDimensionsError reports a canvas size outside the supported range,
// or a custom resolution missing one of its axes.
type InvalidDimensionsError struct {
	Width  int
	Height int
	Min    int
	Max    int
	Reason string
}

// NewInvalidDimensionsError constructs an InvalidDimensionsError.
func NewInvalidDimensionsError(width, height, lo, hi int, reason string) error {
	return &InvalidDimensionsError{Width: width, Height: height, Min: lo, Max: hi, Reason: reason}
}

func (e *InvalidDimensionsError) Error() string {
	if e == nil {
		return ""
	}
	if e.Reason != "" {
		return fmt.Sprintf("invalid dimensions %dx%d: %s", e.Width, e.Height, e.Reason)
	}
	return fmt.Sprintf("invalid dimensions %dx%d: each axis must be within [%d, %d]", e.Width, e.Height, e.Min, e.Max)
}

// RenderError reports a failure of the vector-to-raster stage.
type RenderError struct {
	Stage string
	Err   error
}

// NewRenderError constructs a RenderError for the given stage.
func NewRenderError(stage string, err error) error {
	return &RenderError{Stage: stage, Err: err}
}

func (e *RenderError) Error() string {
	if e == nil {
		return ""
	}
	if e.Stage != "" {
		return fmt.Sprintf("render error during %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("render error: %v", e.Err)
}

// Unwrap exposes the root error.
func (e *RenderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ThemeNotFoundError is logged when a theme lookup falls back to the default.
type ThemeNotFoundError struct {
	Name     string
	Fallback string
}

func (e *ThemeNotFoundError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("theme %q not found, using %q", e.Name, e.Fallback)
}

// AssetMissingError is logged when an asset cannot be loaded and the
// background fallback chain takes over.
type AssetMissingError struct {
	Asset string
	Err   error
}

// NewAssetMissingError constructs an AssetMissingError.
func NewAssetMissingError(asset string, err error) error {
	return &AssetMissingError{Asset: asset, Err: err}
}

func (e *AssetMissingError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("asset %s unavailable: %v", e.Asset, e.Err)
	}
	return fmt.Sprintf("asset %s unavailable", e.Asset)
}

// Unwrap exposes the underlying error.
func (e *AssetMissingError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsInvalidContent reports whether err wraps an InvalidContentError.
func IsInvalidContent(err error) bool {
	var target *InvalidContentError
	return errors.As(err, &target)
}

// IsInvalidDimensions reports whether err wraps an InvalidDimensionsError.
func IsInvalidDimensions(err error) bool {
	var target *InvalidDimensionsError
	return errors.As(err, &target)
}

// IsRender reports whether err wraps a RenderError.
func IsRender(err error) bool {
	var target *RenderError
	return errors.As(err, &target)
}

// IsAssetMissing reports whether err wraps an AssetMissingError.
func IsAssetMissing(err error) bool {
	var target *AssetMissingError
	return errors.As(err, &target)
}
