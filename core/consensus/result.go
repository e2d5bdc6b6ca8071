/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package consensus

import (
	"fmt"
	"strings"
)

// ErrorLister is implemented by every validation result.
type ErrorLister interface {
	ErrorList() []Error
}

// ValidationResult collects consensus errors and, on success, the data a
// validation step produced.
type ValidationResult[T any] struct {
	Errors  []Error
	data    T
	hasData bool
}

// SimpleValidationResult is a result that carries no data.
type SimpleValidationResult = ValidationResult[struct{}]

func NewValidationResult[T any]() *ValidationResult[T] {
	return &ValidationResult[T]{}
}

func NewValidationResultWithData[T any](data T) *ValidationResult[T] {
	return &ValidationResult[T]{data: data, hasData: true}
}

func NewValidationResultWithErrors[T any](errs ...Error) *ValidationResult[T] {
	r := &ValidationResult[T]{}
	r.AddErrors(errs...)
	return r
}

// NewSimpleValidationResult returns a data-less result holding errs.
func NewSimpleValidationResult(errs ...Error) *SimpleValidationResult {
	return NewValidationResultWithErrors[struct{}](errs...)
}

// AddError appends err. Nil errors are ignored.
func (r *ValidationResult[T]) AddError(err Error) {
	if err == nil {
		return
	}
	r.Errors = append(r.Errors, err)
}

func (r *ValidationResult[T]) AddErrors(errs ...Error) {
	for _, err := range errs {
		r.AddError(err)
	}
}

// Merge appends the errors of other, which may carry a different data type.
func (r *ValidationResult[T]) Merge(other ErrorLister) {
	if other == nil {
		return
	}
	r.AddErrors(other.ErrorList()...)
}

func (r *ValidationResult[T]) ErrorList() []Error {
	if r == nil {
		return nil
	}
	return r.Errors
}

func (r *ValidationResult[T]) IsValid() bool {
	return r == nil || len(r.Errors) == 0
}

// FirstError returns the first collected error or nil.
func (r *ValidationResult[T]) FirstError() Error {
	if r.IsValid() {
		return nil
	}
	return r.Errors[0]
}

func (r *ValidationResult[T]) SetData(data T) {
	r.data = data
	r.hasData = true
}

// Data returns the data regardless of errors.
func (r *ValidationResult[T]) Data() T {
	return r.data
}

func (r *ValidationResult[T]) HasData() bool {
	return r.hasData
}

// IntoData returns the data of a valid result. An invalid result, or a valid
// one without data, yields an error.
func (r *ValidationResult[T]) IntoData() (T, error) {
	var zero T
	if !r.IsValid() {
		return zero, &InvalidResultError{Errors: r.Errors}
	}
	if !r.hasData {
		return zero, fmt.Errorf("validation result has no data")
	}
	return r.data, nil
}

// Simple drops the data and keeps the errors.
func (r *ValidationResult[T]) Simple() *SimpleValidationResult {
	return NewSimpleValidationResult(r.ErrorList()...)
}

// Codes lists the error codes in the order the errors were collected.
func (r *ValidationResult[T]) Codes() []uint32 {
	codes := make([]uint32, 0, len(r.ErrorList()))
	for _, e := range r.ErrorList() {
		codes = append(codes, e.Code())
	}
	return codes
}

// InvalidResultError is returned when the data of an invalid result is
// requested.
type InvalidResultError struct {
	Errors []Error
}

func (e *InvalidResultError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = fmt.Sprintf("[%d] %s", err.Code(), err.Error())
	}
	return "validation result is invalid: " + strings.Join(msgs, "; ")
}
