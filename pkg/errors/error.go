package errors

import (
	"fmt"
	"strings"
)

type Verbose interface {
	Verbose() string
}

// RichError is an error carrying a one-line summary plus optional
// detail and verbose messages for the command line surface.
type RichError interface {
	error
	Verbose
}

type richError struct {
	summary     string
	verbose     string
	printDetail func(summary string) (string, error)
	base        error
}

func (re *richError) Unwrap() error {
	return re.base
}

func (re *richError) Error() string {
	if re.printDetail == nil {
		return re.summary
	}
	message, err := re.printDetail(re.summary)
	if err != nil {
		message = fmt.Sprintf(
			"%s\n(building detailed message causes error: %s)",
			re.summary, err.Error(),
		)
	}
	return message
}

func (re *richError) Verbose() string {
	message := []string{re.Error()}
	if re.verbose != "" {
		message = append(message, " ("+re.verbose+") ")
	}

	switch base := re.base.(type) {
	case nil:
		// no-op
	case Verbose:
		message = append(message, "caused by: ", base.Verbose())
	default:
		message = append(message, "caused by: ", base.Error())
	}
	return strings.Join(message, "\n")
}

type Option func(re *richError) *richError

func New(summary string, options ...Option) RichError {
	err := &richError{summary: summary}
	for _, o := range options {
		err = o(err)
	}
	return err
}

func WithVerbose(verbose string) Option {
	return func(re *richError) *richError {
		re.verbose = verbose
		return re
	}
}

func WithDetail(printer func(summary string) (string, error)) Option {
	return func(re *richError) *richError {
		re.printDetail = printer
		return re
	}
}

func WithCause(err error) Option {
	return func(re *richError) *richError {
		re.base = err
		return re
	}
}
