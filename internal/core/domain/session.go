package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Session is the preset a chat has selected together with its tuned parameters.
type Session struct {
	Style      Style
	Parameters StyleParameters
}

// NewSession starts on the pencil preset with its defaults.
func NewSession() Session {
	return Session{Style: Pencil, Parameters: PencilParameters{BlurKernelSize: 21}}
}

// Select switches to style and resets its parameters to the defaults.
func (s *Session) Select(style Style) error {
	params, err := DefaultParameters(style)
	if err != nil {
		return err
	}

	s.Style = style
	s.Parameters = params

	return nil
}

// Set parses raw and assigns it to the named parameter of the active preset.
func (s *Session) Set(name, raw string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("%w: %q is not a number", ErrParameterOutOfRange, raw)
	}

	params, err := WithParameter(s.Parameters, name, v)
	if err != nil {
		return err
	}

	s.Parameters = params

	return nil
}

func (s *Session) Reset() {
	*s = NewSession()
}
