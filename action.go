package stork

import (
	"strconv"

	"github.com/pkg/errors"
)

type ActionConfigurator func(a *action)

type action struct {
	target *int64
}

// WithTarget bounds the travel: a ceiling for Up, a floor for Down.
func WithTarget(version int64) ActionConfigurator {
	return func(a *action) {
		a.target = &version
	}
}

// CreateConfigurators translates raw CLI input into action configurators.
func CreateConfigurators(target string) ([]ActionConfigurator, error) {
	var configurators []ActionConfigurator

	if target != "" {
		v, err := strconv.ParseInt(target, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidVersion, "%s", target)
		}

		configurators = append(configurators, WithTarget(v))
	}

	return configurators, nil
}
