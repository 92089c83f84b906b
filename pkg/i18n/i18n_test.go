package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Localizer(t *testing.T) {
	l := NewLocalizer("en", "es")

	en := l.Get("en", ERROR_SHARE_INVALID)
	es := l.Get("es", ERROR_SHARE_INVALID)

	assert.NotEqual(t, ERROR_SHARE_INVALID, en)
	assert.NotEqual(t, ERROR_SHARE_INVALID, es)
	assert.NotEqual(t, en, es)

	// unknown language falls back to the message id
	assert.Equal(t, ERROR_SHARE_INVALID, l.Get("fr", ERROR_SHARE_INVALID))
}

func Test_Localizer_SameMessageForAllAccessFailures(t *testing.T) {
	// not-found, expired, exhausted and wrong-password all surface the same
	// external wording; only password-required is distinguishable.
	l := NewLocalizer("en")

	generic := l.Get("en", ERROR_SHARE_INVALID)
	prompt := l.Get("en", ERROR_SHARE_PASSWORD_REQUIRED)
	assert.NotEqual(t, generic, prompt)
}
