package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLetterStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from LetterStatus
		to   LetterStatus
		want bool
	}{
		{LETTER_STATUS_PENDING, LETTER_STATUS_DRAFT, true},
		{LETTER_STATUS_PENDING, LETTER_STATUS_SIGNED, false},
		{LETTER_STATUS_DRAFT, LETTER_STATUS_SIGNED, true},
		{LETTER_STATUS_DRAFT, LETTER_STATUS_SUBMITTED, true},
		{LETTER_STATUS_DRAFT, LETTER_STATUS_PENDING, false},
		{LETTER_STATUS_SIGNED, LETTER_STATUS_DRAFT, false},
		{LETTER_STATUS_SIGNED, LETTER_STATUS_SUBMITTED, false},
		{LETTER_STATUS_SUBMITTED, LETTER_STATUS_SIGNED, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestLetterStatus_Terminal(t *testing.T) {
	assert.False(t, LETTER_STATUS_PENDING.Terminal())
	assert.False(t, LETTER_STATUS_DRAFT.Terminal())
	assert.True(t, LETTER_STATUS_SIGNED.Terminal())
	assert.True(t, LETTER_STATUS_SUBMITTED.Terminal())
}

func TestBundleStatus_Terminal(t *testing.T) {
	assert.False(t, BUNDLE_STATUS_PENDING.Terminal())
	assert.True(t, BUNDLE_STATUS_SUBMITTED.Terminal())
}

func TestBondStatus_Valid(t *testing.T) {
	for _, s := range []BondStatus{
		BOND_STATUS_NEW, BOND_STATUS_REVIEWED, BOND_STATUS_IN_PROGRESS,
		BOND_STATUS_COMPLETED, BOND_STATUS_ARCHIVED,
	} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, BondStatus("denied").Valid())
	assert.False(t, BondStatus("").Valid())
}

func TestFileCategory_Valid(t *testing.T) {
	assert.True(t, FILE_CATEGORY_IDENTIFICATION.Valid())
	assert.True(t, FILE_CATEGORY_OTHER.Valid())
	assert.False(t, FileCategory("passport").Valid())
	assert.False(t, FileCategory("").Valid())
}
