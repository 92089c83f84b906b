package v1_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/vidalaw/intake-api/app/logic/v1"
	"github.com/vidalaw/intake-api/pkg/errors"
	"github.com/vidalaw/intake-api/pkg/types"
)

func Test_LetterLifecycle(t *testing.T) {
	core := NewCore(t)
	ctx := context.Background()
	logic := v1.NewLetterLogic(ctx, core)

	letter, err := logic.CreateLetter("J. Morales")
	require.NoError(t, err)
	assert.Equal(t, types.LETTER_STATUS_PENDING, letter.Status)

	// first save moves pending to draft
	require.NoError(t, logic.SaveFields(letter.ID, types.FormFields{
		"writer_name": "Ana Delgado",
	}))
	saved, err := logic.GetLetter(letter.ID)
	require.NoError(t, err)
	assert.Equal(t, types.LETTER_STATUS_DRAFT, saved.Status)
	assert.Equal(t, "Ana Delgado", saved.Fields["writer_name"])

	// a second save with a disjoint key keeps the first one
	require.NoError(t, logic.SaveFields(letter.ID, types.FormFields{
		"character_description": "dependable, honest, a good neighbor",
	}))
	saved, err = logic.GetLetter(letter.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Delgado", saved.Fields["writer_name"])
	assert.Equal(t, "dependable, honest, a good neighbor", saved.Fields["character_description"])

	finalized, err := logic.FinalizeLetter(letter.ID, nil, []byte("png-bytes"), false)
	require.NoError(t, err)
	assert.Equal(t, types.LETTER_STATUS_SIGNED, finalized.Status)
	assert.NotEmpty(t, finalized.SignatureKey)
	assert.NotZero(t, finalized.FinalizedAt)

	// frozen after finalization
	err = logic.SaveFields(letter.ID, types.FormFields{"writer_name": "someone else"})
	var cerr *errors.CustomizedError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 409, cerr.GetCode())

	_, err = logic.FinalizeLetter(letter.ID, nil, []byte("again"), false)
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 409, cerr.GetCode())
}

func Test_FinalizeLetterReportsMissingFields(t *testing.T) {
	core := NewCore(t)
	ctx := context.Background()
	logic := v1.NewLetterLogic(ctx, core)

	letter, err := logic.CreateLetter("R. Quintero")
	require.NoError(t, err)

	_, err = logic.FinalizeLetter(letter.ID, types.FormFields{
		"writer_name": "Ana Delgado",
	}, []byte("png-bytes"), false)

	var cerr *errors.CustomizedError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 422, cerr.GetCode())
	assert.Equal(t, []string{"character_description"}, cerr.Data()["missing_fields"])

	// the refused finalize rolls back as a unit, closing patch included
	saved, err := logic.GetLetter(letter.ID)
	require.NoError(t, err)
	assert.Equal(t, types.LETTER_STATUS_PENDING, saved.Status)
	assert.Empty(t, saved.Fields["writer_name"])
}

// An unsigned, incomplete finalize still reports the field list; the writer
// learns everything left to do in one response instead of chasing the
// signature first.
func Test_FinalizeWithoutSignatureStillNamesMissingFields(t *testing.T) {
	core := NewCore(t)
	logic := v1.NewLetterLogic(context.Background(), core)

	letter, err := logic.CreateLetter("P. Nwosu")
	require.NoError(t, err)
	require.NoError(t, logic.SaveFields(letter.ID, types.FormFields{
		"writer_name": "C. Eze",
	}))

	_, err = logic.FinalizeLetter(letter.ID, nil, nil, false)
	var cerr *errors.CustomizedError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 422, cerr.GetCode())
	assert.Equal(t, []string{"character_description"}, cerr.Data()["missing_fields"])
}

func Test_FinalizeLetterRequiresSignature(t *testing.T) {
	core := NewCore(t)
	logic := v1.NewLetterLogic(context.Background(), core)

	letter, err := logic.CreateLetter("M. Santos")
	require.NoError(t, err)

	// with the form complete the only thing left is the signature image
	_, err = logic.FinalizeLetter(letter.ID, types.FormFields{
		"writer_name":           "D. Okoye",
		"character_description": "steady, generous with his time",
	}, nil, false)
	var cerr *errors.CustomizedError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 400, cerr.GetCode())
}

func Test_ConcurrentDisjointSavesBothLand(t *testing.T) {
	core := NewCore(t)
	ctx := context.Background()
	logic := v1.NewLetterLogic(ctx, core)

	letter, err := logic.CreateLetter("G. Mbeki")
	require.NoError(t, err)

	patches := []types.FormFields{
		{"writer_name": "S. Naidoo"},
		{"character_description": "a pillar of the congregation"},
		{"relationship": "employer"},
		{"years_known": "9"},
	}

	var wg sync.WaitGroup
	errs := make([]error, len(patches))
	for i, patch := range patches {
		wg.Add(1)
		go func(i int, patch types.FormFields) {
			defer wg.Done()
			errs[i] = logic.SaveFields(letter.ID, patch)
		}(i, patch)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	// the merge happens inside the database, so every key survives the race
	saved, err := logic.GetLetter(letter.ID)
	require.NoError(t, err)
	assert.Equal(t, types.LETTER_STATUS_DRAFT, saved.Status)
	assert.Equal(t, "S. Naidoo", saved.Fields["writer_name"])
	assert.Equal(t, "a pillar of the congregation", saved.Fields["character_description"])
	assert.Equal(t, "employer", saved.Fields["relationship"])
	assert.Equal(t, "9", saved.Fields["years_known"])
}

func Test_MarkLetterMailedSkipsSignature(t *testing.T) {
	core := NewCore(t)
	logic := v1.NewLetterLogic(context.Background(), core)

	letter, err := logic.CreateLetter("T. Alvarez")
	require.NoError(t, err)

	finalized, err := logic.FinalizeLetter(letter.ID, types.FormFields{
		"writer_name":           "Fr. Miguel Torres",
		"character_description": "known him fifteen years through the parish",
	}, nil, true)
	require.NoError(t, err)
	assert.Equal(t, types.LETTER_STATUS_SUBMITTED, finalized.Status)
	assert.Empty(t, finalized.SignatureKey)
}
