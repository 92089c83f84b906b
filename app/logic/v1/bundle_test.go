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

func Test_BundleLifecycle(t *testing.T) {
	core := NewCore(t)
	ctx := context.Background()
	logic := v1.NewBundleLogic(ctx, core)

	bundle, err := logic.CreateBundle("E. Fuentes", "H. Fuentes")
	require.NoError(t, err)
	assert.Equal(t, types.BUNDLE_STATUS_PENDING, bundle.Status)

	file, err := logic.AddFile(bundle.ID, types.FILE_CATEGORY_IDENTIFICATION, "drivers-license.pdf", "application/pdf", []byte("%PDF-1.7 id"))
	require.NoError(t, err)
	assert.NotEmpty(t, file.FileKey)

	detail, err := logic.GetBundle(bundle.ID)
	require.NoError(t, err)
	require.Len(t, detail.Files, 1)

	submitted, err := logic.SubmitBundle(bundle.ID)
	require.NoError(t, err)
	assert.Equal(t, types.BUNDLE_STATUS_SUBMITTED, submitted.Status)
	assert.NotZero(t, submitted.FinalizedAt)

	// frozen: no more uploads, no removals, no double submit
	var cerr *errors.CustomizedError
	_, err = logic.AddFile(bundle.ID, types.FILE_CATEGORY_OTHER, "late.pdf", "application/pdf", []byte("%PDF"))
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 409, cerr.GetCode())

	err = logic.RemoveFile(bundle.ID, file.ID)
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 409, cerr.GetCode())

	_, err = logic.SubmitBundle(bundle.ID)
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 409, cerr.GetCode())
}

func Test_SubmitEmptyBundle(t *testing.T) {
	core := NewCore(t)
	logic := v1.NewBundleLogic(context.Background(), core)

	bundle, err := logic.CreateBundle("N. Herrera", "")
	require.NoError(t, err)

	_, err = logic.SubmitBundle(bundle.ID)
	var cerr *errors.CustomizedError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 422, cerr.GetCode())
}

func Test_AddFileValidation(t *testing.T) {
	core := NewCore(t)
	logic := v1.NewBundleLogic(context.Background(), core)

	bundle, err := logic.CreateBundle("P. Ibarra", "")
	require.NoError(t, err)

	var cerr *errors.CustomizedError

	_, err = logic.AddFile(bundle.ID, types.FileCategory("passport"), "a.pdf", "application/pdf", []byte("x"))
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 400, cerr.GetCode())

	_, err = logic.AddFile(bundle.ID, types.FILE_CATEGORY_OTHER, "a.exe", "application/octet-stream", []byte("x"))
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 415, cerr.GetCode())

	oversized := make([]byte, core.Cfg().Share.MaxUploadBytes+1)
	_, err = logic.AddFile(bundle.ID, types.FILE_CATEGORY_OTHER, "big.pdf", "application/pdf", oversized)
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 413, cerr.GetCode())
}

// A late upload racing the sponsor's submit either lands before the freeze
// or is refused outright; a submitted bundle never gains a file afterwards.
func Test_AddFileRacingSubmit(t *testing.T) {
	core := NewCore(t)
	ctx := context.Background()
	logic := v1.NewBundleLogic(ctx, core)

	bundle, err := logic.CreateBundle("V. Antwi", "K. Antwi")
	require.NoError(t, err)

	_, err = logic.AddFile(bundle.ID, types.FILE_CATEGORY_IDENTIFICATION, "id.pdf", "application/pdf", []byte("%PDF id"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	var addErr, submitErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, addErr = logic.AddFile(bundle.ID, types.FILE_CATEGORY_PROOF_INCOME, "paystub.pdf", "application/pdf", []byte("%PDF pay"))
	}()
	go func() {
		defer wg.Done()
		_, submitErr = logic.SubmitBundle(bundle.ID)
	}()
	wg.Wait()

	// the bundle already holds a file, so the submit always goes through
	require.NoError(t, submitErr)

	detail, err := logic.GetBundle(bundle.ID)
	require.NoError(t, err)
	assert.Equal(t, types.BUNDLE_STATUS_SUBMITTED, detail.Status)

	if addErr == nil {
		// the upload beat the freeze and is part of the submitted bundle
		require.Len(t, detail.Files, 2)
	} else {
		var cerr *errors.CustomizedError
		require.ErrorAs(t, addErr, &cerr)
		assert.Equal(t, 409, cerr.GetCode())
		require.Len(t, detail.Files, 1)
	}
}

func Test_RemoveFileWhilePending(t *testing.T) {
	core := NewCore(t)
	ctx := context.Background()
	logic := v1.NewBundleLogic(ctx, core)

	bundle, err := logic.CreateBundle("S. Ochoa", "")
	require.NoError(t, err)

	file, err := logic.AddFile(bundle.ID, types.FILE_CATEGORY_RESIDENCE, "lease.pdf", "application/pdf", []byte("%PDF lease"))
	require.NoError(t, err)

	require.NoError(t, logic.RemoveFile(bundle.ID, file.ID))

	detail, err := logic.GetBundle(bundle.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Files)
}
