package v1_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/vidalaw/intake-api/app/logic/v1"
	"github.com/vidalaw/intake-api/pkg/errors"
	"github.com/vidalaw/intake-api/pkg/security"
	"github.com/vidalaw/intake-api/pkg/types"
)

func Test_BondSubmissionTriage(t *testing.T) {
	core := NewCore(t)
	ctx := v1.InjectTokenClaims(context.Background(), security.NewTokenClaims("paralegal@vidalaw", "staff", 0))
	logic := v1.NewBondLogic(ctx, core)

	bond, err := logic.CreateSubmission(v1.CreateBondSubmissionRequest{
		DetaineeName:  "O. Ramirez",
		ContactName:   "L. Ramirez",
		ContactPhone:  "555-0100",
		DetentionSite: "Port Isabel",
	})
	require.NoError(t, err)
	assert.Equal(t, types.BOND_STATUS_NEW, bond.Status)

	detail, err := logic.GetSubmission(bond.ID)
	require.NoError(t, err)
	require.Len(t, detail.History, 1)
	assert.Equal(t, types.BOND_STATUS_NEW, detail.History[0].Status)

	// statuses move laterally in any direction; only the trail is permanent
	detail, err = logic.UpdateStatus(bond.ID, types.BOND_STATUS_IN_PROGRESS, "bond hearing set")
	require.NoError(t, err)
	assert.Equal(t, types.BOND_STATUS_IN_PROGRESS, detail.Status)

	detail, err = logic.UpdateStatus(bond.ID, types.BOND_STATUS_NEW, "hearing postponed, back to queue")
	require.NoError(t, err)
	assert.Equal(t, types.BOND_STATUS_NEW, detail.Status)
	require.Len(t, detail.History, 3)
	last := detail.History[len(detail.History)-1]
	assert.Equal(t, "hearing postponed, back to queue", last.Note)
	assert.Equal(t, "paralegal@vidalaw", last.Principal)
}

func Test_BondSubmissionValidation(t *testing.T) {
	core := NewCore(t)
	logic := v1.NewBondLogic(context.Background(), core)

	var cerr *errors.CustomizedError
	_, err := logic.CreateSubmission(v1.CreateBondSubmissionRequest{ContactName: "only contact"})
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 400, cerr.GetCode())

	_, err = logic.UpdateStatus("whatever", types.BondStatus("denied"), "")
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 400, cerr.GetCode())
}

func Test_UpdateMissingBondSubmission(t *testing.T) {
	core := NewCore(t)
	logic := v1.NewBondLogic(context.Background(), core)

	_, err := logic.UpdateStatus("00000000-0000-0000-0000-000000000000", types.BOND_STATUS_REVIEWED, "")
	var cerr *errors.CustomizedError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 404, cerr.GetCode())
}
