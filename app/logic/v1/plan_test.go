package v1_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/vidalaw/intake-api/app/logic/v1"
	"github.com/vidalaw/intake-api/pkg/errors"
	"github.com/vidalaw/intake-api/pkg/types"
)

func Test_PlanReadOnlyThroughGrant(t *testing.T) {
	core := NewCore(t)
	ctx := context.Background()

	plan, err := v1.NewPlanLogic(ctx, core).CreatePlan("A. Okafor", types.FormFields{
		"guardian_name":  "R. Okafor",
		"guardian_phone": "555-0199",
	})
	require.NoError(t, err)

	issued, err := v1.NewShareLogic(ctx, core).IssueToken(types.SHARE_KIND_PLAN, plan.ID, types.SharePolicy{})
	require.NoError(t, err)

	redeemed, err := v1.NewAccessLogic(ctx, core).Redeem(issued.Token, "")
	require.NoError(t, err)

	// the handler path re-verifies the grant string on every request
	claims, err := v1.NewAccessLogic(ctx, core).ResolveGrant(redeemed.Grant)
	require.NoError(t, err)

	viewed, err := v1.NewPlanLogic(ctx, core).GetPlanForGrant(claims)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, viewed.ID)
	assert.Equal(t, "R. Okafor", viewed.Fields["guardian_name"])
}

func Test_DeletePlanRevokesLink(t *testing.T) {
	core := NewCore(t)
	ctx := context.Background()

	plan, err := v1.NewPlanLogic(ctx, core).CreatePlan("B. Dlamini", types.FormFields{})
	require.NoError(t, err)

	issued, err := v1.NewShareLogic(ctx, core).IssueToken(types.SHARE_KIND_PLAN, plan.ID, types.SharePolicy{})
	require.NoError(t, err)

	require.NoError(t, v1.NewPlanLogic(ctx, core).DeletePlan(plan.ID))

	// the mailed link must die with the plan
	_, err = v1.NewAccessLogic(ctx, core).Redeem(issued.Token, "")
	var cerr *errors.CustomizedError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 404, cerr.GetCode())

	_, err = v1.NewPlanLogic(ctx, core).GetPlan(plan.ID)
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 404, cerr.GetCode())
}

func Test_CreatePlanRequiresClientName(t *testing.T) {
	core := NewCore(t)

	_, err := v1.NewPlanLogic(context.Background(), core).CreatePlan("", nil)
	var cerr *errors.CustomizedError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 400, cerr.GetCode())
}
