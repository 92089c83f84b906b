package v1_test

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidalaw/intake-api/app/core"
	v1 "github.com/vidalaw/intake-api/app/logic/v1"
	"github.com/vidalaw/intake-api/pkg/errors"
	"github.com/vidalaw/intake-api/pkg/types"
)

// NewCore builds a core against the database and redis named in the test
// config. Tests that need it skip when no config is provided, so the pure
// unit tests in this module still run everywhere.
func NewCore(t *testing.T) *core.Core {
	path := os.Getenv("TEST_CONFIG_PATH")
	if path == "" {
		t.Skip("TEST_CONFIG_PATH not set, skipping store-backed test")
	}
	return core.MustSetupCore(core.MustLoadBaseConfig(path))
}

func Test_IssueAndRedeemShareToken(t *testing.T) {
	core := NewCore(t)
	ctx := context.Background()

	plan, err := v1.NewPlanLogic(ctx, core).CreatePlan("Maria G.", types.FormFields{
		"guardian_name": "Rosa G.",
	})
	require.NoError(t, err)

	issued, err := v1.NewShareLogic(ctx, core).IssueToken(types.SHARE_KIND_PLAN, plan.ID, types.SharePolicy{})
	require.NoError(t, err)
	assert.Len(t, issued.Token, 32)
	assert.Contains(t, issued.URL, issued.Token)

	grant, err := v1.NewAccessLogic(ctx, core).Redeem(issued.Token, "")
	require.NoError(t, err)
	assert.Equal(t, types.SHARE_KIND_PLAN, grant.Kind)
	assert.Equal(t, plan.ID, grant.ResourceID)
	assert.NotEmpty(t, grant.Grant)
}

func Test_RedeemUnknownTokenLooksLikeNotFound(t *testing.T) {
	core := NewCore(t)

	_, err := v1.NewAccessLogic(context.Background(), core).Redeem("nosuchtoken_nosuchtoken_nosucht", "")
	require.Error(t, err)

	var cerr *errors.CustomizedError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 404, cerr.GetCode())
}

func Test_RedeemPasswordProtectedToken(t *testing.T) {
	core := NewCore(t)
	ctx := context.Background()

	plan, err := v1.NewPlanLogic(ctx, core).CreatePlan("Luis P.", nil)
	require.NoError(t, err)

	issued, err := v1.NewShareLogic(ctx, core).IssueToken(types.SHARE_KIND_PLAN, plan.ID, types.SharePolicy{
		Password: "family-word",
	})
	require.NoError(t, err)

	logic := v1.NewAccessLogic(ctx, core)

	// no password names the requirement, nothing else
	_, err = logic.Redeem(issued.Token, "")
	var cerr *errors.CustomizedError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 401, cerr.GetCode())

	// a wrong password is indistinguishable from a dead link
	_, err = logic.Redeem(issued.Token, "wrong-guess")
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 404, cerr.GetCode())

	grant, err := logic.Redeem(issued.Token, "family-word")
	require.NoError(t, err)
	assert.Equal(t, plan.ID, grant.ResourceID)
}

func Test_RedeemConsumesViews(t *testing.T) {
	core := NewCore(t)
	ctx := context.Background()

	plan, err := v1.NewPlanLogic(ctx, core).CreatePlan("Ana R.", nil)
	require.NoError(t, err)

	issued, err := v1.NewShareLogic(ctx, core).IssueToken(types.SHARE_KIND_PLAN, plan.ID, types.SharePolicy{
		MaxViews: 2,
	})
	require.NoError(t, err)

	logic := v1.NewAccessLogic(ctx, core)
	_, err = logic.Redeem(issued.Token, "")
	require.NoError(t, err)
	_, err = logic.Redeem(issued.Token, "")
	require.NoError(t, err)

	// third view hits the ceiling and collapses into the uniform refusal
	_, err = logic.Redeem(issued.Token, "")
	var cerr *errors.CustomizedError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 404, cerr.GetCode())
}

func Test_ConcurrentRedeemsRaceForLastView(t *testing.T) {
	core := NewCore(t)
	ctx := context.Background()

	plan, err := v1.NewPlanLogic(ctx, core).CreatePlan("N. Farah", nil)
	require.NoError(t, err)

	issued, err := v1.NewShareLogic(ctx, core).IssueToken(types.SHARE_KIND_PLAN, plan.ID, types.SharePolicy{
		MaxViews: 1,
	})
	require.NoError(t, err)

	const racers = 8
	var granted int64
	errs := make([]error, racers)

	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := v1.NewAccessLogic(ctx, core).Redeem(issued.Token, ""); err != nil {
				errs[i] = err
				return
			}
			atomic.AddInt64(&granted, 1)
		}(i)
	}
	wg.Wait()

	// the conditional update hands the last view to exactly one caller
	assert.Equal(t, int64(1), granted)
	for _, err := range errs {
		if err == nil {
			continue
		}
		var cerr *errors.CustomizedError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, 404, cerr.GetCode())
	}
}

func Test_IssueTokenForMissingResource(t *testing.T) {
	core := NewCore(t)

	_, err := v1.NewShareLogic(context.Background(), core).IssueToken(types.SHARE_KIND_LETTER, "does-not-exist", types.SharePolicy{})
	var cerr *errors.CustomizedError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 404, cerr.GetCode())
}

func Test_RevokedTokenStopsResolving(t *testing.T) {
	core := NewCore(t)
	ctx := context.Background()

	plan, err := v1.NewPlanLogic(ctx, core).CreatePlan("Carmen V.", nil)
	require.NoError(t, err)

	issued, err := v1.NewShareLogic(ctx, core).IssueToken(types.SHARE_KIND_PLAN, plan.ID, types.SharePolicy{})
	require.NoError(t, err)

	require.NoError(t, v1.NewShareLogic(ctx, core).RevokeToken(issued.Token))

	_, err = v1.NewAccessLogic(ctx, core).Redeem(issued.Token, "")
	var cerr *errors.CustomizedError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 404, cerr.GetCode())
}
