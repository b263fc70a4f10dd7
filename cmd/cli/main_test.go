package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/amirasaad/fintrack/infra/initializer"
	"github.com/amirasaad/fintrack/pkg/domain"
	pkgtestutils "github.com/amirasaad/fintrack/pkg/testutils"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch(t *testing.T) {
	color.NoColor = true
	ctx := context.Background()
	svc := initializer.NewServices(pkgtestutils.Deps(t, nil))
	owner := uuid.New()

	exec := func(args ...string) (string, error) {
		var out bytes.Buffer
		err := dispatch(ctx, &out, svc, owner, args)
		return out.String(), err
	}

	out, err := exec("create-account", "Checking")
	require.NoError(t, err)
	assert.Contains(t, out, "Name=Checking Currency=USD")

	_, err = exec("create-account", "Savings", "USD")
	require.NoError(t, err)

	out, err = exec("record", "1", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded income 100.00 on Checking")

	out, err = exec("record", "1", "-12.5", "Food", "lunch")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded expense -12.50")

	out, err = exec("transfer", "1", "2", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "Transferred 30.00 from Checking to Savings")

	out, err = exec("balance", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "balance: 57.50 USD")

	out, err = exec("audit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "consistent")

	out, err = exec("transactions", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Food")

	out, err = exec("accounts")
	require.NoError(t, err)
	assert.Contains(t, out, "Savings")

	_, err = exec("budgets")
	require.NoError(t, err)

	_, err = exec("transfer", "1", "2", "1000")
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	_, err = exec("balance", "x")
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = exec("nope")
	require.Error(t, err)
}

func TestRef(t *testing.T) {
	assert.Equal(t, domain.ByID(7), ref("7"))
	assert.Equal(t, domain.ByName("Wallet"), ref("Wallet"))
	assert.Equal(t, domain.ByName("0"), ref("0"))
}
