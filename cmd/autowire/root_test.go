package cmd_test

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cmd "github.com/km-arc/go-autowire/cmd/autowire"
	"github.com/km-arc/go-autowire/framework/container"
	"github.com/km-arc/go-autowire/framework/inspector"
	"github.com/km-arc/go-autowire/framework/rulefile"
)

func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"APP_ENV", "APP_PORT", "AUTOWIRE_RULES", "AUTOWIRE_LOG_LEVEL", "AUTOWIRE_LOG_FORMAT", "AUTOWIRE_DEFAULT_LIFETIME"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("AUTOWIRE_LOG_LEVEL", "error")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := cmd.NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--env-file", "testdata/missing.env"))
	err := root.Execute()
	return out.String(), err
}

func TestPlan_Table(t *testing.T) {
	cleanEnv(t)

	out, err := run(t, "plan")
	require.NoError(t, err)
	assert.Contains(t, out, "Auto-wiring plan")
	assert.Contains(t, out, "7 bindings from 3 rules in app/autowire.hcl")
	assert.Contains(t, out, "app.IOrderService")
	assert.Contains(t, out, "app.IHandlerFor[app.OrderPlaced]")
	assert.NotContains(t, out, "NullCache")
}

func TestPlan_JSONWithRulesFile(t *testing.T) {
	cleanEnv(t)

	out, err := run(t, "plan", "--format", "json", "--rules", "testdata/handlers.hcl")
	require.NoError(t, err)

	var plan []inspector.Binding
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	require.Len(t, plan, 2)
	assert.Equal(t, "github.com/km-arc/go-autowire/app.SendReceipt", plan[0].Concrete)
	assert.Equal(t, "github.com/km-arc/go-autowire/app.CacheLastOrder", plan[1].Concrete)
	assert.Equal(t, "per-thread", plan[1].Lifetime)
}

func TestPlan_RulesFromEnv(t *testing.T) {
	cleanEnv(t)
	t.Setenv("AUTOWIRE_RULES", "testdata/handlers.hcl")

	out, err := run(t, "plan")
	require.NoError(t, err)
	assert.Contains(t, out, "2 bindings from 1 rules in testdata/handlers.hcl")
}

func TestPlan_BadFormat(t *testing.T) {
	cleanEnv(t)

	_, err := run(t, "plan", "--format", "yaml")
	assert.EqualError(t, err, `unknown format "yaml" (want table or json)`)
}

func TestValidate(t *testing.T) {
	cleanEnv(t)

	out, err := run(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "app/autowire.hcl")
	assert.Contains(t, out, "rule ")
	assert.Contains(t, out, "order-handlers")
	assert.Contains(t, out, "1 eligible modules, 14 eligible types, 7 bindings")
}

func TestValidate_UnknownType(t *testing.T) {
	cleanEnv(t)

	_, err := run(t, "validate", "--rules", "testdata/unknown.hcl")
	var unknown *rulefile.UnknownTypeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "implements", unknown.Attr)
}

func TestValidate_InvalidConfig(t *testing.T) {
	cleanEnv(t)
	t.Setenv("AUTOWIRE_LOG_FORMAT", "xml")

	_, err := run(t, "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTOWIRE_LOG_FORMAT")
}

func TestValidate_UnknownLifetime(t *testing.T) {
	cleanEnv(t)

	out, err := run(t, "validate", "--rules", "testdata/typo.hcl")
	var rejected *container.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, `unknown lifetime "singelton"`, rejected.Reason)
	assert.NotContains(t, out, "✓")
}

func TestPlan_UnknownLifetime(t *testing.T) {
	cleanEnv(t)

	_, err := run(t, "plan", "--rules", "testdata/typo.hcl")
	var rejected *container.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Contains(t, rejected.Concrete, "SendReceipt")
}
