package step_test

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/stretchr/testify/assert"
)

func TestRunContext_SudoDefaultsAndOverride(t *testing.T) {
	t.Parallel()

	ctx := step.NewRunContext(context.TODO())
	assert.Equal(t, "sudo", ctx.Sudo())

	assert.Equal(t, "doas", ctx.WithSudo("doas").Sudo())
	assert.Equal(t, "sudo", ctx.WithSudo("").Sudo(), "empty override keeps the default")
}

func TestRunContext_DryRunPreservesSudo(t *testing.T) {
	t.Parallel()

	ctx := step.NewRunContext(context.TODO()).WithSudo("doas").WithDryRun(true)
	assert.True(t, ctx.DryRun())
	assert.Equal(t, "doas", ctx.Sudo())
}
