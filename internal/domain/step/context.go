package step

import "context"

// defaultSudo is used when the caller did not configure a
// privilege-elevation command.
const defaultSudo = "sudo"

// RunContext carries execution context into Check, Plan, and Apply.
type RunContext struct {
	ctx    context.Context
	dryRun bool
	sudo   string
}

// NewRunContext creates a new RunContext with the given context.
func NewRunContext(ctx context.Context) RunContext {
	return RunContext{ctx: ctx, sudo: defaultSudo}
}

// Context returns the underlying context.Context.
func (r RunContext) Context() context.Context {
	return r.ctx
}

// DryRun returns whether this is a dry-run execution.
func (r RunContext) DryRun() bool {
	return r.dryRun
}

// Sudo returns the privilege-elevation command steps prefix onto
// mutations that need root.
func (r RunContext) Sudo() string {
	return r.sudo
}

// WithDryRun returns a new RunContext with the dry-run flag set.
func (r RunContext) WithDryRun(dryRun bool) RunContext {
	r.dryRun = dryRun
	return r
}

// WithSudo returns a new RunContext using the given privilege-elevation
// command. An empty command keeps the default.
func (r RunContext) WithSudo(cmd string) RunContext {
	if cmd != "" {
		r.sudo = cmd
	}
	return r
}
