package config

// RecursionGuardPriority places the guard right below expression expansion
const RecursionGuardPriority = 799

// RecursionGuard restarts the chain for a name the first time it reaches
// the guard, so that names referenced by mappers and expressions are
// mapped too. A name that is already being resolved goes straight to the
// sources instead.
type RecursionGuard struct{}

func (RecursionGuard) Priority() int {
	return RecursionGuardPriority
}

func (RecursionGuard) GetValue(ctx Context, name string) *Value {
	release, ok := ctx.Scope().Acquire(name)
	if !ok {
		return ctx.Proceed(name)
	}
	defer release()
	return ctx.Restart(name)
}

func (RecursionGuard) IterateNames(ctx Context) []string {
	return ctx.IterateNames()
}
