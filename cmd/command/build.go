package command

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/Hostzero-GmbH/keycloak-config/internal/build"
	"github.com/Hostzero-GmbH/keycloak-config/internal/config/source"
	"github.com/Hostzero-GmbH/keycloak-config/internal/mapper"
)

func runBuild(ctx context.Context, c *invocation) error {
	e, err := newEngine(ctx, c.opts, engineOptions{command: mapper.CommandBuild, rebuild: true, environ: c.environ}, c.kcArgs, c.log)
	if err != nil {
		return err
	}
	if err := e.validate(); err != nil {
		return err
	}

	if ignored := build.IgnoredRunTimeOptions(e.cfg, e.reg); len(ignored) > 0 {
		fmt.Fprintln(c.out, build.IgnoredMessage(ignored))
	}

	if err := build.PersistFile(c.opts.BuildFile, e.cfg, e.reg); err != nil {
		return err
	}
	c.log.Info("persisted build configuration", "file", c.opts.BuildFile)
	fmt.Fprintf(c.out, "Build configuration persisted to %s\n", c.opts.BuildFile)
	return nil
}

func runValidate(ctx context.Context, c *invocation) error {
	if _, err := startEngine(ctx, c); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Configuration is valid")
	return nil
}

// errDevProfileStart refuses a production start with the dev profile
var errDevProfileStart = errors.New("You can not 'start' the server in development mode. Please re-build the server first, using 'kc.sh build' for the default production mode.")

// runStart prints the properties the server would be started with
func runStart(ctx context.Context, c *invocation) error {
	if c.opts.Profile == source.DevProfile {
		return errDevProfileStart
	}
	e, err := startEngine(ctx, c)
	if err != nil {
		return err
	}
	return printProperties(c, e)
}

// runStartDev is start in development mode: the dev profile is active and
// build-time options may change freely
func runStartDev(ctx context.Context, c *invocation) error {
	e, err := newEngine(ctx, c.opts, engineOptions{command: mapper.CommandStartDev, environ: c.environ, devMode: true}, c.kcArgs, c.log)
	if err != nil {
		return err
	}
	if err := e.validate(); err != nil {
		return err
	}
	c.log.Info("Running the server in development mode. DO NOT use this configuration in production.")
	return printProperties(c, e)
}

// printProperties prints the resolved properties of e, masked
func printProperties(c *invocation, e *engine) error {
	// properties derived from a parent option are not listed by the sources
	names := e.cfg.Names()
	for _, m := range e.reg.Mappers() {
		if !m.HasWildcard() && m.To() != m.From() {
			names = append(names, m.To())
		}
	}
	sort.Strings(names)
	names = slices.Compact(names)

	var lines []string
	for _, name := range names {
		if m := e.reg.Mapper(name); m != nil && mappedElsewhere(m, name) {
			continue
		}
		v, err := e.cfg.Value(name)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", name, err)
		}
		if !v.Present() {
			continue
		}
		lines = append(lines, name+"="+e.reg.MaskValue(name, v.Value, v.SourceName))
	}
	for _, line := range lines {
		fmt.Fprintln(c.out, line)
	}
	return nil
}

// mappedElsewhere reports whether name is the option property of m and
// m maps it to a different property
func mappedElsewhere(m *mapper.PropertyMapper, name string) bool {
	if m.To() == m.From() {
		return false
	}
	if !m.HasWildcard() {
		return name == m.From()
	}
	key, ok := m.WildcardKey(name)
	return ok && name == m.FromFor(key)
}

// startEngine resolves the configuration of a server start. An optimized
// start runs on the persisted build, so build-time options must not change.
func startEngine(ctx context.Context, c *invocation) (*engine, error) {
	eo := engineOptions{command: mapper.CommandStart, environ: c.environ}

	if c.opts.Optimized {
		persisted, err := build.LoadPersisted(c.opts.BuildFile)
		if errors.Is(err, build.ErrNotBuilt) {
			return nil, fmt.Errorf("the '--optimized' flag was used for first ever server start: %w", err)
		}
		if err != nil {
			return nil, err
		}

		live, err := newEngine(ctx, c.opts, eo, c.kcArgs, c.log)
		if err != nil {
			return nil, err
		}
		changed, err := build.ChangedBuildTimeOptions(live.cfg, persisted, live.reg)
		if err != nil {
			return nil, err
		}
		if len(changed) > 0 {
			return nil, errors.New(build.ChangedMessage(changed))
		}
		eo.persisted = persisted
	}

	e, err := newEngine(ctx, c.opts, eo, c.kcArgs, c.log)
	if err != nil {
		return nil, err
	}
	if err := e.validate(); err != nil {
		return nil, err
	}
	return e, nil
}
