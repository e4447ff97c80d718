package command

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Hostzero-GmbH/keycloak-config/internal/build"
	"github.com/Hostzero-GmbH/keycloak-config/internal/mapper"
	"github.com/Hostzero-GmbH/keycloak-config/internal/option"
	"github.com/Hostzero-GmbH/keycloak-config/internal/showconfig"
)

func runShowConfig(ctx context.Context, c *invocation) error {
	filter := showconfig.FilterCurrent
	switch len(c.args) {
	case 0:
	case 1:
		filter = c.args[0]
	default:
		return usageError{fmt.Errorf("show-config takes at most one filter, got %s", strings.Join(c.args, " "))}
	}

	eo := engineOptions{command: mapper.CommandShowConfig, environ: c.environ}
	persisted, err := build.LoadPersisted(c.opts.BuildFile)
	switch {
	case err == nil:
		eo.persisted = persisted
	case !errors.Is(err, build.ErrNotBuilt):
		return err
	}

	e, err := newEngine(ctx, c.opts, eo, c.kcArgs, c.log)
	if err != nil {
		return err
	}
	entries, err := showconfig.Collect(e.cfg, e.reg, filter)
	if err != nil {
		return err
	}

	return showconfig.NewWriter(showconfig.WriterOptions{
		Format:     c.opts.OutputFormat,
		OutputFile: c.opts.Output,
		Profile:    e.cfg.Profile(),
		Out:        c.out,
	}).Write(entries)
}

// runOptions lists the options per stage and category
func runOptions(_ context.Context, c *invocation) error {
	reg := mapper.NewDefaultRegistry(c.log)
	for _, stage := range []struct {
		title   string
		mappers map[option.Category][]*mapper.PropertyMapper
	}{
		{"Build time options", reg.BuildTimeMappers()},
		{"Run time options", reg.RunTimeMappers()},
	} {
		for _, cat := range option.Categories() {
			mappers := visible(stage.mappers[cat])
			if len(mappers) == 0 {
				continue
			}
			fmt.Fprintf(c.out, "%s - %s:\n", stage.title, cat.Heading())
			for _, m := range mappers {
				fmt.Fprintf(c.out, "  %s <%s>\n", m.CLIFormat(), m.ParamLabel())
				fmt.Fprintf(c.out, "      %s\n", describe(m))
			}
			fmt.Fprintln(c.out)
		}
	}
	return nil
}

func visible(mappers []*mapper.PropertyMapper) []*mapper.PropertyMapper {
	out := make([]*mapper.PropertyMapper, 0, len(mappers))
	for _, m := range mappers {
		if !m.IsHidden() {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CLIFormat() < out[j].CLIFormat() })
	return out
}

func describe(m *mapper.PropertyMapper) string {
	parts := []string{m.Description(), "Env: " + m.EnvVarFormat() + "."}
	if def, ok := m.Option().DefaultValue(); ok && def != "" {
		parts = append(parts, "Default: "+def+".")
	}
	if m.IsMasked() {
		parts = append(parts, "Sensitive.")
	}
	if m.Category().SupportLevel() != option.SupportLevelSupported {
		parts = append(parts, "Support: "+m.Category().SupportLevel().String()+".")
	}
	return strings.Join(parts, " ")
}
