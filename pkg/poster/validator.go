// validator.go — Validate content and options before any render work.
package poster

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xob0t/GoPoster/internal/validate"
	postererrors "github.com/xob0t/GoPoster/pkg/errors"
	"github.com/xob0t/GoPoster/pkg/layout"
)

// ValidateContent rejects content that cannot be rendered.
func ValidateContent(c Content) error {
	if strings.TrimSpace(c.Body) == "" {
		return postererrors.NewInvalidContentError("body", "must not be empty", nil)
	}
	if err := validate.Struct(c); err != nil {
		return fieldError(err)
	}
	return nil
}

// ValidateOptions rejects malformed options. Unknown themes and layouts are
// not errors; they fall back at render time.
func ValidateOptions(o Options) error {
	if err := validate.Struct(o); err != nil {
		return fieldError(err)
	}
	return nil
}

func fieldError(err error) error {
	var fe *validate.FieldError
	if errors.As(err, &fe) {
		return postererrors.NewInvalidContentError(fe.Field, fmt.Sprintf("failed %q check", fe.Tag), err)
	}
	return postererrors.NewInvalidContentError("", err.Error(), err)
}

// JobWarnings reports references in a job that will be ignored or replaced
// at render time. Never fatal.
func (r *Renderer) JobWarnings(j Job) []string {
	var warnings []string
	if j.Options.Theme != "" && !r.catalog.Has(j.Options.Theme) {
		warnings = append(warnings, fmt.Sprintf("unknown theme %q; default theme used", j.Options.Theme))
	}
	if j.Content.Category != "" {
		if _, ok := r.catalog.Category(j.Content.Category); !ok {
			warnings = append(warnings, fmt.Sprintf("unknown category %q; ignored", j.Content.Category))
		}
	}
	if j.Options.Layout != "" {
		if _, ok := r.presets.Get(j.Options.Layout); !ok {
			warnings = append(warnings, fmt.Sprintf("unknown layout %q; %s used", j.Options.Layout, layout.DefaultPreset))
		}
	}

	known := map[string]bool{layout.SectionTitle: true, layout.SectionContent: true, layout.SectionFooter: true}
	names := make([]string, 0, len(j.Options.Constraints))
	for name := range j.Options.Constraints {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !known[name] {
			warnings = append(warnings, fmt.Sprintf("constraint for unknown section %q; laid out but never drawn", name))
		}
	}
	return warnings
}
