// Package registry declares which attributes are applicable to which
// garment role and validates items on ingress. It is static and immutable
// per process lifetime: the engine assumes item validity once past this
// boundary.
package registry

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"outfitengine/wardrobe"
)

// Violation is a single ingress validation failure.
type Violation struct {
	Field  string
	Reason string
}

func (v Violation) String() string { return fmt.Sprintf("%s: %s", v.Field, v.Reason) }

// Field names used as applicability/violation keys. Kept as constants so
// registry and scoring code refer to the same strings.
const (
	FieldColor             = "color"
	FieldPattern           = "pattern"
	FieldPatternScale      = "pattern_scale"
	FieldFitProfile        = "fit_profile"
	FieldTopLengthClass    = "top_length_class"
	FieldBottomRiseClass   = "bottom_rise_class"
	FieldShoulderStructure = "shoulder_structure"
	FieldGroup             = "group"
	FieldLeatherFamily     = "leather_family"
	FieldMetalFamily       = "metal_family"
	FieldMetalFinish       = "metal_finish"
	FieldBagKind           = "bag_kind"
	FieldJewelryKind       = "jewelry_kind"
	FieldFootwearClass     = "footwear_class"
)

// RoleSpec declares a role's slot mapping and applicable attribute fields.
type RoleSpec struct {
	Slot        wardrobe.Slot
	Applicable  map[string]bool
	StyleTagged bool // roles carry style_tags universally, but kept explicit
}

// Registry is the immutable role/slot/attribute/tag catalog.
type Registry struct {
	roles     map[string]RoleSpec
	tags      map[string]bool
	normalize cases.Caser
}

// New builds a Registry from role specs and the closed vocabulary of style
// tags. Both are expected to be fixed at process start (e.g. loaded once
// from the ruleset payload or a static table). Role keys are indexed under
// their lower-cased form so lookups can go through the same caser as tags.
func New(roles map[string]RoleSpec, tags []string) *Registry {
	reg := &Registry{
		roles:     make(map[string]RoleSpec, len(roles)),
		tags:      make(map[string]bool, len(tags)),
		normalize: cases.Lower(language.English),
	}
	for role, spec := range roles {
		reg.roles[reg.normalizeCasing(role)] = spec
	}
	for _, t := range tags {
		reg.tags[reg.normalizeCasing(t)] = true
	}
	return reg
}

// normalizeCasing folds s to the registry's canonical case using the
// x/text caser, then trims incidental whitespace from client input.
func (r *Registry) normalizeCasing(s string) string {
	return r.normalize.String(strings.TrimSpace(s))
}

// NormalizeTag canonicalizes a style tag's casing before lookups.
func (r *Registry) NormalizeTag(tag string) string {
	return r.normalizeCasing(tag)
}

// SlotOf returns the slot class a role maps to.
func (r *Registry) SlotOf(role string) (wardrobe.Slot, bool) {
	spec, ok := r.roles[r.normalizeCasing(role)]
	if !ok {
		return "", false
	}
	return spec.Slot, true
}

// ApplicableFields returns the set of attribute field names declared
// applicable to role.
func (r *Registry) ApplicableFields(role string) map[string]bool {
	spec, ok := r.roles[r.normalizeCasing(role)]
	if !ok {
		return nil
	}
	return spec.Applicable
}

// KnownTag reports whether tag, after NormalizeTag, is in the closed
// vocabulary.
func (r *Registry) KnownTag(tag string) bool {
	return r.tags[r.NormalizeTag(tag)]
}

// Validate checks item against role-applicability and required-field
// invariants. It returns nil on success.
func (r *Registry) Validate(it wardrobe.Item) []Violation {
	var violations []Violation

	spec, ok := r.roles[r.normalizeCasing(it.Role)]
	if !ok {
		return []Violation{{Field: "role", Reason: "unknown role " + it.Role}}
	}
	if it.Slot != spec.Slot {
		violations = append(violations, Violation{
			Field: "slot", Reason: fmt.Sprintf("role %s maps to slot %s, got %s", it.Role, spec.Slot, it.Slot),
		})
	}

	check := func(present bool, field string) {
		if present && !spec.Applicable[field] {
			violations = append(violations, Violation{Field: field, Reason: "not applicable to role " + it.Role})
		}
	}
	check(it.HasColor(), FieldColor)
	check(it.Pattern != "", FieldPattern)
	check(it.PatternScale != "", FieldPatternScale)
	check(it.FitProfile != "", FieldFitProfile)
	check(it.TopLengthClass != "", FieldTopLengthClass)
	check(it.BottomRiseClass != "", FieldBottomRiseClass)
	check(it.ShoulderStructure != "", FieldShoulderStructure)
	check(it.Group != nil, FieldGroup)
	check(it.LeatherFamily != "", FieldLeatherFamily)
	check(it.MetalFamily != "", FieldMetalFamily)
	check(it.MetalFinish != "", FieldMetalFinish)
	check(it.BagKind != "", FieldBagKind)
	check(it.JewelryKind != "", FieldJewelryKind)
	check(it.FootwearClass != "", FieldFootwearClass)

	if it.HasColor() {
		c := *it.Color
		if c.L < 0 || c.L > 100 {
			violations = append(violations, Violation{Field: FieldColor, Reason: "L out of bounds"})
		}
		if c.C < 0 || c.C > 200 {
			violations = append(violations, Violation{Field: FieldColor, Reason: "C out of bounds"})
		}
		if c.H < 0 || c.H >= 360 {
			violations = append(violations, Violation{Field: FieldColor, Reason: "h out of bounds"})
		}
	}

	if it.Formality < 1 || it.Formality > 5 {
		violations = append(violations, Violation{Field: "formality", Reason: "must be within 1..5"})
	}

	if it.Seasonality.Empty() {
		violations = append(violations, Violation{Field: "seasonality", Reason: "must be non-empty"})
	}

	if it.Group != nil {
		if it.Group.GroupID == "" || it.Group.SetRole == "" || it.Group.CoordSetKind == "" || it.Group.CohesionPolicy == "" {
			violations = append(violations, Violation{Field: FieldGroup, Reason: "group_id set requires set_role, coord_set_kind, set_cohesion_policy"})
		}
	}

	for _, tag := range it.StyleTags {
		if !r.KnownTag(tag) {
			violations = append(violations, Violation{Field: "style_tags", Reason: "unknown tag " + tag})
		}
	}

	if len(violations) == 0 {
		return nil
	}
	return violations
}
