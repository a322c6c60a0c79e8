package parser

import (
	"slices"

	"golang.org/x/text/unicode/norm"

	"github.com/tighterror/tighterror/internal/diag"
	"github.com/tighterror/tighterror/internal/source"
	"github.com/tighterror/tighterror/internal/spec"
)

// reader turns a lowered document into a spec.Spec.
// It stops at the first problem, like the rest of the front-end.
type reader struct{}

func fail(code diag.Code, span source.Span, format string, args ...any) error {
	return diag.Errorf(code, span, format, args...)
}

// exclusivePairs lists keyword pairs that may not appear in the same object.
var exclusivePairs = [][2]string{
	{spec.KwModule, spec.KwModules},
	{spec.KwCategory, spec.KwCategories},
	{spec.KwErrors, spec.KwCategories},
	{spec.KwModules, spec.KwCategory},
	{spec.KwModules, spec.KwCategories},
	{spec.KwModules, spec.KwErrors},
}

func (r *reader) document(doc *node) (*spec.Spec, error) {
	if doc.kind != kindMap {
		return nil, fail(diag.BadSpec, doc.span, "specification document must be a mapping: got %s", doc.describe())
	}
	for _, e := range doc.entries {
		if !slices.Contains(spec.RootKeywords, e.key) {
			return nil, fail(diag.BadRootLevelKeyword, e.keySpan, "invalid root-level keyword: %s", e.key)
		}
	}
	if err := exclusive(doc); err != nil {
		return nil, err
	}

	s := &spec.Spec{Main: spec.Main{Span: source.NoSpan}}
	if e, ok := doc.lookup(spec.KwMain); ok {
		main, err := r.main(e)
		if err != nil {
			return nil, err
		}
		s.Main = main
	}

	if e, ok := doc.lookup(spec.KwModules); ok {
		mods, err := r.modules(e)
		if err != nil {
			return nil, err
		}
		s.Modules = mods
		return s, nil
	}

	m := &spec.Module{
		Name:     spec.DefaultModuleName,
		NameSpan: source.NoSpan,
		Span:     doc.span,
		Implicit: true,
	}
	inModule := false
	if e, ok := doc.lookup(spec.KwModule); ok {
		var err error
		if m, err = r.module(e.value, false); err != nil {
			return nil, err
		}
		inModule = len(m.Categories) > 0
	}

	found, err := r.body(m, doc)
	if err != nil {
		return nil, err
	}
	switch {
	case found && inModule:
		return nil, fail(diag.MutuallyExclusiveKeywords, doc.span,
			"categories are defined both in `%s` and on the root level", spec.KwModule)
	case !found && !inModule:
		return nil, fail(diag.MissingAttribute, doc.span,
			"one of `%s` or `%s` must be specified", spec.KwErrors, spec.KwCategories)
	}
	s.Modules = []*spec.Module{m}
	return s, nil
}

func exclusive(obj *node) error {
	for _, p := range exclusivePairs {
		if obj.has(p[0]) && obj.has(p[1]) {
			e, _ := obj.lookup(p[1])
			return fail(diag.MutuallyExclusiveKeywords, e.keySpan,
				"attributes `%s` and `%s` are mutually exclusive", p[0], p[1])
		}
	}
	return nil
}

// checkAttributes rejects keys outside allowed.
func checkAttributes(obj *node, allowed []string, what string) error {
	for _, e := range obj.entries {
		if !slices.Contains(allowed, e.key) {
			return fail(diag.BadObjectAttribute, e.keySpan, "invalid %s attribute: %s", what, e.key)
		}
	}
	return nil
}

func (r *reader) main(e entry) (spec.Main, error) {
	main := spec.Main{Span: e.value.span}
	obj := e.value
	if obj.kind != kindMap {
		return main, fail(diag.BadValueType, obj.span, "`%s` must be a mapping: got %s", spec.KwMain, obj.describe())
	}
	if err := checkAttributes(obj, spec.MainKeywords, "main object"); err != nil {
		return main, err
	}
	var err error
	for _, a := range obj.entries {
		switch a.key {
		case spec.KwOutput:
			main.Output, err = optString(a)
		case spec.KwNoStd:
			main.NoStd, err = optBool(a)
		case spec.KwSeparateFiles:
			main.SeparateFiles, err = optBool(a)
		}
		if err != nil {
			return main, err
		}
	}
	return main, nil
}

func (r *reader) modules(e entry) ([]*spec.Module, error) {
	list := e.value
	if list.kind != kindList {
		return nil, fail(diag.BadValueType, list.span, "`%s` must be a list: got %s", spec.KwModules, list.describe())
	}
	if len(list.items) == 0 {
		return nil, fail(diag.EmptyList, list.span.Cover(e.keySpan), "`%s` list cannot be empty", spec.KwModules)
	}
	out := make([]*spec.Module, 0, len(list.items))
	for _, item := range list.items {
		m, err := r.module(item, true)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// module reads a module object. In list mode the name and the
// categories are mandatory.
func (r *reader) module(obj *node, inList bool) (*spec.Module, error) {
	if obj.kind != kindMap {
		return nil, fail(diag.BadValueType, obj.span, "module object must be a mapping: got %s", obj.describe())
	}
	if err := checkAttributes(obj, spec.ModuleKeywords, "module object"); err != nil {
		return nil, err
	}
	if err := exclusive(obj); err != nil {
		return nil, err
	}

	m := &spec.Module{
		Name:     spec.DefaultModuleName,
		NameSpan: source.NoSpan,
		Span:     obj.span,
	}
	var err error
	for _, a := range obj.entries {
		switch a.key {
		case spec.KwName:
			m.Name, m.NameSpan, err = nameString(a)
		case spec.KwDoc:
			m.Doc, err = optText(a)
		case spec.KwErrDoc:
			m.ErrDoc, err = optText(a)
		case spec.KwErrKindDoc:
			m.ErrKindDoc, err = optText(a)
		case spec.KwErrCatDoc:
			m.ErrCatDoc, err = optText(a)
		case spec.KwErrName:
			m.ErrName, err = optString(a)
		case spec.KwErrKindName:
			m.ErrKindName, err = optString(a)
		case spec.KwErrCatName:
			m.ErrCatName, err = optString(a)
		case spec.KwResultFromErr:
			m.ResultFromErr, err = optBool(a)
		case spec.KwResultFromErrKind:
			m.ResultFromErrKind, err = optBool(a)
		case spec.KwErrorTrait:
			m.ErrorTrait, err = optBool(a)
		case spec.KwFlatKinds:
			m.FlatKinds, err = optBool(a)
		case spec.KwDocFromDisplay:
			m.DocFromDisplay, err = optBool(a)
		}
		if err != nil {
			return nil, err
		}
	}

	found, err := r.body(m, obj)
	if err != nil {
		return nil, err
	}
	if inList {
		if !obj.has(spec.KwName) {
			return nil, fail(diag.MissingAttribute, obj.span, "module object in `%s` requires `%s`", spec.KwModules, spec.KwName)
		}
		if !found {
			return nil, fail(diag.MissingAttribute, obj.span,
				"module `%s`: one of `%s` or `%s` must be specified", m.Name, spec.KwErrors, spec.KwCategories)
		}
	}
	return m, nil
}

// body reads `category`, `categories` and `errors` of obj into m and
// reports whether any categories were defined.
func (r *reader) body(m *spec.Module, obj *node) (bool, error) {
	var single *spec.Category
	if e, ok := obj.lookup(spec.KwCategory); ok {
		cat, err := r.category(e.value, false)
		if err != nil {
			return false, err
		}
		single = cat
	}

	if e, ok := obj.lookup(spec.KwCategories); ok {
		cats, err := r.categories(e)
		if err != nil {
			return false, err
		}
		m.Categories = cats
		return true, nil
	}

	e, ok := obj.lookup(spec.KwErrors)
	if !ok {
		if single != nil {
			return false, fail(diag.MissingAttribute, single.Span,
				"`%s` requires a sibling `%s` list", spec.KwCategory, spec.KwErrors)
		}
		return false, nil
	}
	errs, err := r.errors(e)
	if err != nil {
		return false, err
	}
	if single == nil {
		single = &spec.Category{
			Name:     spec.ImplicitCategoryName,
			NameSpan: source.NoSpan,
			Span:     e.keySpan,
			Implicit: true,
		}
	}
	single.Errors = errs
	m.Categories = []*spec.Category{single}
	return true, nil
}

func (r *reader) categories(e entry) ([]*spec.Category, error) {
	list := e.value
	if list.kind != kindList {
		return nil, fail(diag.BadValueType, list.span, "`%s` must be a list: got %s", spec.KwCategories, list.describe())
	}
	if len(list.items) == 0 {
		return nil, fail(diag.EmptyList, list.span.Cover(e.keySpan), "`%s` list cannot be empty", spec.KwCategories)
	}
	out := make([]*spec.Category, 0, len(list.items))
	for _, item := range list.items {
		cat, err := r.category(item, true)
		if err != nil {
			return nil, err
		}
		out = append(out, cat)
	}
	return out, nil
}

// category reads a category object. The root-level `category` object
// (inList false) only carries metadata; its errors live next to it.
func (r *reader) category(obj *node, inList bool) (*spec.Category, error) {
	if obj.kind != kindMap {
		return nil, fail(diag.BadValueType, obj.span, "category object must be a mapping: got %s", obj.describe())
	}
	if err := checkAttributes(obj, spec.CategoryKeywords, "category object"); err != nil {
		return nil, err
	}
	cat := &spec.Category{NameSpan: source.NoSpan, Span: obj.span}
	var err error
	for _, a := range obj.entries {
		switch a.key {
		case spec.KwName:
			cat.Name, cat.NameSpan, err = nameString(a)
		case spec.KwDoc:
			cat.Doc, err = optText(a)
		case spec.KwDocFromDisplay:
			cat.DocFromDisplay, err = optBool(a)
		case spec.KwErrors:
			if !inList {
				return nil, fail(diag.BadObjectAttribute, a.keySpan,
					"`%s` is not allowed in the root-level `%s` object", spec.KwErrors, spec.KwCategory)
			}
			cat.Errors, err = r.errors(a)
		}
		if err != nil {
			return nil, err
		}
	}

	switch {
	case !inList && !obj.has(spec.KwName):
		cat.Name = spec.ImplicitCategoryName
		cat.Implicit = true
	case inList && !obj.has(spec.KwName):
		return nil, fail(diag.MissingAttribute, obj.span, "category object in `%s` requires `%s`", spec.KwCategories, spec.KwName)
	case inList && !obj.has(spec.KwErrors):
		return nil, fail(diag.MissingAttribute, obj.span, "category `%s` requires `%s`", cat.Name, spec.KwErrors)
	}
	return cat, nil
}

func (r *reader) errors(e entry) ([]*spec.Error, error) {
	list := e.value
	if list.kind != kindList {
		return nil, fail(diag.BadValueType, list.span, "`%s` must be a list: got %s", spec.KwErrors, list.describe())
	}
	if len(list.items) == 0 {
		return nil, fail(diag.EmptyList, list.span.Cover(e.keySpan), "`%s` list cannot be empty", spec.KwErrors)
	}
	out := make([]*spec.Error, 0, len(list.items))
	for _, item := range list.items {
		var (
			def *spec.Error
			err error
		)
		switch item.kind {
		case kindString:
			def = &spec.Error{Name: item.str, NameSpan: item.span, Span: item.span, VariantTypeSpan: source.NoSpan}
		case kindMap:
			def, err = r.errorObject(item)
		default:
			err = fail(diag.BadValueType, item.span, "an error must be a string or a mapping: got %s", item.describe())
		}
		if err != nil {
			return nil, err
		}
		out = append(out, def)
	}
	return out, nil
}

// errorObject reads either the `Name: display` shorthand or a full object.
func (r *reader) errorObject(obj *node) (*spec.Error, error) {
	def := &spec.Error{NameSpan: source.NoSpan, Span: obj.span, VariantTypeSpan: source.NoSpan}
	if len(obj.entries) == 1 && !spec.IsKeyword(obj.entries[0].key) {
		short := obj.entries[0]
		if short.value.kind != kindString {
			return nil, fail(diag.BadValueType, short.value.span,
				"display of `%s` must be a string: got %s", short.key, short.value.describe())
		}
		def.Name, def.NameSpan = short.key, short.keySpan
		display := norm.NFC.String(short.value.str)
		def.Display = &display
		return def, nil
	}

	if err := checkAttributes(obj, spec.ErrorKeywords, "error object"); err != nil {
		return nil, err
	}
	var err error
	for _, a := range obj.entries {
		switch a.key {
		case spec.KwName:
			def.Name, def.NameSpan, err = nameString(a)
		case spec.KwDisplay:
			def.Display, err = optText(a)
		case spec.KwDoc:
			def.Doc, err = optText(a)
		case spec.KwDocFromDisplay:
			def.DocFromDisplay, err = optBool(a)
		case spec.KwVariantType:
			def.VariantType, err = optBool(a)
		case spec.KwVariantTypeName:
			def.VariantTypeName, err = optString(a)
			def.VariantTypeSpan = a.value.span
		}
		if err != nil {
			return nil, err
		}
	}
	if !obj.has(spec.KwName) {
		return nil, fail(diag.MissingAttribute, obj.span, "error object requires `%s`", spec.KwName)
	}
	return def, nil
}

func wrongType(a entry, want nodeKind) error {
	return fail(diag.BadValueType, a.value.span, "`%s` must be a %s: got %s", a.key, want, a.value.describe())
}

func nameString(a entry) (string, source.Span, error) {
	if a.value.kind != kindString {
		return "", source.NoSpan, wrongType(a, kindString)
	}
	return a.value.str, a.value.span, nil
}

func optString(a entry) (*string, error) {
	if a.value.kind != kindString {
		return nil, wrongType(a, kindString)
	}
	s := a.value.str
	return &s, nil
}

// optText is optString for human-readable text, normalised to NFC.
func optText(a entry) (*string, error) {
	s, err := optString(a)
	if err != nil {
		return nil, err
	}
	*s = norm.NFC.String(*s)
	return s, nil
}

func optBool(a entry) (*bool, error) {
	if a.value.kind != kindBool {
		return nil, wrongType(a, kindBool)
	}
	b := a.value.boolean
	return &b, nil
}
