package mir_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/tighterror/tighterror/internal/mir"
	"github.com/tighterror/tighterror/internal/sema"
	"github.com/tighterror/tighterror/internal/spec"
	"github.com/tighterror/tighterror/internal/symbols"
	"github.com/tighterror/tighterror/internal/testkit"
)

func kindValues(m *mir.Module) map[string]uint64 {
	out := make(map[string]uint64, len(m.Kinds))
	for _, k := range m.Kinds {
		out[k.Ref] = k.Value
	}
	return out
}

func TestSingleErrorModule(t *testing.T) {
	mod := testkit.Module("errors_mod", testkit.Category("General", "BadFile"))
	m := testkit.BuildModule(t, mod, mir.Options{})

	p := m.Plan
	if p.CategoryBits != 0 || p.VariantBits != 1 || p.KindBits != 1 || p.ReprWidth != 8 || p.CategoryMask != 0 || p.VariantMask != 1 {
		t.Fatalf("plan = %s", p)
	}
	if m.Repr != "uint8" || m.Check != mir.CheckCategoryZero {
		t.Fatalf("repr %s check %s", m.Repr, m.Check)
	}
	c := m.Categories[0]
	if c.Const != "GENERAL" || c.Ref != "Categories.GENERAL" || c.Index != 0 {
		t.Fatalf("category = %+v", c)
	}
	k := m.Kinds[0]
	if k.Const != "BAD_FILE" || k.Value != 0 || k.Ref != "Kinds.General.BAD_FILE" || k.Display != "BadFile" {
		t.Fatalf("kind = %+v", k)
	}
	if got, ok := m.Decode(0); !ok || got != k {
		t.Fatalf("Decode(0) = %v, %t", got, ok)
	}
	if _, ok := m.Decode(1); ok {
		t.Fatalf("Decode(1) must be absent")
	}
	if !reflect.DeepEqual(m.InvalidProbes, []uint64{1, 2, 0xff}) {
		t.Fatalf("InvalidProbes = %v", m.InvalidProbes)
	}
}

func TestFullVariantWidth(t *testing.T) {
	mod := testkit.Module("errors_mod", testkit.Category("General", testkit.Numbered("E", 256)...))
	m := testkit.BuildModule(t, mod, mir.Options{})

	p := m.Plan
	if p.CategoryBits != 0 || p.VariantBits != 8 || p.KindBits != 8 || p.ReprWidth != 8 {
		t.Fatalf("plan = %s", p)
	}
	if m.Check != mir.CheckVariantOnly {
		t.Fatalf("check = %s", m.Check)
	}
	if m.Kinds[0].Value != 0 || m.Kinds[255].Value != 255 {
		t.Fatalf("E0=%d E255=%d", m.Kinds[0].Value, m.Kinds[255].Value)
	}
	if got, ok := m.Decode(255); !ok || got.Name != "E255" {
		t.Fatalf("Decode(255) = %v, %t", got, ok)
	}
	if _, ok := m.Decode(256); ok {
		t.Fatalf("256 is not representable in uint8")
	}
	if len(m.InvalidProbes) != 0 {
		t.Fatalf("every uint8 is a kind, got probes %v", m.InvalidProbes)
	}
}

func twoCategories() *spec.Module {
	return testkit.Module("errors_mod",
		testkit.Category("Parsing", "P", "Q"),
		testkit.Category("Processing", "Q", "R"),
	)
}

func TestNestedKinds(t *testing.T) {
	m := testkit.BuildModule(t, twoCategories(), mir.Options{})

	p := m.Plan
	if p.CategoryBits != 1 || p.VariantBits != 1 || p.KindBits != 2 || p.ReprWidth != 8 {
		t.Fatalf("plan = %s", p)
	}
	want := map[string]uint64{
		"Kinds.Parsing.P":    0,
		"Kinds.Parsing.Q":    1,
		"Kinds.Processing.Q": 2,
		"Kinds.Processing.R": 3,
	}
	if got := kindValues(m); !reflect.DeepEqual(got, want) {
		t.Fatalf("values = %v, want %v", got, want)
	}
	if m.Categories[0].KindsType != "parsingKinds" || m.Categories[1].KindsField != "Processing" {
		t.Fatalf("groups = %q %q", m.Categories[0].KindsType, m.Categories[1].KindsField)
	}
	if m.Check != mir.CheckCategoryMax || m.CategoryMax != 1 {
		t.Fatalf("check = %s max = %d", m.Check, m.CategoryMax)
	}
}

func TestFlatKindsRejectsDuplicates(t *testing.T) {
	mod := twoCategories()
	mod.FlatKinds = spec.Bool(true)
	if err := testkitValidate(mod); err == nil {
		t.Fatalf("flat kinds with duplicate Q must be rejected")
	}

	mod = testkit.Module("errors_mod",
		testkit.Category("Parsing", "P", "Q"),
		testkit.Category("Processing", "R"),
	)
	mod.FlatKinds = spec.Bool(true)
	m := testkit.BuildModule(t, mod, mir.Options{})
	if m.Kinds[2].Ref != "Kinds.R" || m.Categories[0].KindsType != "" {
		t.Fatalf("flat refs = %q, group %q", m.Kinds[2].Ref, m.Categories[0].KindsType)
	}
}

func TestUnevenCategories(t *testing.T) {
	mod := testkit.Module("errors_mod",
		testkit.Category("First", testkit.Numbered("A", 3)...),
		testkit.Category("Second", testkit.Numbered("B", 5)...),
		testkit.Category("Third", testkit.Numbered("C", 2)...),
	)
	m := testkit.BuildModule(t, mod, mir.Options{})

	p := m.Plan
	if p.CategoryBits != 2 || p.VariantBits != 3 || p.KindBits != 5 || p.ReprWidth != 8 {
		t.Fatalf("plan = %s", p)
	}
	var maxima []uint64
	for _, c := range m.Categories {
		maxima = append(maxima, c.VariantMax)
	}
	if !reflect.DeepEqual(maxima, []uint64{2, 4, 1}) {
		t.Fatalf("variant max = %v", maxima)
	}
	if k, ok := m.Decode(1<<3 | 4); !ok || k.Name != "B4" {
		t.Fatalf("Decode((1<<3)|4) = %v, %t", k, ok)
	}
	if _, ok := m.Decode(0<<3 | 5); ok {
		t.Fatalf("variant 5 is out of range for category 0")
	}

	// Every representable value either decodes to its own kind or is absent.
	valid := 0
	for v := uint64(0); v < 256; v++ {
		k, ok := m.Decode(v)
		if !ok {
			continue
		}
		valid++
		if k.Value != v {
			t.Fatalf("Decode(%#x) = %s with value %#x", v, k.Name, k.Value)
		}
	}
	if valid != len(m.Kinds) {
		t.Fatalf("%d values decode, want %d", valid, len(m.Kinds))
	}
}

func TestNoStd(t *testing.T) {
	mod := testkit.Module("errors_mod", testkit.Category("General", "BadFile"))
	m := testkit.BuildModule(t, mod, mir.Options{NoStd: true, Test: true})
	if m.ErrorTrait {
		t.Fatalf("no_std modules do not implement error")
	}
	for _, tc := range m.Tests {
		if tc.Kind.NeedsStd() || tc.Kind == mir.TestErrorIs || tc.Kind == mir.TestErrLocation {
			t.Errorf("unexpected test %s under no_std", tc.Func)
		}
	}

	mod.ErrorTrait = spec.Bool(false)
	m = testkit.BuildModule(t, mod, mir.Options{Test: true})
	if m.ErrorTrait {
		t.Fatalf("error_trait=false must disable the error interface")
	}
}

func TestTestBundle(t *testing.T) {
	mod := twoCategories()
	mod.Categories[0].Errors[0].VariantType = spec.Bool(true)
	mod.ResultFromErr = spec.Bool(false)
	m := testkit.BuildModule(t, mod, mir.Options{Test: true})

	var got []string
	for _, tc := range m.Tests {
		got = append(got, tc.Func)
	}
	want := []string{
		"TestCategoryName", "TestCategoryDisplay", "TestCategoryUniqueness", "TestCategoryValues",
		"TestKindName", "TestKindDisplay", "TestKindUniqueness", "TestKindValueUniqueness",
		"TestKindValue", "TestKindCategory", "TestKindFromValue", "TestKindFromValueInvalid",
		"TestVariantTypes", "TestKindResult", "TestErrDisplay", "TestErrLocation", "TestErrorIs",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tests = %v\nwant %v", got, want)
	}

	if m := testkit.BuildModule(t, twoCategories(), mir.Options{}); len(m.Tests) != 0 {
		t.Fatalf("tests generated without the test option")
	}
}

func TestNestedPrefix(t *testing.T) {
	mod := twoCategories()
	mod.Name = "parser_errors"
	mod.Categories[1].Errors[1].VariantTypeName = spec.String("ReadError")
	m := testkit.BuildModule(t, mod, mir.Options{Nested: true, Test: true})

	if m.Prefix != "ParserErrors" {
		t.Fatalf("Prefix = %q", m.Prefix)
	}
	checks := map[string]string{
		"Err":           m.Err.Name,
		"Kind":          m.Kind.Name,
		"Cat":           m.Cat.Name,
		"CategoriesVar": m.CategoriesVar,
		"KindsVar":      m.KindsVar,
		"FromValue":     m.FromValue,
		"KindResult":    m.KindResult,
		"VariantBits":   m.Private.VariantBits,
		"KindsType":     m.Categories[0].KindsType,
		"VariantType":   m.VariantTypes[0].Name,
		"KindRef":       m.Kinds[0].Ref,
		"Test":          m.Tests[0].Func,
	}
	want := map[string]string{
		"Err":           "ParserErrorsError",
		"Kind":          "ParserErrorsErrorKind",
		"Cat":           "ParserErrorsErrorCategory",
		"CategoriesVar": "ParserErrorsCategories",
		"KindsVar":      "ParserErrorsKinds",
		"FromValue":     "ParserErrorsErrorKindFromValue",
		"KindResult":    "ParserErrorsErrorKindResult",
		"VariantBits":   "parserErrorsKindVariantBits",
		"KindsType":     "parserErrorsParsingKinds",
		"VariantType":   "ParserErrorsReadError",
		"KindRef":       "ParserErrorsKinds.Parsing.P",
		"Test":          "TestParserErrorsCategoryName",
	}
	if !reflect.DeepEqual(checks, want) {
		t.Fatalf("identifiers = %v\nwant %v", checks, want)
	}
}

func TestDocs(t *testing.T) {
	mod := twoCategories()
	mod.DocFromDisplay = spec.Bool(true)
	mod.ErrKindDoc = spec.String("Kinds of failure.")
	mod.ErrCatDoc = spec.String("")
	mod.Categories[0].Doc = spec.String("Parsing errors.")
	mod.Categories[0].Errors[0].Display = spec.String("bad token")
	mod.Categories[0].Errors[1].Display = spec.String("bad quote")
	mod.Categories[0].Errors[1].Doc = spec.String("Unbalanced quote.")
	mod.Categories[1].Errors[0].VariantType = spec.Bool(true)
	m := testkit.BuildModule(t, mod, mir.Options{})

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"error type default", m.Err.Doc, "Error is the error type.\n\nSee Kinds for error kind constants."},
		{"kind type explicit", m.Kind.Doc, "Kinds of failure."},
		{"category type explicit empty", m.Cat.Doc, ""},
		{"category explicit", m.Categories[0].Doc, "Parsing errors."},
		{"category none", m.Categories[1].Doc, ""},
		{"kind from display", m.Kinds[0].Doc, "bad token"},
		{"kind explicit doc wins", m.Kinds[1].Doc, "Unbalanced quote."},
		{"kind display default", m.Kinds[0].Display, "bad token"},
		{"variant type default", m.VariantTypes[0].Doc, "Q is the variant type of Kinds.Processing.Q."},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}

	implicit := testkit.Module("errors_mod", testkit.Category("General", "BadFile"))
	implicit.Categories[0].Implicit = true
	m = testkit.BuildModule(t, implicit, mir.Options{})
	if m.Categories[0].Doc != spec.DefaultGeneralCatDoc {
		t.Fatalf("implicit category doc = %q", m.Categories[0].Doc)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	dump := func() string {
		mod := twoCategories()
		mod.Categories[0].Errors[1].VariantType = spec.Bool(true)
		m := testkit.BuildModule(t, mod, mir.Options{Test: true})
		var buf bytes.Buffer
		u := &mir.Unit{Name: "errors_mod", Package: "errors_mod", Modules: []*mir.Module{m}}
		if err := mir.DumpUnit(&buf, u); err != nil {
			t.Fatalf("DumpUnit: %v", err)
		}
		return buf.String()
	}
	first := dump()
	if second := dump(); first != second {
		t.Fatalf("dumps differ:\n%s\n---\n%s", first, second)
	}
	for _, want := range []string{
		"unit errors_mod package=errors_mod",
		"module errors_mod repr=uint8 check=category_max",
		"K1.0: Q = 0x2 ref=Kinds.Processing.Q",
		"variant_type=Q",
		"test TestErrorIs",
	} {
		if !strings.Contains(first, want) {
			t.Errorf("dump lacks %q:\n%s", want, first)
		}
	}
}

func TestBuildPanicsOnMismatchedTable(t *testing.T) {
	m := testkit.BuildModule(t, twoCategories(), mir.Options{})
	shorter := testkit.Module("errors_mod",
		testkit.Category("Parsing", "P"),
		testkit.Category("Processing", "Q", "R"),
	)
	tests := []struct {
		name string
		mod  *spec.Module
		tab  *symbols.Table
	}{
		{"nil table", testkit.Module("errors_mod", testkit.Category("General", "BadFile")), nil},
		{"category count", testkit.Module("errors_mod", testkit.Category("General", "BadFile")), symbols.Build(twoCategories())},
		{"error count", twoCategories(), symbols.Build(shorter)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("Build must panic when the symbol table does not match")
				}
			}()
			mir.Build(tt.mod, m.Plan, tt.tab, mir.Options{})
		})
	}
}

func testkitValidate(mod *spec.Module) error {
	return sema.Validate(testkit.Spec(mod))
}
