package mir

// TestKind identifies one canned test of the bundle.
type TestKind uint8

const (
	TestCategoryName TestKind = iota
	TestCategoryDisplay
	TestCategoryUniqueness
	TestCategoryValues
	TestKindName
	TestKindDisplay
	TestKindUniqueness
	TestKindValueUniqueness
	TestKindValue
	TestKindCategory
	TestKindFromValue
	TestKindFromValueInvalid
	TestVariantTypes
	TestKindResult
	TestErrResult
	TestErrDisplay
	TestErrLocation
	TestErrorIs
)

var testKindNames = [...]string{
	TestCategoryName:         "CategoryName",
	TestCategoryDisplay:      "CategoryDisplay",
	TestCategoryUniqueness:   "CategoryUniqueness",
	TestCategoryValues:       "CategoryValues",
	TestKindName:             "KindName",
	TestKindDisplay:          "KindDisplay",
	TestKindUniqueness:       "KindUniqueness",
	TestKindValueUniqueness:  "KindValueUniqueness",
	TestKindValue:            "KindValue",
	TestKindCategory:         "KindCategory",
	TestKindFromValue:        "KindFromValue",
	TestKindFromValueInvalid: "KindFromValueInvalid",
	TestVariantTypes:         "VariantTypes",
	TestKindResult:           "KindResult",
	TestErrResult:            "ErrResult",
	TestErrDisplay:           "ErrDisplay",
	TestErrLocation:          "ErrLocation",
	TestErrorIs:              "ErrorIs",
}

func (k TestKind) String() string {
	if int(k) < len(testKindNames) {
		return testKindNames[k]
	}
	return "Unknown"
}

// NeedsStd reports whether the test relies on maps or string formatting
// and is left out of no_std bundles.
func (k TestKind) NeedsStd() bool {
	switch k {
	case TestCategoryDisplay, TestCategoryUniqueness,
		TestKindDisplay, TestKindUniqueness, TestKindValueUniqueness,
		TestErrDisplay:
		return true
	}
	return false
}

// TestCase is one generated test function.
type TestCase struct {
	Kind TestKind
	Func string
}

func buildTests(m *Module) []TestCase {
	var out []TestCase
	add := func(k TestKind) {
		if m.NoStd && k.NeedsStd() {
			return
		}
		out = append(out, TestCase{Kind: k, Func: "Test" + m.Prefix + k.String()})
	}
	add(TestCategoryName)
	add(TestCategoryDisplay)
	add(TestCategoryUniqueness)
	add(TestCategoryValues)
	add(TestKindName)
	add(TestKindDisplay)
	add(TestKindUniqueness)
	add(TestKindValueUniqueness)
	add(TestKindValue)
	add(TestKindCategory)
	add(TestKindFromValue)
	if len(m.InvalidProbes) > 0 {
		add(TestKindFromValueInvalid)
	}
	if len(m.VariantTypes) > 0 {
		add(TestVariantTypes)
	}
	if m.KindResult != "" {
		add(TestKindResult)
	}
	if m.ErrResult != "" {
		add(TestErrResult)
	}
	add(TestErrDisplay)
	if !m.NoStd {
		add(TestErrLocation)
	}
	if m.ErrorTrait {
		add(TestErrorIs)
	}
	return out
}
