package spec

// OutputPath returns the configured destination or StdoutPath.
func (m Main) OutputPath() string {
	return stringOr(m.Output, StdoutPath)
}

func (m Main) NoStdOr() bool {
	return boolOr(m.NoStd, DefaultNoStd)
}

func (m Main) SeparateFilesOr() bool {
	return boolOr(m.SeparateFiles, DefaultSeparateFiles)
}

// ErrTypeName is the name of the generated error type.
func (m *Module) ErrTypeName() string {
	return stringOr(m.ErrName, DefaultErrName)
}

// ErrKindTypeName is the name of the generated kind type.
func (m *Module) ErrKindTypeName() string {
	return stringOr(m.ErrKindName, DefaultErrKindName)
}

// ErrCatTypeName is the name of the generated category type.
func (m *Module) ErrCatTypeName() string {
	return stringOr(m.ErrCatName, DefaultErrCatName)
}

func (m *Module) ResultFromErrOr() bool {
	return boolOr(m.ResultFromErr, DefaultResultFromErr)
}

func (m *Module) ResultFromErrKindOr() bool {
	return boolOr(m.ResultFromErrKind, DefaultResultFromErrKind)
}

func (m *Module) ErrorTraitOr() bool {
	return boolOr(m.ErrorTrait, DefaultErrorTrait)
}

func (m *Module) FlatKindsOr() bool {
	return boolOr(m.FlatKinds, DefaultFlatKinds)
}

func (m *Module) DocFromDisplayOr() bool {
	return boolOr(m.DocFromDisplay, DefaultDocFromDisplay)
}

// MaxErrors returns the size of the largest category.
func (m *Module) MaxErrors() int {
	n := 0
	for _, c := range m.Categories {
		n = max(n, len(c.Errors))
	}
	return n
}

// DocFromDisplayIn resolves the category override against its module.
func (c *Category) DocFromDisplayIn(m *Module) bool {
	if c.DocFromDisplay != nil {
		return *c.DocFromDisplay
	}
	return m.DocFromDisplayOr()
}

// DocFromDisplayIn resolves the error override: error, category, module, default.
func (e *Error) DocFromDisplayIn(c *Category, m *Module) bool {
	if e.DocFromDisplay != nil {
		return *e.DocFromDisplay
	}
	return c.DocFromDisplayIn(m)
}

// DisplayOrName returns the display string, defaulting to the name.
func (e *Error) DisplayOrName() string {
	return stringOr(e.Display, e.Name)
}

// HasVariantType reports whether a variant type is generated for e.
// Setting variant_type_name implies variant_type.
func (e *Error) HasVariantType() bool {
	if e.VariantType != nil {
		return *e.VariantType
	}
	return e.VariantTypeName != nil || DefaultVariantType
}

// VariantTypeIdent is the variant type name, defaulting to the error name.
func (e *Error) VariantTypeIdent() string {
	return stringOr(e.VariantTypeName, e.Name)
}

// ResolvedDoc resolves the documentation of e: explicit doc, then the display
// string when doc_from_display holds, then empty.
func (e *Error) ResolvedDoc(c *Category, m *Module) string {
	if e.Doc != nil {
		return *e.Doc
	}
	if e.Display != nil && e.DocFromDisplayIn(c, m) {
		return *e.Display
	}
	return ""
}
