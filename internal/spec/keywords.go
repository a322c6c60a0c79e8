package spec

// Spec vocabulary.
const (
	KwMain              = "main"
	KwModule            = "module"
	KwModules           = "modules"
	KwCategory          = "category"
	KwCategories        = "categories"
	KwErrors            = "errors"
	KwOutput            = "output"
	KwNoStd             = "no_std"
	KwSeparateFiles     = "separate_files"
	KwName              = "name"
	KwDoc               = "doc"
	KwErrDoc            = "err_doc"
	KwErrKindDoc        = "err_kind_doc"
	KwErrCatDoc         = "err_cat_doc"
	KwErrName           = "err_name"
	KwErrKindName       = "err_kind_name"
	KwErrCatName        = "err_cat_name"
	KwResultFromErr     = "result_from_err"
	KwResultFromErrKind = "result_from_err_kind"
	KwErrorTrait        = "error_trait"
	KwFlatKinds         = "flat_kinds"
	KwDocFromDisplay    = "doc_from_display"
	KwDisplay           = "display"
	KwVariantTypeName   = "variant_type_name"
	KwVariantType       = "variant_type"
)

var (
	RootKeywords = []string{KwMain, KwModule, KwModules, KwCategory, KwCategories, KwErrors}
	MainKeywords = []string{KwOutput, KwNoStd, KwSeparateFiles}

	ModuleKeywords = []string{
		KwName, KwDoc, KwErrDoc, KwErrKindDoc, KwErrCatDoc,
		KwErrName, KwErrKindName, KwErrCatName,
		KwResultFromErr, KwResultFromErrKind, KwErrorTrait, KwFlatKinds, KwDocFromDisplay,
		KwCategories, KwErrors,
	}
	CategoryKeywords = []string{KwName, KwDoc, KwDocFromDisplay, KwErrors}
	ErrorKeywords    = []string{KwName, KwDisplay, KwDoc, KwDocFromDisplay, KwVariantTypeName, KwVariantType}
)

var allKeywords = func() map[string]struct{} {
	out := make(map[string]struct{})
	for _, set := range [][]string{RootKeywords, MainKeywords, ModuleKeywords, CategoryKeywords, ErrorKeywords} {
		for _, kw := range set {
			out[kw] = struct{}{}
		}
	}
	return out
}()

// IsKeyword reports whether s is part of the spec vocabulary.
func IsKeyword(s string) bool {
	_, ok := allKeywords[s]
	return ok
}
