package spec

const (
	// StdoutPath selects standard output as destination.
	StdoutPath = "-"

	DefaultModuleName        = "tighterror"
	ImplicitCategoryName     = "General"
	DefaultErrName           = "Error"
	DefaultErrKindName       = "ErrorKind"
	DefaultErrCatName        = "ErrorCategory"
	DefaultGeneralCatDoc     = "General error category."
	DefaultDocFromDisplay    = false
	DefaultResultFromErr     = true
	DefaultResultFromErrKind = true
	DefaultErrorTrait        = true
	DefaultFlatKinds         = false
	DefaultNoStd             = false
	DefaultSeparateFiles     = false
	DefaultVariantType       = false
)
