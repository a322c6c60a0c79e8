package diag

import (
	"fmt"
	"slices"
	"strings"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Spec parsing and validation
	ParserInfo                Code = 1000
	BadSpec                   Code = 1001
	BadIdentifierCharacters   Code = 1002
	BadIdentifierCase         Code = 1003
	BadKeywordType            Code = 1004
	BadModuleIdentifier       Code = 1005
	BadName                   Code = 1006
	BadObjectAttribute        Code = 1007
	BadSpecFileExtension      Code = 1008
	BadToml                   Code = 1009
	BadRootLevelKeyword       Code = 1010
	BadValueType              Code = 1011
	BadYaml                   Code = 1012
	EmptyIdentifier           Code = 1013
	EmptyList                 Code = 1014
	FailedToOpenSpecFile      Code = 1015
	MissingAttribute          Code = 1016
	MutuallyExclusiveKeywords Code = 1017
	NonUniqueName             Code = 1018
	SpecFileNotFound          Code = 1019
	NameCollision             Code = 1020

	// Code generation and output
	CoderInfo               Code = 2000
	TooManyBits             Code = 2001
	FailedToReadOutputFile  Code = 2002
	FailedToWriteOutputFile Code = 2003
	OutputPathNotDirectory  Code = 2004
	FormatFailed            Code = 2005
)

var (
	codeName = map[Code]string{
		UnknownCode:               "UNKNOWN",
		ParserInfo:                "PARSER_INFO",
		BadSpec:                   "BAD_SPEC",
		BadIdentifierCharacters:   "BAD_IDENTIFIER_CHARACTERS",
		BadIdentifierCase:         "BAD_IDENTIFIER_CASE",
		BadKeywordType:            "BAD_KEYWORD_TYPE",
		BadModuleIdentifier:       "BAD_MODULE_IDENTIFIER",
		BadName:                   "BAD_NAME",
		BadObjectAttribute:        "BAD_OBJECT_ATTRIBUTE",
		BadSpecFileExtension:      "BAD_SPEC_FILE_EXTENSION",
		BadToml:                   "BAD_TOML",
		BadRootLevelKeyword:       "BAD_ROOT_LEVEL_KEYWORD",
		BadValueType:              "BAD_VALUE_TYPE",
		BadYaml:                   "BAD_YAML",
		EmptyIdentifier:           "EMPTY_IDENTIFIER",
		EmptyList:                 "EMPTY_LIST",
		FailedToOpenSpecFile:      "FAILED_TO_OPEN_SPEC_FILE",
		MissingAttribute:          "MISSING_ATTRIBUTE",
		MutuallyExclusiveKeywords: "MUTUALLY_EXCLUSIVE_KEYWORDS",
		NonUniqueName:             "NON_UNIQUE_NAME",
		SpecFileNotFound:          "SPEC_FILE_NOT_FOUND",
		NameCollision:             "NAME_COLLISION",
		CoderInfo:                 "CODER_INFO",
		TooManyBits:               "TOO_MANY_BITS",
		FailedToReadOutputFile:    "FAILED_TO_READ_OUTPUT_FILE",
		FailedToWriteOutputFile:   "FAILED_TO_WRITE_OUTPUT_FILE",
		OutputPathNotDirectory:    "OUTPUT_PATH_NOT_DIRECTORY",
		FormatFailed:              "FORMAT_FAILED",
	}

	codeDescription = map[Code]string{
		UnknownCode:               "Unknown error",
		ParserInfo:                "Parser information",
		BadSpec:                   "Specification is invalid",
		BadIdentifierCharacters:   "Identifier contains unsupported characters",
		BadIdentifierCase:         "Identifier is specified in an unsupported case",
		BadKeywordType:            "Specification keyword is not a string",
		BadModuleIdentifier:       "Identifier is not valid on module level",
		BadName:                   "Invalid name",
		BadObjectAttribute:        "An object attribute is invalid",
		BadSpecFileExtension:      "Specification file extension is not supported",
		BadToml:                   "TOML deserialization has failed",
		BadRootLevelKeyword:       "Specification contains an unsupported root-level keyword",
		BadValueType:              "Specification value type is invalid",
		BadYaml:                   "YAML deserialization has failed",
		EmptyIdentifier:           "An identifier cannot be an empty string",
		EmptyList:                 "Empty list of objects is not allowed",
		FailedToOpenSpecFile:      "Specification file couldn't be opened",
		MissingAttribute:          "Specification lacks a mandatory attribute",
		MutuallyExclusiveKeywords: "Specification contains mutually exclusive keywords",
		NonUniqueName:             "A name is not unique",
		SpecFileNotFound:          "Specification file couldn't be found",
		NameCollision:             "Generated identifiers collide",
		CoderInfo:                 "Coder information",
		TooManyBits:               "Number of bits required for error kind exceeds 64",
		FailedToReadOutputFile:    "Output file couldn't be read",
		FailedToWriteOutputFile:   "Output file couldn't be written",
		OutputPathNotDirectory:    "Output path is not a directory",
		FormatFailed:              "Generated code couldn't be formatted",
	}
)

// Codes returns every known code in ascending order.
func Codes() []Code {
	out := make([]Code, 0, len(codeName))
	for c := range codeName {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// Lookup resolves a code by its ID ("PRS1001") or machine name ("BAD_SPEC").
func Lookup(s string) (Code, bool) {
	s = strings.TrimSpace(s)
	for c, name := range codeName {
		if strings.EqualFold(name, s) || strings.EqualFold(c.ID(), s) {
			return c, true
		}
	}
	return UnknownCode, false
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("PRS%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("COD%04d", ic)
	}
	return "E0000"
}

// Name is the stable machine-readable kind, e.g. NON_UNIQUE_NAME.
func (c Code) Name() string {
	if name, ok := codeName[c]; ok {
		return name
	}
	return codeName[UnknownCode]
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
