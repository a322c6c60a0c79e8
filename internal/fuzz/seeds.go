package fuzztests

import (
	"testing"

	"github.com/tighterror/tighterror/internal/starter"
)

const maxSeedBytes = 64 << 10 // 64 KiB

var yamlSeeds = []string{
	"",
	"errors: [BadFile]\n",
	"errors:\n  - BadFile: bad file\n  - name: Timeout\n    variant_type: true\n",
	"categories:\n  - name: Io\n    errors: [A, B]\n  - name: Net\n    doc_from_display: true\n    errors: [{C: see c}]\n",
	"module:\n  name: parsing\n  flat_kinds: true\nerrors: [Eof]\n",
	"main:\n  no_std: true\nmodules:\n  - name: a\n    errors: [X]\n  - name: b\n    errors: [Y]\n",
	"errors: [bad_name]\n",
	"modules:\n  - name: a\n    err_name: BError\n    errors: [X]\n  - name: b\n    errors: [Y]\n",
	"errors: {A: 1}\n",
	"- just\n- a list\n",
}

var tomlSeeds = []string{
	"",
	"errors = [\"BadFile\"]\n",
	"[main]\nseparate_files = true\n\n[[modules]]\nname = \"a\"\nerrors = [\"X\"]\n",
	"[[categories]]\nname = \"Io\"\n\n[[categories.errors]]\nname = \"A\"\ndisplay = \"a\"\n",
	"errors = [{ A = \"a\" }, { name = \"B\", variant_type_name = \"BErr\" }]\n",
	"[module\n",
}

func addSeeds(f *testing.F, format string) {
	seeds := yamlSeeds
	if format == "toml" {
		seeds = tomlSeeds
	}
	for _, s := range seeds {
		f.Add([]byte(s))
	}
	if data, err := starter.Spec(format); err == nil {
		f.Add(clampSeed(data))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
