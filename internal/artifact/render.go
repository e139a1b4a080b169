package artifact

import "fmt"

const metaTemplate = `/**
 *? Generated by meta_gen filter
 *! Edits will be discrded!
 */

/**
 * Contains meta information about the pack, such as version and git info.
 * This information is generated at build time and can be used in the code to display version info or for debugging purposes.
 */
const Meta = {
  manifest: {
    bp: {
      version: %s,
      min_engine_version: %s,
    },
    rp: {
      version: %s,
      min_engine_version: %s,
    },
  },
  github: {
    commit: %s,
    tag: %s,
  },
} as const;

export default Meta;
`

// PackMeta is the per-pack slice of the generated file. Values may be any
// type FormatValue accepts; nil renders as undefined.
type PackMeta struct {
	Version          any
	MinEngineVersion any
}

// Metadata is everything embedded in the generated file. Empty Commit or Tag
// render as undefined.
type Metadata struct {
	BP     PackMeta
	RP     PackMeta
	Commit string
	Tag    string
}

// Render produces the generated source. Output is a pure function of m.
func Render(m Metadata) []byte {
	return []byte(fmt.Sprintf(metaTemplate,
		FormatValue(m.BP.Version),
		FormatValue(m.BP.MinEngineVersion),
		FormatValue(m.RP.Version),
		FormatValue(m.RP.MinEngineVersion),
		FormatValue(optional(m.Commit)),
		FormatValue(optional(m.Tag)),
	))
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}
