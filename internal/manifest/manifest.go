package manifest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/gowebpki/jcs"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/launchbynttdata/launch-meta-gen/internal/domain/semtag"
)

// Pack identifies one of the two content bundles.
type Pack string

const (
	// PackBP is the behavior pack.
	PackBP Pack = "BP"
	// PackRP is the resource pack.
	PackRP Pack = "RP"
)

// Packs lists the packs in processing order.
var Packs = []Pack{PackBP, PackRP}

// ErrNotLoaded is returned when editing a record that has no document.
var ErrNotLoaded = errors.New("manifest: record not loaded")

var encodeOptions = &pretty.Options{Width: 0, Prefix: "", Indent: "\t", SortKeys: false}

// Other returns the counterpart pack.
func (p Pack) Other() Pack {
	if p == PackBP {
		return PackRP
	}
	return PackBP
}

// Record is the loaded state of one pack manifest. A zero Record means the
// manifest was absent, unparseable, or had no header.
type Record struct {
	Pack             Pack
	Path             string
	Loaded           bool
	Document         []byte
	Version          gjson.Result
	MinEngineVersion gjson.Result
}

// Load reads the manifest at path. Read and parse failures yield an unloaded
// record rather than an error.
func Load(pack Pack, path string) Record {
	record := Record{Pack: pack}

	// #nosec G304 -- manifest paths come from the resolved pack layout.
	data, err := os.ReadFile(path)
	if err != nil || !gjson.ValidBytes(data) {
		return record
	}
	if !gjson.GetBytes(data, "header").IsObject() {
		return record
	}

	record.Path = path
	record.Loaded = true
	record.Document = data
	record.refresh()
	return record
}

// UUID returns header.uuid when it is a non-empty string.
func (r Record) UUID() (string, bool) {
	if !r.Loaded {
		return "", false
	}
	uuid := gjson.GetBytes(r.Document, "header.uuid")
	if uuid.Type != gjson.String || uuid.Str == "" {
		return "", false
	}
	return uuid.Str, true
}

// ApplyVersion stamps version onto header.version, every module, and every
// dependency whose uuid equals crossPackUUID. Key order is preserved.
func (r *Record) ApplyVersion(version semtag.Version, crossPackUUID string) error {
	if !r.Loaded {
		return ErrNotLoaded
	}

	tuple := version.Tuple()
	doc, err := sjson.SetBytes(r.Document, "header.version", tuple)
	if err != nil {
		return fmt.Errorf("setting header version: %w", err)
	}

	for i, module := range arrayAt(doc, "modules") {
		if !module.IsObject() {
			continue
		}
		doc, err = sjson.SetBytes(doc, fmt.Sprintf("modules.%d.version", i), tuple)
		if err != nil {
			return fmt.Errorf("setting module %d version: %w", i, err)
		}
	}

	if crossPackUUID != "" {
		for i, dep := range arrayAt(doc, "dependencies") {
			uuid := dep.Get("uuid")
			if !dep.IsObject() || uuid.Type != gjson.String || uuid.Str != crossPackUUID {
				continue
			}
			doc, err = sjson.SetBytes(doc, fmt.Sprintf("dependencies.%d.version", i), tuple)
			if err != nil {
				return fmt.Errorf("setting dependency %d version: %w", i, err)
			}
		}
	}

	r.Document = doc
	r.refresh()
	return nil
}

// Encode renders the document with tab indentation and no trailing newline.
func (r Record) Encode() ([]byte, error) {
	if !r.Loaded {
		return nil, ErrNotLoaded
	}
	return Format(r.Document), nil
}

// Format re-indents a JSON document with tabs, one array element per line.
func Format(doc []byte) []byte {
	return bytes.TrimRight(pretty.PrettyOptions(doc, encodeOptions), "\n")
}

// Digest returns the sha256 of the RFC 8785 canonical form of doc.
func Digest(doc []byte) (string, error) {
	canonical, err := jcs.Transform(doc)
	if err != nil {
		return "", fmt.Errorf("canonicalizing manifest: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

func (r *Record) refresh() {
	r.Version = gjson.GetBytes(r.Document, "header.version")
	r.MinEngineVersion = gjson.GetBytes(r.Document, "header.min_engine_version")
}

func arrayAt(doc []byte, path string) []gjson.Result {
	value := gjson.GetBytes(doc, path)
	if !value.IsArray() {
		return nil
	}
	return value.Array()
}
