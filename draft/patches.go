package draft

import (
	"encoding/json"
	"strconv"
	"strings"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/pkg/errors"
)

const (
	opAdd     = "add"
	opRemove  = "remove"
	opReplace = "replace"
)

// Operation is one RFC 6902 JSON Patch operation recorded by
// ProduceWithPatches.
type Operation struct {
	Op    string
	Path  string
	Value any
}

// MarshalJSON always writes "value" for add and replace, even when it is null.
func (o Operation) MarshalJSON() ([]byte, error) {
	if o.Op == opRemove {
		return json.Marshal(struct {
			Op   string `json:"op"`
			Path string `json:"path"`
		}{o.Op, o.Path})
	}
	return json.Marshal(struct {
		Op    string `json:"op"`
		Path  string `json:"path"`
		Value any    `json:"value"`
	}{o.Op, o.Path, o.Value})
}

/*
ApplyPatches replays recorded operations on base and returns the result.

BEHAVIOR:
---------
- base is encoded to JSON, patched, and decoded again, so the result shares
  nothing with base and numbers come back as float64
- A replace of the whole document ("" path) restarts from its value
*/
func ApplyPatches(base any, ops []Operation) (any, error) {
	start := 0
	for i, o := range ops {
		if o.Path == "" && o.Op == opReplace {
			base, start = o.Value, i+1
		}
	}
	ops = ops[start:]

	doc, err := json.Marshal(base)
	if err != nil {
		return nil, errors.Wrap(err, "encode base")
	}
	if len(ops) > 0 {
		raw, err := json.Marshal(ops)
		if err != nil {
			return nil, errors.Wrap(err, "encode operations")
		}
		patch, err := jsonpatch.DecodePatch(raw)
		if err != nil {
			return nil, errors.Wrap(err, "decode operations")
		}
		if doc, err = patch.Apply(doc); err != nil {
			return nil, errors.Wrap(err, "apply operations")
		}
	}

	var out any
	if err := json.Unmarshal(doc, &out); err != nil {
		return nil, errors.Wrap(err, "decode result")
	}
	return out, nil
}

func (d *Draft) emit(op, path string, v any) {
	if !d.st.record {
		return
	}
	d.st.ops = append(d.st.ops, Operation{Op: op, Path: path, Value: v})
}

// path is the JSON Pointer of this draft, "" for the root.
func (d *Draft) path() string {
	if d.parent == nil {
		return ""
	}
	seg := d.key
	if d.index >= 0 {
		seg = strconv.Itoa(d.index)
	}
	return d.parent.pathTo(seg)
}

func (d *Draft) pathTo(seg string) string {
	return d.path() + "/" + pointerEscaper.Replace(seg)
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")
