// Package draft produces new immutable JSON-shaped values from in-place edits.
//
// A Draft is a mutable view over a base value built from map[string]any,
// []any and scalars. Edits never touch the base: the first edit below a node
// shallow-copies that node and every ancestor once, so subtrees that were not
// edited are shared by identity between the base and the produced value.
package draft

import (
	"fmt"
	"reflect"
	"strconv"
)

// PatchFunc edits a draft in place.
type PatchFunc func(d *Draft) error

// Error is raised by Draft methods that are used on the wrong kind of value,
// out of range, or after their producer returned.
type Error struct {
	Op   string
	Path string
	Msg  string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("draft: %s at root: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("draft: %s at %s: %s", e.Op, e.Path, e.Msg)
}

type state struct {
	revoked bool
	record  bool
	ops     []Operation
}

// Draft is a node of the mutable view. Drafts are only valid inside the
// PatchFunc they were handed to.
type Draft struct {
	st     *state
	parent *Draft

	// key or index locate this node inside parent.
	key   string
	index int

	base  any
	value any

	// owned means value is a copy private to this draft and may be edited in place.
	owned    bool
	modified bool
	detached bool

	children map[any]*Draft
}

/*
Produce runs fn on a draft of base and returns the resulting value.

BEHAVIOR:
---------
- base is never modified
- Subtrees fn did not edit are the very same maps and slices as in base
- If fn edits nothing, base itself is returned
- An error returned by fn is returned unchanged, with a nil value
- A misused draft (*Error) is returned as the error; other panics propagate
*/
func Produce(base any, fn PatchFunc) (any, error) {
	out, _, err := produce(base, fn, false)
	return out, err
}

// ProduceWithPatches is Produce that also returns the JSON Patch operations
// describing the edits, in the order they were made.
func ProduceWithPatches(base any, fn PatchFunc) (any, []Operation, error) {
	return produce(base, fn, true)
}

func produce(base any, fn PatchFunc, record bool) (out any, ops []Operation, err error) {
	if fn == nil {
		return base, nil, nil
	}

	st := &state{record: record}
	root := &Draft{st: st, base: base, value: base}

	defer func() {
		st.revoked = true
		if r := recover(); r != nil {
			e, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			out, ops, err = nil, nil, e
		}
	}()

	if err := fn(root); err != nil {
		return nil, nil, err
	}

	if !root.modified {
		return base, st.ops, nil
	}
	return root.value, st.ops, nil
}

// Value returns the current value under this draft. The result must be
// treated as read-only: it may be part of the base.
func (d *Draft) Value() any {
	d.check("Value")
	return d.value
}

// Has reports whether the object under this draft has the given field.
func (d *Draft) Has(key string) bool {
	m := d.object("Has")
	_, ok := m[key]
	return ok
}

// Len returns the length of the list or the field count of the object.
func (d *Draft) Len() int {
	d.check("Len")
	switch v := d.value.(type) {
	case []any:
		return len(v)
	case map[string]any:
		return len(v)
	}
	panic(d.errorf("Len", "value is %s, not a list or object", kindOf(d.value)))
}

// Get returns the draft of one field of an object. A missing field yields a
// draft whose value is nil.
func (d *Draft) Get(key string) *Draft {
	m := d.object("Get")
	if c, ok := d.children[key]; ok {
		return c
	}
	c := &Draft{st: d.st, parent: d, key: key, index: -1, base: m[key], value: m[key]}
	d.child(key, c)
	return c
}

// Index returns the draft of one list element.
func (d *Draft) Index(i int) *Draft {
	s := d.list("Index")
	if i < 0 || i >= len(s) {
		panic(d.errorf("Index", "index %d out of range [0:%d]", i, len(s)))
	}
	if c, ok := d.children[i]; ok {
		return c
	}
	c := &Draft{st: d.st, parent: d, index: i, base: s[i], value: s[i]}
	d.child(i, c)
	return c
}

// Set sets one field of an object.
func (d *Draft) Set(key string, v any) {
	m := d.object("Set")
	old, exists := m[key]
	if exists && same(old, v) {
		return
	}

	d.prepare()
	d.value.(map[string]any)[key] = v
	d.detach(key)
	if exists {
		d.emit(opReplace, d.pathTo(key), v)
	} else {
		d.emit(opAdd, d.pathTo(key), v)
	}
	d.propagate()
}

// Delete removes one field of an object. Deleting a missing field is a no-op.
func (d *Draft) Delete(key string) {
	m := d.object("Delete")
	if _, ok := m[key]; !ok {
		return
	}

	d.prepare()
	delete(d.value.(map[string]any), key)
	d.detach(key)
	d.emit(opRemove, d.pathTo(key), nil)
	d.propagate()
}

// SetIndex replaces one list element.
func (d *Draft) SetIndex(i int, v any) {
	s := d.list("SetIndex")
	if i < 0 || i >= len(s) {
		panic(d.errorf("SetIndex", "index %d out of range [0:%d]", i, len(s)))
	}
	if same(s[i], v) {
		return
	}

	d.prepare()
	d.value.([]any)[i] = v
	d.detach(i)
	d.emit(opReplace, d.pathTo(strconv.Itoa(i)), v)
	d.propagate()
}

// Append adds elements to the end of a list.
func (d *Draft) Append(vs ...any) {
	s := d.list("Append")
	if len(vs) == 0 {
		return
	}

	d.prepare()
	n := len(s)
	d.value = append(d.value.([]any), vs...)
	for i, v := range vs {
		d.emit(opAdd, d.pathTo(strconv.Itoa(n+i)), v)
	}
	d.propagate()
}

// InsertAt inserts v before index i. i may equal Len to append.
func (d *Draft) InsertAt(i int, v any) {
	s := d.list("InsertAt")
	if i < 0 || i > len(s) {
		panic(d.errorf("InsertAt", "index %d out of range [0:%d]", i, len(s)))
	}

	d.prepare()
	cur := d.value.([]any)
	cur = append(cur, nil)
	copy(cur[i+1:], cur[i:])
	cur[i] = v
	d.value = cur
	d.detachAll()
	d.emit(opAdd, d.pathTo(strconv.Itoa(i)), v)
	d.propagate()
}

// RemoveAt removes the element at index i.
func (d *Draft) RemoveAt(i int) {
	s := d.list("RemoveAt")
	if i < 0 || i >= len(s) {
		panic(d.errorf("RemoveAt", "index %d out of range [0:%d]", i, len(s)))
	}

	d.prepare()
	cur := d.value.([]any)
	d.value = append(cur[:i], cur[i+1:]...)
	d.detachAll()
	d.emit(opRemove, d.pathTo(strconv.Itoa(i)), nil)
	d.propagate()
}

// Replace swaps the whole value under this draft for v. Later edits through
// this draft copy v before touching it.
func (d *Draft) Replace(v any) {
	d.check("Replace")
	if same(d.value, v) {
		return
	}

	d.value = v
	d.owned = false
	d.modified = true
	d.detachAll()
	d.emit(opReplace, d.path(), v)
	d.propagate()
}

// prepare makes d.value a private shallow copy.
func (d *Draft) prepare() {
	if d.owned {
		return
	}
	switch v := d.value.(type) {
	case map[string]any:
		m := make(map[string]any, len(v)+1)
		for k, x := range v {
			m[k] = x
		}
		d.value = m
	case []any:
		d.value = append(make([]any, 0, len(v)+1), v...)
	}
	d.owned = true
	d.modified = true
}

// propagate links the current value of d into every ancestor, copying each
// ancestor on its first change.
func (d *Draft) propagate() {
	p := d.parent
	if p == nil {
		return
	}
	p.prepare()
	switch pv := p.value.(type) {
	case map[string]any:
		pv[d.key] = d.value
	case []any:
		pv[d.index] = d.value
	}
	p.propagate()
}

func (d *Draft) child(k any, c *Draft) {
	if d.children == nil {
		d.children = make(map[any]*Draft)
	}
	d.children[k] = c
}

func (d *Draft) detach(k any) {
	if c, ok := d.children[k]; ok {
		c.detached = true
		delete(d.children, k)
	}
}

func (d *Draft) detachAll() {
	for _, c := range d.children {
		c.detached = true
	}
	d.children = nil
}

func (d *Draft) check(op string) {
	if d.st.revoked {
		panic(d.errorf(op, "draft used after its producer returned"))
	}
	for x := d; x != nil; x = x.parent {
		if x.detached {
			panic(d.errorf(op, "draft is no longer attached to its parent"))
		}
	}
}

func (d *Draft) object(op string) map[string]any {
	d.check(op)
	m, ok := d.value.(map[string]any)
	if !ok {
		panic(d.errorf(op, "value is %s, not an object", kindOf(d.value)))
	}
	return m
}

func (d *Draft) list(op string) []any {
	d.check(op)
	s, ok := d.value.([]any)
	if !ok {
		panic(d.errorf(op, "value is %s, not a list", kindOf(d.value)))
	}
	return s
}

func (d *Draft) errorf(op, format string, args ...any) *Error {
	return &Error{Op: op, Path: d.path(), Msg: fmt.Sprintf(format, args...)}
}

// same reports whether writing b over a changes nothing.
func same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Map:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Len() == vb.Len() && va.Pointer() == vb.Pointer()
	}
	if !va.Type().Comparable() {
		return false
	}
	return a == b
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "an object"
	case []any:
		return "a list"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	}
	return fmt.Sprintf("%T", v)
}
