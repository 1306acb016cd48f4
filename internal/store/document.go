package store

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
)

const (
	idField       = "id"
	revisionField = "revision"
)

// Prepare проставляет id и начальную ревизию перед вставкой
func Prepare(id string, doc []byte) ([]byte, error) {
	obj, err := decodeObject(doc)
	if err != nil {
		return nil, err
	}
	obj[idField] = mustRaw(id)
	obj[revisionField] = mustRaw(int64(1))
	return json.Marshal(obj)
}

// Merge применяет fields к doc, если ревизия равна ifRevision.
// При несовпадении matched=false и out=nil
func Merge(doc []byte, fields map[string]any, ifRevision int64) (out []byte, matched bool, err error) {
	obj, err := decodeObject(doc)
	if err != nil {
		return nil, false, err
	}
	rev := revisionOf(obj)
	if ifRevision != AnyRevision && rev != ifRevision {
		return nil, false, nil
	}
	if err := CheckFields(fields); err != nil {
		return nil, false, err
	}
	for key, value := range fields {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, false, fmt.Errorf("marshal field %s: %w", key, err)
		}
		obj[key] = raw
	}
	obj[revisionField] = mustRaw(rev + 1)
	out, err = json.Marshal(obj)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// CheckFields запрещает менять служебные поля
func CheckFields(fields map[string]any) error {
	for key := range fields {
		if key == idField || key == revisionField {
			return fmt.Errorf("%w: %s", ErrReservedField, key)
		}
	}
	return nil
}

// Revision читает ревизию документа
func Revision(doc []byte) (int64, error) {
	obj, err := decodeObject(doc)
	if err != nil {
		return 0, err
	}
	return revisionOf(obj), nil
}

// Select применяет к docs фильтр, сортировку и окно из q
func Select(docs [][]byte, q Query) ([][]byte, error) {
	type entry struct {
		raw  []byte
		tree map[string]any
	}
	want, err := normalize(q.Equals)
	if err != nil {
		return nil, err
	}

	var entries []entry
	for _, raw := range docs {
		var tree map[string]any
		if err := json.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotObject, err)
		}
		if matches(tree, want) {
			entries = append(entries, entry{raw: raw, tree: tree})
		}
	}

	if q.SortBy != "" {
		sort.SliceStable(entries, func(i, j int) bool {
			a, _ := lookup(entries[i].tree, q.SortBy)
			b, _ := lookup(entries[j].tree, q.SortBy)
			if q.Descending {
				return compare(b, a) < 0
			}
			return compare(a, b) < 0
		})
	}

	skip := q.Skip
	if skip < 0 {
		skip = 0
	}
	if skip >= len(entries) {
		return [][]byte{}, nil
	}
	entries = entries[skip:]
	if q.Limit > 0 && q.Limit < len(entries) {
		entries = entries[:q.Limit]
	}

	out := make([][]byte, len(entries))
	for i, e := range entries {
		out[i] = e.raw
	}
	return out, nil
}

func decodeObject(doc []byte) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(doc, &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotObject, err)
	}
	if obj == nil {
		return nil, ErrNotObject
	}
	return obj, nil
}

func revisionOf(obj map[string]json.RawMessage) int64 {
	var rev int64
	if raw, ok := obj[revisionField]; ok {
		_ = json.Unmarshal(raw, &rev)
	}
	return rev
}

func mustRaw(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}

// normalize прогоняет значение через JSON, чтобы оно сравнивалось
// с декодированными документами (числа становятся float64)
func normalize(equals map[string]any) (map[string]any, error) {
	if len(equals) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(equals)
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("normalize query: %w", err)
	}
	return out, nil
}

func matches(tree, want map[string]any) bool {
	for path, expected := range want {
		actual, ok := lookup(tree, path)
		if !ok || !reflect.DeepEqual(actual, expected) {
			return false
		}
	}
	return true
}

func lookup(tree map[string]any, path string) (any, bool) {
	var cur any = tree
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// compare: сначала nil, потом числа, потом время, потом остальные строки
func compare(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	if x, ok := a.(float64); ok {
		if y, ok := b.(float64); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	if x, ok := a.(string); ok {
		if y, ok := b.(string); ok {
			tx, errX := time.Parse(time.RFC3339Nano, x)
			ty, errY := time.Parse(time.RFC3339Nano, y)
			if errX == nil && errY == nil {
				return tx.Compare(ty)
			}
			return strings.Compare(x, y)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
