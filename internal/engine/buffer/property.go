package buffer

import "reflect"

// PropertyRun is a maximal run of characters sharing one property value.
type PropertyRun struct {
	Begin Position
	End   Position
	Value any
}

// PropertyAt returns the value of property name at pos, or nil.
func (b *Buffer) PropertyAt(pos Position, name string) any {
	vals := b.text.props[name]
	if pos < 0 || int(pos) >= len(vals) {
		return nil
	}
	return vals[pos]
}

// PropertyRuns returns the runs of property name over [begin, end).
func (b *Buffer) PropertyRuns(begin, end Position, name string) ([]PropertyRun, error) {
	if err := b.checkRange(begin, end); err != nil {
		return nil, err
	}
	vals := b.text.props[name]
	var runs []PropertyRun
	for pos := begin; pos < end; pos++ {
		var v any
		if vals != nil {
			v = vals[pos]
		}
		if n := len(runs); n > 0 && SameValue(runs[n-1].Value, v) {
			runs[n-1].End = pos + 1
			continue
		}
		runs = append(runs, PropertyRun{Begin: pos, End: pos + 1, Value: v})
	}
	return runs, nil
}

// PutProperty sets property name to value over [begin, end). It returns the
// runs whose previous value differed from value, which are the only parts
// that changed. Setting a property counts as a modification when any run
// changed.
func (b *Buffer) PutProperty(begin, end Position, name string, value any) ([]PropertyRun, error) {
	runs, err := b.PropertyRuns(begin, end, name)
	if err != nil {
		return nil, err
	}
	var changed []PropertyRun
	for _, r := range runs {
		if !SameValue(r.Value, value) {
			changed = append(changed, r)
		}
	}
	if len(changed) == 0 {
		return nil, nil
	}

	t := b.text
	vals := t.props[name]
	if vals == nil {
		vals = make([]any, len(t.runes))
		t.props[name] = vals
	}
	for pos := begin; pos < end; pos++ {
		vals[pos] = value
	}
	t.modiff++

	return changed, nil
}

// SameValue reports whether two property values are equal.
func SameValue(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
