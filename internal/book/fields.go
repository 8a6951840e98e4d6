package book

import "time"

// Schema-driven stages (the response parser, the prompt builder, the merger)
// address record fields by schema field name. The tables below map those
// names to explicit typed accessors, so adding a field to the schema needs
// one new table entry instead of reflection.

type accessor struct {
	get func(*Record) (any, bool)
	set func(*Record, any) bool
}

func strGet(f func(*Record) string) func(*Record) (any, bool) {
	return func(r *Record) (any, bool) {
		v := f(r)
		return v, v != ""
	}
}

func intGet(f func(*Record) int) func(*Record) (any, bool) {
	return func(r *Record) (any, bool) {
		v := f(r)
		return v, v != 0
	}
}

func strSet(f func(*Record, string)) func(*Record, any) bool {
	return func(r *Record, v any) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		f(r, s)
		return true
	}
}

func intSet(f func(*Record, int)) func(*Record, any) bool {
	return func(r *Record, v any) bool {
		switch n := v.(type) {
		case int:
			f(r, n)
		case int64:
			f(r, int(n))
		case float64:
			f(r, int(n))
		default:
			return false
		}
		return true
	}
}

func listSet(f func(*Record, []string)) func(*Record, any) bool {
	return func(r *Record, v any) bool {
		l, ok := v.([]string)
		if !ok {
			return false
		}
		f(r, append([]string(nil), l...))
		return true
	}
}

var editionAccessors = map[string]accessor{
	"title": {
		get: strGet(func(r *Record) string { return r.Title }),
		set: strSet(func(r *Record, v string) { r.Title = v }),
	},
	"subtitle": {
		get: strGet(func(r *Record) string { return r.Subtitle }),
		set: strSet(func(r *Record, v string) { r.Subtitle = v }),
	},
	"authors": {
		get: func(r *Record) (any, bool) { return r.Authors, len(r.Authors) > 0 },
		set: listSet(func(r *Record, v []string) { r.Authors = v }),
	},
	"series": {
		get: strGet(func(r *Record) string { return r.Series }),
		set: strSet(func(r *Record, v string) { r.Series = v }),
	},
	"series_index": {
		get: intGet(func(r *Record) int { return r.SeriesIndex }),
		set: intSet(func(r *Record, v int) { r.SeriesIndex = v }),
	},
	"series_total": {
		get: intGet(func(r *Record) int { return r.SeriesTotal }),
		set: intSet(func(r *Record, v int) { r.SeriesTotal = v }),
	},
	"language": {
		get: strGet(func(r *Record) string { return r.Language }),
		set: strSet(func(r *Record, v string) { r.Language = v }),
	},
	"publisher": {
		get: strGet(func(r *Record) string { return r.Publisher }),
		set: strSet(func(r *Record, v string) { r.Publisher = v }),
	},
	"isbn10": {
		get: strGet(func(r *Record) string { return r.ISBN10 }),
		set: strSet(func(r *Record, v string) { r.ISBN10 = v }),
	},
	"isbn13": {
		get: strGet(func(r *Record) string { return r.ISBN13 }),
		set: strSet(func(r *Record, v string) { r.ISBN13 = v }),
	},
	"asin": {
		get: strGet(func(r *Record) string { return r.ASIN }),
		set: strSet(func(r *Record, v string) { r.ASIN = v }),
	},
	"published": {
		get: func(r *Record) (any, bool) { return r.Published, !r.Published.IsZero() },
		set: func(r *Record, v any) bool {
			t, ok := v.(time.Time)
			if !ok {
				return false
			}
			r.Published = t
			return true
		},
	},
	"year": {
		get: intGet(func(r *Record) int { return r.Year }),
		set: intSet(func(r *Record, v int) { r.Year = v }),
	},
	"description": {
		get: strGet(func(r *Record) string { return r.Description }),
		set: strSet(func(r *Record, v string) { r.Description = v }),
	},
	"tags": {
		get: func(r *Record) (any, bool) { return r.Tags, len(r.Tags) > 0 },
		set: listSet(func(r *Record, v []string) { r.Tags = v }),
	},
}

type originalAccessor struct {
	get func(*OriginalWork) (any, bool)
	set func(*OriginalWork, any) bool
}

var originalAccessors = map[string]originalAccessor{
	"title": {
		get: func(o *OriginalWork) (any, bool) { return o.Title, o.Title != "" },
		set: func(o *OriginalWork, v any) bool {
			s, ok := v.(string)
			if ok {
				o.Title = s
			}
			return ok
		},
	},
	"authors": {
		get: func(o *OriginalWork) (any, bool) { return o.Authors, len(o.Authors) > 0 },
		set: func(o *OriginalWork, v any) bool {
			l, ok := v.([]string)
			if ok {
				o.Authors = append([]string(nil), l...)
			}
			return ok
		},
	},
	"language": {
		get: func(o *OriginalWork) (any, bool) { return o.Language, o.Language != "" },
		set: func(o *OriginalWork, v any) bool {
			s, ok := v.(string)
			if ok {
				o.Language = s
			}
			return ok
		},
	},
	"year": {
		get: func(o *OriginalWork) (any, bool) { return o.Year, o.Year != 0 },
		set: func(o *OriginalWork, v any) bool {
			switch n := v.(type) {
			case int:
				o.Year = n
			case int64:
				o.Year = int(n)
			case float64:
				o.Year = int(n)
			default:
				return false
			}
			return true
		},
	},
}

// EditionValue returns the edition field addressed by schema field name,
// and whether it is set. Unknown names report not set.
func EditionValue(r *Record, name string) (any, bool) {
	a, ok := editionAccessors[name]
	if !ok {
		return nil, false
	}
	return a.get(r)
}

// SetEditionField assigns a parsed value to the edition field addressed by
// schema field name. It reports whether the name was known and the value
// had the expected type.
func SetEditionField(r *Record, name string, value any) bool {
	a, ok := editionAccessors[name]
	if !ok {
		return false
	}
	return a.set(r, value)
}

// OriginalValue returns the original-work field addressed by schema field
// name, and whether it is set.
func OriginalValue(o *OriginalWork, name string) (any, bool) {
	if o == nil {
		return nil, false
	}
	a, ok := originalAccessors[name]
	if !ok {
		return nil, false
	}
	return a.get(o)
}

// SetOriginalField assigns a parsed value to the original-work field
// addressed by schema field name.
func SetOriginalField(o *OriginalWork, name string, value any) bool {
	a, ok := originalAccessors[name]
	if !ok {
		return false
	}
	return a.set(o, value)
}
