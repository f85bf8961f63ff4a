package record

import (
	"strings"
	"unicode"
)

// FieldSpec declares one field of a session record. Label is the spoken
// form used when listing what is still missing ("milk preference" rather
// than "milk"). Declaration order is the order Missing reports in.
type FieldSpec struct {
	Name     string
	Label    string
	Required bool
	List     bool
}

// Record accumulates a partially-filled session record across tool calls.
// Scalar fields are last-write-wins; list fields are append-only sets
// compared case-insensitively. Fields are never cleared individually;
// Reset replaces the whole record for the next session.
type Record struct {
	specs  []FieldSpec
	values map[string]string
	lists  map[string][]string
}

func New(specs []FieldSpec) *Record {
	return &Record{
		specs:  specs,
		values: make(map[string]string, len(specs)),
		lists:  make(map[string][]string, 2),
	}
}

// Set writes a scalar field, overwriting any previous value.
func (r *Record) Set(field, value string) {
	r.values[field] = value
}

// Append adds value to a list field unless an entry already matches it
// case-insensitively. Reports whether the value was actually added.
func (r *Record) Append(field, value string) bool {
	for _, existing := range r.lists[field] {
		if strings.EqualFold(existing, value) {
			return false
		}
	}
	r.lists[field] = append(r.lists[field], value)
	return true
}

func (r *Record) Get(field string) (string, bool) {
	v, ok := r.values[field]
	return v, ok && v != ""
}

func (r *Record) List(field string) []string {
	return r.lists[field]
}

// Missing returns the labels of unmet required fields in declared order.
// An empty result means the record is complete.
func (r *Record) Missing() []string {
	var missing []string
	for _, spec := range r.specs {
		if !spec.Required {
			continue
		}
		if spec.List {
			if len(r.lists[spec.Name]) == 0 {
				missing = append(missing, spec.Label)
			}
			continue
		}
		if r.values[spec.Name] == "" {
			missing = append(missing, spec.Label)
		}
	}
	return missing
}

func (r *Record) Complete() bool {
	return len(r.Missing()) == 0
}

// Snapshot renders the record as a JSON-ready map. Unset scalars appear
// as nil so frontends can distinguish "not asked yet" from empty; list
// fields always appear, empty or not.
func (r *Record) Snapshot() map[string]any {
	out := make(map[string]any, len(r.specs))
	for _, spec := range r.specs {
		if spec.List {
			items := r.lists[spec.Name]
			if items == nil {
				items = []string{}
			}
			out[spec.Name] = items
			continue
		}
		if v, ok := r.values[spec.Name]; ok && v != "" {
			out[spec.Name] = v
		} else {
			out[spec.Name] = nil
		}
	}
	return out
}

// Reset discards all accumulated values, keeping the field declarations.
func (r *Record) Reset() {
	r.values = make(map[string]string, len(r.specs))
	r.lists = make(map[string][]string, 2)
}

// Normalize lower-cases free text the way every updater stores it.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// TitleCase title-cases a person's name for storage ("john smith" ->
// "John Smith").
func TitleCase(s string) string {
	words := strings.Fields(strings.TrimSpace(s))
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		if len(runes) > 0 {
			runes[0] = unicode.ToUpper(runes[0])
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
