package record

import (
	"reflect"
	"testing"
)

func orderSpecs() []FieldSpec {
	return []FieldSpec{
		{Name: "drinkType", Label: "drink type", Required: true},
		{Name: "size", Label: "size", Required: true},
		{Name: "milk", Label: "milk preference", Required: true},
		{Name: "extras", Label: "extras", List: true},
		{Name: "name", Label: "name", Required: true},
	}
}

func TestMissingDeclaredOrder(t *testing.T) {
	t.Parallel()

	r := New(orderSpecs())
	got := r.Missing()
	want := []string{"drink type", "size", "milk preference", "name"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Missing() = %v, want %v", got, want)
	}

	// Setting out of order must not change the reported order.
	r.Set("name", "Ada")
	r.Set("size", "large")
	got = r.Missing()
	want = []string{"drink type", "milk preference"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Missing() = %v, want %v", got, want)
	}
}

func TestMissingShrinksMonotonically(t *testing.T) {
	t.Parallel()

	r := New(orderSpecs())
	prev := len(r.Missing())
	for _, field := range []string{"drinkType", "size", "milk", "name"} {
		r.Set(field, "x")
		cur := len(r.Missing())
		if cur > prev {
			t.Fatalf("missing grew from %d to %d after setting %s", prev, cur, field)
		}
		prev = cur
	}
	if !r.Complete() {
		t.Fatal("record should be complete after all required fields set")
	}
}

func TestSetOverwritesLastWriteWins(t *testing.T) {
	t.Parallel()

	r := New(orderSpecs())
	r.Set("drinkType", "latte")
	r.Set("drinkType", "mocha")
	if v, _ := r.Get("drinkType"); v != "mocha" {
		t.Fatalf("Get(drinkType) = %q, want mocha", v)
	}
}

func TestAppendDeduplicatesCaseInsensitively(t *testing.T) {
	t.Parallel()

	r := New(orderSpecs())
	if !r.Append("extras", "extra shot") {
		t.Fatal("first append should report added")
	}
	if r.Append("extras", "Extra Shot") {
		t.Fatal("case-insensitive duplicate should not be added")
	}
	if got := len(r.List("extras")); got != 1 {
		t.Fatalf("list length = %d, want 1", got)
	}
}

func TestRequiredListCountsTowardCompleteness(t *testing.T) {
	t.Parallel()

	r := New([]FieldSpec{
		{Name: "mood", Label: "mood", Required: true},
		{Name: "dailyObjectives", Label: "daily objectives", Required: true, List: true},
	})
	r.Set("mood", "tired")
	if r.Complete() {
		t.Fatal("empty required list should leave record incomplete")
	}
	r.Append("dailyObjectives", "sleep more")
	if !r.Complete() {
		t.Fatal("record should be complete")
	}
}

func TestSnapshotShape(t *testing.T) {
	t.Parallel()

	r := New(orderSpecs())
	r.Set("size", "small")
	snap := r.Snapshot()
	if snap["size"] != "small" {
		t.Fatalf("snapshot size = %v", snap["size"])
	}
	if snap["drinkType"] != nil {
		t.Fatalf("unset scalar should be nil, got %v", snap["drinkType"])
	}
	extras, ok := snap["extras"].([]string)
	if !ok || len(extras) != 0 {
		t.Fatalf("extras should be an empty list, got %#v", snap["extras"])
	}
}

func TestReset(t *testing.T) {
	t.Parallel()

	r := New(orderSpecs())
	r.Set("name", "Ada")
	r.Append("extras", "oat milk")
	r.Reset()
	if _, ok := r.Get("name"); ok {
		t.Fatal("reset should clear scalar values")
	}
	if len(r.List("extras")) != 0 {
		t.Fatal("reset should clear list values")
	}
}

func TestTitleCase(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"ada lovelace":  "Ada Lovelace",
		"  GRACE  ":     "Grace",
		"jean-luc":      "Jean-luc",
		"":              "",
	}
	for in, want := range cases {
		if got := TitleCase(in); got != want {
			t.Fatalf("TitleCase(%q) = %q, want %q", in, got, want)
		}
	}
}
