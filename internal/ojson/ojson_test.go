package ojson_test

import (
	"testing"

	"github.com/Wxl-c137/blindmarker/internal/ojson"
)

func TestParsePreservesKeyOrder(t *testing.T) {
	v, err := ojson.Parse([]byte(`{"z":1,"a":2,"m":3}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := v.Obj.Keys()
	want := []string{"z", "a", "m"}
	for i, k := range want {
		if got[i] != k {
			t.Fatalf("keys = %v, want %v", got, want)
		}
	}
}

func TestMarshalRoundTripsOrder(t *testing.T) {
	src := `{"b":"y","a":"x","c":[1,2,3]}`
	v, err := ojson.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := ojson.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != src {
		t.Errorf("got %s, want %s", out, src)
	}
}

func TestInsertAfter(t *testing.T) {
	v, err := ojson.Parse([]byte(`{"a":"x","b":"y"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !v.Obj.InsertAfter("a", "zz", ojson.String("hidden")) {
		t.Fatalf("InsertAfter returned false")
	}
	got := v.Obj.Keys()
	want := []string{"a", "zz", "b"}
	for i, k := range want {
		if got[i] != k {
			t.Fatalf("keys = %v, want %v", got, want)
		}
	}
}

func TestInsertAfterRejectsCollidingKey(t *testing.T) {
	v, _ := ojson.Parse([]byte(`{"a":"x","b":"y"}`))
	if v.Obj.InsertAfter("a", "b", ojson.String("dup")) {
		t.Fatalf("expected InsertAfter to reject a colliding key")
	}
}

func TestInsertAfterMissingSiblingFails(t *testing.T) {
	v, _ := ojson.Parse([]byte(`{"a":"x"}`))
	if v.Obj.InsertAfter("nope", "new", ojson.String("v")) {
		t.Fatalf("expected InsertAfter to fail for a missing sibling")
	}
}

func TestSetOverwritesKeepingPosition(t *testing.T) {
	v, _ := ojson.Parse([]byte(`{"a":"x","b":"y","c":"z"}`))
	v.Obj.Set("a", ojson.String("updated"))
	got := v.Obj.Keys()
	want := []string{"a", "b", "c"}
	for i, k := range want {
		if got[i] != k {
			t.Fatalf("keys = %v, want %v", got, want)
		}
	}
	val, _ := v.Obj.Get("a")
	if val.Str != "updated" {
		t.Errorf("value = %q, want %q", val.Str, "updated")
	}
}

func TestNestedObjectOrderPreserved(t *testing.T) {
	src := `{"outer":{"z":1,"a":2},"arr":[{"y":1,"x":2}]}`
	v, err := ojson.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := ojson.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != src {
		t.Errorf("got %s, want %s", out, src)
	}
}
