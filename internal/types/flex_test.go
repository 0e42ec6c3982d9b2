package types

import (
	"encoding/json"
	"testing"
)

func TestFlexFloatAcceptsNumbersAndStrings(t *testing.T) {
	var v struct {
		A FlexFloat `json:"a"`
		B FlexFloat `json:"b"`
		C FlexFloat `json:"c"`
		D FlexFloat `json:"d"`
		E FlexFloat `json:"e"`
	}
	if err := json.Unmarshal([]byte(`{"a": 7.5, "b": "1,250,000", "c": "", "d": "abc"}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !v.A.Valid() || v.A.Value != 7.5 {
		t.Fatalf("expected a=7.5, got %+v", v.A)
	}
	if !v.B.Valid() || v.B.Value != 1250000 {
		t.Fatalf("expected b=1250000, got %+v", v.B)
	}
	if v.C.Present {
		t.Fatalf("expected empty string to be absent, got %+v", v.C)
	}
	if !v.D.Present || !v.D.Invalid {
		t.Fatalf("expected d to be present and invalid, got %+v", v.D)
	}
	if v.E.Present {
		t.Fatalf("expected missing field to be absent")
	}
}

func TestStringListSplitsSingleValues(t *testing.T) {
	var v struct {
		A StringList `json:"a"`
		B StringList `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a": "pool, gym ,, garden", "b": ["x", 3]}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(v.A) != 3 || v.A[0] != "pool" || v.A[1] != "gym" || v.A[2] != "garden" {
		t.Fatalf("unexpected split: %#v", v.A)
	}
	if len(v.B) != 2 || v.B[1] != "3" {
		t.Fatalf("unexpected array: %#v", v.B)
	}
}

func TestFlexListWrapsSingleItem(t *testing.T) {
	var one FlexList[string]
	if err := json.Unmarshal([]byte(`"hero.jpg"`), &one); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(one) != 1 || one[0] != "hero.jpg" {
		t.Fatalf("unexpected list: %#v", one)
	}
}

func TestFlexBool(t *testing.T) {
	cases := map[string]FlexBool{
		`true`:  {Value: true, Present: true},
		`"yes"`: {Value: true, Present: true},
		`0`:     {Value: false, Present: true},
		`""`:    {},
		`null`:  {},
	}
	for in, want := range cases {
		var got FlexBool
		if err := json.Unmarshal([]byte(in), &got); err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if got != want {
			t.Fatalf("%s: expected %+v, got %+v", in, want, got)
		}
	}
	var bad FlexBool
	if err := json.Unmarshal([]byte(`"maybe"`), &bad); err == nil {
		t.Fatalf("expected error for invalid boolean")
	}
}
