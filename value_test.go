package soitin_test

import (
	"errors"
	"testing"

	"github.com/lsalmela/soitin"
)

func TestParseValue(t *testing.T) {
	cases := []struct {
		token string
		want  soitin.Value
	}{
		{"66", soitin.Int(66)},
		{"-12", soitin.Int(-12)},
		{"0.5", soitin.Float(0.5)},
		{"1e3", soitin.Float(1000)},
		{"-0.25", soitin.Float(-0.25)},
		{"sin", soitin.Str("sin")},
		{"12abc", soitin.Str("12abc")},
		{"", soitin.Str("")},
	}
	for _, c := range cases {
		got := soitin.ParseValue(c.token)
		if got != c.want {
			t.Errorf("ParseValue(%q) = %v (%v), want %v (%v)", c.token, got, got.Type(), c.want, c.want.Type())
		}
	}
}

func TestValueConvert(t *testing.T) {
	v, err := soitin.Str("42").Convert(soitin.IntValue)
	if err != nil {
		t.Fatalf("converting \"42\" to int failed: %v", err)
	}
	if v != soitin.Int(42) {
		t.Errorf("got %v, want 42", v)
	}
	v, err = soitin.Int(3).Convert(soitin.FloatValue)
	if err != nil {
		t.Fatalf("converting 3 to float failed: %v", err)
	}
	if f, _ := v.Float(); f != 3 {
		t.Errorf("got %v, want 3", f)
	}
	if _, err := soitin.Str("loud").Convert(soitin.FloatValue); !errors.Is(err, soitin.ErrTypeMismatch) {
		t.Errorf("converting \"loud\" to float: got %v, want ErrTypeMismatch", err)
	}
	v, err = soitin.Float(2.5).Convert(soitin.StringValue)
	if err != nil {
		t.Fatalf("converting 2.5 to string failed: %v", err)
	}
	if v.Text() != "2.5" {
		t.Errorf("got %q, want \"2.5\"", v.Text())
	}
}

func TestValueTruncatesFloatToInt(t *testing.T) {
	v, err := soitin.Float(66.9).Convert(soitin.IntValue)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if i, _ := v.Int(); i != 66 {
		t.Errorf("got %v, want 66", i)
	}
}
