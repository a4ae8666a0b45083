package utils

import (
	"reflect"
	"testing"
)

func TestSplitAddressList(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a@y.com", []string{"a@y.com"}},
		{"a@y.com,b@y.com", []string{"a@y.com", "b@y.com"}},
		{" a@y.com , b@y.com ,", []string{"a@y.com", "b@y.com"}},
		{"", nil},
		{" , ", nil},
	}

	for _, c := range cases {
		got := SplitAddressList(c.in)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("SplitAddressList(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestValidEmail(t *testing.T) {
	if err := ValidEmail("r@x.com"); err != nil {
		t.Errorf("valid address rejected: %v", err)
	}
	if err := ValidEmail(""); err != ErrMissingEmail {
		t.Errorf("empty address: got %v, want ErrMissingEmail", err)
	}
	if err := ValidEmail("not-an-address"); err != ErrInvalidEmail {
		t.Errorf("malformed address: got %v, want ErrInvalidEmail", err)
	}
}

func TestValidAddressList(t *testing.T) {
	if err := ValidAddressList("a@y.com,b@y.com"); err != nil {
		t.Errorf("valid list rejected: %v", err)
	}
	if err := ValidAddressList(""); err != ErrMissingEmail {
		t.Errorf("empty list: got %v, want ErrMissingEmail", err)
	}
	if err := ValidAddressList("a@y.com,nope"); err != ErrInvalidEmail {
		t.Errorf("list with bad entry: got %v, want ErrInvalidEmail", err)
	}
}
