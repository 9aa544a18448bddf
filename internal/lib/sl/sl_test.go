package sl

import (
	"errors"
	"testing"
)

func TestErr(t *testing.T) {
	attr := Err(errors.New("boom"))
	if attr.Key != "error" {
		t.Errorf("unexpected key: %s", attr.Key)
	}
	if attr.Value.String() != "boom" {
		t.Errorf("unexpected value: %s", attr.Value.String())
	}
}
