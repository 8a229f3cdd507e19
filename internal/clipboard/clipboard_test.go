package clipboard

import (
	"errors"
	"testing"
)

func TestWriteText(t *testing.T) {
	var got []string
	SetWriter(func(text string) error {
		got = append(got, text)
		return nil
	})
	defer ResetWriter()

	if err := WriteText("hello there"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "hello there" {
		t.Errorf("writer received %v", got)
	}
}

func TestWriteText_Error(t *testing.T) {
	SetWriter(func(string) error { return errors.New("no display") })
	defer ResetWriter()

	if err := WriteText("x"); err == nil {
		t.Error("expected error from writer")
	}
}
