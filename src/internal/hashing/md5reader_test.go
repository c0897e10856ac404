package hashing

import (
	"io"
	"strings"
	"testing"
)

func TestMD5Reader(t *testing.T) {
	r := NewMD5Reader(strings.NewReader("hello world"))

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if string(data) != "hello world" {
		t.Errorf("data = %q", data)
	}
	if got, want := r.Checksum(), "5eb63bbbe01eeed093cb22bb8f5acdc3"; got != want {
		t.Errorf("Checksum() = %s, want %s", got, want)
	}
	if r.BytesRead() != 11 {
		t.Errorf("BytesRead() = %d, want 11", r.BytesRead())
	}
}

func TestMD5Reader_Empty(t *testing.T) {
	r := NewMD5Reader(strings.NewReader(""))
	if _, err := io.ReadAll(r); err != nil {
		t.Fatal(err)
	}
	if got, want := r.Checksum(), "d41d8cd98f00b204e9800998ecf8427e"; got != want {
		t.Errorf("Checksum() = %s, want %s", got, want)
	}
}
