package verify

import "testing"

func TestVerify16(t *testing.T) {
	var x, y [16]byte
	for i := range x {
		x[i] = byte(i)
		y[i] = byte(i)
	}
	if !Verify16(&x, &y) {
		t.Fatalf("equal inputs rejected")
	}
	for i := range y {
		z := y
		z[i] ^= 1
		if Verify16(&x, &z) {
			t.Fatalf("difference at byte %d not detected", i)
		}
	}
}

func TestVerify32(t *testing.T) {
	var x, y [32]byte
	for i := range x {
		x[i] = byte(255 - i)
		y[i] = byte(255 - i)
	}
	if !Verify32(&x, &y) {
		t.Fatalf("equal inputs rejected")
	}
	for i := range y {
		z := y
		z[i] ^= 0x80
		if Verify32(&x, &z) {
			t.Fatalf("difference at byte %d not detected", i)
		}
	}
}
