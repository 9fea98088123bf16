package deviceinfo

import "testing"

func TestLookupExactRevision(t *testing.T) {
	info, ok := Lookup(0x41111043)
	if !ok {
		t.Fatal("LFE5U-25F not found")
	}
	if info.Name != "LFE5U-25F" || !info.IsFPGA || info.IRLength != 8 {
		t.Fatalf("unexpected info: %+v", info)
	}
	if info.Manufacturer.Name != "Lattice" {
		t.Fatalf("Manufacturer = %q", info.Manufacturer.Name)
	}

	info, ok = Lookup(0x21111043)
	if !ok || info.Name != "LFE5U-12F" {
		t.Fatalf("revision 2 of part 0x1111 = %+v, %v", info, ok)
	}
}

func TestLookupAnyRevision(t *testing.T) {
	for _, raw := range []uint32{0x4980103F, 0x9980103F} {
		info, ok := Lookup(raw)
		if !ok || info.Name != "ATmega2560" {
			t.Fatalf("Lookup(0x%08X) = %+v, %v", raw, info, ok)
		}
	}
}

func TestLookupHex(t *testing.T) {
	info, ok, err := LookupHex("0123ABCD")
	if err != nil {
		t.Fatalf("LookupHex: %v", err)
	}
	if ok {
		t.Fatalf("unexpected match: %+v", info)
	}
	if info.Name != "Unknown device" {
		t.Fatalf("Name = %q", info.Name)
	}
	if _, _, err := LookupHex("nothex"); err == nil {
		t.Fatal("expected error")
	}
}
