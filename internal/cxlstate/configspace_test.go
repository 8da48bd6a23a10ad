package cxlstate

import "testing"

func TestConfigSpaceByteEnableWrite(t *testing.T) {
	cs := NewConfigSpace(ConfigSpaceSize)
	cs.WriteDWord(0x10, 0xF, 0xdeadbeef)
	if got := cs.ReadDWord(0x10, 0xF); got != 0xdeadbeef {
		t.Fatalf("read back %#x, want 0xdeadbeef", got)
	}

	cs2 := NewConfigSpace(ConfigSpaceSize)
	cs2.WriteDWord(0x10, 0x3, 0xdeadbeef) // only low two bytes enabled
	got := cs2.ReadDWord(0x10, 0xF)
	if got != 0x0000beef {
		t.Fatalf("partial write = %#x, want 0x0000beef", got)
	}
}

func TestConfigSpaceCloneIsIndependent(t *testing.T) {
	cs := NewConfigSpace(16)
	cs.WriteDWord(0, 0xF, 1)
	clone := cs.Clone()
	clone.WriteDWord(0, 0xF, 2)
	if cs.ReadDWord(0, 0xF) != 1 {
		t.Fatal("original mutated through clone")
	}
}
