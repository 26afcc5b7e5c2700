package debugger

import "testing"

func TestAddAndGetBreakpoint(t *testing.T) {
	bm := NewBreakpointManager()
	bp := bm.AddBreakpoint(0x1000, false)

	if bp.ID != 1 {
		t.Errorf("ID = %d, want 1", bp.ID)
	}
	if got := bm.GetBreakpoint(0x1000); got != bp {
		t.Errorf("GetBreakpoint returned a different breakpoint")
	}
}

func TestAddBreakpointAtSameAddressReplaces(t *testing.T) {
	bm := NewBreakpointManager()
	first := bm.AddBreakpoint(0x1000, false)
	second := bm.AddBreakpoint(0x1000, true)

	if first.ID != second.ID {
		t.Errorf("expected same breakpoint to be updated, got IDs %d and %d", first.ID, second.ID)
	}
	if !second.Temporary {
		t.Error("expected breakpoint to become temporary")
	}
	if bm.Count() != 1 {
		t.Errorf("Count() = %d, want 1", bm.Count())
	}
}

func TestDeleteBreakpoint(t *testing.T) {
	bm := NewBreakpointManager()
	bp := bm.AddBreakpoint(0x2000, false)

	if err := bm.DeleteBreakpoint(bp.ID); err != nil {
		t.Fatalf("DeleteBreakpoint: %v", err)
	}
	if bm.GetBreakpoint(0x2000) != nil {
		t.Error("breakpoint should be gone")
	}
	if err := bm.DeleteBreakpoint(bp.ID); err == nil {
		t.Error("deleting twice should error")
	}
}

func TestEnableDisableBreakpoint(t *testing.T) {
	bm := NewBreakpointManager()
	bp := bm.AddBreakpoint(0x3000, false)

	if err := bm.DisableBreakpoint(bp.ID); err != nil {
		t.Fatalf("DisableBreakpoint: %v", err)
	}
	if bp.Enabled {
		t.Error("breakpoint should be disabled")
	}

	if err := bm.EnableBreakpoint(bp.ID); err != nil {
		t.Fatalf("EnableBreakpoint: %v", err)
	}
	if !bp.Enabled {
		t.Error("breakpoint should be enabled")
	}
}

func TestGetAllBreakpointsCount(t *testing.T) {
	bm := NewBreakpointManager()
	bm.AddBreakpoint(0x100, false)
	bm.AddBreakpoint(0x200, false)
	bm.AddBreakpoint(0x300, true)

	all := bm.GetAllBreakpoints()
	if len(all) != 3 {
		t.Errorf("len(GetAllBreakpoints()) = %d, want 3", len(all))
	}
	if bm.Count() != 3 {
		t.Errorf("Count() = %d, want 3", bm.Count())
	}
}

func TestUnknownBreakpointIDErrors(t *testing.T) {
	bm := NewBreakpointManager()
	if err := bm.DeleteBreakpoint(99); err == nil {
		t.Error("expected error deleting unknown ID")
	}
	if err := bm.EnableBreakpoint(99); err == nil {
		t.Error("expected error enabling unknown ID")
	}
	if err := bm.DisableBreakpoint(99); err == nil {
		t.Error("expected error disabling unknown ID")
	}
}
