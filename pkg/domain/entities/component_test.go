package entities

import (
	"errors"
	"testing"
)

func TestComponentKind_Validation(t *testing.T) {
	kind, err := NewComponentKind("MT", "Traction Motor", 74, 134, nil)
	if err != nil {
		t.Fatalf("Expected valid kind creation to succeed: %v", err)
	}
	if kind.Budget.PlannedDays != 74 {
		t.Errorf("Expected planned days 74, got %d", kind.Budget.PlannedDays)
	}

	testCases := []struct {
		name        string
		code        ComponentCode
		displayName string
		planned     int
		unplanned   int
		expectError string
	}{
		{"empty code", "", "Traction Motor", 74, 134, "component code cannot be empty"},
		{"empty display name", "MT", "", 74, 134, "display name cannot be empty"},
		{"zero planned", "MT", "Traction Motor", 0, 134, "component MT: planned overhaul days must be positive, got 0"},
		{
			"unplanned not above planned",
			"MT",
			"Traction Motor",
			74,
			74,
			"component MT: unplanned overhaul days (74) must exceed planned (74)",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewComponentKind(tc.code, tc.displayName, tc.planned, tc.unplanned, nil)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestCatalog_OverhaulDays(t *testing.T) {
	catalog := DefaultCatalog()

	testCases := []struct {
		name         string
		code         ComponentCode
		subcomponent string
		changeout    ChangeoutType
		expected     int
	}{
		{"kind default planned", TractionMotor, "", Planned, 74},
		{"kind default unplanned", TractionMotor, "", Unplanned, 134},
		{"override planned", PowerModule, "alternador_principal", Planned, 45},
		{"override unplanned", PowerModule, "radiador", Unplanned, 50},
		{"unmatched sub-component uses default", PowerModule, "motor", Planned, 90},
		{"blocked lanes use planned budget", Blower, "", BlockedWaiting, 30},
		{"unknown type uses planned budget", LiftCylinder, "", UnknownType, 45},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			days, err := catalog.OverhaulDays(tc.code, tc.subcomponent, tc.changeout)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if days != tc.expected {
				t.Errorf("Expected %d days, got %d", tc.expected, days)
			}
		})
	}
}

func TestCatalog_UnknownKind(t *testing.T) {
	catalog := DefaultCatalog()

	_, err := catalog.OverhaulDays("bomba_hidraulica", "", Planned)
	if !errors.Is(err, ErrUnknownComponentKind) {
		t.Errorf("Expected ErrUnknownComponentKind, got %v", err)
	}
	if catalog.Contains("bomba_hidraulica") {
		t.Error("Expected catalog not to contain bomba_hidraulica")
	}
	if catalog.DisplayName("bomba_hidraulica") != "bomba_hidraulica" {
		t.Errorf("Expected unknown display name to echo the code")
	}
}

func TestCatalog_DuplicateKind(t *testing.T) {
	kind := mustKind("MT", "Traction Motor", 74, 134, nil)
	if _, err := NewCatalog(kind, kind); err == nil {
		t.Error("Expected duplicate kind to be rejected")
	}
	if _, err := NewCatalog(); err == nil {
		t.Error("Expected empty catalog to be rejected")
	}
}

func TestCatalog_SortCodes(t *testing.T) {
	catalog := DefaultCatalog()
	codes := []ComponentCode{Blower, "zz_unknown", PowerModule, TractionMotor}

	catalog.SortCodes(codes)

	expected := []ComponentCode{PowerModule, TractionMotor, Blower, "zz_unknown"}
	for i := range expected {
		if codes[i] != expected[i] {
			t.Errorf("Position %d: expected %s, got %s", i, expected[i], codes[i])
		}
	}
}
