package model

import "testing"

func TestParseFilter_SingleField(t *testing.T) {
	tests := []struct {
		name      string
		window    string
		direction string
		flavour   string
		wantMode  FilterMode
	}{
		{"window only", "week", "", "", FilterTemporal},
		{"direction only", "", "ascending", "", FilterPriceOrder},
		{"flavour only", "", "", "Mango", FilterFlavourRank},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseFilter(tt.window, tt.direction, tt.flavour)
			if err != nil {
				t.Fatalf("ParseFilter() unexpected error: %v", err)
			}
			if req.Mode != tt.wantMode {
				t.Errorf("ParseFilter() mode = %v, want %v", req.Mode, tt.wantMode)
			}
		})
	}
}

func TestParseFilter_ZeroFields(t *testing.T) {
	_, err := ParseFilter("", "", "")
	if err != ErrChooseOneFilter {
		t.Errorf("expected ErrChooseOneFilter, got %v", err)
	}
}

func TestParseFilter_MultipleFields(t *testing.T) {
	tests := []struct {
		name      string
		window    string
		direction string
		flavour   string
	}{
		{"window and direction", "day", "descending", ""},
		{"window and flavour", "day", "", "Taro"},
		{"direction and flavour", "", "ascending", "Taro"},
		{"all three", "month", "ascending", "Taro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFilter(tt.window, tt.direction, tt.flavour)
			if err != ErrChooseOneFilter {
				t.Errorf("expected ErrChooseOneFilter, got %v", err)
			}
		})
	}
}

func TestParseFilter_FieldValuesCarried(t *testing.T) {
	req, err := ParseFilter("", "", "Brown Sugar")
	if err != nil {
		t.Fatalf("ParseFilter() unexpected error: %v", err)
	}
	if req.Flavour != "Brown Sugar" {
		t.Errorf("expected flavour to be carried, got %q", req.Flavour)
	}
	if req.Window != "" || req.Direction != "" {
		t.Errorf("expected other fields empty, got window=%q direction=%q", req.Window, req.Direction)
	}
}
