package service

import (
	"testing"

	"github.com/wenlabs/wentracker/internal/biz/usecase"
)

func TestTrackRequestValidate(t *testing.T) {
	valid := []TrackRequest{
		{Mode: usecase.ModeSingle, URL: "https://x"},
		{Mode: usecase.ModeAll, URL: "https://x"},
		{Mode: usecase.ModeRecent, URL: "https://x", MaxPages: 5, TargetHours: 24},
	}
	for _, req := range valid {
		if err := req.Validate(); err != nil {
			t.Errorf("Expected %q request to validate, got %v", req.Mode, err)
		}
	}

	invalid := []TrackRequest{
		{Mode: "everything", URL: "https://x"},
		{Mode: usecase.ModeRecent, URL: "https://x", MaxPages: 0},
		{Mode: usecase.ModeRecent, URL: "https://x", MaxPages: -1},
		{Mode: usecase.ModeSingle, URL: "https://x", TargetHours: -1},
	}
	for _, req := range invalid {
		if err := req.Validate(); err == nil {
			t.Errorf("Expected request %+v to fail validation", req)
		}
	}
}
