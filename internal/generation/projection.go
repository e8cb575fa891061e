package generation

import "time"

// View is the presentation flags derived from a Snapshot.
type View struct {
	ShowPlaceholder bool
	InputExpanded   bool
	SubmitEnabled   bool
	ShowLoading     bool
	ShowGrid        bool
	ShowReset       bool
	Selected        int
	Progress        float64
}

// Project maps controller state to visible UI flags. focused reports whether
// the input bar has focus; condensing only applies when the variant expands on
// focus.
func Project(s Snapshot, variant Variant, focused bool, now time.Time) View {
	composing := s.Phase == PhaseIdle || s.Phase == PhaseComposing
	v := View{
		ShowPlaceholder: composing,
		SubmitEnabled:   composing && s.Text != "",
		ShowLoading:     s.Phase == PhaseGenerating,
		ShowGrid:        s.Phase == PhaseComplete,
		ShowReset:       s.Phase == PhaseComplete,
		Selected:        NoSelection,
		Progress:        s.Progress(now),
	}
	if !variant.ExpandOnFocus {
		v.InputExpanded = true
	} else {
		v.InputExpanded = composing && (focused || s.Text != "")
	}
	if s.HasSelection() {
		v.Selected = s.Selected
	}
	return v
}
