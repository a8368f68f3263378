package views

import "github.com/desertthunder/siswa/internal/models"

// Count is one labelled tally.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Dashboard aggregates the collection.
//
// Classes always lists X, XI and XII. Tracks lists each distinct track in the order it first
// appears in the collection.
type Dashboard struct {
	Total   int     `json:"total"`
	Classes []Count `json:"classes"`
	Tracks  []Count `json:"tracks"`
	Empty   bool    `json:"empty"`
	Message string  `json:"message,omitempty"`
}

// NewDashboard renders the aggregate view of students.
func NewDashboard(students []models.Student) Dashboard {
	d := Dashboard{
		Total:   len(students),
		Classes: make([]Count, len(models.Classes)),
		Tracks:  []Count{},
	}
	for i, c := range models.Classes {
		d.Classes[i].Label = string(c)
	}

	trackIdx := map[string]int{}
	for _, st := range students {
		for i, c := range models.Classes {
			if st.Class == c {
				d.Classes[i].Count++
			}
		}

		idx, ok := trackIdx[st.Track]
		if !ok {
			idx = len(d.Tracks)
			trackIdx[st.Track] = idx
			d.Tracks = append(d.Tracks, Count{Label: st.Track})
		}
		d.Tracks[idx].Count++
	}

	if d.Total == 0 {
		d.Empty, d.Message = true, MsgNoData
	}
	return d
}

// ClassCount returns the tally for c.
func (d Dashboard) ClassCount(c models.Class) int {
	for _, cc := range d.Classes {
		if cc.Label == string(c) {
			return cc.Count
		}
	}
	return 0
}

// TrackCount returns the tally for track, 0 when absent.
func (d Dashboard) TrackCount(track string) int {
	for _, tc := range d.Tracks {
		if tc.Label == track {
			return tc.Count
		}
	}
	return 0
}
