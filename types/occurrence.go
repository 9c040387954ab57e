package types

// Occurrence is a single species observation record stored in Firestore.
type Occurrence struct {
	ID            string  `firestore:"-" json:"id"`
	Species       string  `firestore:"species" json:"species"`
	Lat           float64 `firestore:"lat" json:"lat"`
	Lng           float64 `firestore:"lng" json:"lng"`
	RecordedAt    string  `firestore:"recordedAt" json:"recordedAt"`
	Year          int     `firestore:"year" json:"year"`
	BasisOfRecord string  `firestore:"basisOfRecord" json:"basisOfRecord"`
	Recorder      string  `firestore:"recorder,omitempty" json:"recorder,omitempty"`
	Locality      string  `firestore:"locality,omitempty" json:"locality,omitempty"`
	TaxonClass    string  `firestore:"taxonClass,omitempty" json:"taxonClass,omitempty"`
	HasCoords     bool    `firestore:"hasCoords" json:"-"`
}

// OccurrenceRecord is the projected form the grid engine streams over:
// just coordinates and a species name. HasCoords is false when either
// coordinate was missing or not a number in the source document.
type OccurrenceRecord struct {
	Lat       float64
	Lng       float64
	HasCoords bool
	Species   string
}
