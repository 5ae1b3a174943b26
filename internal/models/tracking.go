package models

// Area types attached to zones. Free marks rows outside any meaningful zone.
const (
	AreaTypeEntry       = "Entry"
	AreaTypeExit        = "Exit"
	AreaTypeWaiting     = "Waiting"
	AreaTypeInteraction = "Interaction"
	AreaTypeSupport     = "Support"
	AreaTypeService     = "Service"
	AreaTypeFree        = "Free"
	AreaTypeSitting     = "Sitting"
	AreaTypeWalking     = "Walking"
	AreaTypeSpeaking    = "Speaking"
)

// Demographic values emitted by the perception pipeline.
const (
	GenderMale        = "Male"
	GenderFemale      = "Female"
	EthnicityLocal    = "Local"
	EthnicityNonlocal = "Nonlocal"
	AgeBandChild      = "0-18"
	AgeBandAdult      = "19-49"
	AgeBandSenior     = "50+"
	MaskOn            = "Mask"
)

var (
	Genders     = []string{GenderMale, GenderFemale}
	Ethnicities = []string{EthnicityLocal, EthnicityNonlocal}
	AgeBands    = []string{AgeBandChild, AgeBandAdult, AgeBandSenior}
)

// TrackedEvent is one Timeline row: the state of one identity at one second.
// Nullable columns are pointers; AreaType is empty when the pipeline did not classify the area.
type TrackedEvent struct {
	CenterID   string  `json:"center_name"`
	IdentityID string  `json:"global_identity"`
	Epoch      int64   `json:"epoch_second"`
	AreaName   string  `json:"area"`
	AreaType   string  `json:"area_type"`
	PositionX  int     `json:"position_x"`
	PositionY  int     `json:"position_y"`
	Gender     *string `json:"gender"`
	AgeBand    *string `json:"age"`
	Ethnicity  *string `json:"ethnicity"`
	Happiness  *int    `json:"happiness"`
	Mask       *string `json:"mask"`
	FaceCrop   []byte  `json:"-"`
}

// LiveSnapshot is the CustomerTracker row for an identity currently inside a center.
type LiveSnapshot struct {
	TrackedEvent
	LiveDwellTime *int64 `json:"live_dwell_time"`
}

// LiveDwell returns the seconds spent in the current area, 0 when unknown.
func (s LiveSnapshot) LiveDwell() float64 {
	if s.LiveDwellTime == nil {
		return 0
	}
	return float64(*s.LiveDwellTime)
}

// DwellRecord is written when an identity leaves an area.
type DwellRecord struct {
	CenterID   string  `json:"center_name"`
	IdentityID string  `json:"global_identity"`
	AreaName   string  `json:"area"`
	Epoch      float64 `json:"epoch_second"`
	DwellTime  float64 `json:"dwell_time"`
}

// Entrance returns the epoch second the identity entered the area.
// Both operands are truncated to whole seconds before subtracting.
func (d DwellRecord) Entrance() int64 {
	return int64(d.Epoch) - int64(d.DwellTime)
}

// Exit returns the entrance plus the whole-second dwell.
func (d DwellRecord) Exit() int64 {
	return d.Entrance() + int64(d.DwellTime)
}

// Deref returns the pointed-to string or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StrPtr and IntPtr build optional column values.
func StrPtr(s string) *string { return &s }

func IntPtr(i int) *int { return &i }

func Int64Ptr(i int64) *int64 { return &i }
