package models

import "github.com/goccy/go-json"

// AreaAmount pairs an area name with an integer measure.
type AreaAmount struct {
	Area   string `json:"area"`
	Amount int64  `json:"amount"`
}

// WaitingStats summarizes time spent in Waiting areas. Minutes are floored.
type WaitingStats struct {
	TotalWaitingTime       int64        `json:"total_waiting_time"`
	WaitingAreasAttendance []AreaAmount `json:"waiting_areas_attendance"`
	TotalPeopleWaiting     int          `json:"total_ppl_waiting"`
	WaitingFactors         []AreaAmount `json:"waiting_factors"`
}

// AreaClients is an area annotated with its distinct-identity count.
type AreaClients struct {
	Area
	Clients int `json:"clients"`
}

// AreaStatistics is the per-area attendance report.
type AreaStatistics struct {
	Clients int           `json:"clients"`
	Areas   []AreaClients `json:"areas"`
}

// AreaDwell is an area annotated with a dwell aggregate in seconds.
type AreaDwell struct {
	Area
	Dwell float64 `json:"dwell"`
}

// AreaDwellStatistics wraps per-area dwell aggregates.
type AreaDwellStatistics struct {
	Areas []AreaDwell `json:"areas"`
}

// AreaHappiness is an area annotated with its mean happiness.
type AreaHappiness struct {
	Area
	HappinessAvg float64 `json:"happiness_avg"`
}

// JourneyStep is one area visit of a single identity.
type JourneyStep struct {
	AreaName     string  `json:"area_name"`
	AreaType     string  `json:"area_type"`
	Entrance     int64   `json:"epoch_second_entrance"`
	DwellTime    float64 `json:"dwell_time"`
	AvgHappiness float64 `json:"avg_hx"`
}

// HistoryPoint is one time bucket of a history query. Values holds one entry
// per gender, ethnicity and age band; it is flattened into the JSON object.
type HistoryPoint struct {
	Time     int64
	Values   map[string]float64
	TotalAvg float64
}

// MarshalJSON flattens Values next to time and total_avg.
func (p HistoryPoint) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Values)+2)
	for k, v := range p.Values {
		out[k] = v
	}
	out["time"] = p.Time
	out["total_avg"] = p.TotalAvg
	return json.Marshal(out)
}

// AreaTypeValue pairs an area type with a measure.
type AreaTypeValue struct {
	AreaType string  `json:"area_type"`
	Value    float64 `json:"value"`
}

// AreaValue pairs an area name with a measure.
type AreaValue struct {
	Area  string  `json:"area"`
	Value float64 `json:"value"`
}

// JourneySummary reports happiness per area type and the share of visits per area.
type JourneySummary struct {
	AreasJourney []AreaTypeValue `json:"areas_journey"`
	AreaUsage    []AreaValue     `json:"area_usage"`
}

// PathUsage is a frequent n-step path and the fraction of identities that walked it.
type PathUsage struct {
	Journey []Area  `json:"journey"`
	Percent float64 `json:"percent"`
}

// HeatmapCell is a grid cell midpoint with its observation count.
type HeatmapCell struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Value int `json:"value"`
}

// Heatmap is a position density map.
type Heatmap struct {
	Values []HeatmapCell `json:"values"`
	Max    int           `json:"max"`
}

// DwellCell is a grid cell midpoint with its dwell seconds per observation.
type DwellCell struct {
	X     int   `json:"x"`
	Y     int   `json:"y"`
	Dwell int64 `json:"dwell"`
}

// DwellHeatmap is a dwell density map.
type DwellHeatmap struct {
	Max    int64       `json:"max"`
	Values []DwellCell `json:"values"`
}

// Demographics counts distinct identities by gender and ethnicity.
type Demographics struct {
	Male     int `json:"Male"`
	Female   int `json:"Female"`
	Local    int `json:"Local"`
	Nonlocal int `json:"Nonlocal"`
}

// Attendance counts distinct identities seen in a window.
type Attendance struct {
	TotalCustomers int `json:"total_customers"`
	Demographics
	MaskOn int `json:"mask_on"`
}

// Badge marks whether a customer visited a highlighted area or area type.
type Badge struct {
	AreaName string `json:"area_name"`
	Value    bool   `json:"value"`
}

// CustomerSummary is one row of the customer list.
type CustomerSummary struct {
	ID         string  `json:"id"`
	Epoch      int64   `json:"epoch_second"`
	DwellTime  float64 `json:"dwell_time"`
	Gender     *string `json:"gender"`
	Age        *string `json:"age"`
	Ethnicity  *string `json:"ethnicity"`
	Happiness  float64 `json:"happiness"`
	Highlights []Badge `json:"highlight_on_customers_areas"`
}

// CustomerPage is a page of the customer list.
type CustomerPage struct {
	TotalCustomers int               `json:"total_customers"`
	TotalPages     int               `json:"total_pages"`
	Customers      []CustomerSummary `json:"customers"`
}

// StagePoint is one second of a customer's stage timeline.
type StagePoint struct {
	Timestamp int64  `json:"timestamp"`
	Type      string `json:"type"`
	Value     string `json:"value"`
}

// HappinessPoint is one second of a customer's happiness timeline.
type HappinessPoint struct {
	Timestamp int64 `json:"timestamp"`
	Value     *int  `json:"value"`
}

// FootagePoint carries a face crop as a data URI.
type FootagePoint struct {
	Timestamp int64  `json:"timestamp"`
	Value     string `json:"value"`
}
