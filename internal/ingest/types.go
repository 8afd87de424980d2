package ingest

// Wire types for the Ergast-compatible reference data API. Only the fields
// the sync needs are mapped; everything else in the payload is ignored.

type apiResponse struct {
	MRData mrData `json:"MRData"`
}

type mrData struct {
	Total            string            `json:"total"`
	Limit            string            `json:"limit"`
	Offset           string            `json:"offset"`
	SeasonTable      *seasonTable      `json:"SeasonTable,omitempty"`
	CircuitTable     *circuitTable     `json:"CircuitTable,omitempty"`
	DriverTable      *driverTable      `json:"DriverTable,omitempty"`
	ConstructorTable *constructorTable `json:"ConstructorTable,omitempty"`
	RaceTable        *raceTable        `json:"RaceTable,omitempty"`
}

type seasonTable struct {
	Seasons []apiSeason `json:"Seasons"`
}

type apiSeason struct {
	Season string `json:"season"`
}

type circuitTable struct {
	Circuits []apiCircuit `json:"Circuits"`
}

type apiCircuit struct {
	CircuitID   string      `json:"circuitId"`
	CircuitName string      `json:"circuitName"`
	Location    apiLocation `json:"Location"`
}

type apiLocation struct {
	Locality string `json:"locality"`
	Country  string `json:"country"`
}

type driverTable struct {
	Drivers []apiDriver `json:"Drivers"`
}

type apiDriver struct {
	DriverID        string `json:"driverId"`
	PermanentNumber string `json:"permanentNumber"`
	GivenName       string `json:"givenName"`
	FamilyName      string `json:"familyName"`
	DateOfBirth     string `json:"dateOfBirth"`
	Nationality     string `json:"nationality"`
}

type constructorTable struct {
	Constructors []apiConstructor `json:"Constructors"`
}

type apiConstructor struct {
	ConstructorID string `json:"constructorId"`
	Name          string `json:"name"`
	Nationality   string `json:"nationality"`
}

type raceTable struct {
	Races []apiRace `json:"Races"`
}

type apiRace struct {
	Season            string                `json:"season"`
	Round             string                `json:"round"`
	Date              string                `json:"date"`
	Circuit           apiCircuit            `json:"Circuit"`
	Results           []apiResult           `json:"Results,omitempty"`
	QualifyingResults []apiQualifyingResult `json:"QualifyingResults,omitempty"`
}

type apiResult struct {
	Number       string         `json:"number"`
	Grid         string         `json:"grid"`
	Position     string         `json:"position"`
	PositionText string         `json:"positionText"`
	Points       string         `json:"points"`
	Laps         string         `json:"laps"`
	Status       string         `json:"status"`
	Driver       apiDriver      `json:"Driver"`
	Constructor  apiConstructor `json:"Constructor"`
	Time         *apiTime       `json:"Time,omitempty"`
	FastestLap   *apiFastestLap `json:"FastestLap,omitempty"`
}

type apiTime struct {
	Time string `json:"time"`
}

type apiFastestLap struct {
	Time apiTime `json:"Time"`
}

type apiQualifyingResult struct {
	Position string    `json:"position"`
	Driver   apiDriver `json:"Driver"`
	Q1       string    `json:"Q1"`
	Q2       string    `json:"Q2"`
	Q3       string    `json:"Q3"`
}

func (r *apiResult) raceTime() string {
	if r.Time == nil {
		return ""
	}
	return r.Time.Time
}

func (r *apiResult) fastestLapTime() string {
	if r.FastestLap == nil {
		return ""
	}
	return r.FastestLap.Time.Time
}
