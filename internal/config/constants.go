package config

// Application constants for the panel preparation pipeline.
const (
	AppName    = "panelprep"
	AppVersion = "1.2.0"

	// Raw export layout
	IdentifierColumn = "caseid"
	WaveColumn       = "wave"
	BaselineWave     = 1
	FirstWave        = 1
	LastWave         = 4

	// File paths (relative to executable)
	DefaultDataDir    = "data"
	DefaultRawDir     = "data/raw"
	DefaultDerivedDir = "data/derived"
	DefaultLogsDir    = "logs"

	// Well-known file names
	RawExportFileName  = "survey_export.csv"
	RawWorkbookName    = "survey_export.xlsx"
	PanelOutputName    = "panel_long.csv"
	LongOutputName     = "emotions_long.csv"

	// Log settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// NullTokens are the literal cell contents the raw loader treats as missing.
// The export writes 999 for item nonresponse in delimited form, in addition
// to blank and dot cells.
var NullTokens = []string{"", " ", ".", "999"}
