package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the cache and run stores.
	DatabaseBackend string

	// PredictabilityLabel is the categorical predictability of a team.
	PredictabilityLabel string

	// InsightLevel is the severity of a derived insight message.
	InsightLevel string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All predictability labels supported.
const (
	HighPredictability   PredictabilityLabel = "high"
	MediumPredictability PredictabilityLabel = "medium"
	LowPredictability    PredictabilityLabel = "low"
)

// All insight levels supported.
const (
	SuccessInsight InsightLevel = "success"
	InfoInsight    InsightLevel = "info"
	WarningInsight InsightLevel = "warning"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
