package config

const (
	defaultStagingDir          = "~/.local/share/dwcexport/staging"
	defaultExportDir           = "~/.local/share/dwcexport/exports"
	defaultLogDir              = "~/.local/share/dwcexport/logs"
	defaultProvenanceDir       = "~/.local/share/dwcexport/eml"
	defaultDeliveriesDB        = "~/.local/share/dwcexport/deliveries.db"
	defaultVariant             = VariantOccurrence
	defaultWorkers             = 4
	defaultAssemblyWorkers     = 2
	defaultBatchSize           = 10000
	defaultMinObservationCount = 1
	defaultCombinedIdentifier  = "sos"
	defaultStaleStagingHours   = 48
	defaultESURL               = "http://localhost:9200"
	defaultESIndex             = "sos-observation"
	defaultESTimeoutSeconds    = 60
	defaultMongoDatabase       = "dwcexport"
	defaultMongoCollection     = "eml"
	defaultSourceKind          = SourceElasticsearch
	defaultProvenanceKind      = ProvenanceDirectory
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Archive variants.
const (
	VariantOccurrence = "occurrence"
	VariantEvent      = "event"
)

// Observation source kinds.
const (
	SourceElasticsearch = "elasticsearch"
	SourceNDJSON        = "ndjson"
)

// Provenance source kinds.
const (
	ProvenanceDirectory = "directory"
	ProvenanceMongo     = "mongo"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir:    defaultStagingDir,
			ExportDir:     defaultExportDir,
			LogDir:        defaultLogDir,
			ProvenanceDir: defaultProvenanceDir,
			DeliveriesDB:  defaultDeliveriesDB,
		},
		Export: Export{
			Variant:             defaultVariant,
			Workers:             defaultWorkers,
			AssemblyWorkers:     defaultAssemblyWorkers,
			BatchSize:           defaultBatchSize,
			MinObservationCount: defaultMinObservationCount,
			IncludeEmof:         true,
			IncludeMultimedia:   true,
			CombinedIdentifier:  defaultCombinedIdentifier,
			StaleStagingHours:   defaultStaleStagingHours,
		},
		Elasticsearch: Elasticsearch{
			URL:            defaultESURL,
			Index:          defaultESIndex,
			TimeoutSeconds: defaultESTimeoutSeconds,
		},
		Mongo: Mongo{
			Database:   defaultMongoDatabase,
			Collection: defaultMongoCollection,
		},
		Source: Source{
			Kind: defaultSourceKind,
		},
		Provenance: Provenance{
			Kind: defaultProvenanceKind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
