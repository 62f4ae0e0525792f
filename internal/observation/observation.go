package observation

import (
	"strings"
	"time"
)

// Access rights vocabulary ids.
const (
	AccessFreeUsage         = 0
	AccessNotForPublicUsage = 1
)

// VocabularyValue is a resolved controlled-vocabulary term.
type VocabularyValue struct {
	ID    int    `json:"id"`
	Value string `json:"value,omitempty"`
}

// DataProvider identifies the organisation that supplied a set of observations.
type DataProvider struct {
	ID             int    `json:"id"`
	Identifier     string `json:"identifier"`
	Name           string `json:"name,omitempty"`
	VerbatimSource string `json:"verbatimSource,omitempty"`
}

// Key is the stable map key for a provider within one run.
func (p DataProvider) Key() string {
	return p.Identifier
}

// Observation is an already-processed record ready for archive encoding.
// The upstream pipeline guarantees occurrence ids are unique across a run.
type Observation struct {
	DataProviderID        int              `json:"dataProviderId"`
	Type                  string           `json:"type,omitempty"`
	Modified              *time.Time       `json:"modified,omitempty"`
	Language              string           `json:"language,omitempty"`
	License               string           `json:"license,omitempty"`
	RightsHolder          string           `json:"rightsHolder,omitempty"`
	AccessRights          *VocabularyValue `json:"accessRights,omitempty"`
	BibliographicCitation string           `json:"bibliographicCitation,omitempty"`
	References            string           `json:"references,omitempty"`
	InstitutionID         string           `json:"institutionId,omitempty"`
	CollectionID          string           `json:"collectionId,omitempty"`
	DatasetID             string           `json:"datasetId,omitempty"`
	InstitutionCode       string           `json:"institutionCode,omitempty"`
	CollectionCode        string           `json:"collectionCode,omitempty"`
	DatasetName           string           `json:"datasetName,omitempty"`
	OwnerInstitutionCode  string           `json:"ownerInstitutionCode,omitempty"`
	BasisOfRecord         string           `json:"basisOfRecord,omitempty"`
	InformationWithheld   string           `json:"informationWithheld,omitempty"`
	DataGeneralizations   string           `json:"dataGeneralizations,omitempty"`
	DynamicProperties     string           `json:"dynamicProperties,omitempty"`

	Occurrence        Occurrence         `json:"occurrence"`
	Organism          *Organism          `json:"organism,omitempty"`
	MaterialSample    *MaterialSample    `json:"materialSample,omitempty"`
	Event             *Event             `json:"event,omitempty"`
	Location          *Location          `json:"location,omitempty"`
	GeologicalContext *GeologicalContext `json:"geologicalContext,omitempty"`
	Identification    *Identification    `json:"identification,omitempty"`
	Taxon             *Taxon             `json:"taxon,omitempty"`

	Measurements []MeasurementOrFact `json:"measurementOrFacts,omitempty"`
	Media        []Multimedia        `json:"media,omitempty"`
}

// IsRestricted reports whether the record must never be exported.
func (o *Observation) IsRestricted() bool {
	return o.AccessRights != nil && o.AccessRights.ID == AccessNotForPublicUsage
}

// OccurrenceID returns the record's occurrence identifier.
func (o *Observation) OccurrenceID() string {
	return o.Occurrence.OccurrenceID
}

// EventID returns the record's event identifier, or "" when it has no event.
func (o *Observation) EventID() string {
	if o.Event == nil {
		return ""
	}
	return o.Event.EventID
}

// Occurrence holds the occurrence class terms.
type Occurrence struct {
	OccurrenceID                   string `json:"occurrenceId"`
	CatalogNumber                  string `json:"catalogNumber,omitempty"`
	RecordNumber                   string `json:"recordNumber,omitempty"`
	RecordedBy                     string `json:"recordedBy,omitempty"`
	RecordedByID                   string `json:"recordedById,omitempty"`
	IndividualCount                *int   `json:"individualCount,omitempty"`
	OrganismQuantity               string `json:"organismQuantity,omitempty"`
	OrganismQuantityType           string `json:"organismQuantityType,omitempty"`
	Sex                            string `json:"sex,omitempty"`
	LifeStage                      string `json:"lifeStage,omitempty"`
	ReproductiveCondition          string `json:"reproductiveCondition,omitempty"`
	Behavior                       string `json:"behavior,omitempty"`
	EstablishmentMeans             string `json:"establishmentMeans,omitempty"`
	DegreeOfEstablishment          string `json:"degreeOfEstablishment,omitempty"`
	Pathway                        string `json:"pathway,omitempty"`
	GeoreferenceVerificationStatus string `json:"georeferenceVerificationStatus,omitempty"`
	OccurrenceStatus               string `json:"occurrenceStatus,omitempty"`
	Preparations                   string `json:"preparations,omitempty"`
	Disposition                    string `json:"disposition,omitempty"`
	AssociatedMedia                string `json:"associatedMedia,omitempty"`
	AssociatedOccurrences          string `json:"associatedOccurrences,omitempty"`
	AssociatedReferences           string `json:"associatedReferences,omitempty"`
	AssociatedSequences            string `json:"associatedSequences,omitempty"`
	AssociatedTaxa                 string `json:"associatedTaxa,omitempty"`
	OtherCatalogNumbers            string `json:"otherCatalogNumbers,omitempty"`
	OccurrenceRemarks              string `json:"occurrenceRemarks,omitempty"`
}

// Organism holds the organism class terms.
type Organism struct {
	OrganismID              string `json:"organismId,omitempty"`
	OrganismName            string `json:"organismName,omitempty"`
	OrganismScope           string `json:"organismScope,omitempty"`
	AssociatedOrganisms     string `json:"associatedOrganisms,omitempty"`
	PreviousIdentifications string `json:"previousIdentifications,omitempty"`
	OrganismRemarks         string `json:"organismRemarks,omitempty"`
}

// MaterialSample holds the material sample class terms.
type MaterialSample struct {
	MaterialSampleID string `json:"materialSampleId,omitempty"`
}

// Event holds the event class terms shared by every occurrence of one sampling occasion.
type Event struct {
	EventID           string     `json:"eventId"`
	ParentEventID     string     `json:"parentEventId,omitempty"`
	FieldNumber       string     `json:"fieldNumber,omitempty"`
	StartDate         *time.Time `json:"startDate,omitempty"`
	EndDate           *time.Time `json:"endDate,omitempty"`
	EventTime         string     `json:"eventTime,omitempty"`
	StartDayOfYear    *int       `json:"startDayOfYear,omitempty"`
	EndDayOfYear      *int       `json:"endDayOfYear,omitempty"`
	Year              *int       `json:"year,omitempty"`
	Month             *int       `json:"month,omitempty"`
	Day               *int       `json:"day,omitempty"`
	VerbatimEventDate string     `json:"verbatimEventDate,omitempty"`
	Habitat           string     `json:"habitat,omitempty"`
	SamplingProtocol  string     `json:"samplingProtocol,omitempty"`
	SampleSizeValue   string     `json:"sampleSizeValue,omitempty"`
	SampleSizeUnit    string     `json:"sampleSizeUnit,omitempty"`
	SamplingEffort    string     `json:"samplingEffort,omitempty"`
	FieldNotes        string     `json:"fieldNotes,omitempty"`
	EventRemarks      string     `json:"eventRemarks,omitempty"`

	Measurements []MeasurementOrFact `json:"measurementOrFacts,omitempty"`
}

// Location holds the location class terms.
type Location struct {
	LocationID                          string   `json:"locationId,omitempty"`
	HigherGeographyID                   string   `json:"higherGeographyId,omitempty"`
	HigherGeography                     string   `json:"higherGeography,omitempty"`
	Continent                           string   `json:"continent,omitempty"`
	WaterBody                           string   `json:"waterBody,omitempty"`
	IslandGroup                         string   `json:"islandGroup,omitempty"`
	Island                              string   `json:"island,omitempty"`
	Country                             string   `json:"country,omitempty"`
	CountryCode                         string   `json:"countryCode,omitempty"`
	StateProvince                       string   `json:"stateProvince,omitempty"`
	County                              string   `json:"county,omitempty"`
	Municipality                        string   `json:"municipality,omitempty"`
	Locality                            string   `json:"locality,omitempty"`
	VerbatimLocality                    string   `json:"verbatimLocality,omitempty"`
	MinimumElevationInMeters            *float64 `json:"minimumElevationInMeters,omitempty"`
	MaximumElevationInMeters            *float64 `json:"maximumElevationInMeters,omitempty"`
	VerbatimElevation                   string   `json:"verbatimElevation,omitempty"`
	MinimumDepthInMeters                *float64 `json:"minimumDepthInMeters,omitempty"`
	MaximumDepthInMeters                *float64 `json:"maximumDepthInMeters,omitempty"`
	VerbatimDepth                       string   `json:"verbatimDepth,omitempty"`
	MinimumDistanceAboveSurfaceInMeters *float64 `json:"minimumDistanceAboveSurfaceInMeters,omitempty"`
	MaximumDistanceAboveSurfaceInMeters *float64 `json:"maximumDistanceAboveSurfaceInMeters,omitempty"`
	LocationAccordingTo                 string   `json:"locationAccordingTo,omitempty"`
	LocationRemarks                     string   `json:"locationRemarks,omitempty"`
	DecimalLatitude                     *float64 `json:"decimalLatitude,omitempty"`
	DecimalLongitude                    *float64 `json:"decimalLongitude,omitempty"`
	GeodeticDatum                       string   `json:"geodeticDatum,omitempty"`
	CoordinateUncertaintyInMeters       *int     `json:"coordinateUncertaintyInMeters,omitempty"`
	CoordinatePrecision                 *float64 `json:"coordinatePrecision,omitempty"`
	PointRadiusSpatialFit               string   `json:"pointRadiusSpatialFit,omitempty"`
	VerbatimCoordinates                 string   `json:"verbatimCoordinates,omitempty"`
	VerbatimLatitude                    string   `json:"verbatimLatitude,omitempty"`
	VerbatimLongitude                   string   `json:"verbatimLongitude,omitempty"`
	VerbatimCoordinateSystem            string   `json:"verbatimCoordinateSystem,omitempty"`
	VerbatimSRS                         string   `json:"verbatimSRS,omitempty"`
	FootprintWKT                        string   `json:"footprintWKT,omitempty"`
	FootprintSRS                        string   `json:"footprintSRS,omitempty"`
	FootprintSpatialFit                 string   `json:"footprintSpatialFit,omitempty"`
	GeoreferencedBy                     string   `json:"georeferencedBy,omitempty"`
	GeoreferencedDate                   string   `json:"georeferencedDate,omitempty"`
	GeoreferenceProtocol                string   `json:"georeferenceProtocol,omitempty"`
	GeoreferenceSources                 string   `json:"georeferenceSources,omitempty"`
	GeoreferenceRemarks                 string   `json:"georeferenceRemarks,omitempty"`
}

// GeologicalContext holds the geological context class terms.
type GeologicalContext struct {
	GeologicalContextID          string `json:"geologicalContextId,omitempty"`
	EarliestEonOrLowestEonothem  string `json:"earliestEonOrLowestEonothem,omitempty"`
	LatestEonOrHighestEonothem   string `json:"latestEonOrHighestEonothem,omitempty"`
	EarliestEraOrLowestErathem   string `json:"earliestEraOrLowestErathem,omitempty"`
	LatestEraOrHighestErathem    string `json:"latestEraOrHighestErathem,omitempty"`
	EarliestPeriodOrLowestSystem string `json:"earliestPeriodOrLowestSystem,omitempty"`
	LatestPeriodOrHighestSystem  string `json:"latestPeriodOrHighestSystem,omitempty"`
	EarliestEpochOrLowestSeries  string `json:"earliestEpochOrLowestSeries,omitempty"`
	LatestEpochOrHighestSeries   string `json:"latestEpochOrHighestSeries,omitempty"`
	EarliestAgeOrLowestStage     string `json:"earliestAgeOrLowestStage,omitempty"`
	LatestAgeOrHighestStage      string `json:"latestAgeOrHighestStage,omitempty"`
	LowestBiostratigraphicZone   string `json:"lowestBiostratigraphicZone,omitempty"`
	HighestBiostratigraphicZone  string `json:"highestBiostratigraphicZone,omitempty"`
	LithostratigraphicTerms      string `json:"lithostratigraphicTerms,omitempty"`
	Group                        string `json:"group,omitempty"`
	Formation                    string `json:"formation,omitempty"`
	Member                       string `json:"member,omitempty"`
	Bed                          string `json:"bed,omitempty"`
}

// Identification holds the identification class terms.
type Identification struct {
	IdentificationID                 string     `json:"identificationId,omitempty"`
	IdentificationQualifier          string     `json:"identificationQualifier,omitempty"`
	TypeStatus                       string     `json:"typeStatus,omitempty"`
	IdentifiedBy                     string     `json:"identifiedBy,omitempty"`
	IdentifiedByID                   string     `json:"identifiedById,omitempty"`
	DateIdentified                   *time.Time `json:"dateIdentified,omitempty"`
	IdentificationReferences         string     `json:"identificationReferences,omitempty"`
	IdentificationVerificationStatus string     `json:"identificationVerificationStatus,omitempty"`
	IdentificationRemarks            string     `json:"identificationRemarks,omitempty"`
}

// Taxon holds the resolved taxon class terms.
type Taxon struct {
	TaxonID                  string `json:"taxonId,omitempty"`
	ScientificNameID         string `json:"scientificNameId,omitempty"`
	AcceptedNameUsageID      string `json:"acceptedNameUsageId,omitempty"`
	ParentNameUsageID        string `json:"parentNameUsageId,omitempty"`
	OriginalNameUsageID      string `json:"originalNameUsageId,omitempty"`
	NameAccordingToID        string `json:"nameAccordingToId,omitempty"`
	NamePublishedInID        string `json:"namePublishedInId,omitempty"`
	TaxonConceptID           string `json:"taxonConceptId,omitempty"`
	ScientificName           string `json:"scientificName,omitempty"`
	AcceptedNameUsage        string `json:"acceptedNameUsage,omitempty"`
	ParentNameUsage          string `json:"parentNameUsage,omitempty"`
	OriginalNameUsage        string `json:"originalNameUsage,omitempty"`
	NameAccordingTo          string `json:"nameAccordingTo,omitempty"`
	NamePublishedIn          string `json:"namePublishedIn,omitempty"`
	NamePublishedInYear      string `json:"namePublishedInYear,omitempty"`
	HigherClassification     string `json:"higherClassification,omitempty"`
	Kingdom                  string `json:"kingdom,omitempty"`
	Phylum                   string `json:"phylum,omitempty"`
	Class                    string `json:"class,omitempty"`
	Order                    string `json:"order,omitempty"`
	Family                   string `json:"family,omitempty"`
	Genus                    string `json:"genus,omitempty"`
	Subgenus                 string `json:"subgenus,omitempty"`
	SpecificEpithet          string `json:"specificEpithet,omitempty"`
	InfraspecificEpithet     string `json:"infraspecificEpithet,omitempty"`
	TaxonRank                string `json:"taxonRank,omitempty"`
	VerbatimTaxonRank        string `json:"verbatimTaxonRank,omitempty"`
	ScientificNameAuthorship string `json:"scientificNameAuthorship,omitempty"`
	VernacularName           string `json:"vernacularName,omitempty"`
	NomenclaturalCode        string `json:"nomenclaturalCode,omitempty"`
	TaxonomicStatus          string `json:"taxonomicStatus,omitempty"`
	NomenclaturalStatus      string `json:"nomenclaturalStatus,omitempty"`
	TaxonRemarks             string `json:"taxonRemarks,omitempty"`
}

// MeasurementOrFact is one extended measurement or fact row.
type MeasurementOrFact struct {
	MeasurementID             string     `json:"measurementId,omitempty"`
	MeasurementType           string     `json:"measurementType,omitempty"`
	MeasurementTypeID         string     `json:"measurementTypeId,omitempty"`
	MeasurementValue          string     `json:"measurementValue,omitempty"`
	MeasurementValueID        string     `json:"measurementValueId,omitempty"`
	MeasurementAccuracy       string     `json:"measurementAccuracy,omitempty"`
	MeasurementUnit           string     `json:"measurementUnit,omitempty"`
	MeasurementUnitID         string     `json:"measurementUnitId,omitempty"`
	MeasurementDeterminedDate *time.Time `json:"measurementDeterminedDate,omitempty"`
	MeasurementDeterminedBy   string     `json:"measurementDeterminedBy,omitempty"`
	MeasurementMethod         string     `json:"measurementMethod,omitempty"`
	MeasurementRemarks        string     `json:"measurementRemarks,omitempty"`
}

// MeasurementRow is a measurement bound to the identifiers of the rows it describes.
// Event-level facts have an empty OccurrenceID.
type MeasurementRow struct {
	EventID      string
	OccurrenceID string
	Fact         MeasurementOrFact
}

// Key is the composite natural key used to deduplicate measurement rows.
func (m MeasurementRow) Key() string {
	return strings.Join([]string{m.EventID, m.OccurrenceID, m.Fact.MeasurementType}, "|")
}

// MeasurementRows flattens occurrence- and event-level facts of the observation.
// Event-level facts are included only when includeEventFacts is set.
func (o *Observation) MeasurementRows(includeEventFacts bool) []MeasurementRow {
	eventID := o.EventID()
	var rows []MeasurementRow
	if includeEventFacts && o.Event != nil {
		for _, f := range o.Event.Measurements {
			rows = append(rows, MeasurementRow{EventID: eventID, Fact: f})
		}
	}
	for _, f := range o.Measurements {
		rows = append(rows, MeasurementRow{EventID: eventID, OccurrenceID: o.OccurrenceID(), Fact: f})
	}
	return rows
}

// Multimedia is one simple multimedia row.
type Multimedia struct {
	Type         string     `json:"type,omitempty"`
	Format       string     `json:"format,omitempty"`
	Identifier   string     `json:"identifier,omitempty"`
	References   string     `json:"references,omitempty"`
	Title        string     `json:"title,omitempty"`
	Description  string     `json:"description,omitempty"`
	Created      *time.Time `json:"created,omitempty"`
	Creator      string     `json:"creator,omitempty"`
	Contributor  string     `json:"contributor,omitempty"`
	Publisher    string     `json:"publisher,omitempty"`
	Source       string     `json:"source,omitempty"`
	License      string     `json:"license,omitempty"`
	RightsHolder string     `json:"rightsHolder,omitempty"`
}
