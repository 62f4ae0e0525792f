package dwca

import (
	"dwcexport/internal/observation"
)

type obs = *observation.Observation

// getter extracts one cell from an observation. Every provider-supplied string
// is sanitized; only values this package formats itself (dates, numbers) and
// resolved vocabulary values skip it.
type getter struct {
	value    func(obs) string
	freeText bool
}

func text(fn func(obs) string) getter { return getter{value: fn, freeText: true} }
func formatted(fn func(obs) string) getter { return getter{value: fn} }

var (
	zeroOrganism          observation.Organism
	zeroMaterialSample    observation.MaterialSample
	zeroEvent             observation.Event
	zeroLocation          observation.Location
	zeroGeologicalContext observation.GeologicalContext
	zeroIdentification    observation.Identification
	zeroTaxon             observation.Taxon
)

func organism(o obs) *observation.Organism {
	if o.Organism == nil {
		return &zeroOrganism
	}
	return o.Organism
}

func materialSample(o obs) *observation.MaterialSample {
	if o.MaterialSample == nil {
		return &zeroMaterialSample
	}
	return o.MaterialSample
}

func event(o obs) *observation.Event {
	if o.Event == nil {
		return &zeroEvent
	}
	return o.Event
}

func location(o obs) *observation.Location {
	if o.Location == nil {
		return &zeroLocation
	}
	return o.Location
}

func geo(o obs) *observation.GeologicalContext {
	if o.GeologicalContext == nil {
		return &zeroGeologicalContext
	}
	return o.GeologicalContext
}

func identification(o obs) *observation.Identification {
	if o.Identification == nil {
		return &zeroIdentification
	}
	return o.Identification
}

func taxon(o obs) *observation.Taxon {
	if o.Taxon == nil {
		return &zeroTaxon
	}
	return o.Taxon
}

func eventDate(o obs) string {
	e := event(o)
	return formatInterval(e.StartDate, e.EndDate)
}

func accessRights(o obs) string {
	if o.AccessRights == nil {
		return ""
	}
	return o.AccessRights.Value
}

// getters maps every catalog term name to its extractor. Both the occurrence
// and event catalogs resolve through this one table.
var getters = map[string]getter{
	"occurrenceID": text(func(o obs) string { return o.Occurrence.OccurrenceID }),

	"type":                  text(func(o obs) string { return o.Type }),
	"modified":              formatted(func(o obs) string { return FormatTime(o.Modified) }),
	"language":              text(func(o obs) string { return o.Language }),
	"license":               text(func(o obs) string { return o.License }),
	"rightsHolder":          text(func(o obs) string { return o.RightsHolder }),
	"accessRights":          formatted(accessRights),
	"bibliographicCitation": text(func(o obs) string { return o.BibliographicCitation }),
	"references":            text(func(o obs) string { return o.References }),
	"institutionID":         text(func(o obs) string { return o.InstitutionID }),
	"collectionID":          text(func(o obs) string { return o.CollectionID }),
	"datasetID":             text(func(o obs) string { return o.DatasetID }),
	"institutionCode":       text(func(o obs) string { return o.InstitutionCode }),
	"collectionCode":        text(func(o obs) string { return o.CollectionCode }),
	"datasetName":           text(func(o obs) string { return o.DatasetName }),
	"ownerInstitutionCode":  text(func(o obs) string { return o.OwnerInstitutionCode }),
	"basisOfRecord":         text(func(o obs) string { return o.BasisOfRecord }),
	"informationWithheld":   text(func(o obs) string { return o.InformationWithheld }),
	"dataGeneralizations":   text(func(o obs) string { return o.DataGeneralizations }),
	"dynamicProperties":     text(func(o obs) string { return o.DynamicProperties }),

	"catalogNumber":                  text(func(o obs) string { return o.Occurrence.CatalogNumber }),
	"recordNumber":                   text(func(o obs) string { return o.Occurrence.RecordNumber }),
	"recordedBy":                     text(func(o obs) string { return o.Occurrence.RecordedBy }),
	"recordedByID":                   text(func(o obs) string { return o.Occurrence.RecordedByID }),
	"individualCount":                formatted(func(o obs) string { return formatInt(o.Occurrence.IndividualCount) }),
	"organismQuantity":               text(func(o obs) string { return o.Occurrence.OrganismQuantity }),
	"organismQuantityType":           text(func(o obs) string { return o.Occurrence.OrganismQuantityType }),
	"sex":                            text(func(o obs) string { return o.Occurrence.Sex }),
	"lifeStage":                      text(func(o obs) string { return o.Occurrence.LifeStage }),
	"reproductiveCondition":          text(func(o obs) string { return o.Occurrence.ReproductiveCondition }),
	"behavior":                       text(func(o obs) string { return o.Occurrence.Behavior }),
	"establishmentMeans":             text(func(o obs) string { return o.Occurrence.EstablishmentMeans }),
	"degreeOfEstablishment":          text(func(o obs) string { return o.Occurrence.DegreeOfEstablishment }),
	"pathway":                        text(func(o obs) string { return o.Occurrence.Pathway }),
	"georeferenceVerificationStatus": text(func(o obs) string { return o.Occurrence.GeoreferenceVerificationStatus }),
	"occurrenceStatus":               text(func(o obs) string { return o.Occurrence.OccurrenceStatus }),
	"preparations":                   text(func(o obs) string { return o.Occurrence.Preparations }),
	"disposition":                    text(func(o obs) string { return o.Occurrence.Disposition }),
	"associatedMedia":                text(func(o obs) string { return o.Occurrence.AssociatedMedia }),
	"associatedOccurrences":          text(func(o obs) string { return o.Occurrence.AssociatedOccurrences }),
	"associatedReferences":           text(func(o obs) string { return o.Occurrence.AssociatedReferences }),
	"associatedSequences":            text(func(o obs) string { return o.Occurrence.AssociatedSequences }),
	"associatedTaxa":                 text(func(o obs) string { return o.Occurrence.AssociatedTaxa }),
	"otherCatalogNumbers":            text(func(o obs) string { return o.Occurrence.OtherCatalogNumbers }),
	"occurrenceRemarks":              text(func(o obs) string { return o.Occurrence.OccurrenceRemarks }),

	"organismID":              text(func(o obs) string { return organism(o).OrganismID }),
	"organismName":            text(func(o obs) string { return organism(o).OrganismName }),
	"organismScope":           text(func(o obs) string { return organism(o).OrganismScope }),
	"associatedOrganisms":     text(func(o obs) string { return organism(o).AssociatedOrganisms }),
	"previousIdentifications": text(func(o obs) string { return organism(o).PreviousIdentifications }),
	"organismRemarks":         text(func(o obs) string { return organism(o).OrganismRemarks }),

	"materialSampleID": text(func(o obs) string { return materialSample(o).MaterialSampleID }),

	"eventID":           text(func(o obs) string { return event(o).EventID }),
	"parentEventID":     text(func(o obs) string { return event(o).ParentEventID }),
	"fieldNumber":       text(func(o obs) string { return event(o).FieldNumber }),
	"eventDate":         formatted(eventDate),
	"eventTime":         text(func(o obs) string { return event(o).EventTime }),
	"startDayOfYear":    formatted(func(o obs) string { return formatInt(event(o).StartDayOfYear) }),
	"endDayOfYear":      formatted(func(o obs) string { return formatInt(event(o).EndDayOfYear) }),
	"year":              formatted(func(o obs) string { return formatInt(event(o).Year) }),
	"month":             formatted(func(o obs) string { return formatInt(event(o).Month) }),
	"day":               formatted(func(o obs) string { return formatInt(event(o).Day) }),
	"verbatimEventDate": text(func(o obs) string { return event(o).VerbatimEventDate }),
	"habitat":           text(func(o obs) string { return event(o).Habitat }),
	"samplingProtocol":  text(func(o obs) string { return event(o).SamplingProtocol }),
	"sampleSizeValue":   text(func(o obs) string { return event(o).SampleSizeValue }),
	"sampleSizeUnit":    text(func(o obs) string { return event(o).SampleSizeUnit }),
	"samplingEffort":    text(func(o obs) string { return event(o).SamplingEffort }),
	"fieldNotes":        text(func(o obs) string { return event(o).FieldNotes }),
	"eventRemarks":      text(func(o obs) string { return event(o).EventRemarks }),

	"locationID":                          text(func(o obs) string { return location(o).LocationID }),
	"higherGeographyID":                   text(func(o obs) string { return location(o).HigherGeographyID }),
	"higherGeography":                     text(func(o obs) string { return location(o).HigherGeography }),
	"continent":                           text(func(o obs) string { return location(o).Continent }),
	"waterBody":                           text(func(o obs) string { return location(o).WaterBody }),
	"islandGroup":                         text(func(o obs) string { return location(o).IslandGroup }),
	"island":                              text(func(o obs) string { return location(o).Island }),
	"country":                             text(func(o obs) string { return location(o).Country }),
	"countryCode":                         text(func(o obs) string { return location(o).CountryCode }),
	"stateProvince":                       text(func(o obs) string { return location(o).StateProvince }),
	"county":                              text(func(o obs) string { return location(o).County }),
	"municipality":                        text(func(o obs) string { return location(o).Municipality }),
	"locality":                            text(func(o obs) string { return location(o).Locality }),
	"verbatimLocality":                    text(func(o obs) string { return location(o).VerbatimLocality }),
	"minimumElevationInMeters":            formatted(func(o obs) string { return formatFloat(location(o).MinimumElevationInMeters) }),
	"maximumElevationInMeters":            formatted(func(o obs) string { return formatFloat(location(o).MaximumElevationInMeters) }),
	"verbatimElevation":                   text(func(o obs) string { return location(o).VerbatimElevation }),
	"minimumDepthInMeters":                formatted(func(o obs) string { return formatFloat(location(o).MinimumDepthInMeters) }),
	"maximumDepthInMeters":                formatted(func(o obs) string { return formatFloat(location(o).MaximumDepthInMeters) }),
	"verbatimDepth":                       text(func(o obs) string { return location(o).VerbatimDepth }),
	"minimumDistanceAboveSurfaceInMeters": formatted(func(o obs) string { return formatFloat(location(o).MinimumDistanceAboveSurfaceInMeters) }),
	"maximumDistanceAboveSurfaceInMeters": formatted(func(o obs) string { return formatFloat(location(o).MaximumDistanceAboveSurfaceInMeters) }),
	"locationAccordingTo":                 text(func(o obs) string { return location(o).LocationAccordingTo }),
	"locationRemarks":                     text(func(o obs) string { return location(o).LocationRemarks }),
	"decimalLatitude":                     formatted(func(o obs) string { return formatFloat(location(o).DecimalLatitude) }),
	"decimalLongitude":                    formatted(func(o obs) string { return formatFloat(location(o).DecimalLongitude) }),
	"geodeticDatum":                       text(func(o obs) string { return location(o).GeodeticDatum }),
	"coordinateUncertaintyInMeters":       formatted(func(o obs) string { return FormatUncertainty(location(o).CoordinateUncertaintyInMeters) }),
	"coordinatePrecision":                 formatted(func(o obs) string { return formatFloat(location(o).CoordinatePrecision) }),
	"pointRadiusSpatialFit":               text(func(o obs) string { return location(o).PointRadiusSpatialFit }),
	"verbatimCoordinates":                 text(func(o obs) string { return location(o).VerbatimCoordinates }),
	"verbatimLatitude":                    text(func(o obs) string { return location(o).VerbatimLatitude }),
	"verbatimLongitude":                   text(func(o obs) string { return location(o).VerbatimLongitude }),
	"verbatimCoordinateSystem":            text(func(o obs) string { return location(o).VerbatimCoordinateSystem }),
	"verbatimSRS":                         text(func(o obs) string { return location(o).VerbatimSRS }),
	"footprintWKT":                        text(func(o obs) string { return location(o).FootprintWKT }),
	"footprintSRS":                        text(func(o obs) string { return location(o).FootprintSRS }),
	"footprintSpatialFit":                 text(func(o obs) string { return location(o).FootprintSpatialFit }),
	"georeferencedBy":                     text(func(o obs) string { return location(o).GeoreferencedBy }),
	"georeferencedDate":                   text(func(o obs) string { return location(o).GeoreferencedDate }),
	"georeferenceProtocol":                text(func(o obs) string { return location(o).GeoreferenceProtocol }),
	"georeferenceSources":                 text(func(o obs) string { return location(o).GeoreferenceSources }),
	"georeferenceRemarks":                 text(func(o obs) string { return location(o).GeoreferenceRemarks }),

	"geologicalContextID":          text(func(o obs) string { return geo(o).GeologicalContextID }),
	"earliestEonOrLowestEonothem":  text(func(o obs) string { return geo(o).EarliestEonOrLowestEonothem }),
	"latestEonOrHighestEonothem":   text(func(o obs) string { return geo(o).LatestEonOrHighestEonothem }),
	"earliestEraOrLowestErathem":   text(func(o obs) string { return geo(o).EarliestEraOrLowestErathem }),
	"latestEraOrHighestErathem":    text(func(o obs) string { return geo(o).LatestEraOrHighestErathem }),
	"earliestPeriodOrLowestSystem": text(func(o obs) string { return geo(o).EarliestPeriodOrLowestSystem }),
	"latestPeriodOrHighestSystem":  text(func(o obs) string { return geo(o).LatestPeriodOrHighestSystem }),
	"earliestEpochOrLowestSeries":  text(func(o obs) string { return geo(o).EarliestEpochOrLowestSeries }),
	"latestEpochOrHighestSeries":   text(func(o obs) string { return geo(o).LatestEpochOrHighestSeries }),
	"earliestAgeOrLowestStage":     text(func(o obs) string { return geo(o).EarliestAgeOrLowestStage }),
	"latestAgeOrHighestStage":      text(func(o obs) string { return geo(o).LatestAgeOrHighestStage }),
	"lowestBiostratigraphicZone":   text(func(o obs) string { return geo(o).LowestBiostratigraphicZone }),
	"highestBiostratigraphicZone":  text(func(o obs) string { return geo(o).HighestBiostratigraphicZone }),
	"lithostratigraphicTerms":      text(func(o obs) string { return geo(o).LithostratigraphicTerms }),
	"group":                        text(func(o obs) string { return geo(o).Group }),
	"formation":                    text(func(o obs) string { return geo(o).Formation }),
	"member":                       text(func(o obs) string { return geo(o).Member }),
	"bed":                          text(func(o obs) string { return geo(o).Bed }),

	"identificationID":                 text(func(o obs) string { return identification(o).IdentificationID }),
	"identificationQualifier":          text(func(o obs) string { return identification(o).IdentificationQualifier }),
	"typeStatus":                       text(func(o obs) string { return identification(o).TypeStatus }),
	"identifiedBy":                     text(func(o obs) string { return identification(o).IdentifiedBy }),
	"identifiedByID":                   text(func(o obs) string { return identification(o).IdentifiedByID }),
	"dateIdentified":                   formatted(func(o obs) string { return FormatTime(identification(o).DateIdentified) }),
	"identificationReferences":         text(func(o obs) string { return identification(o).IdentificationReferences }),
	"identificationVerificationStatus": text(func(o obs) string { return identification(o).IdentificationVerificationStatus }),
	"identificationRemarks":            text(func(o obs) string { return identification(o).IdentificationRemarks }),

	"taxonID":                  text(func(o obs) string { return taxon(o).TaxonID }),
	"scientificNameID":         text(func(o obs) string { return taxon(o).ScientificNameID }),
	"acceptedNameUsageID":      text(func(o obs) string { return taxon(o).AcceptedNameUsageID }),
	"parentNameUsageID":        text(func(o obs) string { return taxon(o).ParentNameUsageID }),
	"originalNameUsageID":      text(func(o obs) string { return taxon(o).OriginalNameUsageID }),
	"nameAccordingToID":        text(func(o obs) string { return taxon(o).NameAccordingToID }),
	"namePublishedInID":        text(func(o obs) string { return taxon(o).NamePublishedInID }),
	"taxonConceptID":           text(func(o obs) string { return taxon(o).TaxonConceptID }),
	"scientificName":           text(func(o obs) string { return taxon(o).ScientificName }),
	"acceptedNameUsage":        text(func(o obs) string { return taxon(o).AcceptedNameUsage }),
	"parentNameUsage":          text(func(o obs) string { return taxon(o).ParentNameUsage }),
	"originalNameUsage":        text(func(o obs) string { return taxon(o).OriginalNameUsage }),
	"nameAccordingTo":          text(func(o obs) string { return taxon(o).NameAccordingTo }),
	"namePublishedIn":          text(func(o obs) string { return taxon(o).NamePublishedIn }),
	"namePublishedInYear":      text(func(o obs) string { return taxon(o).NamePublishedInYear }),
	"higherClassification":     text(func(o obs) string { return taxon(o).HigherClassification }),
	"kingdom":                  text(func(o obs) string { return taxon(o).Kingdom }),
	"phylum":                   text(func(o obs) string { return taxon(o).Phylum }),
	"class":                    text(func(o obs) string { return taxon(o).Class }),
	"order":                    text(func(o obs) string { return taxon(o).Order }),
	"family":                   text(func(o obs) string { return taxon(o).Family }),
	"genus":                    text(func(o obs) string { return taxon(o).Genus }),
	"subgenus":                 text(func(o obs) string { return taxon(o).Subgenus }),
	"specificEpithet":          text(func(o obs) string { return taxon(o).SpecificEpithet }),
	"infraspecificEpithet":     text(func(o obs) string { return taxon(o).InfraspecificEpithet }),
	"taxonRank":                text(func(o obs) string { return taxon(o).TaxonRank }),
	"verbatimTaxonRank":        text(func(o obs) string { return taxon(o).VerbatimTaxonRank }),
	"scientificNameAuthorship": text(func(o obs) string { return taxon(o).ScientificNameAuthorship }),
	"vernacularName":           text(func(o obs) string { return taxon(o).VernacularName }),
	"nomenclaturalCode":        text(func(o obs) string { return taxon(o).NomenclaturalCode }),
	"taxonomicStatus":          text(func(o obs) string { return taxon(o).TaxonomicStatus }),
	"nomenclaturalStatus":      text(func(o obs) string { return taxon(o).NomenclaturalStatus }),
	"taxonRemarks":             text(func(o obs) string { return taxon(o).TaxonRemarks }),
}
