package fields

func dwc(id int, name string, group Group) Field {
	return Field{ID: id, Name: name, Term: DwcNamespace + name, Group: group}
}

func dc(id int, name string, group Group) Field {
	return Field{ID: id, Name: name, Term: DcNamespace + name, Group: group}
}

// Occurrence is the occurrence-core catalog. occurrenceID leads.
var Occurrence = newCatalog("occurrence", []Field{
	dwc(1, occurrenceIDName, GroupOccurrence),

	dc(2, "type", GroupRecord),
	dc(3, "modified", GroupRecord),
	dc(4, "language", GroupRecord),
	dc(5, "license", GroupRecord),
	dc(6, "rightsHolder", GroupRecord),
	dc(7, "accessRights", GroupRecord),
	dc(8, "bibliographicCitation", GroupRecord),
	dc(9, "references", GroupRecord),
	dwc(10, "institutionID", GroupRecord),
	dwc(11, "collectionID", GroupRecord),
	dwc(12, "datasetID", GroupRecord),
	dwc(13, "institutionCode", GroupRecord),
	dwc(14, "collectionCode", GroupRecord),
	dwc(15, "datasetName", GroupRecord),
	dwc(16, "ownerInstitutionCode", GroupRecord),
	dwc(17, "basisOfRecord", GroupRecord),
	dwc(18, "informationWithheld", GroupRecord),
	dwc(19, "dataGeneralizations", GroupRecord),
	dwc(20, "dynamicProperties", GroupRecord),

	dwc(21, "catalogNumber", GroupOccurrence),
	dwc(22, "recordNumber", GroupOccurrence),
	dwc(23, "recordedBy", GroupOccurrence),
	dwc(24, "recordedByID", GroupOccurrence),
	dwc(25, "individualCount", GroupOccurrence),
	dwc(26, "organismQuantity", GroupOccurrence),
	dwc(27, "organismQuantityType", GroupOccurrence),
	dwc(28, "sex", GroupOccurrence),
	dwc(29, "lifeStage", GroupOccurrence),
	dwc(30, "reproductiveCondition", GroupOccurrence),
	dwc(31, "behavior", GroupOccurrence),
	dwc(32, "establishmentMeans", GroupOccurrence),
	dwc(33, "degreeOfEstablishment", GroupOccurrence),
	dwc(34, "pathway", GroupOccurrence),
	dwc(35, "georeferenceVerificationStatus", GroupOccurrence),
	dwc(36, "occurrenceStatus", GroupOccurrence),
	dwc(37, "preparations", GroupOccurrence),
	dwc(38, "disposition", GroupOccurrence),
	dwc(39, "associatedMedia", GroupOccurrence),
	dwc(40, "associatedOccurrences", GroupOccurrence),
	dwc(41, "associatedReferences", GroupOccurrence),
	dwc(42, "associatedSequences", GroupOccurrence),
	dwc(43, "associatedTaxa", GroupOccurrence),
	dwc(44, "otherCatalogNumbers", GroupOccurrence),
	dwc(45, "occurrenceRemarks", GroupOccurrence),

	dwc(46, "organismID", GroupOrganism),
	dwc(47, "organismName", GroupOrganism),
	dwc(48, "organismScope", GroupOrganism),
	dwc(49, "associatedOrganisms", GroupOrganism),
	dwc(50, "previousIdentifications", GroupOrganism),
	dwc(51, "organismRemarks", GroupOrganism),

	dwc(52, "materialSampleID", GroupMaterialSample),

	dwc(53, eventIDName, GroupEvent),
	dwc(54, "parentEventID", GroupEvent),
	dwc(55, "fieldNumber", GroupEvent),
	dwc(56, "eventDate", GroupEvent),
	dwc(57, "eventTime", GroupEvent),
	dwc(58, "startDayOfYear", GroupEvent),
	dwc(59, "endDayOfYear", GroupEvent),
	dwc(60, "year", GroupEvent),
	dwc(61, "month", GroupEvent),
	dwc(62, "day", GroupEvent),
	dwc(63, "verbatimEventDate", GroupEvent),
	dwc(64, "habitat", GroupEvent),
	dwc(65, "samplingProtocol", GroupEvent),
	dwc(66, "sampleSizeValue", GroupEvent),
	dwc(67, "sampleSizeUnit", GroupEvent),
	dwc(68, "samplingEffort", GroupEvent),
	dwc(69, "fieldNotes", GroupEvent),
	dwc(70, "eventRemarks", GroupEvent),

	dwc(71, "locationID", GroupLocation),
	dwc(72, "higherGeographyID", GroupLocation),
	dwc(73, "higherGeography", GroupLocation),
	dwc(74, "continent", GroupLocation),
	dwc(75, "waterBody", GroupLocation),
	dwc(76, "islandGroup", GroupLocation),
	dwc(77, "island", GroupLocation),
	dwc(78, "country", GroupLocation),
	dwc(79, "countryCode", GroupLocation),
	dwc(80, "stateProvince", GroupLocation),
	dwc(81, "county", GroupLocation),
	dwc(82, "municipality", GroupLocation),
	dwc(83, "locality", GroupLocation),
	dwc(84, "verbatimLocality", GroupLocation),
	dwc(85, "minimumElevationInMeters", GroupLocation),
	dwc(86, "maximumElevationInMeters", GroupLocation),
	dwc(87, "verbatimElevation", GroupLocation),
	dwc(88, "minimumDepthInMeters", GroupLocation),
	dwc(89, "maximumDepthInMeters", GroupLocation),
	dwc(90, "verbatimDepth", GroupLocation),
	dwc(91, "minimumDistanceAboveSurfaceInMeters", GroupLocation),
	dwc(92, "maximumDistanceAboveSurfaceInMeters", GroupLocation),
	dwc(93, "locationAccordingTo", GroupLocation),
	dwc(94, "locationRemarks", GroupLocation),
	dwc(95, "decimalLatitude", GroupLocation),
	dwc(96, "decimalLongitude", GroupLocation),
	dwc(97, "geodeticDatum", GroupLocation),
	dwc(98, "coordinateUncertaintyInMeters", GroupLocation),
	dwc(99, "coordinatePrecision", GroupLocation),
	dwc(100, "pointRadiusSpatialFit", GroupLocation),
	dwc(101, "verbatimCoordinates", GroupLocation),
	dwc(102, "verbatimLatitude", GroupLocation),
	dwc(103, "verbatimLongitude", GroupLocation),
	dwc(104, "verbatimCoordinateSystem", GroupLocation),
	dwc(105, "verbatimSRS", GroupLocation),
	dwc(106, "footprintWKT", GroupLocation),
	dwc(107, "footprintSRS", GroupLocation),
	dwc(108, "footprintSpatialFit", GroupLocation),
	dwc(109, "georeferencedBy", GroupLocation),
	dwc(110, "georeferencedDate", GroupLocation),
	dwc(111, "georeferenceProtocol", GroupLocation),
	dwc(112, "georeferenceSources", GroupLocation),
	dwc(113, "georeferenceRemarks", GroupLocation),

	dwc(114, "geologicalContextID", GroupGeologicalContext),
	dwc(115, "earliestEonOrLowestEonothem", GroupGeologicalContext),
	dwc(116, "latestEonOrHighestEonothem", GroupGeologicalContext),
	dwc(117, "earliestEraOrLowestErathem", GroupGeologicalContext),
	dwc(118, "latestEraOrHighestErathem", GroupGeologicalContext),
	dwc(119, "earliestPeriodOrLowestSystem", GroupGeologicalContext),
	dwc(120, "latestPeriodOrHighestSystem", GroupGeologicalContext),
	dwc(121, "earliestEpochOrLowestSeries", GroupGeologicalContext),
	dwc(122, "latestEpochOrHighestSeries", GroupGeologicalContext),
	dwc(123, "earliestAgeOrLowestStage", GroupGeologicalContext),
	dwc(124, "latestAgeOrHighestStage", GroupGeologicalContext),
	dwc(125, "lowestBiostratigraphicZone", GroupGeologicalContext),
	dwc(126, "highestBiostratigraphicZone", GroupGeologicalContext),
	dwc(127, "lithostratigraphicTerms", GroupGeologicalContext),
	dwc(128, "group", GroupGeologicalContext),
	dwc(129, "formation", GroupGeologicalContext),
	dwc(130, "member", GroupGeologicalContext),
	dwc(131, "bed", GroupGeologicalContext),

	dwc(132, "identificationID", GroupIdentification),
	dwc(133, "identificationQualifier", GroupIdentification),
	dwc(134, "typeStatus", GroupIdentification),
	dwc(135, "identifiedBy", GroupIdentification),
	dwc(136, "identifiedByID", GroupIdentification),
	dwc(137, "dateIdentified", GroupIdentification),
	dwc(138, "identificationReferences", GroupIdentification),
	dwc(139, "identificationVerificationStatus", GroupIdentification),
	dwc(140, "identificationRemarks", GroupIdentification),

	dwc(141, "taxonID", GroupTaxon),
	dwc(142, "scientificNameID", GroupTaxon),
	dwc(143, "acceptedNameUsageID", GroupTaxon),
	dwc(144, "parentNameUsageID", GroupTaxon),
	dwc(145, "originalNameUsageID", GroupTaxon),
	dwc(146, "nameAccordingToID", GroupTaxon),
	dwc(147, "namePublishedInID", GroupTaxon),
	dwc(148, "taxonConceptID", GroupTaxon),
	dwc(149, "scientificName", GroupTaxon),
	dwc(150, "acceptedNameUsage", GroupTaxon),
	dwc(151, "parentNameUsage", GroupTaxon),
	dwc(152, "originalNameUsage", GroupTaxon),
	dwc(153, "nameAccordingTo", GroupTaxon),
	dwc(154, "namePublishedIn", GroupTaxon),
	dwc(155, "namePublishedInYear", GroupTaxon),
	dwc(156, "higherClassification", GroupTaxon),
	dwc(157, "kingdom", GroupTaxon),
	dwc(158, "phylum", GroupTaxon),
	dwc(159, "class", GroupTaxon),
	dwc(160, "order", GroupTaxon),
	dwc(161, "family", GroupTaxon),
	dwc(162, "genus", GroupTaxon),
	dwc(163, "subgenus", GroupTaxon),
	dwc(164, "specificEpithet", GroupTaxon),
	dwc(165, "infraspecificEpithet", GroupTaxon),
	dwc(166, "taxonRank", GroupTaxon),
	dwc(167, "verbatimTaxonRank", GroupTaxon),
	dwc(168, "scientificNameAuthorship", GroupTaxon),
	dwc(169, "vernacularName", GroupTaxon),
	dwc(170, "nomenclaturalCode", GroupTaxon),
	dwc(171, "taxonomicStatus", GroupTaxon),
	dwc(172, "nomenclaturalStatus", GroupTaxon),
	dwc(173, "taxonRemarks", GroupTaxon),
})

// Event is the event-core catalog. eventID leads.
var Event = newCatalog("event", []Field{
	dwc(1, eventIDName, GroupEvent),
	dwc(2, "parentEventID", GroupEvent),

	dc(3, "type", GroupRecord),
	dc(4, "modified", GroupRecord),
	dc(5, "language", GroupRecord),
	dc(6, "license", GroupRecord),
	dc(7, "rightsHolder", GroupRecord),
	dc(8, "accessRights", GroupRecord),
	dc(9, "bibliographicCitation", GroupRecord),
	dc(10, "references", GroupRecord),
	dwc(11, "institutionID", GroupRecord),
	dwc(12, "collectionID", GroupRecord),
	dwc(13, "datasetID", GroupRecord),
	dwc(14, "institutionCode", GroupRecord),
	dwc(15, "collectionCode", GroupRecord),
	dwc(16, "datasetName", GroupRecord),
	dwc(17, "ownerInstitutionCode", GroupRecord),
	dwc(18, "informationWithheld", GroupRecord),
	dwc(19, "dataGeneralizations", GroupRecord),

	dwc(20, "fieldNumber", GroupEvent),
	dwc(21, "eventDate", GroupEvent),
	dwc(22, "eventTime", GroupEvent),
	dwc(23, "startDayOfYear", GroupEvent),
	dwc(24, "endDayOfYear", GroupEvent),
	dwc(25, "year", GroupEvent),
	dwc(26, "month", GroupEvent),
	dwc(27, "day", GroupEvent),
	dwc(28, "verbatimEventDate", GroupEvent),
	dwc(29, "habitat", GroupEvent),
	dwc(30, "samplingProtocol", GroupEvent),
	dwc(31, "sampleSizeValue", GroupEvent),
	dwc(32, "sampleSizeUnit", GroupEvent),
	dwc(33, "samplingEffort", GroupEvent),
	dwc(34, "fieldNotes", GroupEvent),
	dwc(35, "eventRemarks", GroupEvent),

	dwc(36, "locationID", GroupLocation),
	dwc(37, "country", GroupLocation),
	dwc(38, "countryCode", GroupLocation),
	dwc(39, "stateProvince", GroupLocation),
	dwc(40, "county", GroupLocation),
	dwc(41, "municipality", GroupLocation),
	dwc(42, "locality", GroupLocation),
	dwc(43, "decimalLatitude", GroupLocation),
	dwc(44, "decimalLongitude", GroupLocation),
	dwc(45, "geodeticDatum", GroupLocation),
	dwc(46, "coordinateUncertaintyInMeters", GroupLocation),
	dwc(47, "footprintWKT", GroupLocation),
	dwc(48, "footprintSRS", GroupLocation),
})
