package namcs

// Column positions below follow the NCHS public-use file documentation,
// which numbers record columns starting at 1. col converts to the 0-based
// spans used by the parser.
func col(loc, length int) Span {
	return Span{Start: loc - 1, Len: length}
}

// diagSlots builds n adjacent diagnosis slots of the given width starting at
// the 1-based column loc.
func diagSlots(loc, width, n int) []Span {
	spans := make([]Span, n)
	for i := range spans {
		spans[i] = col(loc+i*width, width)
	}
	return spans
}

func scalar(name Field, kind Kind, loc, length int) FieldSpec {
	return FieldSpec{Name: name, Kind: kind, Spans: []Span{col(loc, length)}}
}

func diagnoses(loc, width, n int) FieldSpec {
	return FieldSpec{Name: FieldPhysicianDiagnoses, Kind: KindDiagnosis, Spans: diagSlots(loc, width, n)}
}

// datedFields is the 1973-era record head: visit and birth dates as
// month/year pairs plus the sex code. Patient age is not recorded and is
// derived from the dates.
func datedFields() []FieldSpec {
	return []FieldSpec{
		scalar(FieldMonthOfVisit, KindMonth, 1, 2),
		scalar(FieldYearOfVisit, KindYear, 3, 2),
		scalar(FieldMonthOfBirth, KindMonth, 5, 2),
		scalar(FieldYearOfBirth, KindYear, 7, 2),
		scalar(FieldGender, KindSex, 9, 1),
	}
}

// agedFields is the 1985-era record head: the birth date is replaced by a
// coded patient age.
func agedFields(ageLoc, ageLen, sexLoc int) []FieldSpec {
	return []FieldSpec{
		scalar(FieldMonthOfVisit, KindMonth, 1, 2),
		scalar(FieldYearOfVisit, KindYear, 5, 2),
		scalar(FieldPatientAge, KindAge, ageLoc, ageLen),
		scalar(FieldGender, KindSex, sexLoc, 1),
	}
}

// modernFields is the 1997-era record head with a 4-digit visit year.
func modernFields(ageLoc, sexLoc int) []FieldSpec {
	return []FieldSpec{
		scalar(FieldMonthOfVisit, KindMonth, 1, 2),
		scalar(FieldYearOfVisit, KindYear, 3, 4),
		scalar(FieldPatientAge, KindAge, ageLoc, 3),
		scalar(FieldGender, KindSex, sexLoc, 1),
	}
}

// shortFields is the 2011-era record head: the visit year was dropped from
// the record and is derived from the source file.
func shortFields(sexLoc int) []FieldSpec {
	return []FieldSpec{
		scalar(FieldMonthOfVisit, KindMonth, 1, 2),
		scalar(FieldPatientAge, KindAge, 4, 3),
		scalar(FieldGender, KindSex, sexLoc, 1),
	}
}

func layout(year, recordLength int, head []FieldSpec, diag FieldSpec, weight FieldSpec) *YearLayout {
	return &YearLayout{
		Year:          year,
		RecordLength:  recordLength,
		WeightDivisor: 1,
		Fields:        append(append(head, diag), weight),
	}
}

// yearLayouts returns the layout of every supported survey year: 1973,
// 1975-1981, 1985, 1989-1990, 1992-2015. Years 1974, 1982-1984, 1986-1988
// and 1991 have no public-use file.
func yearLayouts() []*YearLayout {
	weight := func(loc, length int) FieldSpec {
		return scalar(FieldVisitWeight, KindWeight, loc, length)
	}

	layouts := []*YearLayout{
		layout(1973, 92, datedFields(), diagnoses(39, 4, 3), weight(71, 10)),
		layout(1975, 92, datedFields(), diagnoses(39, 4, 3), weight(78, 10)),
		layout(1976, 92, datedFields(), diagnoses(39, 4, 3), weight(78, 10)),
		layout(1977, 90, datedFields(), diagnoses(28, 4, 3), weight(75, 10)),
		layout(1978, 90, datedFields(), diagnoses(28, 4, 3), weight(75, 10)),
		layout(1979, 99, datedFields(), diagnoses(29, 6, 3), weight(84, 10)),
		layout(1980, 143, datedFields(), diagnoses(40, 6, 3), weight(122, 10)),
		layout(1981, 143, datedFields(), diagnoses(40, 6, 3), weight(122, 10)),

		layout(1985, 146, agedFields(7, 2, 9), diagnoses(57, 6, 3), weight(135, 5)),
		layout(1989, 153, agedFields(7, 2, 9), diagnoses(37, 6, 3), weight(135, 6)),
		layout(1990, 153, agedFields(7, 2, 9), diagnoses(37, 6, 3), weight(135, 6)),
		layout(1992, 355, agedFields(7, 2, 9), diagnoses(39, 6, 3), weight(153, 6)),
		layout(1993, 542, agedFields(7, 2, 9), diagnoses(39, 6, 3), weight(160, 6)),
		layout(1994, 542, agedFields(7, 2, 9), diagnoses(39, 6, 3), weight(160, 6)),
		layout(1995, 542, agedFields(7, 3, 10), diagnoses(52, 5, 3), weight(196, 6)),
		layout(1996, 542, agedFields(7, 3, 10), diagnoses(52, 5, 3), weight(196, 6)),

		layout(1997, 663, modernFields(8, 11), diagnoses(567, 6, 3), weight(297, 6)),
		layout(1998, 663, modernFields(8, 11), diagnoses(567, 6, 3), weight(297, 6)),
		layout(1999, 663, modernFields(8, 11), diagnoses(577, 6, 3), weight(307, 6)),
		layout(2000, 663, modernFields(8, 11), diagnoses(577, 6, 3), weight(307, 6)),
		layout(2001, 679, modernFields(8, 11), diagnoses(547, 6, 3), weight(273, 6)),
		layout(2002, 741, modernFields(8, 11), diagnoses(547, 6, 3), weight(273, 6)),
		layout(2003, 792, modernFields(8, 11), diagnoses(723, 6, 3), weight(288, 6)),
		layout(2004, 792, modernFields(8, 11), diagnoses(723, 6, 3), weight(288, 6)),
		layout(2005, 778, modernFields(8, 11), diagnoses(703, 6, 3), weight(271, 6)),
		layout(2006, 905, modernFields(8, 11), diagnoses(826, 6, 3), weight(276, 6)),
		layout(2007, 997, modernFields(8, 11), diagnoses(909, 6, 3), weight(303, 6)),
		layout(2008, 997, modernFields(8, 11), diagnoses(909, 6, 3), weight(303, 6)),
		layout(2009, 980, modernFields(8, 11), diagnoses(892, 6, 3), weight(294, 6)),
		layout(2010, 1065, modernFields(8, 11), diagnoses(919, 6, 3), weight(294, 6)),

		layout(2011, 1064, shortFields(7), diagnoses(919, 6, 3), weight(286, 6)),
		layout(2012, 1414, shortFields(11), diagnoses(96, 6, 3), weight(1383, 11)),
		layout(2013, 1394, shortFields(11), diagnoses(96, 6, 3), weight(1363, 11)),
		layout(2014, 2754, shortFields(11), diagnoses(146, 6, 5), weight(2722, 11)),
		layout(2015, 2713, shortFields(11), diagnoses(148, 6, 5), weight(2682, 11)),
	}

	return layouts
}
