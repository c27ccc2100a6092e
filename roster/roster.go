// Package roster ingests the district's student export so sync runs can be
// checked against enrollment. Students absent from the export are candidates
// for account disabling, which keeps group membership clean.
package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Student is one row of the student export.
type Student struct {
	StudentID            string
	FirstName            string
	MiddleName           string
	LastName             string
	Grade                string
	SchoolID             string
	Enrolled             bool
	DistrictRelationship string
}

var titleCaser = cases.Title(language.AmericanEnglish)

// DisplayName builds the student's display name, title-casing names that
// arrive from the export in inconsistent casing.
func (s Student) DisplayName() string {
	return strings.TrimSpace(titleCaser.String(s.FirstName) + " " + titleCaser.String(s.LastName))
}

// Load reads the student export CSV. The first row must be a header naming
// at least StudentID, FirstName, LastName and Grade; unknown columns are
// ignored so export format drift does not break ingestion.
func Load(r io.Reader) ([]Student, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("student export is empty")
	}
	if err != nil {
		return nil, err
	}

	columns := map[string]int{}
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"studentid", "firstname", "lastname", "grade"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("student export is missing the %s column", required)
		}
	}

	field := func(row []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var students []Student
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return students, nil
		}
		if err != nil {
			return nil, err
		}
		students = append(students, Student{
			StudentID:            field(row, "studentid"),
			FirstName:            field(row, "firstname"),
			MiddleName:           field(row, "middlename"),
			LastName:             field(row, "lastname"),
			Grade:                field(row, "grade"),
			SchoolID:             field(row, "schoolid"),
			Enrolled:             parseBool(field(row, "enrolled")),
			DistrictRelationship: field(row, "district relationship"),
		})
	}
}

func parseBool(in string) bool {
	switch strings.ToLower(in) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

// ValidEmail reports whether a value from an export column looks like a
// mail address at all.
func ValidEmail(email string) bool {
	return strings.Contains(email, "@")
}
