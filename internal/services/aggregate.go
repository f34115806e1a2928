package services

import (
	"fmt"
	"unicode"

	"github.com/campustrack/academic-record-service/internal/models"
)

// Pure aggregation helpers shared by the attendance, marks and analytics
// services. All derived values are computed in memory from raw records.

const unknownStudentName = "Unknown Student"

// attendancePercentage formats 100*present/total to two decimals. A student
// with no records gets "0.00", not an error.
func attendancePercentage(records []*models.AttendanceRecord) string {
	if len(records) == 0 {
		return "0.00"
	}
	present := 0
	for _, r := range records {
		if r.Status.IsPresent() {
			present++
		}
	}
	return fmt.Sprintf("%.2f", float64(present)/float64(len(records))*100)
}

// studentNameMap indexes display names by USN for roster enrichment.
func studentNameMap(users []*models.User) map[string]string {
	names := make(map[string]string, len(users))
	for _, u := range users {
		if u.USN != nil {
			names[*u.USN] = u.Uname
		}
	}
	return names
}

func displayName(names map[string]string, usn string) string {
	if name, ok := names[usn]; ok {
		return name
	}
	return unknownStudentName
}

// naturalLess orders strings so that embedded digit runs compare numerically:
// "4CB21CS045" sorts before "4CB21CS105".
func naturalLess(a, b string) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := rune(a[i]), rune(b[j])
		if unicode.IsDigit(ca) && unicode.IsDigit(cb) {
			// Compare full digit runs as numbers
			ia, ja := i, j
			for ia < len(a) && unicode.IsDigit(rune(a[ia])) {
				ia++
			}
			for ja < len(b) && unicode.IsDigit(rune(b[ja])) {
				ja++
			}
			na, nb := trimLeadingZeros(a[i:ia]), trimLeadingZeros(b[j:ja])
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			if na != nb {
				return na < nb
			}
			i, j = ia, ja
			continue
		}
		if ca != cb {
			return ca < cb
		}
		i++
		j++
	}
	return len(a)-i < len(b)-j
}

func trimLeadingZeros(s string) string {
	for len(s) > 1 && s[0] == '0' {
		s = s[1:]
	}
	return s
}
