package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/campustrack/academic-record-service/internal/models"
	"github.com/campustrack/academic-record-service/internal/repositories"
)

type analyticsService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewAnalyticsService(repo repositories.Repository, logger *slog.Logger) AnalyticsService {
	return &analyticsService{
		repo:   repo,
		logger: logger,
	}
}

// SubjectAnalytics recomputes both distributions from raw records on every
// call; there is no cached derived state.
func (s *analyticsService) SubjectAnalytics(ctx context.Context, subject string) (*SubjectAnalyticsResponse, error) {
	if subject == "" {
		return nil, NewValidationError("subject", "is required")
	}
	s.logger.Info("Computing subject analytics", "subject", subject)

	marks, err := s.repo.Marks().List(ctx, repositories.MarkFilters{Subject: &subject})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch marks: %w", err)
	}

	attendance, err := s.repo.Attendance().List(ctx, repositories.AttendanceFilters{Subject: &subject})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attendance: %w", err)
	}

	return &SubjectAnalyticsResponse{
		IADistribution:         iaDistribution(marks),
		AttendanceDistribution: attendanceDistribution(attendance),
	}, nil
}

// iaDistribution buckets mark records by the 25-mark threshold: a record is
// "above" when either IA exceeds 25.
func iaDistribution(marks []*models.IAMarkRecord) IADistribution {
	above := 0
	for _, m := range marks {
		if m.IA1 > 25 || m.IA2 > 25 {
			above++
		}
	}
	return IADistribution{
		Above25: above,
		Below25: len(marks) - above,
	}
}

// attendanceDistribution groups records by student and buckets per-student
// percentages at the 85% threshold. Students with no records for the subject
// never appear in the grouping, so they are counted in neither bucket.
func attendanceDistribution(records []*models.AttendanceRecord) AttendanceDistribution {
	type counts struct{ present, total int }
	byStudent := make(map[string]*counts)
	for _, r := range records {
		c, ok := byStudent[r.USN]
		if !ok {
			c = &counts{}
			byStudent[r.USN] = c
		}
		c.total++
		if r.Status.IsPresent() {
			c.present++
		}
	}

	dist := AttendanceDistribution{}
	for _, c := range byStudent {
		if float64(c.present)/float64(c.total)*100 >= 85 {
			dist.Above85++
		} else {
			dist.Below85++
		}
	}
	return dist
}

// StudentRoster joins the student roster with attendance and marks. The USN
// set is the union across all three collections, so a student that only
// exists in uploaded sheets still gets a row.
func (s *analyticsService) StudentRoster(ctx context.Context, subject *string) ([]StudentPerformanceRow, error) {
	role := models.RoleStudent
	students, err := s.repo.User().List(ctx, repositories.UserFilters{Role: &role})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch students: %w", err)
	}

	attendance, err := s.repo.Attendance().List(ctx, repositories.AttendanceFilters{Subject: subject})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attendance: %w", err)
	}

	marks, err := s.repo.Marks().List(ctx, repositories.MarkFilters{Subject: subject})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch marks: %w", err)
	}

	studentsByUSN := make(map[string]*models.User)
	usnSet := make(map[string]struct{})
	for _, st := range students {
		if st.USN == nil {
			continue
		}
		studentsByUSN[*st.USN] = st
		usnSet[*st.USN] = struct{}{}
	}

	attendanceByUSN := make(map[string][]*models.AttendanceRecord)
	for _, r := range attendance {
		attendanceByUSN[r.USN] = append(attendanceByUSN[r.USN], r)
		usnSet[r.USN] = struct{}{}
	}

	marksByUSN := make(map[string]*models.IAMarkRecord)
	for _, m := range marks {
		if _, ok := marksByUSN[m.USN]; !ok {
			marksByUSN[m.USN] = m
		}
		usnSet[m.USN] = struct{}{}
	}

	usns := make([]string, 0, len(usnSet))
	for usn := range usnSet {
		usns = append(usns, usn)
	}
	sort.Slice(usns, func(i, j int) bool { return naturalLess(usns[i], usns[j]) })

	rows := make([]StudentPerformanceRow, 0, len(usns))
	for _, usn := range usns {
		row := StudentPerformanceRow{
			USN:                  usn,
			Uname:                unknownStudentName,
			AssignedClass:        models.DeriveClassFromUSN(usn),
			AttendancePercentage: attendancePercentage(attendanceByUSN[usn]),
		}
		if st, ok := studentsByUSN[usn]; ok {
			row.Uname = st.Uname
			if st.AssignedClass != nil {
				row.AssignedClass = *st.AssignedClass
			}
		}
		if m, ok := marksByUSN[usn]; ok {
			row.IA1 = m.IA1
			row.IA2 = m.IA2
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// PerformanceSummary returns the overall threshold counts across all subjects.
func (s *analyticsService) PerformanceSummary(ctx context.Context) (*PerformanceSummaryResponse, error) {
	attendance, err := s.repo.Attendance().List(ctx, repositories.AttendanceFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attendance: %w", err)
	}

	marks, err := s.repo.Marks().List(ctx, repositories.MarkFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch marks: %w", err)
	}

	dist := attendanceDistribution(attendance)
	ia := iaDistribution(marks)

	return &PerformanceSummaryResponse{
		Above85Attendance: dist.Above85,
		Above25Marks:      ia.Above25,
	}, nil
}
