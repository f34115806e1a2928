package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"

	"github.com/campustrack/academic-record-service/internal/models"
	"github.com/campustrack/academic-record-service/internal/repositories"
)

// fakeRepository is an in-memory Repository used by the service tests.
// WithTransaction snapshots the maps and restores them when fn fails, so
// rollback semantics can be asserted without a database.
type fakeRepository struct {
	users      map[uint]*models.User
	attendance map[uint]*models.AttendanceRecord
	marks      map[uint]*models.IAMarkRecord
	nextID     uint

	failCreates bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:      make(map[uint]*models.User),
		attendance: make(map[uint]*models.AttendanceRecord),
		marks:      make(map[uint]*models.IAMarkRecord),
	}
}

func (r *fakeRepository) User() repositories.UserRepository             { return &fakeUserRepo{r} }
func (r *fakeRepository) Attendance() repositories.AttendanceRepository { return &fakeAttendanceRepo{r} }
func (r *fakeRepository) Marks() repositories.MarkRepository            { return &fakeMarkRepo{r} }

func (r *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	users := make(map[uint]*models.User, len(r.users))
	for id, u := range r.users {
		clone := *u
		users[id] = &clone
	}
	attendance := make(map[uint]*models.AttendanceRecord, len(r.attendance))
	for id, a := range r.attendance {
		clone := *a
		attendance[id] = &clone
	}
	marks := make(map[uint]*models.IAMarkRecord, len(r.marks))
	for id, m := range r.marks {
		clone := *m
		marks[id] = &clone
	}
	savedNextID := r.nextID

	if err := fn(r); err != nil {
		r.users = users
		r.attendance = attendance
		r.marks = marks
		r.nextID = savedNextID
		return err
	}
	return nil
}

func (r *fakeRepository) Ping(ctx context.Context) error { return nil }
func (r *fakeRepository) Close() error                   { return nil }

func (r *fakeRepository) allocID() uint {
	r.nextID++
	return r.nextID
}

func (r *fakeRepository) addUser(u models.User) *models.User {
	u.ID = r.allocID()
	r.users[u.ID] = &u
	return &u
}

func (r *fakeRepository) addAttendance(a models.AttendanceRecord) *models.AttendanceRecord {
	a.ID = r.allocID()
	r.attendance[a.ID] = &a
	return &a
}

func (r *fakeRepository) addMark(m models.IAMarkRecord) *models.IAMarkRecord {
	m.ID = r.allocID()
	r.marks[m.ID] = &m
	return &m
}

// ===== USER =====

type fakeUserRepo struct{ r *fakeRepository }

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if f.r.failCreates {
		return errors.New("create failed")
	}
	user.ID = f.r.allocID()
	clone := *user
	f.r.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	u, ok := f.r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (f *fakeUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.r.users {
		if filters.Role != nil && u.Role != *filters.Role {
			continue
		}
		if filters.USN != nil && (u.USN == nil || *u.USN != *filters.USN) {
			continue
		}
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	u, ok := f.r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "assigned_subjects":
			u.AssignedSubjects = value.(datatypes.JSONSlice[string])
		case "assigned_class":
			class := value.(models.ClassSection)
			u.AssignedClass = &class
		default:
			return fmt.Errorf("fake: unsupported user field %q", key)
		}
	}
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := f.r.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.r.users, id)
	return nil
}

// ===== ATTENDANCE =====

type fakeAttendanceRepo struct{ r *fakeRepository }

func (f *fakeAttendanceRepo) Create(ctx context.Context, record *models.AttendanceRecord) error {
	if f.r.failCreates {
		return errors.New("create failed")
	}
	record.ID = f.r.allocID()
	clone := *record
	f.r.attendance[record.ID] = &clone
	return nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id uint) (*models.AttendanceRecord, error) {
	a, ok := f.r.attendance[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *a
	return &clone, nil
}

func (f *fakeAttendanceRepo) GetByKey(ctx context.Context, usn, date, hour string) (*models.AttendanceRecord, error) {
	for _, a := range f.r.attendance {
		if a.USN == usn && a.Date == date && a.Hour == hour {
			clone := *a
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeAttendanceRepo) List(ctx context.Context, filters repositories.AttendanceFilters) ([]*models.AttendanceRecord, error) {
	var out []*models.AttendanceRecord
	for _, a := range f.r.attendance {
		if !matchAttendance(a, filters) {
			continue
		}
		clone := *a
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeAttendanceRepo) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	a, ok := f.r.attendance[id]
	if !ok {
		return repositories.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "status":
			a.Status = value.(models.AttendanceStatus)
		default:
			return fmt.Errorf("fake: unsupported attendance field %q", key)
		}
	}
	return nil
}

func (f *fakeAttendanceRepo) DeleteByFilter(ctx context.Context, filters repositories.AttendanceFilters) error {
	for id, a := range f.r.attendance {
		if matchAttendance(a, filters) {
			delete(f.r.attendance, id)
		}
	}
	return nil
}

func matchAttendance(a *models.AttendanceRecord, filters repositories.AttendanceFilters) bool {
	if filters.USN != nil && a.USN != *filters.USN {
		return false
	}
	if filters.Date != nil && a.Date != *filters.Date {
		return false
	}
	if filters.Hour != nil && a.Hour != *filters.Hour {
		return false
	}
	if filters.Subject != nil && a.Subject != *filters.Subject {
		return false
	}
	if filters.FacultyEmail != nil && a.FacultyEmail != *filters.FacultyEmail {
		return false
	}
	return true
}

// ===== MARKS =====

type fakeMarkRepo struct{ r *fakeRepository }

func (f *fakeMarkRepo) Create(ctx context.Context, record *models.IAMarkRecord) error {
	if f.r.failCreates {
		return errors.New("create failed")
	}
	record.ID = f.r.allocID()
	clone := *record
	f.r.marks[record.ID] = &clone
	return nil
}

func (f *fakeMarkRepo) GetByID(ctx context.Context, id uint) (*models.IAMarkRecord, error) {
	m, ok := f.r.marks[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *m
	return &clone, nil
}

func (f *fakeMarkRepo) GetByKey(ctx context.Context, usn, subject string) (*models.IAMarkRecord, error) {
	for _, m := range f.r.marks {
		if m.USN == usn && m.Subject == subject {
			clone := *m
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeMarkRepo) List(ctx context.Context, filters repositories.MarkFilters) ([]*models.IAMarkRecord, error) {
	var out []*models.IAMarkRecord
	for _, m := range f.r.marks {
		if !matchMark(m, filters) {
			continue
		}
		clone := *m
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeMarkRepo) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	m, ok := f.r.marks[id]
	if !ok {
		return repositories.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "ia1":
			m.IA1 = value.(float64)
		case "ia2":
			m.IA2 = value.(float64)
		default:
			return fmt.Errorf("fake: unsupported mark field %q", key)
		}
	}
	return nil
}

func (f *fakeMarkRepo) DeleteByFilter(ctx context.Context, filters repositories.MarkFilters) error {
	for id, m := range f.r.marks {
		if matchMark(m, filters) {
			delete(f.r.marks, id)
		}
	}
	return nil
}

func matchMark(m *models.IAMarkRecord, filters repositories.MarkFilters) bool {
	if filters.USN != nil && m.USN != *filters.USN {
		return false
	}
	if filters.Subject != nil && m.Subject != *filters.Subject {
		return false
	}
	if filters.FacultyEmail != nil && m.FacultyEmail != *filters.FacultyEmail {
		return false
	}
	return true
}
