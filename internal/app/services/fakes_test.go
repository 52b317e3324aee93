package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// memDB is an in-memory stand-in for the three tables, shared by the fake repositories
type memDB struct {
	mu         sync.Mutex
	students   map[int64]*models.Student
	attendance map[int64]*models.Attendance
	users      map[int64]*models.User
	sessions   map[string]*models.Session
	nextID     int64

	// skipUniqueCheck makes StudentIDExists lie, simulating a concurrent insert
	skipUniqueCheck bool
}

func newMemDB() *memDB {
	return &memDB{
		students:   map[int64]*models.Student{},
		attendance: map[int64]*models.Attendance{},
		users:      map[int64]*models.User{},
		sessions:   map[string]*models.Session{},
	}
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

func copyStudent(s *models.Student) *models.Student {
	c := *s
	return &c
}

type fakeStudentRepo struct{ db *memDB }

func (r *fakeStudentRepo) Create(_ context.Context, s *models.Student) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.students {
		if existing.StudentID == s.StudentID {
			return apperrors.ErrStudentIDAlreadyExists
		}
	}
	s.ID = r.db.id()
	r.db.students[s.ID] = copyStudent(s)
	return nil
}

func (r *fakeStudentRepo) GetByID(_ context.Context, id int64) (*models.Student, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return copyStudent(s), nil
}

func (r *fakeStudentRepo) Update(_ context.Context, s *models.Student) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.students[s.ID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	for _, existing := range r.db.students {
		if existing.ID != s.ID && existing.StudentID == s.StudentID {
			return apperrors.ErrStudentIDAlreadyExists
		}
	}
	r.db.students[s.ID] = copyStudent(s)
	return nil
}

func (r *fakeStudentRepo) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.students[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(r.db.students, id)
	for aid, a := range r.db.attendance {
		if a.StudentID == id {
			delete(r.db.attendance, aid)
		}
	}
	return nil
}

func (r *fakeStudentRepo) StudentIDExists(_ context.Context, studentID string, excludeID int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.skipUniqueCheck {
		return false, nil
	}
	for _, s := range r.db.students {
		if s.StudentID == studentID && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeStudentRepo) filtered(filter dto.StudentFilter) []*models.Student {
	needle := strings.ToLower(filter.NameSearch)
	var out []*models.Student
	for _, s := range r.db.students {
		if filter.Course != "" && s.Course != filter.Course {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(s.FirstName), needle) &&
			!strings.Contains(strings.ToLower(s.LastName), needle) {
			continue
		}
		out = append(out, copyStudent(s))
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if filter.Descending {
			a, b = b, a
		}
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		return a.ID < b.ID
	})
	return out
}

func (r *fakeStudentRepo) Count(_ context.Context, filter dto.StudentFilter) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.filtered(filter))), nil
}

func (r *fakeStudentRepo) List(_ context.Context, filter dto.StudentFilter, offset, limit uint64) ([]*models.Student, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	all := r.filtered(filter)
	if limit == 0 {
		return append([]*models.Student{}, all...), nil
	}
	if offset >= uint64(len(all)) {
		return []*models.Student{}, nil
	}
	end := offset + limit
	if end > uint64(len(all)) {
		end = uint64(len(all))
	}
	return all[offset:end], nil
}

func (r *fakeStudentRepo) DistinctCourses(ctx context.Context) ([]string, error) {
	stats, _ := r.CourseStats(ctx)
	courses := []string{}
	for _, cs := range stats {
		courses = append(courses, cs.Course)
	}
	return courses, nil
}

func (r *fakeStudentRepo) CourseStats(_ context.Context) ([]dto.CourseStats, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	byCourse := map[string]*dto.CourseStats{}
	for _, s := range r.db.students {
		cs, ok := byCourse[s.Course]
		if !ok {
			cs = &dto.CourseStats{Course: s.Course}
			byCourse[s.Course] = cs
		}
		cs.Total++
		switch s.Gender {
		case models.GenderMale:
			cs.Male++
		case models.GenderFemale:
			cs.Female++
		case models.GenderOther:
			cs.Other++
		}
	}
	stats := []dto.CourseStats{}
	for _, cs := range byCourse {
		stats = append(stats, *cs)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Course < stats[j].Course })
	return stats, nil
}

func (r *fakeStudentRepo) TopByPercentage(_ context.Context, course string, limit uint64) ([]*models.Student, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*models.Student{}
	for _, s := range r.db.students {
		if s.Course == course {
			out = append(out, copyStudent(s))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Percentage != out[j].Percentage {
			return out[i].Percentage > out[j].Percentage
		}
		return out[i].ID < out[j].ID
	})
	if uint64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeAttendanceRepo struct{ db *memDB }

func (r *fakeAttendanceRepo) Create(_ context.Context, a *models.Attendance) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.students[a.StudentID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	a.Recompute()
	a.ID = r.db.id()
	c := *a
	c.Student = nil
	r.db.attendance[a.ID] = &c
	return nil
}

func (r *fakeAttendanceRepo) withStudents(pred func(*models.Attendance) bool) []*models.Attendance {
	out := []*models.Attendance{}
	for _, a := range r.db.attendance {
		if !pred(a) {
			continue
		}
		c := *a
		c.Student = copyStudent(r.db.students[a.StudentID])
		out = append(out, &c)
	}
	return out
}

func (r *fakeAttendanceRepo) ListRecent(_ context.Context, limit uint64) ([]*models.Attendance, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := r.withStudents(func(*models.Attendance) bool { return true })
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && uint64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeUserRepo struct{ db *memDB }

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.users {
		if existing.Username == u.Username {
			return apperrors.ErrUsernameTaken
		}
	}
	u.ID = r.db.id()
	u.CreatedAt = time.Now()
	c := *u
	r.db.users[u.ID] = &c
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, userID int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if u, ok := r.db.users[userID]; ok {
		now := time.Now()
		u.LastLoginAt = &now
	}
	return nil
}

type fakeSessionRepo struct{ db *memDB }

func (r *fakeSessionRepo) Create(_ context.Context, session *models.Session) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[session.UserID]; !ok {
		return apperrors.ErrUserNotFound
	}
	session.CreatedAt = time.Now()
	c := *session
	r.db.sessions[session.TokenID] = &c
	return nil
}

func (r *fakeSessionRepo) GetByTokenID(_ context.Context, tokenID string) (*models.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	session, ok := r.db.sessions[tokenID]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	if session.IsRevoked {
		return nil, apperrors.ErrSessionRevoked
	}
	if !session.Active(time.Now()) {
		return nil, apperrors.ErrTokenExpired
	}
	c := *session
	return &c, nil
}

func (r *fakeSessionRepo) Revoke(_ context.Context, tokenID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	session, ok := r.db.sessions[tokenID]
	if !ok {
		return apperrors.ErrSessionNotFound
	}
	session.IsRevoked = true
	return nil
}

func (r *fakeSessionRepo) CleanupExpired(_ context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var deleted int64
	now := time.Now()
	for id, session := range r.db.sessions {
		if now.After(session.ExpiresAt) {
			delete(r.db.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}
